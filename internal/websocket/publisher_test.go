package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1")
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(ConsumptionCreated(map[string]interface{}{"id": "42"}))

	// Allow async broadcast to complete
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client.GetMessages(), 1)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(ConsumptionCreated(nil))
	})
}

func TestMultiPublisher_Publish(t *testing.T) {
	first := &RecordingPublisher{}
	second := &RecordingPublisher{}

	multi := MultiPublisher{first, nil, second}
	multi.Publish(PeriodRecomputed(nil))
	multi.Publish(SettingsUpdated(nil))

	assert.Equal(t, []string{"period.recomputed", "settings.updated"}, first.Types())
	assert.Equal(t, []string{"period.recomputed", "settings.updated"}, second.Types())
}

func TestPublishers_Implement_EventPublisher(t *testing.T) {
	var _ EventPublisher = (*Hub)(nil)
	var _ EventPublisher = (*NoOpPublisher)(nil)
	var _ EventPublisher = MultiPublisher(nil)
	var _ EventPublisher = (*RecordingPublisher)(nil)
}
