package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_ForwardsMatchingEvents(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "budget.events", "period.recomputed", zerolog.Nop())

	p.Publish(websocket.PeriodRecomputed(map[string]string{"start": "2026-01-28"}))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "budget.events", got.exchange)
	assert.Equal(t, "period.recomputed", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "period.recomputed", body["type"])
	assert.Equal(t, "period", body["entity"])
}

func TestPublisher_SkipsOtherEvents(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "budget.events", "period.recomputed", zerolog.Nop())

	p.Publish(websocket.ConsumptionCreated(nil))
	p.Publish(websocket.SettingsUpdated(nil))

	assert.Empty(t, ch.published)
}

func TestPublisher_BrokerErrorIsSwallowed(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "budget.events", "period.recomputed", zerolog.Nop())

	assert.NotPanics(t, func() {
		p.Publish(websocket.PeriodRecomputed(nil))
	})
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "budget.events", "period.recomputed", zerolog.Nop())

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
