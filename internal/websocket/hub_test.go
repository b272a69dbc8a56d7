package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
	slow     bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:       id,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) Subject() string {
	return "admin"
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	if m.slow {
		return ErrClientSlow
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1")
	client2 := newMockClient("client-2")

	hub.Register(client1)
	hub.Register(client2)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client2)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast_FanOut(t *testing.T) {
	hub := NewHub()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i))
		hub.Register(clients[i])
	}

	hub.Broadcast(ExpenseUpdated(map[string]interface{}{"id": "1"}))

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	for i, c := range clients {
		assert.Len(t, c.GetMessages(), 1, "client %d should receive message", i)
	}
}

func TestHub_Broadcast_SkipsClosedClients(t *testing.T) {
	hub := NewHub()

	open := newMockClient("open")
	closed := newMockClient("closed")
	require.NoError(t, closed.Close())

	hub.Register(open)
	hub.Register(closed)

	hub.Broadcast(PeriodRecomputed(nil))
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, open.GetMessages(), 1)
	assert.Len(t, closed.GetMessages(), 0)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_Broadcast_EvictsSlowClients(t *testing.T) {
	hub := NewHub()

	slow := newMockClient("slow")
	slow.slow = true
	hub.Register(slow)

	hub.Broadcast(ConsumptionCreated(nil))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	slow.mu.Lock()
	defer slow.mu.Unlock()
	assert.True(t, slow.closed)
}

func TestHub_Broadcast_PreservesEventOrder(t *testing.T) {
	hub := NewHub()

	client := newMockClient("ordered")
	hub.Register(client)

	for i := 0; i < 50; i++ {
		hub.Broadcast(ConsumptionCreated(map[string]interface{}{"seq": i}))
		hub.Broadcast(PeriodRecomputed(map[string]interface{}{"seq": i}))
	}

	messages := client.GetMessages()
	require.Len(t, messages, 100)
	for i, msg := range messages {
		want := `"type":"consumption.created"`
		if i%2 == 1 {
			want = `"type":"period.recomputed"`
		}
		assert.Contains(t, string(msg), want, "message %d", i)
		assert.Contains(t, string(msg), fmt.Sprintf(`"seq":%d`, i/2), "message %d", i)
	}
}

func TestHub_Register_ReplaysLastPeriodEvent(t *testing.T) {
	hub := NewHub()

	early := newMockClient("early")
	hub.Register(early)
	assert.Empty(t, early.GetMessages())

	hub.Broadcast(PeriodRecomputed(map[string]interface{}{"start": "2026-02-28"}))
	hub.Broadcast(ExpenseCreated(map[string]interface{}{"id": "1"}))
	hub.Broadcast(PeriodRecomputed(map[string]interface{}{"start": "2026-03-28"}))

	late := newMockClient("late")
	hub.Register(late)

	messages := late.GetMessages()
	require.Len(t, messages, 1)
	assert.Contains(t, string(messages[0]), `"type":"period.recomputed"`)
	assert.Contains(t, string(messages[0]), "2026-03-28")
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	assert.Equal(t, clientCount, hub.ClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(ConsumptionCreated(map[string]interface{}{"n": idx}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1"))
	})
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(ConsumptionCreated(nil))
	})
}
