package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrClientClosed is returned when attempting to send to a closed client
	ErrClientClosed = errors.New("client is closed")
	// ErrClientSlow is returned when a client's send buffer is full
	ErrClientSlow = errors.New("client send buffer full")
)

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	Subject() string
	Send(data []byte) error
	Close() error
}

// Hub fans events out to every connected dashboard of the household.
// It remembers the last period event so a client connecting between
// recomputes starts from the current totals. It is safe for concurrent use.
type Hub struct {
	clients    map[string]ClientInterface
	lastPeriod []byte
	mu         sync.RWMutex
	// sendMu keeps every client's events in broadcast order
	sendMu sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]ClientInterface),
	}
}

// Register adds a client and replays the latest period event to it
func (h *Hub) Register(client ClientInterface) {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	h.mu.Lock()
	h.clients[client.ID()] = client
	replay := h.lastPeriod
	h.mu.Unlock()

	log.Debug().
		Str("client_id", client.ID()).
		Str("subject", client.Subject()).
		Bool("replay", replay != nil).
		Msg("WebSocket client registered")

	if replay != nil {
		h.deliver(client, replay)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID()]; exists {
		delete(h.clients, client.ID())
		log.Debug().
			Str("client_id", client.ID()).
			Msg("WebSocket client unregistered")
	}
}

// Broadcast sends an event to every connected client. Client.Send never
// blocks, so delivery happens inline and clients see events in order.
func (h *Hub) Broadcast(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	h.mu.Lock()
	if event.Entity == EntityTypePeriod {
		h.lastPeriod = data
	}
	targets := make([]ClientInterface, 0, len(h.clients))
	for _, client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.Unlock()

	for _, client := range targets {
		h.deliver(client, data)
	}

	log.Debug().
		Str("event_type", event.Type).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

// deliver sends data to one client and evicts it when it can no longer keep up
func (h *Hub) deliver(client ClientInterface, data []byte) {
	err := client.Send(data)
	if err == nil {
		return
	}

	log.Warn().
		Err(err).
		Str("client_id", client.ID()).
		Msg("Dropping WebSocket client")
	h.Unregister(client)
	if errors.Is(err, ErrClientSlow) {
		client.Close()
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
