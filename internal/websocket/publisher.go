package websocket

// EventPublisher defines the interface for publishing events to subscribers
type EventPublisher interface {
	// Publish sends an event to every subscriber
	Publish(event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to all connected clients
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// Publish forwards the event to every non-nil publisher
func (m MultiPublisher) Publish(event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(event)
		}
	}
}

// RecordingPublisher keeps published events in memory (for tests)
type RecordingPublisher struct {
	Events []Event
}

// Publish appends the event
func (r *RecordingPublisher) Publish(event Event) {
	r.Events = append(r.Events, event)
}

// Types returns the combined type of every recorded event
func (r *RecordingPublisher) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
