package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated    EventType = "created"
	EventTypeUpdated    EventType = "updated"
	EventTypeDeleted    EventType = "deleted"
	EventTypeRecomputed EventType = "recomputed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeConsumption EntityType = "consumption"
	EntityTypeExpense     EntityType = "expense"
	EntityTypeSettings    EntityType = "settings"
	EntityTypePeriod      EntityType = "period"
	EntityTypeSnapshot    EntityType = "snapshot"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "consumption.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "consumption"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ConsumptionCreated creates a consumption.created event
func ConsumptionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeConsumption, payload)
}

// ConsumptionUpdated creates a consumption.updated event
func ConsumptionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeConsumption, payload)
}

// ConsumptionDeleted creates a consumption.deleted event
func ConsumptionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeConsumption, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}

// PeriodRecomputed creates a period.recomputed event
func PeriodRecomputed(payload interface{}) Event {
	return NewEvent(EventTypeRecomputed, EntityTypePeriod, payload)
}

// SnapshotCreated creates a snapshot.created event
func SnapshotCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeSnapshot, payload)
}
