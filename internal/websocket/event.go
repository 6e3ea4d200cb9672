package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeSpending EntityType = "spending"
	EntityTypeEarning  EntityType = "earning"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "spending.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "spending"
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

// SpendingCreated creates a spending.created event
func SpendingCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeSpending, payload)
}

// SpendingUpdated creates a spending.updated event
func SpendingUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSpending, payload)
}

// SpendingDeleted creates a spending.deleted event
func SpendingDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeSpending, payload)
}

// EarningCreated creates an earning.created event
func EarningCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeEarning, payload)
}

// EarningUpdated creates an earning.updated event
func EarningUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeEarning, payload)
}

// EarningDeleted creates an earning.deleted event
func EarningDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeEarning, payload)
}
