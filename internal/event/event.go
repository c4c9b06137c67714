package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents an event in the system.
// Events are immutable once created.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "selection.changed").
	Type Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string

	// CorrelationID links related events (e.g., all events of one session).
	CorrelationID string
}

// NewEvent creates a new event with the given type and payload.
func NewEvent[T any](eventType Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// WithCorrelation returns a copy of the event with a correlation ID set.
func (e Event[T]) WithCorrelation(correlationID string) Event[T] {
	e.Metadata.CorrelationID = correlationID
	return e
}

// Envelope returns the event in type-erased form.
func (e Event[T]) Envelope() Envelope {
	return Envelope{Topic: e.Type, Payload: e.Payload, Metadata: e.Metadata}
}

// Envelope wraps any event for type-erased handling.
type Envelope struct {
	// Topic is the event topic.
	Topic Topic

	// Payload is the type-erased event payload.
	Payload any

	// Metadata is the event metadata.
	Metadata Metadata
}

// Enveloper is implemented by events that can erase their payload type.
type Enveloper interface {
	Envelope() Envelope
}

// PayloadAs extracts a typed payload from an envelope.
func PayloadAs[T any](env Envelope) (T, bool) {
	v, ok := env.Payload.(T)
	return v, ok
}
