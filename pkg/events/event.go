package events

import (
	"context"
	"time"
)

// Event is anything published on the bus. EventType doubles as the subject
// suffix, so it must stay stable once consumers exist.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// BaseEvent is the concrete event carried over the wire. Payload values
// survive JSON, so numbers come back as float64 on the consumer side.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }
