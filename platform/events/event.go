// Package events holds the in-process pub/sub primitives the domain modules
// communicate through. Concrete event types live in internal/events; this
// package knows nothing about bookings or rooms.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event. The name doubles as the
// subscription key on the bus.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence timestamp; domain events embed it.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to events it subscribed for.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to the handlers subscribed under the event's
// name. Publish dispatches without waiting for handlers; PublishSync waits
// and surfaces the first handler error.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers handler for events whose EventName matches eventName.
	Subscribe(eventName string, handler Handler)
}
