package eventbus

import (
	"context"

	"github.com/natepay/natepay/pkg/domain/events"
)

// HandlerFunc handles one delivered event.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus is the contract for publishing and subscribing to domain events.
type Bus interface {
	// Emit dispatches the event to all handlers registered for its type.
	Emit(ctx context.Context, e events.Event) error
	// Register adds a handler for a specific event type.
	Register(eventType string, handler HandlerFunc)
}
