package eventing

import (
	"context"

	"charges-hub/internal/charges/application/eventbus"
)

// ProcessedStore tracks which events a named consumer already handled.
type ProcessedStore interface {
	HasProcessed(ctx context.Context, eventID, consumer string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, consumer string) error
}

// Subscribe registers handler on the bus for eventType. With a processed
// store the handler runs at most once per event id for the given consumer;
// without one delivery is at-least-once.
func Subscribe(bus eventbus.EventBus, eventType, consumer string, handler eventbus.EventHandler, store ProcessedStore) {
	bus.Subscribe(eventType, WrapHandler(consumer, handler, store))
}

// WrapHandler adds the idempotency check around handler. Events delivered
// without an envelope in context (direct bus publishes) bypass the check,
// since there is no stable id to deduplicate on.
func WrapHandler(consumer string, handler eventbus.EventHandler, store ProcessedStore) eventbus.EventHandler {
	if store == nil {
		return handler
	}
	return func(ctx context.Context, event any) error {
		env, ok := EnvelopeFromContext(ctx)
		if !ok || env.EventID == "" {
			return handler(ctx, event)
		}
		seen, err := store.HasProcessed(ctx, env.EventID, consumer)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
		return store.MarkProcessed(ctx, env.EventID, consumer)
	}
}
