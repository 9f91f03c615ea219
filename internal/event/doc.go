// Package event provides a small synchronous event bus.
//
// Components publish typed events (see package events) and observers
// subscribe with topic patterns:
//
//	bus := event.NewBus()
//	bus.Subscribe("history.*", func(ctx context.Context, env event.Envelope) error {
//	    changed, _ := event.PayloadAs[events.HistoryChanged](env)
//	    ...
//	    return nil
//	})
//
// # Wildcard Patterns
//
//	history.*   - matches history.recorded, history.undone (single segment)
//	config.**   - matches config.reloaded, config.reload.failed (multi-segment)
//
// # Delivery
//
// Delivery is synchronous: handlers run on the publisher's goroutine in
// subscription order, so an editing session sees its observers updated
// before the next operation starts. Handler errors and panics are
// collected and returned to the publisher; they never stop delivery to
// the remaining handlers.
package event
