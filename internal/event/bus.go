package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/retext/internal/event/topic"
)

// Handler processes an event delivered by the bus.
type Handler func(ctx context.Context, env Envelope) error

// Publisher is implemented by anything that accepts events.
type Publisher interface {
	PublishEnvelope(ctx context.Context, env Envelope) error
}

// Subscription identifies a registered handler.
type Subscription struct {
	ID      string
	Pattern topic.Topic
}

type subscriber struct {
	sub     Subscription
	handler Handler
}

// Stats contains bus counters.
type Stats struct {
	EventsPublished uint64
	EventsDelivered uint64
	HandlerErrors   uint64
	HandlerPanics   uint64
	SubscriberCount int
}

// Bus delivers events synchronously, in subscription order, to every
// handler whose pattern matches the event topic.
//
// Handlers run on the publisher's goroutine. Subscribing and publishing
// are safe for concurrent use.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriber

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler) (Subscription, error) {
	if !pattern.IsValid() {
		return Subscription{}, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if handler == nil {
		return Subscription{}, ErrNilHandler
	}

	sub := Subscription{ID: uuid.NewString(), Pattern: pattern}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, subscriber{sub: sub, handler: handler})
	b.mu.Unlock()

	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscribers {
		if s.sub.ID == sub.ID {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// PublishEnvelope delivers env to every matching handler. All handlers run
// even if some fail; their errors are joined, each wrapped in a
// *HandlerError. A panicking handler is reported as ErrHandlerPanic.
func (b *Bus) PublishEnvelope(ctx context.Context, env Envelope) error {
	if !env.Topic.IsValid() || env.Topic.IsWildcard() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, env.Topic)
	}

	b.eventsPublished.Add(1)

	b.mu.RLock()
	targets := make([]subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		if env.Topic.Matches(s.sub.Pattern) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, s := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := b.deliver(ctx, s, env); err != nil {
			b.handlerErrors.Add(1)
			errs = append(errs, &HandlerError{
				SubscriptionID: s.sub.ID,
				Topic:          env.Topic.String(),
				Err:            err,
			})
			continue
		}
		b.eventsDelivered.Add(1)
	}

	return errors.Join(errs...)
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(ctx context.Context, s subscriber, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return s.handler(ctx, env)
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	count := len(b.subscribers)
	b.mu.RUnlock()

	return Stats{
		EventsPublished: b.eventsPublished.Load(),
		EventsDelivered: b.eventsDelivered.Load(),
		HandlerErrors:   b.handlerErrors.Load(),
		HandlerPanics:   b.handlerPanics.Load(),
		SubscriberCount: count,
	}
}

// Publish wraps a typed event in an envelope and publishes it on p.
func Publish[T any](ctx context.Context, p Publisher, e Event[T]) error {
	return p.PublishEnvelope(ctx, NewEnvelope(e))
}
