// Package event delivers domain events to in-process subscribers.
package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/outvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// subscription is one handler and the event types it wants; none means all
type subscription struct {
	handler shared.EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventBus dispatches domain events to in-process handlers.
// Delivery is synchronous and in subscription order; a failing or panicking
// handler is logged and does not stop the others or fail the publisher.
type InMemoryEventBus struct {
	mu        sync.RWMutex
	subs      []subscription
	logger    *zap.Logger
	running   atomic.Bool
	published atomic.Int64
}

// NewInMemoryEventBus creates an open bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{logger: logger}
	b.running.Store(true)
	return b
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used. Subscribing a handler again widens its types.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.subs {
		if b.subs[i].handler != handler {
			continue
		}
		if len(eventTypes) == 0 {
			b.subs[i].types = nil
		} else if len(b.subs[i].types) > 0 {
			for _, t := range eventTypes {
				if !slices.Contains(b.subs[i].types, t) {
					b.subs[i].types = append(b.subs[i].types, t)
				}
			}
		}
		return
	}
	b.subs = append(b.subs, subscription{handler: handler, types: slices.Clone(eventTypes)})
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Publish hands each event to every interested handler.
// Events published after Stop are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, event := range events {
		b.published.Add(1)
		for _, s := range subs {
			if !s.wants(event.EventType()) {
				continue
			}
			if err := deliver(ctx, s.handler, event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Start (re)opens the bus for publishing
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Int("subscribers", b.subscribers()))
	return nil
}

// Stop closes the bus; delivery is synchronous so nothing is left in flight
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped", zap.Int64("published", b.published.Load()))
	return nil
}

// Published returns how many events went through the bus
func (b *InMemoryEventBus) Published() int64 {
	return b.published.Load()
}

func (b *InMemoryEventBus) subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
