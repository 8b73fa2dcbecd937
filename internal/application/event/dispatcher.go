// Package event moves the domain events an aggregate recorded onto the bus
// once its state change has been stored.
package event

import (
	"context"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Source is anything that records domain events
type Source interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// Dispatcher publishes pending events. A nil publisher drops them.
type Dispatcher struct {
	publisher shared.EventPublisher
}

// NewDispatcher creates a dispatcher over publisher
func NewDispatcher(publisher shared.EventPublisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// Flush takes the pending events off every source and publishes them in order.
// Handler failures are logged; the stored change is never rolled back for them.
func (d *Dispatcher) Flush(ctx context.Context, sources ...Source) {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
	if d == nil || d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_type", events[0].EventType()),
			zap.Error(err))
	}
}
