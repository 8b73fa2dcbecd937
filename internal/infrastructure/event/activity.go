package event

import (
	"context"

	"github.com/outvoice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogger writes one structured line per domain event.
// It is the audit trail of the in-memory state.
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates an activity logger
func NewActivityLogger(logger *zap.Logger) *ActivityLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogger{logger: logger.Named("activity")}
}

// Handle logs the event
func (a *ActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	a.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.String("event_id", event.EventID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the logger receives every event
func (a *ActivityLogger) EventTypes() []string {
	return nil
}
