package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about one record, e.g. "InvoicePaid" for INV-0004
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
	AggregateType() string
}

// BaseDomainEvent is embedded by the concrete events of each context
type BaseDomainEvent struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	At       time.Time `json:"occurred_at"`
	RecordID string    `json:"aggregate_id"`
	Kind     string    `json:"aggregate_type"`
}

// NewBaseDomainEvent stamps a new event for the record id of the given kind
func NewBaseDomainEvent(eventType, kind, recordID string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:       uuid.New(),
		Type:     eventType,
		At:       time.Now().UTC(),
		RecordID: recordID,
		Kind:     kind,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.At }
func (e *BaseDomainEvent) AggregateID() string   { return e.RecordID }
func (e *BaseDomainEvent) AggregateType() string { return e.Kind }
