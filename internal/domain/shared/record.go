package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps shared by every record.
// IDs are human readable strings (cli-1, INV-0001); an empty ID marks an unsaved draft.
type BaseEntity struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps both timestamps with the current time
func NewBaseEntity(id string) BaseEntity {
	now := time.Now()
	return BaseEntity{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Touch marks the record as modified
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewID generates a prefixed identifier such as "task-3f2a...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// BaseAggregateRoot is a record that versions its edits and collects the
// events they raise until a service publishes them.
type BaseAggregateRoot struct {
	BaseEntity
	// Version starts at 1 and grows with every accepted edit
	Version int
	pending []DomainEvent
}

// NewBaseAggregateRoot creates version 1 of a record
func NewBaseAggregateRoot(id string) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(id), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int   { return a.Version }
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent queues an event
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the queued events in the order they were raised
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.pending
}

// ClearDomainEvents drops the queue, after publishing or when copying a record
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.pending = nil
}
