package operations

import (
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
)

// TaskStatus represents the progress of a task
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// IsValid checks if the status is a valid task status
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// Task is a piece of work, usually tied to an invoice
type Task struct {
	shared.BaseAggregateRoot
	Title            string
	DueDate          valueobject.Date
	RelatedInvoiceID string
	Status           TaskStatus
	AssigneeID       string
}

// TaskDetails carries the fields of a new task
type TaskDetails struct {
	Title            string
	DueDate          valueobject.Date
	RelatedInvoiceID string
	AssigneeID       string
}

// NewTask creates a task in To Do status
func NewTask(id string, d TaskDetails) (*Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if d.DueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Task due date is required")
	}
	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Title:             title,
		DueDate:           d.DueDate,
		RelatedInvoiceID:  strings.TrimSpace(d.RelatedInvoiceID),
		Status:            TaskStatusToDo,
		AssigneeID:        strings.TrimSpace(d.AssigneeID),
	}, nil
}

// ChangeStatus moves the task on a board; any valid status may follow any other
func (t *Task) ChangeStatus(status TaskStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid task status: "+status.String())
	}
	t.Status = status
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsDone reports whether the task is finished
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// DueOn reports whether an open task falls due on the given day
func (t *Task) DueOn(day valueobject.Date) bool {
	return !t.IsDone() && t.DueDate.Equal(day)
}

// Clone returns a copy without pending events
func (t *Task) Clone() *Task {
	cp := *t
	cp.ClearDomainEvents()
	return &cp
}
