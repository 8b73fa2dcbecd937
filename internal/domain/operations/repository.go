package operations

import "context"

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context) ([]*Task, error)
	Save(ctx context.Context, task *Task) error
	Delete(ctx context.Context, ids ...string) error
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*Appointment, error)
	FindAll(ctx context.Context) ([]*Appointment, error)
	Save(ctx context.Context, appointment *Appointment) error
}

// StaffRepository defines the interface for staff persistence
type StaffRepository interface {
	FindByID(ctx context.Context, id string) (*StaffMember, error)
	FindAll(ctx context.Context) ([]*StaffMember, error)
	Save(ctx context.Context, member *StaffMember) error
}

// TimeEntryRepository defines the interface for time entry persistence
type TimeEntryRepository interface {
	FindByID(ctx context.Context, id string) (*TimeEntry, error)
	FindAll(ctx context.Context) ([]*TimeEntry, error)
	Save(ctx context.Context, entry *TimeEntry) error
	// Delete removes the entries with the given ids; unknown ids are ignored
	Delete(ctx context.Context, ids ...string) error
}
