package operations

import (
	"regexp"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
)

// AppointmentStatus represents the status of a booking request
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// String returns the string representation of AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return target == AppointmentStatusConfirmed || target == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return target == AppointmentStatusCancelled
	}
	return false
}

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Appointment is a meeting requested by a client through the portal
type Appointment struct {
	shared.BaseAggregateRoot
	ClientID      string
	ClientName    string
	RequestedDate valueobject.Date
	RequestedTime string // HH:MM
	Notes         string
	Status        AppointmentStatus
}

// NewAppointment records a booking request in Pending status
func NewAppointment(id, clientID, clientName string, date valueobject.Date, timeOfDay, notes string) (*Appointment, error) {
	if clientID == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "A client is required")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Please select a date and time")
	}
	timeOfDay = strings.TrimSpace(timeOfDay)
	if !timeOfDayPattern.MatchString(timeOfDay) {
		return nil, shared.NewDomainError("INVALID_TIME", "Please select a date and time")
	}
	return &Appointment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		ClientID:          clientID,
		ClientName:        clientName,
		RequestedDate:     date,
		RequestedTime:     timeOfDay,
		Notes:             strings.TrimSpace(notes),
		Status:            AppointmentStatusPending,
	}, nil
}

// Confirm accepts the booking
func (a *Appointment) Confirm() error {
	return a.transition(AppointmentStatusConfirmed)
}

// Cancel rejects or withdraws the booking
func (a *Appointment) Cancel() error {
	return a.transition(AppointmentStatusCancelled)
}

func (a *Appointment) transition(target AppointmentStatus) error {
	if !a.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move appointment from "+a.Status.String()+" to "+target.String())
	}
	a.Status = target
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Clone returns a copy without pending events
func (a *Appointment) Clone() *Appointment {
	cp := *a
	cp.ClearDomainEvents()
	return &cp
}
