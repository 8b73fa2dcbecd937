package operations

import (
	"time"

	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title            string           `json:"title" binding:"required,max=200"`
	DueDate          valueobject.Date `json:"due_date"`
	RelatedInvoiceID string           `json:"related_invoice_id"`
	AssigneeID       string           `json:"assignee_id"`
}

// UpdateTaskStatusRequest moves a task on the board
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof='To Do' 'In Progress' Done"`
}

// ScheduleTasksRequest asks for AI-suggested tasks for an invoice
type ScheduleTasksRequest struct {
	SurfaceKey string `json:"surface_key"`
	InvoiceID  string `json:"invoice_id" binding:"required"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	DueDate          valueobject.Date `json:"due_date"`
	RelatedInvoiceID string           `json:"related_invoice_id,omitempty"`
	Status           string           `json:"status"`
	AssigneeID       string           `json:"assignee_id,omitempty"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *operations.Task) TaskResponse {
	return TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		DueDate:          t.DueDate,
		RelatedInvoiceID: t.RelatedInvoiceID,
		Status:           t.Status.String(),
		AssigneeID:       t.AssigneeID,
	}
}

// ToTaskResponses converts a slice of tasks
func ToTaskResponses(tasks []*operations.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskResponse(t)
	}
	return out
}

// RequestAppointmentRequest is a client's booking request
type RequestAppointmentRequest struct {
	RequestedDate valueobject.Date `json:"requested_date"`
	RequestedTime string           `json:"requested_time"`
	Notes         string           `json:"notes" binding:"max=1000"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID            string           `json:"id"`
	ClientID      string           `json:"client_id"`
	ClientName    string           `json:"client_name"`
	RequestedDate valueobject.Date `json:"requested_date"`
	RequestedTime string           `json:"requested_time"`
	Notes         string           `json:"notes,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToAppointmentResponse converts a domain Appointment to AppointmentResponse
func ToAppointmentResponse(a *operations.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		ClientID:      a.ClientID,
		ClientName:    a.ClientName,
		RequestedDate: a.RequestedDate,
		RequestedTime: a.RequestedTime,
		Notes:         a.Notes,
		Status:        a.Status.String(),
		CreatedAt:     a.CreatedAt,
	}
}

// CreateStaffRequest represents a request to add a staff member
type CreateStaffRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"max=100"`
}

// StaffResponse represents a staff member in API responses
type StaffResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// ToStaffResponse converts a domain StaffMember to StaffResponse
func ToStaffResponse(m *operations.StaffMember) StaffResponse {
	return StaffResponse{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role}
}

// CreateTimeEntryRequest logs hours for a client
type CreateTimeEntryRequest struct {
	ClientID    string           `json:"client_id" binding:"required"`
	Date        valueobject.Date `json:"date"`
	Hours       decimal.Decimal  `json:"hours"`
	Description string           `json:"description" binding:"required,max=500"`
}

// TimeEntryInvoiceRequest selects the entries to bill
type TimeEntryInvoiceRequest struct {
	EntryIDs []string `json:"entry_ids" binding:"required,min=1"`
}

// TimeEntryResponse represents a time entry in API responses
type TimeEntryResponse struct {
	ID          string           `json:"id"`
	ClientID    string           `json:"client_id"`
	Date        valueobject.Date `json:"date"`
	Hours       decimal.Decimal  `json:"hours"`
	Description string           `json:"description"`
}

// ToTimeEntryResponse converts a domain TimeEntry to TimeEntryResponse
func ToTimeEntryResponse(e *operations.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:          e.ID,
		ClientID:    e.ClientID,
		Date:        e.Date,
		Hours:       e.Hours,
		Description: e.Description,
	}
}
