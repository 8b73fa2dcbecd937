package operations

import (
	"context"

	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AppointmentService handles booking requests
type AppointmentService struct {
	appointmentRepo operations.AppointmentRepository
	clientRepo      partner.ClientRepository
	newID           func() string
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(appointmentRepo operations.AppointmentRepository, clientRepo partner.ClientRepository) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		newID:           func() string { return shared.NewID("appt") },
	}
}

// Request records a client's booking request in Pending status
func (s *AppointmentService) Request(ctx context.Context, clientID string, req RequestAppointmentRequest) (*AppointmentResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	appt, err := operations.NewAppointment(s.newID(), client.ID, client.Name, req.RequestedDate, req.RequestedTime, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Appointment requested",
		zap.String("appointment_id", appt.ID),
		zap.String("client_id", client.ID),
		zap.String("date", appt.RequestedDate.String()))

	resp := ToAppointmentResponse(appt)
	return &resp, nil
}

// List returns appointments in insertion order, optionally for one client
func (s *AppointmentService) List(ctx context.Context, clientID string) ([]AppointmentResponse, error) {
	appts, err := s.appointmentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		if clientID != "" && a.ClientID != clientID {
			continue
		}
		out = append(out, ToAppointmentResponse(a))
	}
	return out, nil
}

// Confirm accepts a pending booking
func (s *AppointmentService) Confirm(ctx context.Context, id string) (*AppointmentResponse, error) {
	return s.transition(ctx, id, "confirmed", (*operations.Appointment).Confirm)
}

// Cancel withdraws a pending or confirmed booking
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*AppointmentResponse, error) {
	return s.transition(ctx, id, "cancelled", (*operations.Appointment).Cancel)
}

func (s *AppointmentService) transition(ctx context.Context, id, action string, apply func(*operations.Appointment) error) (*AppointmentResponse, error) {
	appt, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(appt); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Save(ctx, appt); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Appointment "+action, zap.String("appointment_id", appt.ID))

	resp := ToAppointmentResponse(appt)
	return &resp, nil
}
