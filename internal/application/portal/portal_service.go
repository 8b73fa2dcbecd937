// Package portal serves the client-facing portal. Every operation acts on
// behalf of the client named in the session.
package portal

import (
	"context"
	"errors"

	appbilling "github.com/outvoice/backend/internal/application/billing"
	appdocument "github.com/outvoice/backend/internal/application/document"
	appoperations "github.com/outvoice/backend/internal/application/operations"
	apppartner "github.com/outvoice/backend/internal/application/partner"
	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/auth"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Clients looks up the client signing in
type Clients interface {
	GetByID(ctx context.Context, id string) (*apppartner.ClientResponse, error)
}

// Invoices lists a client's invoices
type Invoices interface {
	List(ctx context.Context, filter appbilling.InvoiceListFilter) ([]appbilling.InvoiceResponse, error)
}

// Quotes lists and approves a client's quotes
type Quotes interface {
	GetByID(ctx context.Context, id string) (*appbilling.QuoteResponse, error)
	List(ctx context.Context, filter appbilling.QuoteListFilter) ([]appbilling.QuoteResponse, error)
	Approve(ctx context.Context, id string) (*appbilling.QuoteResponse, error)
}

// Files lists and receives a client's documents
type Files interface {
	List(ctx context.Context, clientID string) ([]appdocument.FileResponse, error)
	Upload(ctx context.Context, req appdocument.UploadFileRequest) (*appdocument.FileResponse, error)
}

// Appointments books consultations
type Appointments interface {
	Request(ctx context.Context, clientID string, req appoperations.RequestAppointmentRequest) (*appoperations.AppointmentResponse, error)
}

// Sessions issues portal tokens
type Sessions interface {
	IssueSession(clientID, clientName string) (*auth.Session, error)
}

// Service composes the staff-side services into the portal view
type Service struct {
	clients      Clients
	invoices     Invoices
	quotes       Quotes
	files        Files
	appointments Appointments
	sessions     Sessions
	revoked      auth.TokenBlacklist
}

// NewService creates the portal service
func NewService(
	clients Clients,
	invoices Invoices,
	quotes Quotes,
	files Files,
	appointments Appointments,
	sessions Sessions,
	revoked auth.TokenBlacklist,
) *Service {
	return &Service{
		clients:      clients,
		invoices:     invoices,
		quotes:       quotes,
		files:        files,
		appointments: appointments,
		sessions:     sessions,
		revoked:      revoked,
	}
}

// LoginRequest names the client entering the portal
type LoginRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

// Overview is everything a client sees on the portal home
type Overview struct {
	Client   apppartner.ClientResponse   `json:"client"`
	Invoices []appbilling.InvoiceResponse `json:"invoices"`
	Quotes   []appbilling.QuoteResponse   `json:"quotes"`
	Files    []appdocument.FileResponse   `json:"files"`
}

// Login opens a portal session for an existing client. The client id is not
// verified beyond existing.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*auth.Session, error) {
	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found: "+req.ClientID)
		}
		return nil, err
	}
	session, err := s.sessions.IssueSession(client.ID, client.Name)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Portal session opened", zap.String("client_id", client.ID))
	return session, nil
}

// Logout revokes the session for the rest of its lifetime
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" {
		return nil
	}
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		return err
	}
	logger.L(ctx).Info("Portal session closed", zap.String("client_id", claims.ClientID))
	return nil
}

// Overview returns the client's invoices, quotes and files
func (s *Service) Overview(ctx context.Context, clientID string) (*Overview, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx, appbilling.InvoiceListFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.List(ctx, appbilling.QuoteListFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	files, err := s.files.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &Overview{Client: *client, Invoices: invoices, Quotes: quotes, Files: files}, nil
}

// ApproveQuote accepts one of the client's own quotes.
// Quotes addressed to someone else read as not found.
func (s *Service) ApproveQuote(ctx context.Context, clientID, quoteID string) (*appbilling.QuoteResponse, error) {
	q, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q.Client.ID != clientID {
		return nil, shared.ErrNotFound
	}
	return s.quotes.Approve(ctx, quoteID)
}

// UploadKyc stores a compliance document for the signed-in client
func (s *Service) UploadKyc(ctx context.Context, clientID string, req appdocument.UploadFileRequest) (*appdocument.FileResponse, error) {
	req.ClientID = clientID
	req.Tag = string(document.FileTagKYC)
	return s.files.Upload(ctx, req)
}

// RequestAppointment books a consultation for the signed-in client.
// Date and time are both required.
func (s *Service) RequestAppointment(ctx context.Context, clientID string, req appoperations.RequestAppointmentRequest) (*appoperations.AppointmentResponse, error) {
	if req.RequestedDate.IsZero() || req.RequestedTime == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please select a date and time for your appointment")
	}
	return s.appointments.Request(ctx, clientID, req)
}
