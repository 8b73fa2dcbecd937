package partner

import (
	"context"

	"github.com/outvoice/backend/internal/application/event"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	events     *event.Dispatcher
	newID      func() string
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		newID:      func() string { return shared.NewID("cli") },
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = event.NewDispatcher(publisher)
}

// Create creates a new client awaiting KYC
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(s.newID(), req.Name, req.Email, req.Address, req.HourlyRate)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Client created", zap.String("client_id", client.ID))

	s.events.Flush(ctx, client)
	resp := ToClientResponse(client)
	return &resp, nil
}

// GetByID returns a client
func (s *ClientService) GetByID(ctx context.Context, id string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// List returns all clients in creation order
func (s *ClientService) List(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClientResponse, len(clients))
	for i, c := range clients {
		out[i] = ToClientResponse(c)
	}
	return out, nil
}

// Update replaces a client's details. Saved invoices and quotes keep the
// snapshot taken when they were saved.
func (s *ClientService) Update(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.Update(req.Name, req.Email, req.Address, req.HourlyRate); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// SetKycStatus records a compliance review outcome
func (s *ClientService) SetKycStatus(ctx context.Context, id string, req SetKycStatusRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.SetKycStatus(partner.KycStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Client KYC status changed",
		zap.String("client_id", client.ID),
		zap.String("kyc_status", req.Status))

	s.events.Flush(ctx, client)
	resp := ToClientResponse(client)
	return &resp, nil
}

// SubmitKycDocuments marks that the client uploaded compliance documents
func (s *ClientService) SubmitKycDocuments(ctx context.Context, id string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	client.SubmitKycDocuments()
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.events.Flush(ctx, client)
	resp := ToClientResponse(client)
	return &resp, nil
}
