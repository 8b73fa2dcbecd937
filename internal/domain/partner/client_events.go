package partner

import "github.com/outvoice/backend/internal/domain/shared"

// Aggregate type constant
const AggregateTypeClient = "Client"

// Event type constants
const (
	EventTypeClientCreated          = "ClientCreated"
	EventTypeClientKycStatusChanged = "ClientKycStatusChanged"
)

// ClientCreatedEvent is published when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, client.ID),
		ClientID:        client.ID,
		Name:            client.Name,
		Email:           client.Email,
	}
}

// ClientKycStatusChangedEvent is published when a client's KYC status changes
type ClientKycStatusChangedEvent struct {
	shared.BaseDomainEvent
	ClientID  string    `json:"client_id"`
	OldStatus KycStatus `json:"old_status"`
	NewStatus KycStatus `json:"new_status"`
}

// NewClientKycStatusChangedEvent creates a new ClientKycStatusChangedEvent
func NewClientKycStatusChangedEvent(client *Client, old KycStatus) *ClientKycStatusChangedEvent {
	return &ClientKycStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientKycStatusChanged, AggregateTypeClient, client.ID),
		ClientID:        client.ID,
		OldStatus:       old,
		NewStatus:       client.KycStatus,
	}
}
