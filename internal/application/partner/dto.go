package partner

import (
	"time"

	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Email      string          `json:"email" binding:"required,email"`
	Address    string          `json:"address" binding:"max=500"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Email      string          `json:"email" binding:"required,email"`
	Address    string          `json:"address" binding:"max=500"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// SetKycStatusRequest records a compliance review outcome
type SetKycStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Submitted Approved Rejected"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	KycStatus    string          `json:"kyc_status"`
	RequiredDocs []string        `json:"required_docs"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *partner.Client) ClientResponse {
	docs := make([]string, len(c.RequiredDocs))
	for i, d := range c.RequiredDocs {
		docs[i] = string(d)
	}
	return ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Address:      c.Address,
		HourlyRate:   c.HourlyRate,
		KycStatus:    string(c.KycStatus),
		RequiredDocs: docs,
		Version:      c.GetVersion(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
