// Package payment builds the browser-side instructions that hand an invoice
// over to an online payment gateway.
package payment

import (
	"context"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/config"
)

// Instruction kinds
const (
	MethodFormPost = "form_post"
	MethodPopup    = "popup"
)

var (
	// ErrGatewayNotConfigured is returned when the gateway credentials are missing
	ErrGatewayNotConfigured = shared.NewDomainError("GATEWAY_NOT_CONFIGURED", "Payment gateway settings are not configured")
	// ErrUnsupportedGateway is returned for an unknown gateway id
	ErrUnsupportedGateway = shared.NewDomainError("UNSUPPORTED_GATEWAY", "No payment gateway selected or supported")
)

// PaymentRequest asks a gateway to collect the outstanding balance of an invoice
type PaymentRequest struct {
	Invoice *billing.Invoice
	Profile company.Profile
}

// Field is one hidden form input. Order is preserved.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentInstruction tells the browser how to start the payment
type PaymentInstruction struct {
	Gateway   company.PaymentGateway `json:"gateway"`
	Method    string                 `json:"method"`
	ActionURL string                 `json:"action_url,omitempty"`
	Fields    []Field                `json:"fields,omitempty"`
	SDKURL    string                 `json:"sdk_url,omitempty"`
	PublicKey string                 `json:"public_key,omitempty"`
	// AmountInCents is set for popup gateways that charge in minor units
	AmountInCents int64  `json:"amount_in_cents,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
}

// Gateway turns a payment request into an instruction
type Gateway interface {
	Type() company.PaymentGateway
	Initiate(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error)
}

// Registry selects a gateway by the company's preference
type Registry struct {
	gateways map[company.PaymentGateway]Gateway
}

// NewRegistry creates a registry holding the given gateways
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[company.PaymentGateway]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Type()] = g
	}
	return r
}

// NewDefaultRegistry wires PayFast and Yoco from the payment settings
func NewDefaultRegistry(cfg config.PaymentConfig) *Registry {
	return NewRegistry(NewPayFast(cfg), NewYoco(cfg))
}

// Resolve returns the gateway for id
func (r *Registry) Resolve(id company.PaymentGateway) (Gateway, error) {
	g, ok := r.gateways[id]
	if !ok {
		return nil, ErrUnsupportedGateway
	}
	return g, nil
}

// Initiate builds an instruction with the profile's preferred gateway
func (r *Registry) Initiate(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	g, err := r.Resolve(req.Profile.PreferredGateway)
	if err != nil {
		return nil, err
	}
	return g.Initiate(ctx, req)
}
