package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/infrastructure/config"
)

// DefaultPayFastProcessURL is the PayFast sandbox form endpoint
const DefaultPayFastProcessURL = "https://sandbox.payfast.co.za/eng/process"

// PayFast builds a hidden-form POST to the PayFast process page
type PayFast struct {
	processURL    string
	publicBaseURL string
	notifyBaseURL string
}

// NewPayFast creates the PayFast gateway
func NewPayFast(cfg config.PaymentConfig) *PayFast {
	processURL := cfg.PayfastProcessURL
	if processURL == "" {
		processURL = DefaultPayFastProcessURL
	}
	notify := cfg.NotifyBaseURL
	if notify == "" {
		notify = cfg.PublicBaseURL
	}
	return &PayFast{
		processURL:    processURL,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		notifyBaseURL: strings.TrimSuffix(notify, "/"),
	}
}

// Type returns the gateway id
func (p *PayFast) Type() company.PaymentGateway {
	return company.GatewayPayFast
}

// Initiate requires the merchant id and key from the company profile
func (p *PayFast) Initiate(ctx context.Context, req PaymentRequest) (*PaymentInstruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile := req.Profile
	if profile.PayfastMerchantID == "" || profile.PayfastMerchantKey == "" {
		return nil, ErrGatewayNotConfigured
	}
	inv := req.Invoice
	amount := inv.Balance().StringFixed(2)

	descriptions := make([]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		descriptions = append(descriptions, item.Description)
	}

	fields := []Field{
		{"merchant_id", profile.PayfastMerchantID},
		{"merchant_key", profile.PayfastMerchantKey},
		{"return_url", p.publicBaseURL + "?payment_status=success"},
		{"cancel_url", p.publicBaseURL + "?payment_status=cancelled"},
		{"notify_url", p.notifyBaseURL + "/api/payfast-notify"},
		{"name_first", inv.Client.FirstName()},
		{"name_last", inv.Client.LastName()},
		{"email_address", inv.Client.Email},
		{"m_payment_id", inv.InvoiceNumber},
		{"amount", amount},
		{"item_name", fmt.Sprintf("Invoice %s - %s", inv.InvoiceNumber, profile.Name)},
		{"item_description", strings.Join(descriptions, ", ")},
	}

	return &PaymentInstruction{
		Gateway:   company.GatewayPayFast,
		Method:    MethodFormPost,
		ActionURL: p.processURL,
		Fields:    fields,
		Amount:    amount,
		Currency:  inv.Currency.String(),
		Reference: inv.InvoiceNumber,
	}, nil
}

var _ Gateway = (*PayFast)(nil)
