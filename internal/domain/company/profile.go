// Package company holds the singleton company profile: branding, numbering
// seed, tax rate and payment gateway credentials.
package company

import (
	"context"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentGateway identifies the online gateway used to collect invoice payments
type PaymentGateway string

const (
	GatewayPayFast PaymentGateway = "payfast"
	GatewayYoco    PaymentGateway = "yoco"
)

// IsValid checks if the gateway is supported
func (g PaymentGateway) IsValid() bool {
	return g == GatewayPayFast || g == GatewayYoco
}

// String returns the gateway identifier
func (g PaymentGateway) String() string {
	return string(g)
}

// Profile is the company's billing configuration
type Profile struct {
	Name               string
	Address            string
	Logo               string
	RegistrationNumber string
	VatNumber          string
	InvoicePrefix      string
	InvoiceCounter     int
	DefaultTerms       string
	BankDetails        string
	TaxRate            decimal.Decimal
	PreferredGateway   PaymentGateway
	PayfastMerchantID  string
	PayfastMerchantKey string
	YocoPublicKey      string
	YocoSecretKey      string
}

// DefaultProfile returns the profile a fresh installation starts with
func DefaultProfile() Profile {
	return Profile{
		Name:             "Your Company",
		InvoicePrefix:    "INV-",
		InvoiceCounter:   1,
		DefaultTerms:     "Payment due within 30 days.",
		TaxRate:          decimal.NewFromInt(15),
		PreferredGateway: GatewayPayFast,
	}
}

// Validate checks the profile's invariants
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if p.InvoicePrefix == "" {
		return shared.NewDomainError("INVALID_INVOICE_PREFIX", "Invoice prefix cannot be empty")
	}
	if p.InvoiceCounter < 1 {
		return shared.NewDomainError("INVALID_INVOICE_COUNTER", "Invoice counter must be at least 1")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if !p.PreferredGateway.IsValid() {
		return shared.NewDomainError("UNSUPPORTED_GATEWAY", "Preferred gateway must be 'payfast' or 'yoco'")
	}
	return nil
}

// AdvanceInvoiceCounter stores the seed for the next invoice number.
// The counter never moves backwards.
func (p *Profile) AdvanceInvoiceCounter(next int) {
	if next > p.InvoiceCounter {
		p.InvoiceCounter = next
	}
}

// ProfileRepository stores the singleton company profile
type ProfileRepository interface {
	Get(ctx context.Context) (Profile, error)
	Save(ctx context.Context, profile Profile) error
}
