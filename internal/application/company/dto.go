package company

import (
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/shopspring/decimal"
)

// UpdateProfileRequest replaces the company settings. The invoice counter is
// not part of it; only invoice numbering moves the counter.
type UpdateProfileRequest struct {
	Name               string          `json:"name" binding:"required,max=200"`
	Address            string          `json:"address" binding:"max=500"`
	Logo               string          `json:"logo"`
	RegistrationNumber string          `json:"registration_number" binding:"max=50"`
	VatNumber          string          `json:"vat_number" binding:"max=20"`
	InvoicePrefix      string          `json:"invoice_prefix" binding:"required,max=20"`
	DefaultTerms       string          `json:"default_terms" binding:"max=2000"`
	BankDetails        string          `json:"bank_details" binding:"max=1000"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	PreferredGateway   string          `json:"preferred_gateway" binding:"required,oneof=payfast yoco"`
	PayfastMerchantID  string          `json:"payfast_merchant_id"`
	PayfastMerchantKey string          `json:"payfast_merchant_key"`
	YocoPublicKey      string          `json:"yoco_public_key"`
	YocoSecretKey      string          `json:"yoco_secret_key"`
}

// ProfileResponse represents the company settings in API responses.
// Gateway secrets are reported as set or not set, never echoed.
type ProfileResponse struct {
	Name                  string          `json:"name"`
	Address               string          `json:"address"`
	Logo                  string          `json:"logo,omitempty"`
	RegistrationNumber    string          `json:"registration_number"`
	VatNumber             string          `json:"vat_number"`
	InvoicePrefix         string          `json:"invoice_prefix"`
	InvoiceCounter        int             `json:"invoice_counter"`
	DefaultTerms          string          `json:"default_terms"`
	BankDetails           string          `json:"bank_details"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
	PreferredGateway      string          `json:"preferred_gateway"`
	PayfastMerchantID     string          `json:"payfast_merchant_id"`
	PayfastMerchantKeySet bool            `json:"payfast_merchant_key_set"`
	YocoPublicKey         string          `json:"yoco_public_key"`
	YocoSecretKeySet      bool            `json:"yoco_secret_key_set"`
}

// ToProfileResponse converts the domain profile to a response
func ToProfileResponse(p company.Profile) ProfileResponse {
	return ProfileResponse{
		Name:                  p.Name,
		Address:               p.Address,
		Logo:                  p.Logo,
		RegistrationNumber:    p.RegistrationNumber,
		VatNumber:             p.VatNumber,
		InvoicePrefix:         p.InvoicePrefix,
		InvoiceCounter:        p.InvoiceCounter,
		DefaultTerms:          p.DefaultTerms,
		BankDetails:           p.BankDetails,
		TaxRate:               p.TaxRate,
		PreferredGateway:      p.PreferredGateway.String(),
		PayfastMerchantID:     p.PayfastMerchantID,
		PayfastMerchantKeySet: p.PayfastMerchantKey != "",
		YocoPublicKey:         p.YocoPublicKey,
		YocoSecretKeySet:      p.YocoSecretKey != "",
	}
}
