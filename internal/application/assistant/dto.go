package assistant

import (
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Surfaces group AI calls for request-generation tracking and metrics
const (
	SurfaceSummary    = "summary"
	SurfaceAssistant  = "assistant"
	SurfaceEmail      = "email"
	SurfaceDocument   = "document"
	SurfaceSchedule   = "schedule"
	SurfaceForecast   = "forecast"
	SurfaceKycEmail   = "kyc_email"
	SurfaceAutomation = "automation"
	SurfaceReceipt    = "receipt"
	SurfaceCompanyDoc = "company_doc"
)

// Message types
const (
	MessageReminder      = "reminder"
	MessageQuoteFollowUp = "quote_follow_up"
	MessageThankYou      = "thank_you"
)

// Document types
const (
	DocumentContract            = "contract"
	DocumentTermsAndConditions  = "terms_and_conditions"
	DocumentDeliveryNote        = "delivery_note"
	DocumentPublicOfficerLetter = "public_officer_letter"
)

// TextResponse carries generated prose
type TextResponse struct {
	Text string `json:"text"`
}

// SummaryItem is one line item sent for summarising
type SummaryItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// SummaryRequest asks for a one-sentence invoice description
type SummaryRequest struct {
	SurfaceKey string        `json:"surface_key"`
	Items      []SummaryItem `json:"items"`
}

// AskRequest is a question about the business data
type AskRequest struct {
	SurfaceKey string `json:"surface_key"`
	Question   string `json:"question"`
}

// DraftInvoiceRequest is free text (an email or chat message) to turn into an invoice
type DraftInvoiceRequest struct {
	SurfaceKey string `json:"surface_key"`
	Text       string `json:"text" binding:"required"`
}

// DraftItem is an extracted line item
type DraftItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// DraftInvoiceResponse pre-fills the invoice form.
// ClientID is empty when no known client matched.
type DraftInvoiceResponse struct {
	ClientID   string      `json:"client_id"`
	ClientName string      `json:"client_name"`
	Items      []DraftItem `json:"items"`
	Notes      string      `json:"notes"`
}

// MessageRequest asks for an email body about an invoice or quote
type MessageRequest struct {
	SurfaceKey string `json:"surface_key"`
	Type       string `json:"type" binding:"required,oneof=reminder quote_follow_up thank_you"`
	InvoiceID  string `json:"invoice_id"`
	QuoteID    string `json:"quote_id"`
}

// DocumentRequest asks for a simple business document for a client
type DocumentRequest struct {
	SurfaceKey string `json:"surface_key"`
	Type       string `json:"type" binding:"required,oneof=contract terms_and_conditions delivery_note public_officer_letter"`
	ClientID   string `json:"client_id" binding:"required"`
	InvoiceID  string `json:"invoice_id"`
}

// CompanyInfoResponse is what was read off a company registration document
type CompanyInfoResponse struct {
	CompanyName        string `json:"company_name"`
	RegistrationNumber string `json:"registration_number"`
	VatNumber          string `json:"vat_number"`
	Address            string `json:"address"`
}

// ScheduledTask is one suggested project task
type ScheduledTask struct {
	Title   string           `json:"title"`
	DueDate valueobject.Date `json:"due_date"`
}

// ReceiptData is what was read off a receipt image.
// Date is zero when the model returned no usable date.
type ReceiptData struct {
	Vendor string           `json:"vendor"`
	Date   valueobject.Date `json:"date"`
	Amount decimal.Decimal  `json:"amount"`
}
