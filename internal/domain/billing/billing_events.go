package billing

import (
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeQuote   = "Quote"
)

// Event type constants
const (
	EventTypeInvoiceCreated = "InvoiceCreated"
	EventTypeInvoiceUpdated = "InvoiceUpdated"
	EventTypeInvoicePaid    = "InvoicePaid"
	EventTypeQuoteCreated   = "QuoteCreated"
	EventTypeQuoteAccepted  = "QuoteAccepted"
)

// InvoiceCreatedEvent is published when an invoice is numbered and stored
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      string          `json:"client_id"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.Client.ID,
		Total:           inv.Total,
		Currency:        inv.Currency.String(),
	}
}

// InvoiceUpdatedEvent is published when a saved invoice is edited
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(inv *Invoice) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
	}
}

// InvoicePaidEvent is published when an invoice is settled in full
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      string          `json:"client_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.Client.ID,
		AmountPaid:      inv.AmountPaid,
		Currency:        inv.Currency.String(),
		PaymentMethod:   inv.PaymentMethod,
	}
}

// QuoteCreatedEvent is published when a quote is numbered and stored
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string          `json:"quote_number"`
	ClientID    string          `json:"client_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID),
		QuoteNumber:     q.QuoteNumber,
		ClientID:        q.Client.ID,
		Total:           q.Total,
	}
}

// QuoteAcceptedEvent is published when a client approves a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string          `json:"quote_number"`
	ClientID    string          `json:"client_id"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(q *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, AggregateTypeQuote, q.ID),
		QuoteNumber:     q.QuoteNumber,
		ClientID:        q.Client.ID,
		Total:           q.Total,
	}
}
