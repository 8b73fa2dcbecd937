package billing

import (
	"strings"

	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "Draft"
	QuoteStatusSent     QuoteStatus = "Sent"
	QuoteStatusAccepted QuoteStatus = "Accepted"
	QuoteStatusDeclined QuoteStatus = "Declined"
)

// IsValid checks if the status is a valid quote status
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the client has already answered the quote
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusDeclined
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusDeclined
	}
	return false
}

// Quote is the aggregate root for a price proposal
type Quote struct {
	shared.BaseAggregateRoot
	QuoteNumber string
	Client      partner.ClientSnapshot
	IssueDate   valueobject.Date
	ExpiryDate  valueobject.Date
	Items       []LineItem
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Currency    valueobject.Currency
	Status      QuoteStatus
	Notes       string
}

// QuoteDraft carries the editable fields of a quote
type QuoteDraft struct {
	Client     partner.ClientSnapshot
	IssueDate  valueobject.Date
	ExpiryDate valueobject.Date
	Items      []LineItem
	Currency   valueobject.Currency
	Notes      string
}

// NewQuoteDraft creates an unsaved quote in Draft status
func NewQuoteDraft(d QuoteDraft) (*Quote, error) {
	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(""),
		Status:            QuoteStatusDraft,
	}
	if err := q.apply(d); err != nil {
		return nil, err
	}
	return q, nil
}

// Revise replaces the editable fields of a quote the client has not answered
func (q *Quote) Revise(d QuoteDraft) error {
	if q.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Accepted or declined quotes cannot be edited")
	}
	if err := q.apply(d); err != nil {
		return err
	}
	q.Touch()
	q.IncrementVersion()
	return nil
}

func (q *Quote) apply(d QuoteDraft) error {
	if d.Currency == "" {
		d.Currency = valueobject.DefaultCurrency
	}
	if err := validateDraft(d.Client, d.Items, d.Currency); err != nil {
		return err
	}
	if !d.IssueDate.IsZero() && !d.ExpiryDate.IsZero() && d.ExpiryDate.Before(d.IssueDate) {
		return shared.NewDomainError("INVALID_EXPIRY_DATE", "Expiry date cannot be before issue date")
	}
	q.Client = d.Client.Clone()
	q.IssueDate = d.IssueDate
	q.ExpiryDate = d.ExpiryDate
	q.Items = CloneItems(d.Items)
	q.Currency = d.Currency
	q.Notes = strings.TrimSpace(d.Notes)
	return nil
}

// IsSaved reports whether the quote has been numbered and stored
func (q *Quote) IsSaved() bool {
	return q.ID != ""
}

// AssignNumber gives a new quote its number, which also becomes its ID
func (q *Quote) AssignNumber(number string) error {
	if q.QuoteNumber != "" {
		return shared.NewDomainError("INVALID_STATE", "Quote number already assigned")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_INPUT", "Quote number cannot be empty")
	}
	q.ID = number
	q.QuoteNumber = number
	q.AddDomainEvent(NewQuoteCreatedEvent(q))
	return nil
}

// ApplyTotals recomputes subtotal, tax and total at the given tax rate
func (q *Quote) ApplyTotals(taxRatePercent decimal.Decimal) {
	t := ComputeTotals(q.Items, taxRatePercent)
	q.Subtotal = t.Subtotal
	q.TaxAmount = t.TaxAmount
	q.Total = t.Total
}

// Totals returns the stored totals
func (q *Quote) Totals() Totals {
	return Totals{Subtotal: q.Subtotal, TaxAmount: q.TaxAmount, Total: q.Total}
}

// Send marks the quote as delivered to the client
func (q *Quote) Send() error {
	return q.transition(QuoteStatusSent)
}

// Approve is the client's one-way acceptance of a sent quote
func (q *Quote) Approve() error {
	if err := q.transition(QuoteStatusAccepted); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuoteAcceptedEvent(q))
	return nil
}

// Decline records that the client turned the quote down
func (q *Quote) Decline() error {
	return q.transition(QuoteStatusDeclined)
}

func (q *Quote) transition(target QuoteStatus) error {
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move quote from "+q.Status.String()+" to "+target.String())
	}
	q.Status = target
	q.Touch()
	q.IncrementVersion()
	return nil
}

// ExpiresBy reports whether a sent quote runs out on or before the given day
func (q *Quote) ExpiresBy(day valueobject.Date) bool {
	return q.Status == QuoteStatusSent && !q.ExpiryDate.IsZero() && !q.ExpiryDate.After(day)
}

// ToInvoiceDraft pre-fills an unsaved invoice from the quote. Items, notes,
// currency and totals are copied verbatim; the result is always a Draft
// whatever the quote's status, and it still has to go through a normal save.
func (q *Quote) ToInvoiceDraft(today valueobject.Date) *Invoice {
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(""),
		Client:            q.Client.Clone(),
		IssueDate:         today,
		DueDate:           today,
		Items:             CloneItems(q.Items),
		Subtotal:          q.Subtotal,
		TaxAmount:         q.TaxAmount,
		Total:             q.Total,
		Currency:          q.Currency,
		AmountPaid:        decimal.Zero,
		Status:            InvoiceStatusDraft,
		Notes:             q.Notes,
	}
}

// Clone returns a deep copy without pending events
func (q *Quote) Clone() *Quote {
	cp := *q
	cp.Client = q.Client.Clone()
	cp.Items = CloneItems(q.Items)
	cp.ClearDomainEvents()
	return &cp
}
