package billing

import (
	"strings"

	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "Draft"
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
	InvoiceStatusPartial InvoiceStatus = "Partial"
)

// IsValid checks if the status is a valid invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusPartial:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsOutstanding reports whether money is still owed in this status
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue || s == InvoiceStatusPartial
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusPending || target == InvoiceStatusPaid
	case InvoiceStatusPending:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusPartial
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusPartial
	case InvoiceStatusPartial:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue
	}
	return false
}

// Invoice is the aggregate root for a billed document.
// ID equals InvoiceNumber once saved; an empty ID is an unsaved draft.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	Client        partner.ClientSnapshot
	IssueDate     valueobject.Date
	DueDate       valueobject.Date
	Items         []LineItem
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	Currency      valueobject.Currency
	AmountPaid    decimal.Decimal
	Status        InvoiceStatus
	Notes         string
	PaymentMethod string
}

// InvoiceDraft carries the editable fields of an invoice
type InvoiceDraft struct {
	Client    partner.ClientSnapshot
	IssueDate valueobject.Date
	DueDate   valueobject.Date
	Items     []LineItem
	Currency  valueobject.Currency
	Notes     string
}

// NewInvoiceDraft creates an unsaved invoice in Draft status
func NewInvoiceDraft(d InvoiceDraft) (*Invoice, error) {
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(""),
		AmountPaid:        decimal.Zero,
		Status:            InvoiceStatusDraft,
	}
	if err := inv.apply(d); err != nil {
		return nil, err
	}
	return inv, nil
}

// Revise replaces the editable fields of a saved invoice.
// The number, status and payment record are kept.
func (inv *Invoice) Revise(d InvoiceDraft) error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be edited")
	}
	if err := inv.apply(d); err != nil {
		return err
	}
	inv.Touch()
	inv.IncrementVersion()
	if inv.IsSaved() {
		inv.AddDomainEvent(NewInvoiceUpdatedEvent(inv))
	}
	return nil
}

func (inv *Invoice) apply(d InvoiceDraft) error {
	if d.Currency == "" {
		d.Currency = valueobject.DefaultCurrency
	}
	if err := validateDraft(d.Client, d.Items, d.Currency); err != nil {
		return err
	}
	if !d.IssueDate.IsZero() && !d.DueDate.IsZero() && d.DueDate.Before(d.IssueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}
	inv.Client = d.Client.Clone()
	inv.IssueDate = d.IssueDate
	inv.DueDate = d.DueDate
	inv.Items = CloneItems(d.Items)
	inv.Currency = d.Currency
	inv.Notes = strings.TrimSpace(d.Notes)
	return nil
}

// IsSaved reports whether the invoice has been numbered and stored
func (inv *Invoice) IsSaved() bool {
	return inv.ID != ""
}

// AssignNumber gives a new invoice its number, which also becomes its ID.
// A number is assigned exactly once.
func (inv *Invoice) AssignNumber(number string) error {
	if inv.InvoiceNumber != "" {
		return shared.NewDomainError("INVALID_STATE", "Invoice number already assigned")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_INPUT", "Invoice number cannot be empty")
	}
	inv.ID = number
	inv.InvoiceNumber = number
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return nil
}

// ApplyTotals recomputes subtotal, tax and total at the given tax rate
func (inv *Invoice) ApplyTotals(taxRatePercent decimal.Decimal) {
	t := ComputeTotals(inv.Items, taxRatePercent)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
}

// CheckAmountPaid rejects totals that fall below what has already been paid
func (inv *Invoice) CheckAmountPaid() error {
	if inv.Total.Round(2).LessThan(inv.AmountPaid) {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice total cannot be less than the amount already paid")
	}
	return nil
}

// Totals returns the stored totals
func (inv *Invoice) Totals() Totals {
	return Totals{Subtotal: inv.Subtotal, TaxAmount: inv.TaxAmount, Total: inv.Total}
}

// Balance returns total minus amount paid
func (inv *Invoice) Balance() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// Issue moves a draft to Pending
func (inv *Invoice) Issue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusPending) {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be issued")
	}
	inv.setStatus(InvoiceStatusPending)
	return nil
}

// MarkAsPaid settles the invoice in full through the given payment method
func (inv *Invoice) MarkAsPaid(paymentMethod string) error {
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}
	inv.AmountPaid = inv.Total
	inv.PaymentMethod = paymentMethod
	inv.setStatus(InvoiceStatusPaid)
	inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	return nil
}

// RecordPayment adds a part payment. Reaching the total settles the invoice.
func (inv *Invoice) RecordPayment(amount decimal.Decimal, paymentMethod string) error {
	if !inv.Status.IsOutstanding() {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded against outstanding invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.Balance().Round(2)) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment exceeds the outstanding balance")
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.PaymentMethod = paymentMethod
	if inv.AmountPaid.GreaterThanOrEqual(inv.Total.Round(2)) {
		inv.setStatus(InvoiceStatusPaid)
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
		return nil
	}
	if inv.Status != InvoiceStatusPartial {
		inv.setStatus(InvoiceStatusPartial)
	}
	return nil
}

// ChangeStatus moves the invoice along the status graph.
// Paid goes through MarkAsPaid so the payment is recorded.
func (inv *Invoice) ChangeStatus(target InvoiceStatus) error {
	if target == inv.Status {
		return nil
	}
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status: "+target.String())
	}
	if target == InvoiceStatusPaid {
		return inv.MarkAsPaid(inv.PaymentMethod)
	}
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move invoice from "+inv.Status.String()+" to "+target.String())
	}
	inv.setStatus(target)
	return nil
}

// MarkOverdue records that the invoice is past due
func (inv *Invoice) MarkOverdue() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusOverdue) {
		return shared.NewDomainError("INVALID_STATE", "Only pending or partially paid invoices can become overdue")
	}
	inv.setStatus(InvoiceStatusOverdue)
	return nil
}

// EffectiveStatus is the status as of today: a Pending invoice whose due date
// has passed reads as Overdue even though nothing stored it that way.
func (inv *Invoice) EffectiveStatus(today valueobject.Date) InvoiceStatus {
	if inv.Status == InvoiceStatusPending && !inv.DueDate.IsZero() && inv.DueDate.Before(today) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// IsOverdue reports whether the invoice is overdue as of today
func (inv *Invoice) IsOverdue(today valueobject.Date) bool {
	return inv.EffectiveStatus(today) == InvoiceStatusOverdue
}

func (inv *Invoice) setStatus(status InvoiceStatus) {
	inv.Status = status
	inv.Touch()
	inv.IncrementVersion()
}

// Clone returns a deep copy without pending events
func (inv *Invoice) Clone() *Invoice {
	cp := *inv
	cp.Client = inv.Client.Clone()
	cp.Items = CloneItems(inv.Items)
	cp.ClearDomainEvents()
	return &cp
}

func validateDraft(client partner.ClientSnapshot, items []LineItem, currency valueobject.Currency) error {
	if client.IsZero() {
		return shared.NewDomainError("INVALID_CLIENT", "A client is required")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "At least one line item is required")
	}
	for _, item := range items {
		if err := item.validate(); err != nil {
			return err
		}
	}
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency: "+currency.String())
	}
	return nil
}
