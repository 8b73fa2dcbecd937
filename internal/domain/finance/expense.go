package finance

import (
	"context"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultExpenseDescription is used when an expense is recorded without one
const DefaultExpenseDescription = "N/A"

// Expense is money spent with a vendor, optionally on behalf of a client
type Expense struct {
	shared.BaseAggregateRoot
	Date        valueobject.Date
	Vendor      string
	Description string
	Amount      decimal.Decimal
	// ReceiptKey is the object storage key of the scanned receipt, if any
	ReceiptKey string
	ClientID   string
}

// ExpenseDetails carries the fields of a new expense
type ExpenseDetails struct {
	Date        valueobject.Date
	Vendor      string
	Description string
	Amount      decimal.Decimal
	ClientID    string
}

// NewExpense records an expense. Vendor and a positive amount are required;
// the date defaults to today and the description to "N/A".
func NewExpense(id string, d ExpenseDetails, today valueobject.Date) (*Expense, error) {
	vendor := strings.TrimSpace(d.Vendor)
	if vendor == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if !d.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	description := strings.TrimSpace(d.Description)
	if description == "" {
		description = DefaultExpenseDescription
	}
	date := d.Date
	if date.IsZero() {
		date = today
	}
	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Date:              date,
		Vendor:            vendor,
		Description:       description,
		Amount:            d.Amount,
		ClientID:          strings.TrimSpace(d.ClientID),
	}, nil
}

// AttachReceipt records where the receipt image is stored
func (e *Expense) AttachReceipt(key string) {
	e.ReceiptKey = key
	e.Touch()
}

// Clone returns a copy without pending events
func (e *Expense) Clone() *Expense {
	cp := *e
	cp.ClearDomainEvents()
	return &cp
}

// TotalExpenses sums the amounts of the given expenses
func TotalExpenses(expenses []*Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	FindByID(ctx context.Context, id string) (*Expense, error)
	FindAll(ctx context.Context) ([]*Expense, error)
	Save(ctx context.Context, expense *Expense) error
}
