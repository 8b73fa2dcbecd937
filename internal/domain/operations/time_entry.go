package operations

import (
	"fmt"
	"strings"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TimeEntry is billable time logged against a client
type TimeEntry struct {
	shared.BaseAggregateRoot
	ClientID    string
	Date        valueobject.Date
	Hours       decimal.Decimal
	Description string
}

// NewTimeEntry logs hours worked for a client
func NewTimeEntry(id, clientID string, date valueobject.Date, hours decimal.Decimal, description string) (*TimeEntry, error) {
	if clientID == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "A client is required")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	if !hours.IsPositive() {
		return nil, shared.NewDomainError("INVALID_HOURS", "Hours must be positive")
	}
	return &TimeEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		ClientID:          clientID,
		Date:              date,
		Hours:             hours,
		Description:       strings.TrimSpace(description),
	}, nil
}

// Clone returns a copy without pending events
func (e *TimeEntry) Clone() *TimeEntry {
	cp := *e
	cp.ClearDomainEvents()
	return &cp
}

// InvoiceDraftFromTime turns logged hours into an unsaved invoice draft for the
// client of the entries. Each entry becomes one line billed at the client's
// hourly rate (zero when the client has none).
func InvoiceDraftFromTime(client partner.ClientSnapshot, entries []*TimeEntry, today valueobject.Date) (*billing.Invoice, error) {
	if len(entries) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Select at least one time entry")
	}
	items := make([]billing.LineItem, 0, len(entries))
	for _, e := range entries {
		item, err := billing.NewLineItem(fmt.Sprintf("%s (%s)", e.Description, e.Date), e.Hours, client.HourlyRate)
		if err != nil {
			return nil, err
		}
		item.SetCost(decimal.Zero)
		items = append(items, item)
	}
	return billing.NewInvoiceDraft(billing.InvoiceDraft{
		Client:    client,
		IssueDate: today,
		DueDate:   today.AddDays(30),
		Items:     items,
		Notes:     fmt.Sprintf("Invoice generated from time entries on %s.", today),
	})
}
