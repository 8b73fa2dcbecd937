package report

import (
	"fmt"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SalesReport lists the invoices issued in a date range
type SalesReport struct {
	Start    valueobject.Date   `json:"start"`
	End      valueobject.Date   `json:"end"`
	Invoices []*billing.Invoice `json:"-"`
	Count    int                `json:"count"`
	Total    decimal.Decimal    `json:"total"`
}

// BuildSalesReport selects invoices issued in [start, end], both inclusive
func BuildSalesReport(invoices []*billing.Invoice, start, end valueobject.Date) (*SalesReport, error) {
	if start.IsZero() || end.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Start and end dates are required")
	}
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	r := &SalesReport{Start: start, End: end, Invoices: make([]*billing.Invoice, 0), Total: decimal.Zero}
	for _, inv := range invoices {
		if inv.IssueDate.Between(start, end) {
			r.Invoices = append(r.Invoices, inv)
			r.Total = r.Total.Add(inv.Total)
		}
	}
	r.Count = len(r.Invoices)
	return r, nil
}

// FileBaseName is the export file name without extension
func (r *SalesReport) FileBaseName() string {
	return fmt.Sprintf("sales_report_%s_to_%s", r.Start, r.End)
}
