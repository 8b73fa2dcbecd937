package report

import (
	"testing"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var taxRate = decimal.NewFromInt(15)

type invoiceSpec struct {
	number string
	issue  string
	due    string
	status billing.InvoiceStatus
	desc   string
	qty    int64
	rate   int64
	cost   *int64
}

func client1() partner.ClientSnapshot {
	return partner.ClientSnapshot{ID: "cli-1", Name: "Innovate Solutions Pty Ltd", Email: "contact@innovatesol.co.za"}
}

func buildInvoice(t *testing.T, s invoiceSpec) *billing.Invoice {
	t.Helper()
	item, err := billing.NewLineItem(s.desc, decimal.NewFromInt(s.qty), decimal.NewFromInt(s.rate))
	require.NoError(t, err)
	if s.cost != nil {
		item.SetCost(decimal.NewFromInt(*s.cost))
	}
	inv, err := billing.NewInvoiceDraft(billing.InvoiceDraft{
		Client:    client1(),
		IssueDate: valueobject.MustParseDate(s.issue),
		DueDate:   valueobject.MustParseDate(s.due),
		Items:     []billing.LineItem{item},
	})
	require.NoError(t, err)
	require.NoError(t, inv.AssignNumber(s.number))
	inv.ApplyTotals(taxRate)

	switch s.status {
	case billing.InvoiceStatusPending:
		require.NoError(t, inv.Issue())
	case billing.InvoiceStatusOverdue:
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.MarkOverdue())
	case billing.InvoiceStatusPaid:
		require.NoError(t, inv.MarkAsPaid("EFT"))
	}
	return inv
}

func costOf(v int64) *int64 { return &v }
