package report

import (
	"testing"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSalesReport(t *testing.T) {
	a := buildInvoice(t, invoiceSpec{number: "INV-0001", issue: "2024-07-01", due: "2024-07-30", desc: "Web", qty: 1, rate: 100})
	b := buildInvoice(t, invoiceSpec{number: "INV-0002", issue: "2024-07-31", due: "2024-08-30", desc: "Web", qty: 1, rate: 200})
	c := buildInvoice(t, invoiceSpec{number: "INV-0003", issue: "2024-08-01", due: "2024-08-30", desc: "Web", qty: 1, rate: 300})

	r, err := BuildSalesReport([]*billing.Invoice{a, b, c}, valueobject.MustParseDate("2024-07-01"), valueobject.MustParseDate("2024-07-31"))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, "345", r.Total.String())
	assert.Equal(t, "sales_report_2024-07-01_to_2024-07-31", r.FileBaseName())

	_, err = BuildSalesReport(nil, valueobject.MustParseDate("2024-08-01"), valueobject.MustParseDate("2024-07-01"))
	assert.Error(t, err)
	_, err = BuildSalesReport(nil, valueobject.Date{}, valueobject.MustParseDate("2024-07-01"))
	assert.Error(t, err)
}

func TestBuildDashboard_Counts(t *testing.T) {
	today := valueobject.MustParseDate("2024-08-25")
	inv := buildInvoice(t, invoiceSpec{number: "INV-0002", issue: "2024-07-20", due: "2024-08-19", status: billing.InvoiceStatusPending, desc: "Consulting", qty: 10, rate: 850})

	d := BuildDashboard(Snapshot{Invoices: []*billing.Invoice{inv}}, today)
	assert.Equal(t, 1, d.InvoiceCount)
	assert.Equal(t, 1, d.OverdueCount)
	assert.Equal(t, "9775", d.OverdueTotal.String())
	assert.Len(t, d.MonthlyRevenue, MonthlySeriesLength)
	assert.Len(t, d.ToDos, 1)
}
