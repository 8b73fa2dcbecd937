package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/report"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInvoice(t *testing.T, number, clientName, issue string, rate int64) *billing.Invoice {
	t.Helper()
	client, err := partner.NewClient("cli-"+number, clientName, "billing@example.com", "45 Tech Park\nCape Town", decimal.NewFromInt(750))
	require.NoError(t, err)
	item, err := billing.NewLineItem("Website Development", decimal.NewFromInt(1), decimal.NewFromInt(rate))
	require.NoError(t, err)
	inv, err := billing.NewInvoiceDraft(billing.InvoiceDraft{
		Client:    client.Snapshot(),
		IssueDate: valueobject.MustParseDate(issue),
		DueDate:   valueobject.MustParseDate(issue).AddDays(30),
		Items:     []billing.LineItem{item},
		Notes:     "Full stack development services.",
	})
	require.NoError(t, err)
	require.NoError(t, inv.AssignNumber(number))
	inv.ApplyTotals(decimal.NewFromInt(15))
	require.NoError(t, inv.Issue())
	return inv
}

func salesReport(t *testing.T) *report.SalesReport {
	t.Helper()
	invoices := []*billing.Invoice{
		buildInvoice(t, "INV-0001", "Innovate Solutions, Pty Ltd", "2024-07-15", 25000),
		buildInvoice(t, "INV-0002", "Gauteng Logistics", "2024-07-20", 8500),
		buildInvoice(t, "INV-0003", "Outside Range", "2024-09-01", 100),
	}
	r, err := report.BuildSalesReport(invoices, valueobject.MustParseDate("2024-07-01"), valueobject.MustParseDate("2024-07-31"))
	require.NoError(t, err)
	return r
}

type fakePDF struct {
	html string
}

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.7 fake"), nil
}

func (f *fakePDF) Close() error { return nil }

func newExporter(t *testing.T, pdf PDFRenderer) *Exporter {
	t.Helper()
	engine, err := NewTemplateEngine()
	require.NoError(t, err)
	return NewExporter(engine, pdf)
}

func TestWriteSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, salesReport(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, SalesCSVHeader, records[0])
	assert.Equal(t, []string{
		"INV-0001", "Innovate Solutions Pty Ltd", "2024-07-15", "2024-08-14", "Pending",
		"25000.00", "3750.00", "28750.00", "ZAR",
	}, records[1])
	for _, row := range records[1:] {
		assert.NotContains(t, row[1], ",")
	}
}

func TestExporter_SalesReport(t *testing.T) {
	ctx := context.Background()
	r := salesReport(t)

	t.Run("csv", func(t *testing.T) {
		f, err := newExporter(t, nil).SalesReport(ctx, "Your Company", r, FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "sales_report_2024-07-01_to_2024-07-31.csv", f.Name)
		assert.Equal(t, "text/csv; charset=utf-8", f.ContentType)
	})

	t.Run("html", func(t *testing.T) {
		f, err := newExporter(t, nil).SalesReport(ctx, "Your Company", r, FormatHTML)
		require.NoError(t, err)
		html := string(f.Data)
		assert.Contains(t, html, "Sales Summary (2024-07-01 to 2024-07-31)")
		assert.Contains(t, html, "INV-0002")
		assert.NotContains(t, html, "INV-0003")
		// 28750 + 9775
		assert.Contains(t, html, "R38,525.00")
	})

	t.Run("pdf", func(t *testing.T) {
		pdf := &fakePDF{}
		f, err := newExporter(t, pdf).SalesReport(ctx, "Your Company", r, FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", f.ContentType)
		assert.Equal(t, "sales_report_2024-07-01_to_2024-07-31.pdf", f.Name)
		assert.Contains(t, pdf.html, "Sales Summary")
	})

	t.Run("pdf disabled", func(t *testing.T) {
		_, err := newExporter(t, nil).SalesReport(ctx, "Your Company", r, FormatPDF)
		assert.ErrorIs(t, err, ErrPDFDisabled)
	})
}

func TestExporter_Invoice(t *testing.T) {
	inv := buildInvoice(t, "INV-0001", "Innovate Solutions", "2024-07-15", 25000)

	profile := company.DefaultProfile()
	profile.Address = "123 Business Lane\nJohannesburg"
	profile.BankDetails = "Bank: FNB"
	profile.Logo = "javascript:alert(1)"

	view := NewInvoiceView(profile, inv, valueobject.MustParseDate("2024-09-30"))
	assert.Equal(t, billing.InvoiceStatusOverdue, view.Status)
	assert.Empty(t, string(view.Logo))

	f, err := newExporter(t, nil).Invoice(context.Background(), view, FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001.html", f.Name)

	html := string(f.Data)
	assert.Contains(t, html, "# INV-0001")
	assert.Contains(t, html, "123 Business Lane<br>Johannesburg<br>")
	assert.Contains(t, html, "R25,000.00")
	assert.Contains(t, html, "Tax (15%)")
	assert.Contains(t, html, "R0.00")
	assert.Contains(t, html, "R28,750.00")
	assert.Contains(t, html, "Overdue")
	assert.Contains(t, html, "Bank: FNB")
	assert.NotContains(t, html, "javascript:")

	_, err = newExporter(t, nil).Invoice(context.Background(), view, FormatCSV)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("PDF", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx", FormatCSV)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		cur  valueobject.Currency
		want string
	}{
		{"0", valueobject.ZAR, "R0.00"},
		{"999.999", valueobject.ZAR, "R1,000.00"},
		{"1234567.5", valueobject.USD, "$1,234,567.50"},
		{"-350.5", "", "-R350.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in), tt.cur))
		})
	}
}

func TestTemplateEngine_Register(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	require.NoError(t, engine.Register("note", `<p>{{title .}}</p>`))
	out, err := engine.Render("note", "quote follow up")
	require.NoError(t, err)
	assert.Equal(t, "<p>Quote Follow Up</p>", out)

	assert.Error(t, engine.Register("empty", "  "))
	assert.Error(t, engine.Register("broken", "{{if}}"))
	_, err = engine.Render("missing", nil)
	assert.Error(t, err)
}
