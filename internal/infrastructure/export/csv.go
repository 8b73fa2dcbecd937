package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/outvoice/backend/internal/domain/report"
)

// SalesCSVHeader is the header row of the sales report export
var SalesCSVHeader = []string{
	"Invoice #", "Client", "Issue Date", "Due Date", "Status",
	"Subtotal", "Tax", "Total", "Currency",
}

// WriteSalesCSV writes one row per invoice in the report. Commas are
// stripped from client names so naive spreadsheet imports stay aligned.
func WriteSalesCSV(w io.Writer, r *report.SalesReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SalesCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, inv := range r.Invoices {
		row := []string{
			inv.InvoiceNumber,
			strings.ReplaceAll(inv.Client.Name, ",", ""),
			inv.IssueDate.String(),
			inv.DueDate.String(),
			inv.Status.String(),
			inv.Subtotal.StringFixed(2),
			inv.TaxAmount.StringFixed(2),
			inv.Total.StringFixed(2),
			inv.Currency.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", inv.InvoiceNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
