package export

// Names of the built-in templates
const (
	TemplateInvoice     = "invoice"
	TemplateSalesReport = "sales_report"
)

const baseStyle = `<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 32px; font-size: 13px; }
h1 { font-size: 26px; margin: 0 0 8px; }
h2 { font-size: 24px; color: #6b7280; margin: 0; text-transform: uppercase; }
table { width: 100%; border-collapse: collapse; margin: 16px 0; }
th { background: #1f2937; color: #fff; text-align: left; padding: 8px; }
td { border-bottom: 1px solid #e5e7eb; padding: 8px; }
.right { text-align: right; }
.header { display: flex; justify-content: space-between; align-items: flex-start; }
.muted { color: #6b7280; }
.totals { margin-left: auto; width: 280px; }
.totals div { display: flex; justify-content: space-between; padding: 2px 0; }
.due { font-size: 18px; font-weight: bold; border-top: 1px solid #d1d5db; padding-top: 6px; }
.notes { background: #f9fafb; padding: 12px; border-radius: 6px; }
</style>`

const invoiceTemplate = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>Invoice {{.Invoice.InvoiceNumber}}</title>` + baseStyle + `</head>
<body>
<div class="header">
  <div>
    {{if .Logo}}<img src="{{.Logo}}" alt="Company Logo" style="height:64px">{{else}}<h1>{{.Profile.Name}}</h1>{{end}}
    <p class="muted">{{range lines .Profile.Address}}{{.}}<br>{{end}}</p>
    {{with .Profile.VatNumber}}<p class="muted">VAT: {{.}}</p>{{end}}
  </div>
  <div class="right">
    <h2>Invoice</h2>
    <p># {{.Invoice.InvoiceNumber}}</p>
    <p>Date Issued: {{formatDate .Invoice.IssueDate}}</p>
  </div>
</div>

<div class="header">
  <div>
    <p class="muted">BILL TO</p>
    <p><strong>{{.Invoice.Client.Name}}</strong></p>
    <p class="muted">{{range lines .Invoice.Client.Address}}{{.}}<br>{{end}}{{.Invoice.Client.Email}}</p>
  </div>
  <div class="right">
    <p class="muted">DUE DATE</p>
    <p><strong>{{formatDate .Invoice.DueDate}}</strong></p>
    <p class="muted">STATUS</p>
    <p>{{.Status}}</p>
  </div>
</div>

<table>
  <thead><tr><th>Description</th><th class="right">Quantity</th><th class="right">Rate</th><th class="right">Total</th></tr></thead>
  <tbody>
  {{range .Invoice.Items}}
    <tr><td>{{.Description}}</td><td class="right">{{formatQuantity .Quantity}}</td><td class="right">{{formatMoney .Rate $.Invoice.Currency}}</td><td class="right">{{formatMoney .Total $.Invoice.Currency}}</td></tr>
  {{end}}
  </tbody>
</table>

<div class="totals">
  <div><span>Subtotal:</span><span>{{formatMoney .Invoice.Subtotal .Invoice.Currency}}</span></div>
  <div><span>Tax ({{formatPercent .Profile.TaxRate}}):</span><span>{{formatMoney .Invoice.TaxAmount .Invoice.Currency}}</span></div>
  <div><span>Amount Paid:</span><span>{{formatMoney .Invoice.AmountPaid .Invoice.Currency}}</span></div>
  <div class="due"><span>Amount Due:</span><span>{{formatMoney .AmountDue .Invoice.Currency}}</span></div>
</div>

{{if .Invoice.Notes}}<div class="notes"><strong>Notes</strong><p>{{.Invoice.Notes}}</p></div>{{end}}
{{if .Profile.DefaultTerms}}<p class="muted">{{.Profile.DefaultTerms}}</p>{{end}}
{{if .Profile.BankDetails}}<p class="muted">{{.Profile.BankDetails}}</p>{{end}}
</body></html>`

const salesReportTemplate = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>Sales Report</title>` + baseStyle + `</head>
<body>
<h1>{{.CompanyName}}</h1>
<p class="muted">Sales Summary ({{formatDate .Report.Start}} to {{formatDate .Report.End}})</p>
<table>
  <thead><tr><th>Invoice #</th><th>Client</th><th>Issue Date</th><th>Status</th><th class="right">Total</th></tr></thead>
  <tbody>
  {{range .Report.Invoices}}
    <tr><td>{{.InvoiceNumber}}</td><td>{{.Client.Name}}</td><td>{{formatDate .IssueDate}}</td><td>{{.Status}}</td><td class="right">{{formatMoney .Total .Currency}}</td></tr>
  {{else}}
    <tr><td colspan="5" class="muted">No invoices in this period.</td></tr>
  {{end}}
  </tbody>
  <tfoot><tr><td colspan="4" class="right"><strong>Total:</strong></td><td class="right"><strong>{{formatMoney .Report.Total ""}}</strong></td></tr></tfoot>
</table>
</body></html>`

var defaultTemplates = map[string]string{
	TemplateInvoice:     invoiceTemplate,
	TemplateSalesReport: salesReportTemplate,
}
