package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/report"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Format is an export output type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name, defaulting empty input to def
func ParseFormat(s string, def Format) (Format, error) {
	if s == "" {
		return def, nil
	}
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatHTML, FormatPDF:
		return f, nil
	}
	return "", ErrUnsupportedFormat
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// File is a rendered download
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// InvoiceView is the data bound to the invoice print template
type InvoiceView struct {
	Profile   company.Profile
	Invoice   *billing.Invoice
	Status    billing.InvoiceStatus
	AmountDue decimal.Decimal
	Logo      template.URL
}

// NewInvoiceView prepares an invoice for printing as of today
func NewInvoiceView(profile company.Profile, inv *billing.Invoice, today valueobject.Date) InvoiceView {
	return InvoiceView{
		Profile:   profile,
		Invoice:   inv,
		Status:    inv.EffectiveStatus(today),
		AmountDue: inv.Balance(),
		Logo:      safeLogo(profile.Logo),
	}
}

type salesReportView struct {
	CompanyName string
	Report      *report.SalesReport
}

// Exporter renders documents in the requested format
type Exporter struct {
	engine *TemplateEngine
	pdf    PDFRenderer
}

// NewExporter creates an exporter. A nil pdf renderer disables PDF output.
func NewExporter(engine *TemplateEngine, pdf PDFRenderer) *Exporter {
	if pdf == nil {
		pdf = DisabledPDFRenderer{}
	}
	return &Exporter{engine: engine, pdf: pdf}
}

// SalesReport renders the sales report as CSV, HTML or PDF
func (e *Exporter) SalesReport(ctx context.Context, companyName string, r *report.SalesReport, format Format) (*File, error) {
	name := r.FileBaseName() + "." + string(format)
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteSalesCSV(&buf, r); err != nil {
			return nil, err
		}
		return &File{Name: name, ContentType: format.ContentType(), Data: buf.Bytes()}, nil
	case FormatHTML, FormatPDF:
		html, err := e.engine.Render(TemplateSalesReport, salesReportView{CompanyName: companyName, Report: r})
		if err != nil {
			return nil, err
		}
		return e.htmlOrPDF(ctx, name, html, format)
	}
	return nil, ErrUnsupportedFormat
}

// Invoice renders the invoice print view as HTML or PDF
func (e *Exporter) Invoice(ctx context.Context, view InvoiceView, format Format) (*File, error) {
	if format != FormatHTML && format != FormatPDF {
		return nil, ErrUnsupportedFormat
	}
	html, err := e.engine.Render(TemplateInvoice, view)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s.%s", view.Invoice.InvoiceNumber, format)
	return e.htmlOrPDF(ctx, name, html, format)
}

func (e *Exporter) htmlOrPDF(ctx context.Context, name, html string, format Format) (*File, error) {
	if format == FormatHTML {
		return &File{Name: name, ContentType: format.ContentType(), Data: []byte(html)}, nil
	}
	data, err := e.pdf.RenderPDF(ctx, html)
	if err != nil {
		return nil, err
	}
	return &File{Name: name, ContentType: format.ContentType(), Data: data}, nil
}

// Close releases the PDF renderer
func (e *Exporter) Close() error {
	return e.pdf.Close()
}

// safeLogo lets image data URLs and http(s) links through html/template
func safeLogo(logo string) template.URL {
	switch {
	case strings.HasPrefix(logo, "data:image/"),
		strings.HasPrefix(logo, "https://"),
		strings.HasPrefix(logo, "http://"):
		return template.URL(logo)
	}
	return ""
}
