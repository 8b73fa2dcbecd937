// Package report serves the dashboard and sales report projections.
package report

import (
	"context"
	"time"

	appbilling "github.com/outvoice/backend/internal/application/billing"
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/report"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/export"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesExporter renders a sales report for download
type SalesExporter interface {
	SalesReport(ctx context.Context, companyName string, r *report.SalesReport, format export.Format) (*export.File, error)
}

// ReportService provides application-level report operations
type ReportService struct {
	invoiceRepo billing.InvoiceRepository
	quoteRepo   billing.QuoteRepository
	clientRepo  partner.ClientRepository
	productRepo inventory.ProductRepository
	taskRepo    operations.TaskRepository
	profileRepo company.ProfileRepository
	exporter    SalesExporter
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	invoiceRepo billing.InvoiceRepository,
	quoteRepo billing.QuoteRepository,
	clientRepo partner.ClientRepository,
	productRepo inventory.ProductRepository,
	taskRepo operations.TaskRepository,
	profileRepo company.ProfileRepository,
) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		taskRepo:    taskRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// SetExporter sets the renderer used by ExportSales
func (s *ReportService) SetExporter(e SalesExporter) {
	s.exporter = e
}

// ===================== Request / Response =====================

// SalesReportRequest selects the issue date range, both ends inclusive
type SalesReportRequest struct {
	Start  string `form:"start"`
	End    string `form:"end"`
	Format string `form:"format"`
}

// SalesReportResponse is the sales report in API responses
type SalesReportResponse struct {
	Start    valueobject.Date             `json:"start"`
	End      valueobject.Date             `json:"end"`
	Count    int                          `json:"count"`
	Total    decimal.Decimal              `json:"total"`
	Invoices []appbilling.InvoiceResponse `json:"invoices"`
}

// ===================== Report Operations =====================

// Dashboard computes the home screen figures from the current collections
func (s *ReportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	d := report.BuildDashboard(snap, valueobject.DateOf(s.now()))
	return &d, nil
}

func (s *ReportService) snapshot(ctx context.Context) (report.Snapshot, error) {
	var (
		snap report.Snapshot
		err  error
	)
	if snap.Clients, err = s.clientRepo.FindAll(ctx); err != nil {
		return snap, err
	}
	if snap.Invoices, err = s.invoiceRepo.FindAll(ctx); err != nil {
		return snap, err
	}
	if snap.Quotes, err = s.quoteRepo.FindAll(ctx); err != nil {
		return snap, err
	}
	if snap.Products, err = s.productRepo.FindAll(ctx); err != nil {
		return snap, err
	}
	if snap.Tasks, err = s.taskRepo.FindAll(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *ReportService) sales(ctx context.Context, req SalesReportRequest) (*report.SalesReport, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	start, err := valueobject.ParseDate(req.Start)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", err.Error())
	}
	end, err := valueobject.ParseDate(req.End)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", err.Error())
	}
	return report.BuildSalesReport(invoices, start, end)
}

// Sales lists the invoices issued in the requested range
func (s *ReportService) Sales(ctx context.Context, req SalesReportRequest) (*SalesReportResponse, error) {
	r, err := s.sales(ctx, req)
	if err != nil {
		return nil, err
	}
	today := valueobject.DateOf(s.now())
	out := make([]appbilling.InvoiceResponse, len(r.Invoices))
	for i, inv := range r.Invoices {
		out[i] = appbilling.ToInvoiceResponse(inv, today)
	}
	return &SalesReportResponse{Start: r.Start, End: r.End, Count: r.Count, Total: r.Total, Invoices: out}, nil
}

// ExportSales renders the sales report as CSV (the default), HTML or PDF
func (s *ReportService) ExportSales(ctx context.Context, req SalesReportRequest) (*export.File, error) {
	if s.exporter == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Report export is not configured")
	}
	format, err := export.ParseFormat(req.Format, export.FormatCSV)
	if err != nil {
		return nil, err
	}
	r, err := s.sales(ctx, req)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export_sales", telemetry.SpanAttrExportFormat, string(format))
	defer span.End()

	file, err := s.exporter.SalesReport(ctx, profile.Name, r, format)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.L(ctx).Info("Sales report exported",
		zap.String("format", string(format)),
		zap.Int("invoices", r.Count),
		zap.String("file", file.Name))
	return file, nil
}
