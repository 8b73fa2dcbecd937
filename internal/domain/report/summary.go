package report

import (
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time copy of the collections the dashboard reads
type Snapshot struct {
	Clients  []*partner.Client
	Invoices []*billing.Invoice
	Quotes   []*billing.Quote
	Products []*inventory.Product
	Tasks    []*operations.Task
}

// Dashboard is the aggregated home screen
type Dashboard struct {
	Today            valueobject.Date `json:"today"`
	OutstandingTotal decimal.Decimal  `json:"outstanding_total"`
	OverdueTotal     decimal.Decimal  `json:"overdue_total"`
	OverdueCount     int              `json:"overdue_count"`
	RecentRevenue    decimal.Decimal  `json:"recent_revenue"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthly_revenue"`
	TopServices      []ServiceRanking `json:"top_services"`
	Profitability    Profitability    `json:"profitability"`
	ToDos            []ToDoItem       `json:"todos"`
	ClientCount      int              `json:"client_count"`
	InvoiceCount     int              `json:"invoice_count"`
	QuoteCount       int              `json:"quote_count"`
	LowStockCount    int              `json:"low_stock_count"`
}

// BuildDashboard computes every dashboard figure from one snapshot
func BuildDashboard(s Snapshot, today valueobject.Date) Dashboard {
	return Dashboard{
		Today:            today,
		OutstandingTotal: OutstandingTotal(s.Invoices, today),
		OverdueTotal:     OverdueTotal(s.Invoices, today),
		OverdueCount:     len(OverdueInvoices(s.Invoices, today)),
		RecentRevenue:    RecentRevenue(s.Invoices, today),
		MonthlyRevenue:   MonthlyRevenueSeries(s.Invoices, today),
		TopServices:      TopServices(s.Invoices, TopServicesLimit),
		Profitability:    ComputeProfitability(s.Invoices),
		ToDos:            DailyToDos(s.Invoices, s.Quotes, s.Tasks, today),
		ClientCount:      len(s.Clients),
		InvoiceCount:     len(s.Invoices),
		QuoteCount:       len(s.Quotes),
		LowStockCount:    len(LowStockProducts(s.Products)),
	}
}
