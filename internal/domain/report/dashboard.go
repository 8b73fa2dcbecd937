package report

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	// RevenueWindowDays is the trailing window of the recent revenue figure
	RevenueWindowDays = 30
	// MonthlySeriesLength is how many calendar months the revenue chart covers
	MonthlySeriesLength = 6
	// TopServicesLimit caps the top services ranking
	TopServicesLimit = 5
)

var hundred = decimal.NewFromInt(100)

// MonthKey identifies a calendar month; it sorts chronologically
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Label is the short display form, e.g. "Jul 2024"
func (k MonthKey) Label() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Compare orders month keys chronologically
func (k MonthKey) Compare(other MonthKey) int {
	if c := cmp.Compare(k.Year, other.Year); c != 0 {
		return c
	}
	return cmp.Compare(k.Month, other.Month)
}

func monthOf(d valueobject.Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// MonthlyRevenue is one bar of the revenue chart
type MonthlyRevenue struct {
	Month   MonthKey        `json:"month"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ServiceRanking is a line description with its summed quantity
type ServiceRanking struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// Profitability summarises revenue against recorded cost over paid invoices
type Profitability struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Margin  decimal.Decimal `json:"margin"` // Percentage
}

// OutstandingTotal sums the unpaid balance of Pending, Overdue and Partial invoices
func OutstandingTotal(invoices []*billing.Invoice, today valueobject.Date) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.EffectiveStatus(today).IsOutstanding() {
			total = total.Add(inv.Balance())
		}
	}
	return total
}

// OverdueInvoices returns the invoices that read as Overdue today, in order
func OverdueInvoices(invoices []*billing.Invoice, today valueobject.Date) []*billing.Invoice {
	out := make([]*billing.Invoice, 0)
	for _, inv := range invoices {
		if inv.IsOverdue(today) {
			out = append(out, inv)
		}
	}
	return out
}

// OverdueTotal sums the unpaid balance of overdue invoices
func OverdueTotal(invoices []*billing.Invoice, today valueobject.Date) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range OverdueInvoices(invoices, today) {
		total = total.Add(inv.Balance())
	}
	return total
}

// RecentRevenue sums paid invoices issued within the last 30 days, today
// being the last of them
func RecentRevenue(invoices []*billing.Invoice, today valueobject.Date) decimal.Decimal {
	start := today.AddDays(-RevenueWindowDays + 1)
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.Status == billing.InvoiceStatusPaid && inv.IssueDate.Between(start, today) {
			total = total.Add(inv.Total)
		}
	}
	return total
}

// MonthlyRevenueSeries groups paid invoice totals by month of issue for the
// six calendar months ending with the current one. Months without revenue
// are present with zero.
func MonthlyRevenueSeries(invoices []*billing.Invoice, today valueobject.Date) []MonthlyRevenue {
	series := make([]MonthlyRevenue, MonthlySeriesLength)
	index := make(map[MonthKey]int, MonthlySeriesLength)
	first := today.StartOfMonth()
	for i := range MonthlySeriesLength {
		key := monthOf(first.AddMonths(i - MonthlySeriesLength + 1))
		series[i] = MonthlyRevenue{Month: key, Label: key.Label(), Revenue: decimal.Zero}
		index[key] = i
	}
	for _, inv := range invoices {
		if inv.Status != billing.InvoiceStatusPaid || inv.IssueDate.IsZero() {
			continue
		}
		if i, ok := index[monthOf(inv.IssueDate)]; ok {
			series[i].Revenue = series[i].Revenue.Add(inv.Total)
		}
	}
	return series
}

// TopServices ranks line descriptions across all invoices by summed quantity.
// Ties keep the order in which the description first appeared.
func TopServices(invoices []*billing.Invoice, limit int) []ServiceRanking {
	ranking := make([]ServiceRanking, 0)
	index := make(map[string]int)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			desc := strings.TrimSpace(item.Description)
			if desc == "" {
				continue
			}
			i, ok := index[desc]
			if !ok {
				i = len(ranking)
				index[desc] = i
				ranking = append(ranking, ServiceRanking{Description: desc, Quantity: decimal.Zero})
			}
			ranking[i].Quantity = ranking[i].Quantity.Add(item.Quantity)
		}
	}
	slices.SortStableFunc(ranking, func(a, b ServiceRanking) int {
		return b.Quantity.Cmp(a.Quantity)
	})
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

// ComputeProfitability compares revenue with line costs over paid invoices.
// Margin is zero when there is no revenue.
func ComputeProfitability(invoices []*billing.Invoice) Profitability {
	revenue := decimal.Zero
	cost := decimal.Zero
	for _, inv := range invoices {
		if inv.Status != billing.InvoiceStatusPaid {
			continue
		}
		revenue = revenue.Add(inv.Total)
		for _, item := range inv.Items {
			cost = cost.Add(item.LineCost())
		}
	}
	profit := revenue.Sub(cost)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(hundred)
	}
	return Profitability{Revenue: revenue, Cost: cost, Profit: profit, Margin: margin}
}

// LowStockProducts returns products at or below their reorder point
func LowStockProducts(products []*inventory.Product) []*inventory.Product {
	out := make([]*inventory.Product, 0)
	for _, p := range products {
		if p.NeedsReorder() {
			out = append(out, p)
		}
	}
	return out
}
