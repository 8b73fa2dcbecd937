package billing

import (
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ==================== Line Item DTOs ====================

// LineItemInput is one billable row in a save request
type LineItemInput struct {
	Description string           `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        decimal.Decimal  `json:"rate"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	ProductID   string           `json:"product_id,omitempty"`
}

// LineItemResponse is one billable row in a response
type LineItemResponse struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        decimal.Decimal  `json:"rate"`
	Total       decimal.Decimal  `json:"total"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	ProductID   string           `json:"product_id,omitempty"`
}

// ToLineItems turns request rows into domain line items
func ToLineItems(in []LineItemInput) ([]billing.LineItem, error) {
	items := make([]billing.LineItem, 0, len(in))
	for _, row := range in {
		item, err := billing.NewLineItem(strings.TrimSpace(row.Description), row.Quantity, row.Rate)
		if err != nil {
			return nil, err
		}
		if row.Cost != nil {
			item.SetCost(*row.Cost)
		}
		items = append(items, item.WithProduct(row.ProductID))
	}
	return items, nil
}

// ToLineItemResponses converts domain line items to responses
func ToLineItemResponses(items []billing.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Total:       item.Total.Round(2),
			Cost:        item.Cost,
			ProductID:   item.ProductID,
		}
	}
	return out
}

// ClientSnapshotResponse is the client data frozen on a document
type ClientSnapshotResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	KycStatus  string          `json:"kyc_status"`
}

// ToClientSnapshotResponse converts a snapshot to a response
func ToClientSnapshotResponse(c partner.ClientSnapshot) ClientSnapshotResponse {
	return ClientSnapshotResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Address:    c.Address,
		HourlyRate: c.HourlyRate,
		KycStatus:  string(c.KycStatus),
	}
}

// ==================== Invoice DTOs ====================

// SaveInvoiceRequest creates an invoice (empty ID) or replaces one in place
type SaveInvoiceRequest struct {
	ID        string           `json:"id"`
	ClientID  string           `json:"client_id"`
	IssueDate valueobject.Date `json:"issue_date"`
	DueDate   valueobject.Date `json:"due_date"`
	Items     []LineItemInput  `json:"items" binding:"dive"`
	Currency  string           `json:"currency" binding:"omitempty,len=3"`
	Notes     string           `json:"notes" binding:"max=2000"`
	// Status optionally moves the invoice along its status graph after saving
	Status string `json:"status" binding:"omitempty,oneof=Draft Pending Paid Overdue Partial"`
}

// InvoiceListFilter narrows the invoice list
type InvoiceListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=Draft Pending Paid Overdue Partial"`
	ClientID string `form:"client_id"`
}

// MarkPaidRequest settles an invoice, or records a part payment when Amount is set
type MarkPaidRequest struct {
	PaymentMethod string           `json:"payment_method" binding:"max=50"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
}

// InvoiceResponse represents an invoice in API responses.
// Status is the effective status as of the request day.
type InvoiceResponse struct {
	ID            string                 `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Client        ClientSnapshotResponse `json:"client"`
	IssueDate     valueobject.Date       `json:"issue_date"`
	DueDate       valueobject.Date       `json:"due_date"`
	Items         []LineItemResponse     `json:"items"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	TaxAmount     decimal.Decimal        `json:"tax_amount"`
	Total         decimal.Decimal        `json:"total"`
	AmountPaid    decimal.Decimal        `json:"amount_paid"`
	Balance       decimal.Decimal        `json:"balance"`
	Currency      string                 `json:"currency"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	PaymentMethod string                 `json:"payment_method,omitempty"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to a response.
// Money is rounded to cents.
func ToInvoiceResponse(inv *billing.Invoice, today valueobject.Date) InvoiceResponse {
	totals := inv.Totals().Rounded()
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Client:        ToClientSnapshotResponse(inv.Client),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Items:         ToLineItemResponses(inv.Items),
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		AmountPaid:    inv.AmountPaid.Round(2),
		Balance:       inv.Balance().Round(2),
		Currency:      inv.Currency.String(),
		Status:        inv.EffectiveStatus(today).String(),
		Notes:         inv.Notes,
		PaymentMethod: inv.PaymentMethod,
		Version:       inv.GetVersion(),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a list of invoices
func ToInvoiceResponses(invoices []*billing.Invoice, today valueobject.Date) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = ToInvoiceResponse(inv, today)
	}
	return out
}

// ==================== Quote DTOs ====================

// SaveQuoteRequest creates a quote (empty ID) or replaces one in place
type SaveQuoteRequest struct {
	ID         string           `json:"id"`
	ClientID   string           `json:"client_id"`
	IssueDate  valueobject.Date `json:"issue_date"`
	ExpiryDate valueobject.Date `json:"expiry_date"`
	Items      []LineItemInput  `json:"items" binding:"dive"`
	Currency   string           `json:"currency" binding:"omitempty,len=3"`
	Notes      string           `json:"notes" binding:"max=2000"`
}

// QuoteListFilter narrows the quote list
type QuoteListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=Draft Sent Accepted Declined"`
	ClientID string `form:"client_id"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID          string                 `json:"id"`
	QuoteNumber string                 `json:"quote_number"`
	Client      ClientSnapshotResponse `json:"client"`
	IssueDate   valueobject.Date       `json:"issue_date"`
	ExpiryDate  valueobject.Date       `json:"expiry_date"`
	Items       []LineItemResponse     `json:"items"`
	Subtotal    decimal.Decimal        `json:"subtotal"`
	TaxAmount   decimal.Decimal        `json:"tax_amount"`
	Total       decimal.Decimal        `json:"total"`
	Currency    string                 `json:"currency"`
	Status      string                 `json:"status"`
	Notes       string                 `json:"notes,omitempty"`
	Version     int                    `json:"version"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ToQuoteResponse converts a domain quote to a response
func ToQuoteResponse(q *billing.Quote) QuoteResponse {
	totals := q.Totals().Rounded()
	return QuoteResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		Client:      ToClientSnapshotResponse(q.Client),
		IssueDate:   q.IssueDate,
		ExpiryDate:  q.ExpiryDate,
		Items:       ToLineItemResponses(q.Items),
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		Total:       totals.Total,
		Currency:    q.Currency.String(),
		Status:      q.Status.String(),
		Notes:       q.Notes,
		Version:     q.GetVersion(),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// ToQuoteResponses converts a list of quotes
func ToQuoteResponses(quotes []*billing.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = ToQuoteResponse(q)
	}
	return out
}

func parseCurrency(code string) valueobject.Currency {
	return valueobject.Currency(strings.ToUpper(strings.TrimSpace(code)))
}
