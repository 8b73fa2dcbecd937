package assistant

import (
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
)

// The model sees flat, camelCase records with money as 2 dp strings

type itemFact struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Total       string `json:"total"`
	ProductID   string `json:"productId,omitempty"`
}

type invoiceFact struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	Client        string     `json:"client"`
	IssueDate     string     `json:"issueDate"`
	DueDate       string     `json:"dueDate"`
	Status        string     `json:"status"`
	Currency      string     `json:"currency"`
	Total         string     `json:"total"`
	AmountPaid    string     `json:"amountPaid"`
	Items         []itemFact `json:"items"`
}

type clientFact struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address,omitempty"`
	HourlyRate string `json:"hourlyRate,omitempty"`
	KycStatus  string `json:"kycStatus"`
}

type productFact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock string `json:"currentStock"`
	ReorderPoint string `json:"reorderPoint,omitempty"`
}

func invoiceFacts(invoices []*billing.Invoice, today valueobject.Date) []invoiceFact {
	facts := make([]invoiceFact, len(invoices))
	for i, inv := range invoices {
		items := make([]itemFact, len(inv.Items))
		for j, item := range inv.Items {
			items[j] = itemFact{
				Description: item.Description,
				Quantity:    item.Quantity.String(),
				Rate:        item.Rate.StringFixed(2),
				Total:       item.Total.StringFixed(2),
				ProductID:   item.ProductID,
			}
		}
		facts[i] = invoiceFact{
			InvoiceNumber: inv.InvoiceNumber,
			Client:        inv.Client.Name,
			IssueDate:     inv.IssueDate.String(),
			DueDate:       inv.DueDate.String(),
			Status:        inv.EffectiveStatus(today).String(),
			Currency:      inv.Currency.String(),
			Total:         inv.Total.StringFixed(2),
			AmountPaid:    inv.AmountPaid.StringFixed(2),
			Items:         items,
		}
	}
	return facts
}

func clientFacts(clients []*partner.Client) []clientFact {
	facts := make([]clientFact, len(clients))
	for i, c := range clients {
		f := clientFact{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.Address, KycStatus: string(c.KycStatus)}
		if c.HourlyRate.IsPositive() {
			f.HourlyRate = c.HourlyRate.StringFixed(2)
		}
		facts[i] = f
	}
	return facts
}

func productFacts(products []*inventory.Product) []productFact {
	facts := make([]productFact, len(products))
	for i, p := range products {
		f := productFact{ID: p.ID, Name: p.Name, SKU: p.SKU, CurrentStock: p.CurrentStock.String()}
		if p.ReorderPoint != nil {
			f.ReorderPoint = p.ReorderPoint.String()
		}
		facts[i] = f
	}
	return facts
}
