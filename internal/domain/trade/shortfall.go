package trade

import (
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ProductLookup resolves a product by id; ok is false when it does not exist
type ProductLookup func(productID string) (product *inventory.Product, ok bool)

// Shortfall is the quantity of a product missing to fulfil a document
type Shortfall struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}

// ComputeShortfalls compares each product-linked line against current stock.
// Lines without a product and lines whose product no longer exists are skipped.
// Only positive shortfalls are returned, in item order.
func ComputeShortfalls(items []billing.LineItem, lookup ProductLookup) []Shortfall {
	shortfalls := make([]Shortfall, 0)
	for _, item := range items {
		if !item.HasProduct() {
			continue
		}
		product, ok := lookup(item.ProductID)
		if !ok || product == nil {
			continue
		}
		missing := item.Quantity.Sub(product.CurrentStock)
		if missing.IsPositive() {
			shortfalls = append(shortfalls, Shortfall{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    missing,
			})
		}
	}
	return shortfalls
}

// ToOrderItems converts shortfalls into purchase order lines
func ToOrderItems(shortfalls []Shortfall) []PurchaseOrderItem {
	items := make([]PurchaseOrderItem, 0, len(shortfalls))
	for _, s := range shortfalls {
		items = append(items, PurchaseOrderItem(s))
	}
	return items
}
