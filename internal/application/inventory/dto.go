package inventory

import (
	"time"

	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// SaveProductRequest creates or updates a product
type SaveProductRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	SKU          string           `json:"sku" binding:"max=50"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
}

func (r SaveProductRequest) details() inventory.ProductDetails {
	return inventory.ProductDetails{
		Name:         r.Name,
		SKU:          r.SKU,
		CurrentStock: r.CurrentStock,
		Price:        r.Price,
		Cost:         r.Cost,
		ReorderPoint: r.ReorderPoint,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
	NeedsReorder bool             `json:"needs_reorder"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		CurrentStock: p.CurrentStock,
		Price:        p.Price,
		Cost:         p.Cost,
		ReorderPoint: p.ReorderPoint,
		NeedsReorder: p.NeedsReorder(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
