package inventory

import (
	"context"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a stocked item that line items can refer to.
// The billing engine reads stock levels but never changes them.
type Product struct {
	shared.BaseAggregateRoot
	Name         string
	SKU          string
	CurrentStock decimal.Decimal
	Price        decimal.Decimal
	Cost         decimal.Decimal
	ReorderPoint *decimal.Decimal
}

// ProductDetails carries the editable fields of a product
type ProductDetails struct {
	Name         string
	SKU          string
	CurrentStock decimal.Decimal
	Price        decimal.Decimal
	Cost         decimal.Decimal
	ReorderPoint *decimal.Decimal
}

// NewProduct creates a product
func NewProduct(id string, d ProductDetails) (*Product, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_ID", "Product ID cannot be empty")
	}
	p := &Product{BaseAggregateRoot: shared.NewBaseAggregateRoot(id)}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the product's details, stock level included
func (p *Product) Update(d ProductDetails) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Product) apply(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if d.CurrentStock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if d.Price.IsNegative() || d.Cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price and cost cannot be negative")
	}
	if d.ReorderPoint != nil && d.ReorderPoint.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_POINT", "Reorder point cannot be negative")
	}
	p.Name = name
	p.SKU = strings.TrimSpace(d.SKU)
	p.CurrentStock = d.CurrentStock
	p.Price = d.Price
	p.Cost = d.Cost
	p.ReorderPoint = d.ReorderPoint
	return nil
}

// NeedsReorder reports whether stock has fallen to the reorder point
func (p *Product) NeedsReorder() bool {
	if p.ReorderPoint == nil {
		return false
	}
	return p.CurrentStock.LessThanOrEqual(*p.ReorderPoint)
}

// Clone returns a copy without pending events
func (p *Product) Clone() *Product {
	cp := *p
	if p.ReorderPoint != nil {
		rp := *p.ReorderPoint
		cp.ReorderPoint = &rp
	}
	cp.ClearDomainEvents()
	return &cp
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	Save(ctx context.Context, product *Product) error
}
