package inventory

import (
	"context"

	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProductService handles product catalogue operations
type ProductService struct {
	productRepo inventory.ProductRepository
	newID       func() string
}

// NewProductService creates a new ProductService
func NewProductService(productRepo inventory.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		newID:       func() string { return shared.NewID("prod") },
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req SaveProductRequest) (*ProductResponse, error) {
	p, err := inventory.NewProduct(s.newID(), req.details())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))
	resp := ToProductResponse(p)
	return &resp, nil
}

// Update replaces a product's details, stock level included
func (s *ProductService) Update(ctx context.Context, id string, req SaveProductRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if p.NeedsReorder() {
		logger.L(ctx).Info("Product at reorder point",
			zap.String("product_id", p.ID),
			zap.String("current_stock", p.CurrentStock.String()))
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, id string) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List returns all products; lowStockOnly keeps those at or below their reorder point
func (s *ProductService) List(ctx context.Context, lowStockOnly bool) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		if lowStockOnly && !p.NeedsReorder() {
			continue
		}
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}
