package trade

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/outvoice/backend/internal/application/event"
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/inventory"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/trade"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo   trade.PurchaseOrderRepository
	invoiceRepo billing.InvoiceRepository
	productRepo inventory.ProductRepository
	events      *event.Dispatcher
	now         func() time.Time
	numbering   sync.Mutex
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	invoiceRepo billing.InvoiceRepository,
	productRepo inventory.ProductRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = event.NewDispatcher(publisher)
}

// GenerateForInvoice compares the invoice's product lines with current stock
// and drafts a purchase order for whatever is missing. Stock is not touched.
func (s *PurchaseOrderService) GenerateForInvoice(ctx context.Context, invoiceID string) (*GenerateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "generate_for_invoice",
		telemetry.SpanAttrInvoiceNumber, invoiceID)
	defer span.End()

	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*inventory.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	shortfalls := trade.ComputeShortfalls(inv.Items, func(id string) (*inventory.Product, bool) {
		p, ok := byID[id]
		return p, ok
	})
	if len(shortfalls) == 0 {
		return &GenerateResult{Generated: false, Message: NoPurchaseOrderNeeded}, nil
	}

	s.numbering.Lock()
	defer s.numbering.Unlock()

	existing, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make([]string, len(existing))
	ids := make(map[string]bool, len(existing))
	for i, po := range existing {
		numbers[i] = po.PONumber
		ids[po.ID] = true
	}
	poNumber := billing.NextOrdinalNumber("PO-", 4, len(existing), billing.NumberSet(numbers))

	at := s.now()
	for ids[trade.PurchaseOrderID(at)] {
		at = at.Add(time.Millisecond)
	}
	po, err := trade.GenerateFromShortfalls(inv.ID, poNumber, shortfalls, at)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Purchase order generated",
		zap.String("po_number", po.PONumber),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("lines", len(po.Items)))

	s.events.Flush(ctx, po)
	resp := ToPurchaseOrderResponse(po)
	return &GenerateResult{
		Generated:     true,
		Message:       "Purchase Order " + po.PONumber + " generated for " + inv.InvoiceNumber + ".",
		PurchaseOrder: &resp,
	}, nil
}

// GetByID returns a purchase order
func (s *PurchaseOrderService) GetByID(ctx context.Context, id string) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List returns all purchase orders in creation order
func (s *PurchaseOrderService) List(ctx context.Context) ([]PurchaseOrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PurchaseOrderResponse, len(orders))
	for i, po := range orders {
		out[i] = ToPurchaseOrderResponse(po)
	}
	return out, nil
}

// Send marks a draft order as sent to the supplier
func (s *PurchaseOrderService) Send(ctx context.Context, id string) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Purchase order not found: "+id)
		}
		return nil, err
	}
	if err := po.Send(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}
