package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultSupplier is the supplier name on generated purchase orders
const DefaultSupplier = "Default Supplier"

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusSent  PurchaseOrderStatus = "Sent"
)

// IsValid checks if the status is a valid purchase order status
func (s PurchaseOrderStatus) IsValid() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusSent
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	return s == PurchaseOrderStatusDraft && target == PurchaseOrderStatusSent
}

// PurchaseOrderItem is one product line to reorder
type PurchaseOrderItem struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}

// PurchaseOrder is the aggregate root for a restocking request to a supplier
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber string
	Supplier string
	Items    []PurchaseOrderItem
	Date     valueobject.Date
	Status   PurchaseOrderStatus
	// SourceInvoiceID is the invoice whose shortfall produced this order
	SourceInvoiceID string
}

// PurchaseOrderID builds the id of a generated order from its creation time
func PurchaseOrderID(at time.Time) string {
	return fmt.Sprintf("PO-%d", at.UnixMilli())
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(id, poNumber, supplier string, items []PurchaseOrderItem, date valueobject.Date) (*PurchaseOrder, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_ID", "Purchase order ID cannot be empty")
	}
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "Purchase order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Purchase order must have at least one item")
	}
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Order quantity must be positive")
		}
	}
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		supplier = DefaultSupplier
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		PONumber:          poNumber,
		Supplier:          supplier,
		Items:             append([]PurchaseOrderItem(nil), items...),
		Date:              date,
		Status:            PurchaseOrderStatusDraft,
	}
	return po, nil
}

// Send marks the order as sent to the supplier
func (po *PurchaseOrder) Send() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusSent) {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be sent")
	}
	po.Status = PurchaseOrderStatusSent
	po.Touch()
	po.IncrementVersion()
	return nil
}

// TotalQuantity sums the ordered quantities
func (po *PurchaseOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// Clone returns a copy without pending events
func (po *PurchaseOrder) Clone() *PurchaseOrder {
	cp := *po
	cp.Items = append([]PurchaseOrderItem(nil), po.Items...)
	cp.ClearDomainEvents()
	return &cp
}

// GenerateFromShortfalls builds the draft order that restocks an invoice's
// shortfalls. The caller has already decided there is at least one shortfall.
func GenerateFromShortfalls(invoiceID, poNumber string, shortfalls []Shortfall, now time.Time) (*PurchaseOrder, error) {
	po, err := NewPurchaseOrder(PurchaseOrderID(now), poNumber, DefaultSupplier, ToOrderItems(shortfalls), valueobject.DateOf(now))
	if err != nil {
		return nil, err
	}
	po.SourceInvoiceID = invoiceID
	po.AddDomainEvent(NewPurchaseOrderGeneratedEvent(po))
	return po, nil
}
