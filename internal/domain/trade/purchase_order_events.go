package trade

import (
	"github.com/outvoice/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderGenerated = "PurchaseOrderGenerated"
)

// PurchaseOrderGeneratedEvent is raised when an invoice's stock shortfall produced an order
type PurchaseOrderGeneratedEvent struct {
	shared.BaseDomainEvent
	PONumber        string `json:"po_number"`
	SourceInvoiceID string `json:"source_invoice_id"`
	ItemCount       int    `json:"item_count"`
}

// NewPurchaseOrderGeneratedEvent creates a new PurchaseOrderGeneratedEvent
func NewPurchaseOrderGeneratedEvent(po *PurchaseOrder) *PurchaseOrderGeneratedEvent {
	return &PurchaseOrderGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderGenerated, AggregateTypePurchaseOrder, po.ID),
		PONumber:        po.PONumber,
		SourceInvoiceID: po.SourceInvoiceID,
		ItemCount:       len(po.Items),
	}
}
