package trade

import (
	"time"

	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// NoPurchaseOrderNeeded is reported when every product on the invoice is in stock
const NoPurchaseOrderNeeded = "All required products are currently in stock. No Purchase Order needed."

// PurchaseOrderItemResponse is one restocking line
type PurchaseOrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              string                      `json:"id"`
	PONumber        string                      `json:"po_number"`
	Supplier        string                      `json:"supplier"`
	Items           []PurchaseOrderItemResponse `json:"items"`
	Date            valueobject.Date            `json:"date"`
	Status          string                      `json:"status"`
	SourceInvoiceID string                      `json:"source_invoice_id,omitempty"`
	TotalQuantity   decimal.Decimal             `json:"total_quantity"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// GenerateResult answers a stock reconciliation request
type GenerateResult struct {
	Generated     bool                   `json:"generated"`
	Message       string                 `json:"message"`
	PurchaseOrder *PurchaseOrderResponse `json:"purchase_order,omitempty"`
}

// ToPurchaseOrderResponse converts a domain purchase order to a response
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, item := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}
	return PurchaseOrderResponse{
		ID:              po.ID,
		PONumber:        po.PONumber,
		Supplier:        po.Supplier,
		Items:           items,
		Date:            po.Date,
		Status:          po.Status.String(),
		SourceInvoiceID: po.SourceInvoiceID,
		TotalQuantity:   po.TotalQuantity(),
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	}
}
