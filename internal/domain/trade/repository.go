package trade

import "context"

// PurchaseOrderRepository stores generated purchase orders, newest last
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id string) (*PurchaseOrder, error)
	FindAll(ctx context.Context) ([]*PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error
}
