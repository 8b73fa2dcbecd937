package billing

import "context"

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID (which is its number)
	FindByID(ctx context.Context, id string) (*Invoice, error)

	// FindAll returns every invoice in insertion order
	FindAll(ctx context.Context) ([]*Invoice, error)

	// FindByClient returns the invoices issued to a client
	FindByClient(ctx context.Context, clientID string) ([]*Invoice, error)

	// Save appends a new invoice or replaces an existing one in place
	Save(ctx context.Context, invoice *Invoice) error
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	FindByID(ctx context.Context, id string) (*Quote, error)
	FindAll(ctx context.Context) ([]*Quote, error)
	FindByClient(ctx context.Context, clientID string) ([]*Quote, error)
	Save(ctx context.Context, quote *Quote) error
}
