package partner

import "context"

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id string) (*Client, error)

	// FindAll returns all clients in insertion order
	FindAll(ctx context.Context) ([]*Client, error)

	// Save creates or replaces a client
	Save(ctx context.Context, client *Client) error
}
