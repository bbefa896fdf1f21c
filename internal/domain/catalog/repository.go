package catalog

import (
	"context"

	"tillpoint/internal/core/id"
)

// Repository defines catalog read operations.
// Reads issued inside a transaction observe transaction-consistent data;
// settlement paths rely on that, never on cached views.
type Repository interface {
	// GetActiveByIDs returns the active products among the requested ids.
	// Missing or inactive ids are simply absent from the result.
	GetActiveByIDs(ctx context.Context, ids []id.ID) (map[id.ID]Product, error)

	// GetByID returns a product regardless of active flag.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// ListActive returns all active products.
	ListActive(ctx context.Context) ([]Product, error)
}
