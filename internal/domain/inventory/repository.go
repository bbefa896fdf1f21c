package inventory

import (
	"context"

	"tillpoint/internal/core/id"
)

// Repository defines operations on the stock ledger.
// Mutations are only called inside a serializable transaction opened by a
// settlement path; the products.on_hand CHECK constraint is the storage-level
// backstop if two transactions slip past the in-transaction re-check.
type Repository interface {
	// DecrementOnHand subtracts qty from a product's on-hand quantity.
	// Implementations must let the non-negativity constraint fire rather
	// than clamping, so races surface as errors.
	DecrementOnHand(ctx context.Context, productID id.ID, qty int64) error

	// CreateMovements batch inserts ledger rows. Rows are never updated
	// or deleted afterwards.
	CreateMovements(ctx context.Context, movements []Movement) error

	// ListMovementsByProduct returns the movement history for a product,
	// newest first.
	ListMovementsByProduct(ctx context.Context, productID id.ID, limit int) ([]Movement, error)
}
