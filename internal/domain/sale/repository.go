package sale

import (
	"context"

	"tillpoint/internal/core/id"
)

// Repository defines persistence for the Sale aggregate.
type Repository interface {
	// Create inserts the sale and its items. Callers wrap this in a
	// transaction so the aggregate appears atomically.
	Create(ctx context.Context, s *Sale) error

	// GetByID returns the sale with its items, or nil if absent.
	// Inside a transaction this read is transaction-consistent, which the
	// settlement paths depend on.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// MarkPaid transitions the sale PENDING -> PAID. It must affect zero
	// rows if the sale is no longer pending, and report that via the
	// returned bool, so racing settlements yield exactly one winner.
	MarkPaid(ctx context.Context, saleID id.ID) (bool, error)
}
