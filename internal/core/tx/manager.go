// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on the PostgreSQL
// implementation in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// RunSerializable executes fn at SERIALIZABLE isolation.
	// Settlement paths must use this: it is the sole mechanism preventing
	// two concurrent settlements from both decrementing the same stock
	// past zero. Serialization failures are retried a bounded number of
	// times before the conflict surfaces to the caller.
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
