package payment

import (
	"context"

	"tillpoint/internal/core/id"
)

// Repository defines persistence for payments.
// A partial unique index on (sale_id) WHERE status = 'PENDING' enforces the
// at-most-one-outstanding-charge invariant at the storage level.
type Repository interface {
	// Create inserts a new payment row.
	Create(ctx context.Context, p *Payment) error

	// GetBySaleID returns all payments for a sale, oldest first.
	GetBySaleID(ctx context.Context, saleID id.ID) ([]Payment, error)

	// GetByCorrelationID returns the payment matching a gateway order id,
	// or nil if this system never issued that order.
	GetByCorrelationID(ctx context.Context, correlationID string) (*Payment, error)

	// UpdateStatus sets the payment status.
	UpdateStatus(ctx context.Context, paymentID id.ID, status Status) error

	// UpdateGatewayRef stores the correlation id and redirect URL returned
	// by the gateway after a successful charge creation.
	UpdateGatewayRef(ctx context.Context, paymentID id.ID, correlationID, redirectURL string) error

	// RecordNotification persists the mapped status together with the raw
	// gateway payload (diagnostic only).
	RecordNotification(ctx context.Context, paymentID id.ID, status Status, raw []byte) error
}

// HasPending reports whether any payment in the slice is still PENDING.
func HasPending(payments []Payment) bool {
	for _, p := range payments {
		if p.Status == StatusPending {
			return true
		}
	}
	return false
}
