// Package settlement implements the three settlement paths: cash payment,
// gateway payment initiation and webhook reconciliation. All three converge
// on the same invariant: a sale transitions PENDING -> PAID at most once,
// and stock is decremented at most once per sale.
package settlement

import (
	"context"

	"tillpoint/internal/core/id"
	"tillpoint/internal/core/tx"
	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/domain/inventory"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/gateway"
)

// CacheInvalidator drops cached product views after a write path changed
// on-hand quantities. Implemented by catalog.Service.
type CacheInvalidator interface {
	InvalidateProducts(ctx context.Context, ids []id.ID)
}

// noopInvalidator is used when no cache is wired.
type noopInvalidator struct{}

func (noopInvalidator) InvalidateProducts(context.Context, []id.ID) {}

// Service coordinates settlements across the sale, payment and inventory
// stores. Every stock-affecting step runs inside a serializable transaction;
// the outbound gateway call never does.
type Service struct {
	sales       sale.Repository
	payments    payment.Repository
	catalog     catalog.Repository
	inventory   *inventory.Service
	gateway     gateway.Client
	txManager   tx.Manager
	serverKey   string
	invalidator CacheInvalidator
}

// NewService creates a settlement service.
func NewService(
	sales sale.Repository,
	payments payment.Repository,
	catalogRepo catalog.Repository,
	inventorySvc *inventory.Service,
	gatewayClient gateway.Client,
	txManager tx.Manager,
	serverKey string,
	invalidator CacheInvalidator,
) *Service {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &Service{
		sales:       sales,
		payments:    payments,
		catalog:     catalogRepo,
		inventory:   inventorySvc,
		gateway:     gatewayClient,
		txManager:   txManager,
		serverKey:   serverKey,
		invalidator: invalidator,
	}
}
