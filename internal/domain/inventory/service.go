package inventory

import (
	"context"
	"fmt"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/pkg/logger"
)

// Service provides business operations for the stock ledger.
// Transactions are managed by the caller (settlement paths).
type Service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Deduction is one stock decrement requested by a settlement.
type Deduction struct {
	ProductID id.ID
	Quantity  int64
}

// DeductForSale decrements on-hand quantity and appends one SALE movement
// per line. Must be called inside the settlement's serializable transaction:
// the caller has already re-checked availability against transaction-consistent
// reads, and the CHECK constraint catches whatever that re-check missed.
func (s *Service) DeductForSale(ctx context.Context, saleID id.ID, deductions []Deduction, note string) error {
	if len(deductions) == 0 {
		return apperror.NewValidation("no stock deductions requested")
	}

	movements := make([]Movement, 0, len(deductions))
	for i, d := range deductions {
		if d.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("deduction %d: quantity must be positive", i))
		}
		if id.IsNil(d.ProductID) {
			return apperror.NewValidation(fmt.Sprintf("deduction %d: product id is required", i))
		}

		if err := s.repo.DecrementOnHand(ctx, d.ProductID, d.Quantity); err != nil {
			return fmt.Errorf("decrement on-hand for %s: %w", d.ProductID, err)
		}

		sid := saleID
		movements = append(movements, Movement{
			ID:        id.New(),
			ProductID: d.ProductID,
			Quantity:  -d.Quantity,
			Type:      MovementSale,
			SaleID:    &sid,
			Note:      note,
		})
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "stock deducted for sale",
		"sale_id", saleID,
		"lines", len(movements),
	)

	return nil
}

// MovementHistory returns the ledger rows for a product, newest first.
func (s *Service) MovementHistory(ctx context.Context, productID id.ID, limit int) ([]Movement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListMovementsByProduct(ctx, productID, limit)
}
