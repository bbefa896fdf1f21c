package sale

import (
	"context"
	"fmt"
	"sort"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/core/tx"
	"tillpoint/internal/core/types"
	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/observability"
	"tillpoint/pkg/logger"
)

// Service builds and reads Sale aggregates.
// Settlement (cash, gateway, webhook) lives in the settlement package.
type Service struct {
	repo      Repository
	catalog   catalog.Repository
	txManager tx.Manager
}

// NewService creates a new sale service.
func NewService(repo Repository, catalogRepo catalog.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalogRepo,
		txManager: txManager,
	}
}

// CartLine is one requested line of a cart.
type CartLine struct {
	ProductID id.ID
	Quantity  int64
}

// CreateInput is the request to build a sale.
type CreateInput struct {
	CashierID    string
	CustomerName string
	Lines        []CartLine
}

// Create validates the cart, snapshots prices and persists the aggregate
// with status PENDING.
//
// The stock comparison here is a pre-check against current on-hand values,
// not a reservation: concurrent sales may still consume stock before
// settlement, which re-checks inside its serializable transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Sale, error) {
	if in.CashierID == "" {
		return nil, apperror.NewValidation("cashier id is required")
	}
	if len(in.Lines) == 0 {
		return nil, apperror.NewValidation("cart must contain at least one item")
	}

	// Repeated product ids are merged by summing quantities.
	merged := make(map[id.ID]int64, len(in.Lines))
	order := make([]id.ID, 0, len(in.Lines))
	for i, line := range in.Lines {
		if id.IsNil(line.ProductID) {
			return nil, apperror.NewValidation(fmt.Sprintf("line %d: product id is required", i))
		}
		if line.Quantity <= 0 {
			return nil, apperror.NewValidation(fmt.Sprintf("line %d: quantity must be a positive integer", i))
		}
		if _, seen := merged[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		merged[line.ProductID] += line.Quantity
	}

	products, err := s.catalog.GetActiveByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	var missing []string
	for _, pid := range order {
		if _, ok := products[pid]; !ok {
			missing = append(missing, pid.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperror.NewProductNotFound(missing[0]).WithDetail("missing", missing)
	}

	var shortfall []apperror.ShortfallDetail
	for _, pid := range order {
		p := products[pid]
		if merged[pid] > p.OnHand {
			shortfall = append(shortfall, apperror.ShortfallDetail{
				ProductID: pid.String(),
				Requested: merged[pid],
				Available: p.OnHand,
			})
		}
	}
	if len(shortfall) > 0 {
		return nil, apperror.NewInsufficientStock("insufficient stock for requested quantities").
			WithShortfall(shortfall)
	}

	newSale := &Sale{
		ID:           id.New(),
		CashierID:    in.CashierID,
		CustomerName: in.CustomerName,
		Status:       StatusPending,
		Items:        make([]Item, 0, len(order)),
	}

	for _, pid := range order {
		p := products[pid]
		qty := merged[pid]
		subtotal := p.Price * types.MinorUnits(qty)
		newSale.Items = append(newSale.Items, Item{
			ID:          id.New(),
			SaleID:      newSale.ID,
			ProductID:   pid,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
		})
		newSale.Total += subtotal
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, newSale)
	})
	if err != nil {
		return nil, fmt.Errorf("persist sale: %w", err)
	}

	observability.SalesCreated.Inc()
	logger.Info(ctx, "sale created",
		"sale_id", newSale.ID,
		"cashier_id", newSale.CashierID,
		"lines", len(newSale.Items),
		"total", newSale.Total,
	)

	return newSale, nil
}

// GetByID returns the sale with items or SaleNotFound.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	found, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperror.NewSaleNotFound(saleID.String())
	}
	return found, nil
}
