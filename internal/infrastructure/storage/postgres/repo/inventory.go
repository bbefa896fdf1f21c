package repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/inventory"
	"tillpoint/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	txm *postgres.TxManager
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{txm: txm}
}

// DecrementOnHand subtracts qty without clamping; the products_on_hand_check
// constraint fires if a race drove the quantity negative, and the tx manager
// turns that into a rerun of the settlement.
func (r *InventoryRepo) DecrementOnHand(ctx context.Context, productID id.ID, qty int64) error {
	sql := "UPDATE " + productsTable + " SET on_hand = on_hand - $2 WHERE id = $1"
	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, productID, qty)
	if err != nil {
		if postgres.IsStockCheckViolation(err) {
			return apperror.NewInsufficientStock("race condition detected").WithCause(err)
		}
		return fmt.Errorf("decrement on_hand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewProductNotFound(productID.String())
	}
	return nil
}

func (r *InventoryRepo) CreateMovements(ctx context.Context, movements []inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	q := builder().
		Insert(movementsTable).
		Columns("id", "product_id", "quantity", "movement_type", "sale_id", "note")

	for _, m := range movements {
		q = q.Values(m.ID, m.ProductID, m.Quantity, m.Type, m.SaleID, m.Note)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert movements: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

func (r *InventoryRepo) ListMovementsByProduct(ctx context.Context, productID id.ID, limit int) ([]inventory.Movement, error) {
	q := builder().
		Select("id", "product_id", "quantity", "movement_type", "sale_id", "note", "created_at").
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []inventory.Movement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return rows, nil
}
