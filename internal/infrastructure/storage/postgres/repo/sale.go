package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	txm *postgres.TxManager
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{txm: txm}
}

func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	querier := r.txm.GetQuerier(ctx)

	insertSale := builder().
		Insert(salesTable).
		Columns("id", "cashier_id", "customer_name", "total", "status").
		Values(s.ID, s.CashierID, s.CustomerName, s.Total, s.Status)

	sql, args, err := insertSale.ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	if len(s.Items) == 0 {
		return nil
	}

	insertItems := builder().
		Insert(saleItemsTable).
		Columns("id", "sale_id", "product_id", "product_name", "quantity", "unit_price", "subtotal")
	for _, item := range s.Items {
		insertItems = insertItems.Values(
			item.ID, s.ID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.Subtotal,
		)
	}

	sql, args, err = insertItems.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}

	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	querier := r.txm.GetQuerier(ctx)

	q := builder().
		Select("id", "cashier_id", "customer_name", "total", "status", "created_at").
		From(salesTable).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sale
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	itemsQ := builder().
		Select("id", "sale_id", "product_id", "product_name", "quantity", "unit_price", "subtotal").
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("product_name")

	sql, args, err = itemsQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &s.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}

	return &s, nil
}

// MarkPaid transitions PENDING -> PAID. The status predicate makes racing
// settlements yield exactly one winner: the loser affects zero rows.
func (r *SaleRepo) MarkPaid(ctx context.Context, saleID id.ID) (bool, error) {
	sql := "UPDATE " + salesTable + " SET status = $2 WHERE id = $1 AND status = $3"
	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, saleID, sale.StatusPaid, sale.StatusPending)
	if err != nil {
		return false, fmt.Errorf("mark sale paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
