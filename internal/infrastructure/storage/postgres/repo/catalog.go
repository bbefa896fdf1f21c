// Package repo provides PostgreSQL implementations of the domain repositories.
// Repos resolve their querier from the transaction-in-context, so the same
// code path works inside and outside settlement transactions.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{"id", "name", "price", "is_active", "on_hand", "created_at"}

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CatalogRepo implements catalog.Repository.
type CatalogRepo struct {
	txm *postgres.TxManager
}

// NewCatalogRepo creates a new catalog repository.
func NewCatalogRepo(txm *postgres.TxManager) *CatalogRepo {
	return &CatalogRepo{txm: txm}
}

func (r *CatalogRepo) GetActiveByIDs(ctx context.Context, ids []id.ID) (map[id.ID]catalog.Product, error) {
	if len(ids) == 0 {
		return map[id.ID]catalog.Product{}, nil
	}

	q := builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": ids, "is_active": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	result := make(map[id.ID]catalog.Product, len(rows))
	for _, p := range rows {
		result[p.ID] = p
	}
	return result, nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	q := builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *CatalogRepo) ListActive(ctx context.Context) ([]catalog.Product, error) {
	q := builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}
