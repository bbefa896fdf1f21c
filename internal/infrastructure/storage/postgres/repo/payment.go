package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/infrastructure/storage/postgres"
)

const paymentsTable = "payments"

var paymentColumns = []string{
	"id", "sale_id", "method", "provider", "amount", "status",
	"correlation_id", "redirect_url", "raw_notification", "created_at",
}

// PaymentRepo implements payment.Repository.
type PaymentRepo struct {
	txm *postgres.TxManager
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txm *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txm: txm}
}

func (r *PaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	q := builder().
		Insert(paymentsTable).
		Columns("id", "sale_id", "method", "provider", "amount", "status", "correlation_id", "redirect_url").
		Values(p.ID, p.SaleID, p.Method, p.Provider, p.Amount, p.Status, p.CorrelationID, p.RedirectURL)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsPendingPaymentConflict(err) {
			return apperror.NewPaymentPending(p.SaleID.String()).WithCause(err)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetBySaleID(ctx context.Context, saleID id.ID) ([]payment.Payment, error) {
	q := builder().
		Select(paymentColumns...).
		From(paymentsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []payment.Payment
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	return rows, nil
}

func (r *PaymentRepo) GetByCorrelationID(ctx context.Context, correlationID string) (*payment.Payment, error) {
	q := builder().
		Select(paymentColumns...).
		From(paymentsTable).
		Where(squirrel.Eq{"correlation_id": correlationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p payment.Payment
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by correlation id: %w", err)
	}
	return &p, nil
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, paymentID id.ID, status payment.Status) error {
	sql := "UPDATE " + paymentsTable + " SET status = $2 WHERE id = $1"
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, paymentID, status); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

func (r *PaymentRepo) UpdateGatewayRef(ctx context.Context, paymentID id.ID, correlationID, redirectURL string) error {
	sql := "UPDATE " + paymentsTable + " SET correlation_id = $2, redirect_url = $3 WHERE id = $1"
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, paymentID, correlationID, redirectURL); err != nil {
		return fmt.Errorf("update gateway reference: %w", err)
	}
	return nil
}

func (r *PaymentRepo) RecordNotification(ctx context.Context, paymentID id.ID, status payment.Status, raw []byte) error {
	sql := "UPDATE " + paymentsTable + " SET status = $2, raw_notification = $3 WHERE id = $1"
	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, paymentID, status, raw); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}
