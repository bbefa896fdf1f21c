package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/tx"
	"tillpoint/pkg/logger"
)

var tracer = otel.Tracer("tillpoint/tx")

// Compile-time check that TxManager implements tx.Manager interface.
var _ tx.Manager = (*TxManager)(nil)

// serializableRetries is how many times a settlement transaction is rerun
// after a serialization failure before the conflict surfaces to the caller.
const serializableRetries = 3

// TxOptions configures transaction behavior.
type TxOptions struct {
	IsolationLevel   pgx.TxIsoLevel
	AccessMode       pgx.TxAccessMode
	StatementTimeout time.Duration
}

// DefaultTxOptions returns production-safe defaults.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		AccessMode:       pgx.ReadWrite,
		StatementTimeout: 30 * time.Second,
	}
}

// SerializableTxOptions for settlement paths: serializable isolation is the
// sole mechanism preventing two concurrent settlements from both observing
// sufficient stock and decrementing past zero.
func SerializableTxOptions() TxOptions {
	opts := DefaultTxOptions()
	opts.IsolationLevel = pgx.Serializable
	return opts
}

// TxManager manages database transactions with tx-in-context propagation,
// statement timeout protection and tracing.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

// txKey is the context key for active transaction.
type txKey struct{}

// Tx wraps pgx.Tx.
type Tx struct {
	pgx.Tx
}

// RunInTransaction executes fn within a transaction.
// If a transaction already exists in ctx, it will be reused.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.runWithOptions(ctx, DefaultTxOptions(), fn)
}

// RunSerializable executes fn at SERIALIZABLE isolation, retrying a bounded
// number of times on serialization failures and on the on-hand CHECK
// constraint firing: both mean a concurrent settlement raced this one, and
// the rerun's in-transaction re-checks turn the race into the proper domain
// error (SaleAlreadyPaid or InsufficientStock).
func (m *TxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= serializableRetries; attempt++ {
		err = m.runWithOptions(ctx, SerializableTxOptions(), fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		logger.Warn(ctx, "serializable transaction conflict, retrying",
			"attempt", attempt+1,
			"error", err,
		)
	}
	// Retries exhausted under sustained contention.
	return apperror.NewInsufficientStock("race condition detected").WithCause(err)
}

// runWithOptions executes fn with custom transaction options.
func (m *TxManager) runWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsolationLevel)),
		))
	defer span.End()

	// Reuse existing transaction
	if existing := m.GetTx(ctx); existing != nil {
		return fn(ctx)
	}

	dbTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   opts.IsolationLevel,
		AccessMode: opts.AccessMode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Protect against runaway queries
	if opts.StatementTimeout > 0 {
		_, err = dbTx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds()))
		if err != nil {
			_ = dbTx.Rollback(ctx)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	txCtx := context.WithValue(ctx, txKey{}, &Tx{Tx: dbTx})

	if err := fn(txCtx); err != nil {
		// Use background context for rollback so it completes even if the
		// original context was cancelled.
		if rbErr := dbTx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok {
		return t
	}
	return nil
}

// Querier is the subset of pgx functionality repos need, satisfied by both
// a transaction and the pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction if one is in context, otherwise the pool.
// This allows repos to work both inside and outside transactions.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t.Tx
	}
	return m.pool
}

// --- error classification ---

// SQLSTATE codes this engine cares about.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeCheckViolation       = "23514"
	codeUniqueViolation      = "23505"
)

func pgErr(err error) *pgconn.PgError {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

func isRetryable(err error) bool {
	pe := pgErr(err)
	if pe == nil {
		return false
	}
	switch pe.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	case codeCheckViolation:
		// The non-negative on-hand backstop fired: a concurrent settlement
		// consumed the stock first. Rerunning lets the re-check report it.
		return pe.ConstraintName == "products_on_hand_check"
	}
	return false
}

// IsStockCheckViolation reports whether err is the storage-level
// non-negativity backstop firing.
func IsStockCheckViolation(err error) bool {
	pe := pgErr(err)
	return pe != nil && pe.Code == codeCheckViolation && pe.ConstraintName == "products_on_hand_check"
}

// IsPendingPaymentConflict reports whether err is the partial unique index
// that enforces at most one PENDING payment per sale.
func IsPendingPaymentConflict(err error) bool {
	pe := pgErr(err)
	return pe != nil && pe.Code == codeUniqueViolation && pe.ConstraintName == "payments_one_pending_per_sale"
}
