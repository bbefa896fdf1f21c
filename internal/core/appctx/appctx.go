// Package appctx carries request-scoped identity and trace data through context.
package appctx

import (
	"context"
)

// Cashier is the authenticated caller identity supplied by the auth middleware.
type Cashier struct {
	ID   string
	Name string
	Role string
}

// Trace holds request correlation identifiers.
type Trace struct {
	RequestID string
	TraceID   string
}

type cashierKey struct{}
type traceKey struct{}

// WithCashier stores the authenticated cashier in context.
func WithCashier(ctx context.Context, c *Cashier) context.Context {
	return context.WithValue(ctx, cashierKey{}, c)
}

// GetCashier returns the authenticated cashier or nil.
func GetCashier(ctx context.Context) *Cashier {
	if c, ok := ctx.Value(cashierKey{}).(*Cashier); ok {
		return c
	}
	return nil
}

// CashierID returns the authenticated cashier id or empty string.
func CashierID(ctx context.Context) string {
	if c := GetCashier(ctx); c != nil {
		return c.ID
	}
	return ""
}

// WithTrace stores trace identifiers in context.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// GetTrace returns trace identifiers or nil.
func GetTrace(ctx context.Context) *Trace {
	if t, ok := ctx.Value(traceKey{}).(*Trace); ok {
		return t
	}
	return nil
}
