// Package payment provides the Payment record: one attempt to collect money
// for a sale via one method.
package payment

import (
	"time"

	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
)

// Method is how the money is collected.
type Method string

const (
	MethodCash  Method = "CASH"
	MethodProxy Method = "PROXY"
)

// Provider identifies the external party, if any.
type Provider string

const (
	ProviderNone     Provider = "NONE"
	ProviderMidtrans Provider = "MIDTRANS"
)

// Status is the payment lifecycle state.
// Once PAID is reached the status is terminal: no writer may downgrade it.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
	StatusExpired Status = "EXPIRED"
)

// Payment records one collection attempt for a sale.
// CorrelationID is the order identifier handed to the gateway; inbound
// notifications are matched back to the payment through it.
// RawNotification stores the last gateway payload verbatim for diagnostics;
// it is never read back as a source of truth.
type Payment struct {
	ID              id.ID            `db:"id" json:"id"`
	SaleID          id.ID            `db:"sale_id" json:"saleId"`
	Method          Method           `db:"method" json:"method"`
	Provider        Provider         `db:"provider" json:"provider"`
	Amount          types.MinorUnits `db:"amount" json:"amount"`
	Status          Status           `db:"status" json:"status"`
	CorrelationID   string           `db:"correlation_id" json:"correlationId,omitempty"`
	RedirectURL     string           `db:"redirect_url" json:"redirectUrl,omitempty"`
	RawNotification []byte           `db:"raw_notification" json:"-"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
}
