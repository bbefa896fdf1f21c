// Package gateway integrates the external payment provider: outbound charge
// creation, inbound notification verification and status vocabulary mapping.
package gateway

import (
	"tillpoint/internal/domain/payment"
)

// TransactionStatus is the provider's transaction status vocabulary.
// The set is closed; MapStatus has an explicit default arm so an unknown
// value coming off the wire degrades to PENDING instead of silently
// reaching a terminal state.
type TransactionStatus string

const (
	StatusCapture    TransactionStatus = "capture"
	StatusSettlement TransactionStatus = "settlement"
	StatusPending    TransactionStatus = "pending"
	StatusDeny       TransactionStatus = "deny"
	StatusCancel     TransactionStatus = "cancel"
	StatusExpire     TransactionStatus = "expire"
	StatusFailure    TransactionStatus = "failure"
	StatusRefund     TransactionStatus = "refund"
)

// Notification is the provider's settlement notification payload.
// Field names are the provider's documented schema; this is the only
// bit-exact wire contract the engine has.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
}

// MapStatus translates the provider vocabulary to the internal payment
// status space. Refund and failure collapse to FAILED: refunds are out of
// scope, so a refund notification must at minimum stop looking successful.
func MapStatus(s TransactionStatus) payment.Status {
	switch s {
	case StatusCapture, StatusSettlement:
		return payment.StatusPaid
	case StatusPending:
		return payment.StatusPending
	case StatusExpire:
		return payment.StatusExpired
	case StatusDeny, StatusCancel, StatusFailure, StatusRefund:
		return payment.StatusFailed
	default:
		// Conservative: never let an unrecognized status reach a
		// terminal state.
		return payment.StatusPending
	}
}
