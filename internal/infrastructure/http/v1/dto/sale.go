// Package dto provides request/response shapes for the v1 API.
package dto

import (
	"github.com/shopspring/decimal"
)

// CartItemRequest is one requested cart line.
type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

// CreateSaleRequest is the body of POST /sales.
type CreateSaleRequest struct {
	CustomerName string            `json:"customerName"`
	Items        []CartItemRequest `json:"items" binding:"required"`
}

// PayCashRequest is the body of POST /sales/:id/pay/cash.
// PaidAmount arrives as a JSON number; decimal parsing rejects the
// non-finite and fractional values int64 binding would mangle.
type PayCashRequest struct {
	PaidAmount decimal.Decimal `json:"paidAmount" binding:"required"`
}
