// Package apperror provides the structured error type used across the service.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed to API clients.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeGateway  = "GATEWAY_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Not found (404)
	CodeProductNotFound = "PRODUCT_NOT_FOUND"
	CodeSaleNotFound    = "SALE_NOT_FOUND"

	// Settlement conflicts (409)
	CodeSaleAlreadyPaid   = "SALE_ALREADY_PAID"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInsufficientCash  = "INSUFFICIENT_CASH"
	CodePaymentPending    = "PAYMENT_ALREADY_PENDING"

	// Authentication (401)
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidSignature = "INVALID_SIGNATURE"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, shortfalls, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewProductNotFound creates a 404 for a missing or inactive product.
func NewProductNotFound(productID any) *AppError {
	return &AppError{
		Code:       CodeProductNotFound,
		Message:    "Product not found or inactive",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"productId": productID},
	}
}

// NewSaleNotFound creates a 404 for a missing sale.
func NewSaleNotFound(saleID any) *AppError {
	return &AppError{
		Code:       CodeSaleNotFound,
		Message:    "Sale not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"saleId": saleID},
	}
}

// NewSaleAlreadyPaid is returned when a settlement races a completed sale (409).
func NewSaleAlreadyPaid(saleID any, status string) *AppError {
	return &AppError{
		Code:       CodeSaleAlreadyPaid,
		Message:    "Sale is not pending payment",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"saleId": saleID, "status": status},
	}
}

// NewInsufficientStock creates a stock shortage error (409).
// Per-line shortfall detail is attached via WithShortfall.
func NewInsufficientStock(message string) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// ShortfallDetail describes one product line that could not be fulfilled.
type ShortfallDetail struct {
	ProductID string `json:"productId"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// WithShortfall attaches per-line shortfall details.
func (e *AppError) WithShortfall(lines []ShortfallDetail) *AppError {
	return e.WithDetail("shortfall", lines)
}

// NewInsufficientCash is returned when paid amount does not cover the total (409).
func NewInsufficientCash(total, paid any) *AppError {
	return &AppError{
		Code:       CodeInsufficientCash,
		Message:    "Paid amount does not cover sale total",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"total": total, "paidAmount": paid},
	}
}

// NewPaymentPending is returned when a sale already has an outstanding charge (409).
func NewPaymentPending(saleID any) *AppError {
	return &AppError{
		Code:       CodePaymentPending,
		Message:    "A pending payment already exists for this sale",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"saleId": saleID},
	}
}

// NewInvalidSignature is returned on webhook authenticity failure (401).
func NewInvalidSignature() *AppError {
	return &AppError{
		Code:       CodeInvalidSignature,
		Message:    "Notification signature mismatch",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewGateway wraps an external payment gateway failure (502).
func NewGateway(err error) *AppError {
	return &AppError{
		Code:       CodeGateway,
		Message:    "Payment gateway request failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
