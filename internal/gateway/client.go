package gateway

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"tillpoint/internal/core/types"
)

// ChargeRequest asks the provider to open a transaction for an order.
type ChargeRequest struct {
	OrderID      string
	GrossAmount  types.MinorUnits
	CustomerName string
}

// ChargeResult is the provider's answer: where to send the customer.
type ChargeResult struct {
	Token       string
	RedirectURL string
}

// Client creates charges at the external payment provider.
type Client interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Config for the HTTP client.
type Config struct {
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

// HTTPClient talks to the provider's Snap-style transaction endpoint.
type HTTPClient struct {
	rc *resty.Client
}

// NewHTTPClient creates a provider client. The server key doubles as the
// basic-auth user per the provider's API convention.
func NewHTTPClient(cfg Config) *HTTPClient {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.ServerKey, "").
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &HTTPClient{rc: rc}
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	return c.rc.Close()
}

type snapTransactionRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount string `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails *struct {
		FirstName string `json:"first_name"`
	} `json:"customer_details,omitempty"`
}

type snapTransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateCharge opens a transaction and returns the redirect reference.
// Any transport error or non-2xx answer is returned as a plain error; the
// settlement layer wraps it into GatewayError.
func (c *HTTPClient) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	body := snapTransactionRequest{}
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount.GrossString()
	if req.CustomerName != "" {
		body.CustomerDetails = &struct {
			FirstName string `json:"first_name"`
		}{FirstName: req.CustomerName}
	}

	var out snapTransactionResponse
	res, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/snap/v1/transactions")
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("gateway responded %d: %s", res.StatusCode(), res.String())
	}
	if out.RedirectURL == "" {
		return nil, fmt.Errorf("gateway response missing redirect_url")
	}

	return &ChargeResult{Token: out.Token, RedirectURL: out.RedirectURL}, nil
}
