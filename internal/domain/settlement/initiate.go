package settlement

import (
	"context"
	"fmt"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/gateway"
	"tillpoint/internal/observability"
	"tillpoint/pkg/logger"
)

// InitiateResult is the outcome of opening a gateway payment.
type InitiateResult struct {
	SaleID        id.ID            `json:"saleId"`
	PaymentID     id.ID            `json:"paymentId"`
	CorrelationID string           `json:"correlationId"`
	RedirectURL   string           `json:"redirectUrl"`
	Status        payment.Status   `json:"status"`
	Amount        types.MinorUnits `json:"amount"`
}

// correlationID derives the globally unique order identifier handed to the
// gateway from the payment id. Payment ids are unique, so no separate
// counter is needed, and a notification maps back to exactly one payment.
func correlationID(paymentID id.ID) string {
	return "SALE-" + paymentID.String()
}

// InitiateGateway opens a PROXY payment for a pending sale and asks the
// external gateway for a redirect reference.
//
// The payment row is inserted, with its correlation id, before the gateway
// is contacted: the reservation must exist for reconciliation even if the
// outbound call fails. The call itself happens outside any transaction so
// a slow gateway never holds locks on sale or stock rows.
func (s *Service) InitiateGateway(ctx context.Context, saleID id.ID, cashierID string) (*InitiateResult, error) {
	reserved := &payment.Payment{
		ID:       id.New(),
		Method:   payment.MethodProxy,
		Provider: payment.ProviderMidtrans,
		Status:   payment.StatusPending,
	}
	reserved.CorrelationID = correlationID(reserved.ID)

	var customerName string
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.sales.GetByID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("load sale: %w", err)
		}
		if current == nil {
			return apperror.NewSaleNotFound(saleID.String())
		}
		if !current.IsPending() {
			return apperror.NewSaleAlreadyPaid(saleID.String(), string(current.Status))
		}

		existing, err := s.payments.GetBySaleID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		if payment.HasPending(existing) {
			return apperror.NewPaymentPending(saleID.String())
		}

		reserved.SaleID = current.ID
		reserved.Amount = current.Total
		customerName = current.CustomerName

		if err := s.payments.Create(ctx, reserved); err != nil {
			return fmt.Errorf("reserve payment: %w", err)
		}
		return nil
	})
	if err != nil {
		observability.Settlements.WithLabelValues("proxy", "rejected").Inc()
		return nil, err
	}

	charge, err := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		OrderID:      reserved.CorrelationID,
		GrossAmount:  reserved.Amount,
		CustomerName: customerName,
	})
	if err != nil {
		// The sale stays PENDING so the cashier can retry; the retry will
		// see no pending payment and open a fresh one.
		if markErr := s.payments.UpdateStatus(ctx, reserved.ID, payment.StatusFailed); markErr != nil {
			logger.Error(ctx, "failed to mark payment failed after gateway error",
				"payment_id", reserved.ID, "error", markErr)
		}
		observability.Settlements.WithLabelValues("proxy", "gateway_error").Inc()
		return nil, apperror.NewGateway(err).WithDetail("paymentId", reserved.ID.String())
	}

	if err := s.payments.UpdateGatewayRef(ctx, reserved.ID, reserved.CorrelationID, charge.RedirectURL); err != nil {
		return nil, fmt.Errorf("store gateway reference: %w", err)
	}

	observability.Settlements.WithLabelValues("proxy", "initiated").Inc()
	logger.Info(ctx, "gateway payment initiated",
		"sale_id", saleID,
		"payment_id", reserved.ID,
		"order_id", reserved.CorrelationID,
		"cashier_id", cashierID,
	)

	return &InitiateResult{
		SaleID:        saleID,
		PaymentID:     reserved.ID,
		CorrelationID: reserved.CorrelationID,
		RedirectURL:   charge.RedirectURL,
		Status:        payment.StatusPending,
		Amount:        reserved.Amount,
	}, nil
}
