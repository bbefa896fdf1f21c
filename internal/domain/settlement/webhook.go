package settlement

import (
	"context"
	"encoding/json"
	"fmt"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/gateway"
	"tillpoint/internal/observability"
	"tillpoint/pkg/logger"
)

// WebhookResult is the acknowledgement returned to the gateway.
// OK is true for every accepted delivery, including ones this system
// ignores, so the sender's retry storm is never triggered.
type WebhookResult struct {
	OK         bool           `json:"ok"`
	Status     payment.Status `json:"status,omitempty"`
	Ignored    bool           `json:"ignored,omitempty"`
	Idempotent bool           `json:"idempotent,omitempty"`
}

// HandleWebhook reconciles an inbound settlement notification.
//
// Signature verification happens before any state is touched. Everything
// after it runs in one serializable transaction so duplicate concurrent
// deliveries cannot both apply stock effects.
func (s *Service) HandleWebhook(ctx context.Context, raw []byte) (*WebhookResult, error) {
	var n gateway.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, apperror.NewValidation("malformed notification payload").WithCause(err)
	}
	if n.OrderID == "" || n.StatusCode == "" || n.GrossAmount == "" {
		return nil, apperror.NewValidation("notification missing required fields")
	}

	if !gateway.VerifySignature(&n, s.serverKey) {
		logger.Warn(ctx, "webhook signature mismatch", "order_id", n.OrderID)
		return nil, apperror.NewInvalidSignature()
	}

	mapped := gateway.MapStatus(gateway.TransactionStatus(n.TransactionStatus))
	observability.WebhookNotifications.WithLabelValues(string(mapped)).Inc()

	var result *WebhookResult
	var touched []id.ID
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		touched = touched[:0]

		p, err := s.payments.GetByCorrelationID(ctx, n.OrderID)
		if err != nil {
			return fmt.Errorf("load payment: %w", err)
		}
		if p == nil {
			// Not an order of ours. Acknowledge and move on.
			result = &WebhookResult{OK: true, Ignored: true}
			return nil
		}

		if p.Status == payment.StatusPaid {
			// Terminal success is monotonic: never downgrade, never apply
			// effects twice. Keep the raw payload for audit.
			if err := s.payments.RecordNotification(ctx, p.ID, payment.StatusPaid, raw); err != nil {
				return fmt.Errorf("record notification: %w", err)
			}
			result = &WebhookResult{OK: true, Status: payment.StatusPaid, Idempotent: true}
			return nil
		}

		if err := s.payments.RecordNotification(ctx, p.ID, mapped, raw); err != nil {
			return fmt.Errorf("record notification: %w", err)
		}

		if mapped != payment.StatusPaid {
			// PENDING, EXPIRED, FAILED: stock and sale are untouched.
			result = &WebhookResult{OK: true, Status: mapped}
			return nil
		}

		current, err := s.sales.GetByID(ctx, p.SaleID)
		if err != nil {
			return fmt.Errorf("load sale: %w", err)
		}
		if current == nil {
			result = &WebhookResult{OK: true, Status: mapped, Ignored: true}
			return nil
		}
		if !current.IsPending() {
			// Cash settlement or an earlier notification already won.
			result = &WebhookResult{OK: true, Status: mapped, Idempotent: true}
			return nil
		}

		deductions, err := s.revalidateStock(ctx, current)
		if err != nil {
			return err
		}
		for _, d := range deductions {
			touched = append(touched, d.ProductID)
		}

		note := fmt.Sprintf("gateway settlement of sale %s (order %s)", current.ID, n.OrderID)
		if err := s.inventory.DeductForSale(ctx, current.ID, deductions, note); err != nil {
			return err
		}

		transitioned, err := s.sales.MarkPaid(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("mark sale paid: %w", err)
		}
		if !transitioned {
			result = &WebhookResult{OK: true, Status: mapped, Idempotent: true}
			return nil
		}

		result = &WebhookResult{OK: true, Status: payment.StatusPaid}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(touched) > 0 && result.Status == payment.StatusPaid && !result.Idempotent {
		s.invalidator.InvalidateProducts(ctx, touched)
	}

	logger.Info(ctx, "webhook reconciled",
		"order_id", n.OrderID,
		"transaction_status", n.TransactionStatus,
		"mapped_status", result.Status,
		"ignored", result.Ignored,
		"idempotent", result.Idempotent,
	)

	return result, nil
}
