package settlement

import (
	"context"
	"fmt"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
	"tillpoint/internal/domain/inventory"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/observability"
	"tillpoint/pkg/logger"
)

// CashResult is the outcome of a successful cash settlement.
type CashResult struct {
	SaleID     id.ID            `json:"saleId"`
	Status     sale.Status      `json:"status"`
	Total      types.MinorUnits `json:"total"`
	PaidAmount types.MinorUnits `json:"paidAmount"`
	Change     types.MinorUnits `json:"change"`
	PaymentID  id.ID            `json:"paymentId"`
}

// PayCash settles a sale with cash in one serializable transaction:
// re-validate stock, decrement it, record movements, insert a PAID cash
// payment and transition the sale. The stock re-check is mandatory even
// though sale creation already checked: time has passed and concurrent
// sales may have consumed stock since.
func (s *Service) PayCash(ctx context.Context, saleID id.ID, cashierID string, paidAmount types.MinorUnits) (*CashResult, error) {
	if !paidAmount.IsPositive() {
		return nil, apperror.NewValidation("paid amount must be positive")
	}

	var result *CashResult
	var touched []id.ID
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
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
		if len(current.Items) == 0 {
			// Unreachable through the builder, checked defensively.
			return apperror.NewValidation("sale has no items")
		}
		if paidAmount < current.Total {
			return apperror.NewInsufficientCash(current.Total, paidAmount)
		}

		deductions, err := s.revalidateStock(ctx, current)
		if err != nil {
			return err
		}
		touched = touched[:0]
		for _, d := range deductions {
			touched = append(touched, d.ProductID)
		}

		note := fmt.Sprintf("cash settlement of sale %s", current.ID)
		if err := s.inventory.DeductForSale(ctx, current.ID, deductions, note); err != nil {
			return err
		}

		cashPayment := &payment.Payment{
			ID:       id.New(),
			SaleID:   current.ID,
			Method:   payment.MethodCash,
			Provider: payment.ProviderNone,
			Amount:   current.Total,
			Status:   payment.StatusPaid,
		}
		if err := s.payments.Create(ctx, cashPayment); err != nil {
			return fmt.Errorf("create cash payment: %w", err)
		}

		transitioned, err := s.sales.MarkPaid(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("mark sale paid: %w", err)
		}
		if !transitioned {
			return apperror.NewSaleAlreadyPaid(saleID.String(), string(sale.StatusPaid))
		}

		result = &CashResult{
			SaleID:     current.ID,
			Status:     sale.StatusPaid,
			Total:      current.Total,
			PaidAmount: paidAmount,
			Change:     paidAmount - current.Total,
			PaymentID:  cashPayment.ID,
		}
		return nil
	})
	if err != nil {
		observability.Settlements.WithLabelValues("cash", "rejected").Inc()
		return nil, err
	}

	s.invalidator.InvalidateProducts(ctx, touched)
	observability.Settlements.WithLabelValues("cash", "paid").Inc()
	logger.Info(ctx, "sale settled by cash",
		"sale_id", result.SaleID,
		"cashier_id", cashierID,
		"total", result.Total,
		"change", result.Change,
	)

	return result, nil
}

// revalidateStock checks, inside the current transaction, that every line's
// product is still active and has sufficient on-hand quantity. Inactive
// products report as shortfall with zero availability.
func (s *Service) revalidateStock(ctx context.Context, current *sale.Sale) ([]inventory.Deduction, error) {
	ids := make([]id.ID, 0, len(current.Items))
	for _, item := range current.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	var shortfall []apperror.ShortfallDetail
	deductions := make([]inventory.Deduction, 0, len(current.Items))
	for _, item := range current.Items {
		p, ok := products[item.ProductID]
		if !ok {
			shortfall = append(shortfall, apperror.ShortfallDetail{
				ProductID: item.ProductID.String(),
				Requested: item.Quantity,
				Available: 0,
			})
			continue
		}
		if p.OnHand < item.Quantity {
			shortfall = append(shortfall, apperror.ShortfallDetail{
				ProductID: item.ProductID.String(),
				Requested: item.Quantity,
				Available: p.OnHand,
			})
			continue
		}
		deductions = append(deductions, inventory.Deduction{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if len(shortfall) > 0 {
		return nil, apperror.NewInsufficientStock("insufficient stock at settlement time").
			WithShortfall(shortfall)
	}

	return deductions, nil
}
