package settlement

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/gateway"
)

// notificationFor builds a correctly signed notification payload for an
// initiated payment.
func notificationFor(t *testing.T, e *env, orderID, status string) []byte {
	t.Helper()

	p, err := e.payments.GetByCorrelationID(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, p, "order %s not initiated", orderID)

	gross := p.Amount.GrossString()
	raw, err := json.Marshal(gateway.Notification{
		TransactionStatus: status,
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		SignatureKey:      gateway.Signature(orderID, "200", gross, testServerKey),
	})
	require.NoError(t, err)
	return raw
}

func initiated(t *testing.T, e *env, s *sale.Sale) string {
	t.Helper()
	result, err := e.svc.InitiateGateway(context.Background(), s.ID, "cashier-1")
	require.NoError(t, err)
	return result.CorrelationID
}

func TestHandleWebhookSettlesSale(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 2})
	orderID := initiated(t, e, s)
	raw := notificationFor(t, e, orderID, "settlement")

	result, err := e.svc.HandleWebhook(context.Background(), raw)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, payment.StatusPaid, result.Status)
	assert.False(t, result.Idempotent)

	assert.Equal(t, sale.StatusPaid, e.sales.byID[s.ID].Status)
	assert.Equal(t, int64(8), e.products[coffee].OnHand)
	require.Len(t, e.movements, 1)
	assert.Equal(t, int64(-2), e.movements[0].Quantity)

	p, _ := e.payments.GetByCorrelationID(context.Background(), orderID)
	assert.Equal(t, payment.StatusPaid, p.Status)
	assert.JSONEq(t, string(raw), string(p.RawNotification), "raw payload kept for audit")

	assert.Equal(t, []id.ID{coffee}, e.invalidator.invalidated)
}

func TestHandleWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 2})
	orderID := initiated(t, e, s)
	raw := notificationFor(t, e, orderID, "settlement")
	ctx := context.Background()

	_, err := e.svc.HandleWebhook(ctx, raw)
	require.NoError(t, err)

	result, err := e.svc.HandleWebhook(ctx, raw)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.True(t, result.Idempotent)
	assert.Equal(t, payment.StatusPaid, result.Status)

	// Stock effects applied exactly once.
	assert.Equal(t, int64(8), e.products[coffee].OnHand)
	assert.Len(t, e.movements, 1)
}

func TestHandleWebhookUnknownOrderIgnored(t *testing.T) {
	e := newEnv()

	orderID := "SALE-" + id.New().String()
	gross := "10000.00"
	raw, _ := json.Marshal(gateway.Notification{
		TransactionStatus: "settlement",
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		SignatureKey:      gateway.Signature(orderID, "200", gross, testServerKey),
	})

	result, err := e.svc.HandleWebhook(context.Background(), raw)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.True(t, result.Ignored)
	assert.Empty(t, e.movements)
}

func TestHandleWebhookInvalidSignature(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 1})
	orderID := initiated(t, e, s)

	var n gateway.Notification
	require.NoError(t, json.Unmarshal(notificationFor(t, e, orderID, "settlement"), &n))
	n.GrossAmount = "1.00" // tampered after signing
	raw, _ := json.Marshal(n)

	_, err := e.svc.HandleWebhook(context.Background(), raw)
	require.True(t, apperror.IsCode(err, apperror.CodeInvalidSignature))

	// Nothing was touched.
	assert.Equal(t, sale.StatusPending, e.sales.byID[s.ID].Status)
	assert.Equal(t, int64(10), e.products[coffee].OnHand)
	p, _ := e.payments.GetByCorrelationID(context.Background(), orderID)
	assert.Equal(t, payment.StatusPending, p.Status)
}

func TestHandleWebhookMalformedPayload(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.svc.HandleWebhook(ctx, []byte("{not json"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = e.svc.HandleWebhook(ctx, []byte(`{"transaction_status": "settlement"}`))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "required fields missing")
}

func TestHandleWebhookExpireLeavesSalePending(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 1})
	orderID := initiated(t, e, s)
	raw := notificationFor(t, e, orderID, "expire")

	result, err := e.svc.HandleWebhook(context.Background(), raw)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, payment.StatusExpired, result.Status)

	p, _ := e.payments.GetByCorrelationID(context.Background(), orderID)
	assert.Equal(t, payment.StatusExpired, p.Status)

	// The sale can still be settled another way.
	assert.Equal(t, sale.StatusPending, e.sales.byID[s.ID].Status)
	assert.Equal(t, int64(10), e.products[coffee].OnHand)
	assert.Empty(t, e.movements)
}

func TestHandleWebhookPendingStatusRecordedOnly(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 1})
	orderID := initiated(t, e, s)
	raw := notificationFor(t, e, orderID, "pending")

	result, err := e.svc.HandleWebhook(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, payment.StatusPending, result.Status)
	assert.Equal(t, sale.StatusPending, e.sales.byID[s.ID].Status)
	assert.Empty(t, e.movements)
}

func TestHandleWebhookAfterCashSettlementIsIdempotent(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 2})
	orderID := initiated(t, e, s)
	ctx := context.Background()

	// The customer gives up on the gateway flow and pays cash.
	_, err := e.svc.PayCash(ctx, s.ID, "cashier-1", 36000)
	require.NoError(t, err)
	require.Equal(t, int64(8), e.products[coffee].OnHand)

	// The gateway later reports settlement for the abandoned charge.
	raw := notificationFor(t, e, orderID, "settlement")
	result, err := e.svc.HandleWebhook(ctx, raw)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.True(t, result.Idempotent)

	// Stock was decremented by the cash path only.
	assert.Equal(t, int64(8), e.products[coffee].OnHand)
	assert.Len(t, e.movements, 1)
}

func TestHandleWebhookNeverDowngradesPaid(t *testing.T) {
	e := newEnv()
	coffee := e.addProduct("Americano", 18000, 10)
	s := e.addPendingSale(map[id.ID]int64{coffee: 1})
	orderID := initiated(t, e, s)
	ctx := context.Background()

	_, err := e.svc.HandleWebhook(ctx, notificationFor(t, e, orderID, "settlement"))
	require.NoError(t, err)

	// A late refund notification must not flip the payment back.
	result, err := e.svc.HandleWebhook(ctx, notificationFor(t, e, orderID, "refund"))
	require.NoError(t, err)

	assert.True(t, result.Idempotent)
	assert.Equal(t, payment.StatusPaid, result.Status)

	p, _ := e.payments.GetByCorrelationID(ctx, orderID)
	assert.Equal(t, payment.StatusPaid, p.Status)
	assert.Equal(t, sale.StatusPaid, e.sales.byID[s.ID].Status)
}
