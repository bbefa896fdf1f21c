package settlement

import (
	"context"
	"errors"
	"fmt"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/domain/inventory"
	"tillpoint/internal/domain/payment"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/gateway"
)

const testServerKey = "test-server-key"

// env bundles in-memory fakes behind the repository interfaces so the
// settlement paths run end to end without a database.
type env struct {
	products    map[id.ID]*catalog.Product
	sales       *fakeSaleRepo
	payments    *fakePaymentRepo
	gateway     *fakeGateway
	invalidator *recordingInvalidator
	movements   []inventory.Movement
	svc         *Service
}

func newEnv() *env {
	e := &env{
		products:    make(map[id.ID]*catalog.Product),
		sales:       &fakeSaleRepo{byID: make(map[id.ID]*sale.Sale)},
		gateway:     &fakeGateway{result: &gateway.ChargeResult{Token: "tok", RedirectURL: "https://pay.example/redirect"}},
		invalidator: &recordingInvalidator{},
	}
	e.payments = &fakePaymentRepo{}
	e.svc = NewService(
		e.sales,
		e.payments,
		&fakeCatalogRepo{env: e},
		inventory.NewService(&fakeInventoryRepo{env: e}),
		e.gateway,
		fakeTxManager{},
		testServerKey,
		e.invalidator,
	)
	return e
}

func (e *env) addProduct(name string, price types.MinorUnits, onHand int64) id.ID {
	pid := id.New()
	e.products[pid] = &catalog.Product{ID: pid, Name: name, Price: price, IsActive: true, OnHand: onHand}
	return pid
}

func (e *env) addPendingSale(lines map[id.ID]int64) *sale.Sale {
	s := &sale.Sale{
		ID:        id.New(),
		CashierID: "cashier-1",
		Status:    sale.StatusPending,
	}
	for pid, qty := range lines {
		p := e.products[pid]
		subtotal := p.Price * types.MinorUnits(qty)
		s.Items = append(s.Items, sale.Item{
			ID:          id.New(),
			SaleID:      s.ID,
			ProductID:   pid,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
		})
		s.Total += subtotal
	}
	e.sales.byID[s.ID] = s
	return s
}

type fakeSaleRepo struct {
	byID map[id.ID]*sale.Sale
}

func (f *fakeSaleRepo) Create(_ context.Context, s *sale.Sale) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSaleRepo) GetByID(_ context.Context, saleID id.ID) (*sale.Sale, error) {
	s, ok := f.byID[saleID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSaleRepo) MarkPaid(_ context.Context, saleID id.ID) (bool, error) {
	s, ok := f.byID[saleID]
	if !ok || s.Status != sale.StatusPending {
		return false, nil
	}
	s.Status = sale.StatusPaid
	return true, nil
}

type fakePaymentRepo struct {
	rows []*payment.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if p.Status == payment.StatusPending {
		for _, existing := range f.rows {
			if existing.SaleID == p.SaleID && existing.Status == payment.StatusPending {
				return apperror.NewPaymentPending(p.SaleID.String())
			}
		}
	}
	cp := *p
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakePaymentRepo) GetBySaleID(_ context.Context, saleID id.ID) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, p := range f.rows {
		if p.SaleID == saleID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) GetByCorrelationID(_ context.Context, correlationID string) (*payment.Payment, error) {
	for _, p := range f.rows {
		if p.CorrelationID == correlationID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, paymentID id.ID, status payment.Status) error {
	p := f.find(paymentID)
	if p == nil {
		return errors.New("payment not found")
	}
	p.Status = status
	return nil
}

func (f *fakePaymentRepo) UpdateGatewayRef(_ context.Context, paymentID id.ID, correlationID, redirectURL string) error {
	p := f.find(paymentID)
	if p == nil {
		return errors.New("payment not found")
	}
	p.CorrelationID = correlationID
	p.RedirectURL = redirectURL
	return nil
}

func (f *fakePaymentRepo) RecordNotification(_ context.Context, paymentID id.ID, status payment.Status, raw []byte) error {
	p := f.find(paymentID)
	if p == nil {
		return errors.New("payment not found")
	}
	p.Status = status
	p.RawNotification = raw
	return nil
}

func (f *fakePaymentRepo) find(paymentID id.ID) *payment.Payment {
	for _, p := range f.rows {
		if p.ID == paymentID {
			return p
		}
	}
	return nil
}

type fakeCatalogRepo struct {
	env *env
}

func (f *fakeCatalogRepo) GetActiveByIDs(_ context.Context, ids []id.ID) (map[id.ID]catalog.Product, error) {
	out := make(map[id.ID]catalog.Product)
	for _, pid := range ids {
		if p, ok := f.env.products[pid]; ok && p.IsActive {
			out[pid] = *p
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, productID id.ID) (*catalog.Product, error) {
	if p, ok := f.env.products[productID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCatalogRepo) ListActive(context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.env.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	env *env
}

func (f *fakeInventoryRepo) DecrementOnHand(_ context.Context, productID id.ID, qty int64) error {
	p, ok := f.env.products[productID]
	if !ok {
		return apperror.NewProductNotFound(productID.String())
	}
	if p.OnHand < qty {
		return apperror.NewInsufficientStock(fmt.Sprintf("on-hand check failed for %s", productID))
	}
	p.OnHand -= qty
	return nil
}

func (f *fakeInventoryRepo) CreateMovements(_ context.Context, movements []inventory.Movement) error {
	f.env.movements = append(f.env.movements, movements...)
	return nil
}

func (f *fakeInventoryRepo) ListMovementsByProduct(_ context.Context, productID id.ID, limit int) ([]inventory.Movement, error) {
	var out []inventory.Movement
	for _, m := range f.env.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeGateway struct {
	result  *gateway.ChargeResult
	err     error
	calls   int
	lastReq gateway.ChargeRequest
}

func (f *fakeGateway) CreateCharge(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingInvalidator struct {
	invalidated []id.ID
}

func (r *recordingInvalidator) InvalidateProducts(_ context.Context, ids []id.ID) {
	r.invalidated = append(r.invalidated, ids...)
}
