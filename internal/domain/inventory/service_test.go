package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
)

type fakeRepo struct {
	onHand     map[id.ID]int64
	movements  []Movement
	decrements int
}

func (f *fakeRepo) DecrementOnHand(_ context.Context, productID id.ID, qty int64) error {
	f.decrements++
	current, ok := f.onHand[productID]
	if !ok {
		return apperror.NewProductNotFound(productID.String())
	}
	if current < qty {
		return apperror.NewInsufficientStock("on-hand check failed")
	}
	f.onHand[productID] = current - qty
	return nil
}

func (f *fakeRepo) CreateMovements(_ context.Context, movements []Movement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeRepo) ListMovementsByProduct(_ context.Context, productID id.ID, limit int) ([]Movement, error) {
	var out []Movement
	for _, m := range f.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestDeductForSale(t *testing.T) {
	coffee := id.New()
	muffin := id.New()
	repo := &fakeRepo{onHand: map[id.ID]int64{coffee: 10, muffin: 5}}
	svc := NewService(repo)
	saleID := id.New()

	err := svc.DeductForSale(context.Background(), saleID, []Deduction{
		{ProductID: coffee, Quantity: 2},
		{ProductID: muffin, Quantity: 1},
	}, "cash settlement")
	require.NoError(t, err)

	assert.Equal(t, int64(8), repo.onHand[coffee])
	assert.Equal(t, int64(4), repo.onHand[muffin])

	require.Len(t, repo.movements, 2)
	for _, m := range repo.movements {
		assert.Equal(t, MovementSale, m.Type)
		assert.Negative(t, m.Quantity, "ledger stores sales as negative quantities")
		require.NotNil(t, m.SaleID)
		assert.Equal(t, saleID, *m.SaleID)
		assert.Equal(t, "cash settlement", m.Note)
	}
}

func TestDeductForSaleValidation(t *testing.T) {
	svc := NewService(&fakeRepo{onHand: map[id.ID]int64{}})
	ctx := context.Background()
	saleID := id.New()

	err := svc.DeductForSale(ctx, saleID, nil, "note")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "empty deduction list")

	err = svc.DeductForSale(ctx, saleID, []Deduction{{ProductID: id.New(), Quantity: 0}}, "note")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "non-positive quantity")

	err = svc.DeductForSale(ctx, saleID, []Deduction{{ProductID: id.Nil(), Quantity: 1}}, "note")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "nil product id")
}

func TestDeductForSalePropagatesStockError(t *testing.T) {
	coffee := id.New()
	repo := &fakeRepo{onHand: map[id.ID]int64{coffee: 1}}
	svc := NewService(repo)

	err := svc.DeductForSale(context.Background(), id.New(), []Deduction{
		{ProductID: coffee, Quantity: 2},
	}, "note")

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Empty(t, repo.movements, "no ledger rows on failed decrement")
}

func TestMovementHistoryClampsLimit(t *testing.T) {
	coffee := id.New()
	repo := &fakeRepo{onHand: map[id.ID]int64{coffee: 100}}
	for range 3 {
		repo.movements = append(repo.movements, Movement{ID: id.New(), ProductID: coffee, Quantity: -1, Type: MovementSale})
	}
	svc := NewService(repo)

	history, err := svc.MovementHistory(context.Background(), coffee, -5)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
