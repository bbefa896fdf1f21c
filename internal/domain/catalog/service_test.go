package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
)

type fakeRepo struct {
	products map[id.ID]Product
	getCalls int
}

func (f *fakeRepo) GetActiveByIDs(_ context.Context, ids []id.ID) (map[id.ID]Product, error) {
	out := make(map[id.ID]Product)
	for _, pid := range ids {
		if p, ok := f.products[pid]; ok && p.IsActive {
			out[pid] = p
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	f.getCalls++
	if p, ok := f.products[productID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListActive(context.Context) ([]Product, error) {
	var out []Product
	for _, p := range f.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type mapCache struct {
	entries map[id.ID]*Product
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[id.ID]*Product)}
}

func (c *mapCache) Get(_ context.Context, productID id.ID) (*Product, bool, error) {
	p, ok := c.entries[productID]
	return p, ok, nil
}

func (c *mapCache) Set(_ context.Context, product *Product, _ time.Duration) error {
	c.entries[product.ID] = product
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, productID id.ID) error {
	delete(c.entries, productID)
	return nil
}

func TestGetProductPopulatesCache(t *testing.T) {
	pid := id.New()
	repo := &fakeRepo{products: map[id.ID]Product{
		pid: {ID: pid, Name: "Americano", Price: 18000, IsActive: true, OnHand: 10},
	}}
	cache := newMapCache()
	svc := NewService(repo, cache, time.Minute)
	ctx := context.Background()

	first, err := svc.GetProduct(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "Americano", first.Name)
	assert.Equal(t, 1, repo.getCalls)

	// Second read is served from cache.
	_, err = svc.GetProduct(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetProductNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{products: map[id.ID]Product{}}, newMapCache(), time.Minute)

	_, err := svc.GetProduct(context.Background(), id.New())
	assert.True(t, apperror.IsCode(err, apperror.CodeProductNotFound))
}

func TestInvalidateProductsDropsCachedViews(t *testing.T) {
	pid := id.New()
	repo := &fakeRepo{products: map[id.ID]Product{
		pid: {ID: pid, Name: "Americano", Price: 18000, IsActive: true, OnHand: 10},
	}}
	cache := newMapCache()
	svc := NewService(repo, cache, time.Minute)
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, pid)
	require.NoError(t, err)
	require.Contains(t, cache.entries, pid)

	svc.InvalidateProducts(ctx, []id.ID{pid})
	assert.NotContains(t, cache.entries, pid)

	// Next read sees fresh store data.
	repo.products[pid] = Product{ID: pid, Name: "Americano", Price: 18000, IsActive: true, OnHand: 8}
	got, err := svc.GetProduct(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.OnHand)
}
