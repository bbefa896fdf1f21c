package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/catalog"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryProductCache()
	ctx := context.Background()

	p := &catalog.Product{ID: id.New(), Name: "Americano", Price: 18000, IsActive: true, OnHand: 10}
	require.NoError(t, c.Set(ctx, p, time.Minute))

	got, ok, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, *p, *got)

	// The cache hands out copies, not aliases.
	got.OnHand = 0
	again, ok, _ := c.Get(ctx, p.ID)
	require.True(t, ok)
	assert.Equal(t, int64(10), again.OnHand)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryProductCache()

	_, ok, err := c.Get(context.Background(), id.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryProductCache()
	ctx := context.Background()

	current := time.Now()
	c.now = func() time.Time { return current }

	p := &catalog.Product{ID: id.New(), Name: "Americano", Price: 18000}
	require.NoError(t, c.Set(ctx, p, 30*time.Second))

	_, ok, _ := c.Get(ctx, p.ID)
	assert.True(t, ok)

	current = current.Add(31 * time.Second)
	_, ok, _ = c.Get(ctx, p.ID)
	assert.False(t, ok, "entry past its ttl must not be served")
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryProductCache()
	ctx := context.Background()

	p := &catalog.Product{ID: id.New(), Name: "Americano", Price: 18000}
	require.NoError(t, c.Set(ctx, p, time.Minute))
	require.NoError(t, c.Invalidate(ctx, p.ID))

	_, ok, _ := c.Get(ctx, p.ID)
	assert.False(t, ok)
}

func TestMemoryCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewMemoryProductCache()
	ctx := context.Background()

	p := &catalog.Product{ID: id.New(), Name: "Americano"}
	require.NoError(t, c.Set(ctx, p, 0))

	_, ok, _ := c.Get(ctx, p.ID)
	assert.False(t, ok)
}
