// Package cache provides product cache implementations for the catalog read
// endpoints. The cache is explicit and injectable: write paths invalidate it
// through catalog.Service, and settlement logic never reads through it.
package cache

import (
	"context"
	"sync"
	"time"

	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/catalog"
)

// Compile-time checks.
var (
	_ catalog.ProductCache = (*MemoryProductCache)(nil)
	_ catalog.ProductCache = NoopProductCache{}
)

// NoopProductCache disables caching.
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context, id.ID) (*catalog.Product, bool, error) {
	return nil, false, nil
}
func (NoopProductCache) Set(context.Context, *catalog.Product, time.Duration) error { return nil }
func (NoopProductCache) Invalidate(context.Context, id.ID) error                    { return nil }

type memoryEntry struct {
	product   catalog.Product
	expiresAt time.Time
}

// MemoryProductCache is an in-process TTL cache.
type MemoryProductCache struct {
	mu      sync.RWMutex
	entries map[id.ID]memoryEntry
	now     func() time.Time
}

// NewMemoryProductCache creates an empty in-memory cache.
func NewMemoryProductCache() *MemoryProductCache {
	return &MemoryProductCache{
		entries: make(map[id.ID]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryProductCache) Get(_ context.Context, productID id.ID) (*catalog.Product, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[productID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, productID)
		c.mu.Unlock()
		return nil, false, nil
	}
	p := entry.product
	return &p, true, nil
}

func (c *MemoryProductCache) Set(_ context.Context, product *catalog.Product, ttl time.Duration) error {
	if product == nil || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	c.entries[product.ID] = memoryEntry{
		product:   *product,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryProductCache) Invalidate(_ context.Context, productID id.ID) error {
	c.mu.Lock()
	delete(c.entries, productID)
	c.mu.Unlock()
	return nil
}
