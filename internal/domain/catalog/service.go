package catalog

import (
	"context"
	"time"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/pkg/logger"
)

// ProductCache caches product views for the read endpoints.
// It is explicit and injectable: write paths that stale a cached product
// must call Invalidate. Settlement logic never reads through this cache.
type ProductCache interface {
	Get(ctx context.Context, productID id.ID) (*Product, bool, error)
	Set(ctx context.Context, product *Product, ttl time.Duration) error
	Invalidate(ctx context.Context, productID id.ID) error
}

// Service provides cached catalog reads.
type Service struct {
	repo  Repository
	cache ProductCache
	ttl   time.Duration
}

// NewService creates a new catalog service.
func NewService(repo Repository, cache ProductCache, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// GetProduct returns a product view, served from cache when fresh.
func (s *Service) GetProduct(ctx context.Context, productID id.ID) (*Product, error) {
	if cached, ok, err := s.cache.Get(ctx, productID); err != nil {
		// Cache failure is not a read failure; fall through to the store.
		logger.Warn(ctx, "product cache read failed", "product_id", productID, "error", err)
	} else if ok {
		return cached, nil
	}

	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewProductNotFound(productID.String())
	}

	if err := s.cache.Set(ctx, product, s.ttl); err != nil {
		logger.Warn(ctx, "product cache write failed", "product_id", productID, "error", err)
	}

	return product, nil
}

// ListProducts returns all active products, uncached.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListActive(ctx)
}

// InvalidateProducts drops cached views after a write path changed
// on-hand quantities or catalog data.
func (s *Service) InvalidateProducts(ctx context.Context, ids []id.ID) {
	for _, productID := range ids {
		if err := s.cache.Invalidate(ctx, productID); err != nil {
			logger.Warn(ctx, "product cache invalidation failed", "product_id", productID, "error", err)
		}
	}
}
