package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"tillpoint/internal/core/id"
	"tillpoint/internal/domain/catalog"
)

var _ catalog.ProductCache = (*RedisProductCache)(nil)

// RedisProductCache caches product views in Redis, for deployments running
// more than one server instance.
type RedisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache creates a Redis-backed product cache.
func NewRedisProductCache(addr, password string, db int) *RedisProductCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisProductCache{client: client}
}

// Ping verifies connectivity.
func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func key(productID id.ID) string {
	return "product:" + productID.String()
}

func (c *RedisProductCache) Get(ctx context.Context, productID id.ID) (*catalog.Product, bool, error) {
	val, err := c.client.Get(ctx, key(productID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p catalog.Product
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(product.ID), payload, ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, productID id.ID) error {
	return c.client.Del(ctx, key(productID)).Err()
}
