package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prperemyshlev/storefront/pkg/database"
	"github.com/redis/go-redis/v9"
)

// ListingCache stores listing pages under a canonical query key. Keys are
// scoped to a catalog version; Invalidate moves every reader to a new one.
type ListingCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) (*ProductPage, bool, error)
	Set(ctx context.Context, key string, page *ProductPage) error
	Invalidate(ctx context.Context) error
}

// RedisListingCache caches listing pages as JSON with a fixed TTL
type RedisListingCache struct {
	redis *database.Redis
	ttl   time.Duration
}

// NewRedisListingCache creates a new listing cache
func NewRedisListingCache(redis *database.Redis, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{redis: redis, ttl: ttl}
}

const listingVersionKey = "catalog:list:version"

func listingKey(key string) string {
	return "catalog:list:" + key
}

// Version returns the current catalog version, 0 before the first invalidation
func (c *RedisListingCache) Version(ctx context.Context) (int64, error) {
	v, err := c.redis.Client.Get(ctx, listingVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read listing cache version: %w", err)
	}
	return v, nil
}

// Invalidate bumps the catalog version. Pages cached under older versions
// are never read again and expire with their TTL.
func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Client.Incr(ctx, listingVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing cache: %w", err)
	}
	return nil
}

func (c *RedisListingCache) Get(ctx context.Context, key string) (*ProductPage, bool, error) {
	raw, err := c.redis.Client.Get(ctx, listingKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read listing cache: %w", err)
	}

	var page ProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	return &page, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, key string, page *ProductPage) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	if err := c.redis.Client.Set(ctx, listingKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write listing cache: %w", err)
	}
	return nil
}

// NoopListingCache never hits
type NoopListingCache struct{}

func (NoopListingCache) Version(context.Context) (int64, error) {
	return 0, nil
}

func (NoopListingCache) Invalidate(context.Context) error {
	return nil
}

func (NoopListingCache) Get(context.Context, string) (*ProductPage, bool, error) {
	return nil, false, nil
}

func (NoopListingCache) Set(context.Context, string, *ProductPage) error {
	return nil
}
