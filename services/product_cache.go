package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"

	// DefaultCacheTTL bounds staleness for cached listings.
	DefaultCacheTTL = 5 * time.Minute
)

// ProductCache caches product listings in Redis behind a version counter.
// Writes bump the version instead of scanning for keys to delete. A nil
// cache is a no-op, so Redis stays optional at startup.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{redis: client, ttl: DefaultCacheTTL}
}

// GetList retrieves a cached listing for the query, if present.
func (c *ProductCache) GetList(ctx context.Context, query ListProductsQuery) (*ProductListResult, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	version, err := c.getVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cached, err := c.redis.Get(ctx, c.listKey(version, query)).Result()
	if err != nil {
		return nil, false
	}

	var result ProductListResult
	if err := json.Unmarshal([]byte(cached), &result); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return &result, true
}

// SetListAsync caches a listing without blocking the request.
func (c *ProductCache) SetListAsync(query ListProductsQuery, result *ProductListResult) {
	if c == nil || c.redis == nil {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.getVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		payload, err := json.Marshal(result)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := c.redis.Set(bgCtx, c.listKey(version, query), payload, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate drops every cached listing by bumping the version counter.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		zap.L().Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

func (c *ProductCache) listKey(version int64, q ListProductsQuery) string {
	fields := strings.Join([]string{
		q.DisplayType, q.CategoryID, q.Search, q.MinPrice, q.MaxPrice, q.Size, q.Page, q.Limit,
	}, "|")
	return fmt.Sprintf("%s%d:%s", productListCachePrefix, version, fields)
}

func (c *ProductCache) getVersion(ctx context.Context) (int64, error) {
	version, err := c.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return version, err
}
