// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"library_backend/internal/feature/catalog/domain/entity"
	"library_backend/internal/feature/catalog/usecase"
	"library_backend/internal/platform/metrics"
)

// CachingCatalog decorates a BookCatalog with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying catalog. Only successful results are cached.
type CachingCatalog struct {
	inner     usecase.BookCatalog
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingCatalog implements BookCatalog.
var _ usecase.BookCatalog = (*CachingCatalog)(nil)

// NewCachingCatalog decorates a BookCatalog with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "catalog".
// A nil rdb disables caching.
func NewCachingCatalog(rdb *redis.Client, ttl time.Duration, inner usecase.BookCatalog, namespace string) *CachingCatalog {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "catalog"
	}
	return &CachingCatalog{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Search returns a cached page when present, otherwise asks the inner catalog and caches the result.
func (c *CachingCatalog) Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Search(ctx, q)
	}

	key := c.cacheKey(q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.SearchResult
		if err := json.Unmarshal(b, &out); err == nil {
			metrics.RecordCacheLookup(metrics.CacheHit)
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}

	// 2) Fallback to the provider
	metrics.RecordCacheLookup(metrics.CacheMiss)
	out, err := c.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
		}
	}

	return out, nil
}

// cacheKey generates a cache key for a specific query.
// The query is query-escaped so distinct searches never share a key and the
// ":" separator cannot appear inside a segment.
func (c *CachingCatalog) cacheKey(q entity.SearchQuery) string {
	printType := q.PrintType
	if printType == "" {
		printType = "any"
	}
	filter := "all"
	if q.FreeOnly {
		filter = "free"
	}
	return fmt.Sprintf("%s:%s:%d:%s:%s",
		c.namespace,
		url.QueryEscape(strings.ToLower(strings.TrimSpace(q.Query))),
		q.Page,
		url.QueryEscape(printType),
		filter,
	)
}
