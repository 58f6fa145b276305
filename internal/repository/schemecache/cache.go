// Package schemecache is a read-through decorator over the by-slug
// record lookup. Cache failures degrade to the inner repository;
// they never fail a read.
package schemecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemedex/internal/cache"
	"github.com/kailas-cloud/schemedex/internal/domain/scheme"
)

const keyPrefix = "schemedex:record:"

// reader is the slice of the scheme repository being decorated (ISP).
type reader interface {
	GetBySlug(ctx context.Context, slug string) (scheme.Record, error)
}

// store is the consumer interface for the key-value cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedReader serves by-slug lookups from the cache when it can.
type CachedReader struct {
	inner      reader
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner reader,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedReader {
	return &CachedReader{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// GetBySlug returns a cached record or falls through to the inner
// repository. Not-found results are not cached: a slug can appear on
// the next harvest run.
func (c *CachedReader) GetBySlug(ctx context.Context, slug string) (scheme.Record, error) {
	key := keyPrefix + slug

	if rec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return rec, nil
	}
	c.incCache("miss")

	rec, err := c.inner.GetBySlug(ctx, slug)
	if err != nil {
		return scheme.Record{}, fmt.Errorf("get %q: %w", slug, err)
	}

	c.putToCache(ctx, key, rec)
	return rec, nil
}

func (c *CachedReader) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedReader) getFromCache(ctx context.Context, key string) (scheme.Record, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached record", zap.String("key", key), zap.Error(err))
		}
		return scheme.Record{}, false
	}

	var rec scheme.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.Warn("Failed to parse cached record", zap.String("key", key), zap.Error(err))
		return scheme.Record{}, false
	}
	return rec, true
}

func (c *CachedReader) putToCache(ctx context.Context, key string, rec scheme.Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		c.logger.Warn("Failed to encode record for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache record", zap.String("key", key), zap.Error(err))
	}
}
