package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/internal/domain/ports"
	"openexchangerates-service/internal/metrics"
	"openexchangerates-service/pkg/logger"
)

const DefaultTTL = time.Hour

var _ ports.RateCache = (*RateCache)(nil)

// RateCache stores provider rate tables under a hash of the request URL.
// Store failures are logged and treated as a miss or a skipped write.
type RateCache struct {
	store   ports.CacheStore
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewRateCache falls back to NullStore and DefaultTTL for zero values.
func NewRateCache(store ports.CacheStore, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *RateCache {
	if store == nil {
		store = NullStore{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RateCache{store: store, ttl: ttl, log: log, metrics: m}
}

func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *RateCache) Get(ctx context.Context, url string) (model.RateTable, bool) {
	key := Key(url)

	table, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Error("Rate cache lookup failed", "key", key, "error", err)
		c.metrics.CacheLookup("error")
		return nil, false
	}
	if !found {
		c.log.Debug("Cache miss", "key", key)
		c.metrics.CacheLookup("miss")
		return nil, false
	}

	c.log.Debug("Cache hit", "key", key)
	c.metrics.CacheLookup("hit")
	return table, true
}

func (c *RateCache) Put(ctx context.Context, url string, table model.RateTable) {
	key := Key(url)
	if err := c.store.Set(ctx, key, table, c.ttl); err != nil {
		c.log.Error("Failed to cache rates", "key", key, "error", err)
		return
	}
	c.log.Debug("Cache set", "key", key, "ttl", c.ttl)
}
