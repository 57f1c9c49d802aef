package ports

import (
	"context"
	"time"

	"openexchangerates-service/internal/domain/model"
)

// CacheStore is a TTL-aware key/value store for decoded rate tables.
// Expiry is the store's responsibility. Tables handed to Set or returned by
// Get are never shared with the stored entry.
type CacheStore interface {
	Get(ctx context.Context, key string) (model.RateTable, bool, error)
	Set(ctx context.Context, key string, table model.RateTable, ttl time.Duration) error
}

// RateCache caches rate tables by provider URL.
type RateCache interface {
	Get(ctx context.Context, url string) (model.RateTable, bool)
	Put(ctx context.Context, url string, table model.RateTable)
}
