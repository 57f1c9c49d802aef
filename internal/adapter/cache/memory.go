package cache

import (
	"context"
	"maps"
	"sync"
	"time"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/pkg/logger"
)

type memoryEntry struct {
	table     model.RateTable
	expiresAt time.Time
}

// MemoryStore is an in-process CacheStore. Expired entries are invisible to
// Get and removed by ClearExpired.
type MemoryStore struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
	now     func() time.Time
	log     *logger.Logger
}

func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		log:     log,
	}
}

func (c *MemoryStore) Get(ctx context.Context, key string) (model.RateTable, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, found := c.entries[key]
	if !found {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.log.Debug("Cache entry expired", "key", key)
		return nil, false, nil
	}
	return maps.Clone(entry.table), true, nil
}

func (c *MemoryStore) Set(ctx context.Context, key string, table model.RateTable, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = memoryEntry{
		table:     maps.Clone(table),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryStore) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *MemoryStore) ClearExpired(ctx context.Context) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	c.log.Info("Cleared expired cache entries", "count", removed)
	return removed
}
