package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"openexchangerates-service/internal/domain/model"
	"openexchangerates-service/pkg/logger"
)

// RedisStore keeps rate tables as JSON strings under prefix+key.
// Rates are encoded as decimal strings so no precision is lost.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	log    *logger.Logger
}

func NewRedisStore(client redis.UniversalClient, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, log: log}
}

// NewRedisStoreFromURL parses a redis:// URL and opens a client.
func NewRedisStoreFromURL(rawURL, prefix string, log *logger.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opt), prefix, log), nil
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

func (r *RedisStore) Get(ctx context.Context, key string) (model.RateTable, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug("Redis cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	table := model.RateTable{}
	if err := json.Unmarshal(val, &table); err != nil {
		return nil, false, fmt.Errorf("decode cached rates %s: %w", key, err)
	}
	r.log.Debug("Redis cache hit", "key", key, "rates", len(table))
	return table, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, table model.RateTable, ttl time.Duration) error {
	if table == nil {
		table = model.RateTable{}
	}
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode rates %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.log.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
