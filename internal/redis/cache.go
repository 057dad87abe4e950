package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - trending:feed:{limit}:{offset} - trending feed pages
// - trending:featured:{limit}      - featured outfits
// All trending keys are invalidated as a group after each pipeline run.

// CacheStore is a JSON value cache backed by Redis.
type CacheStore struct {
	client *goredis.Client
}

func NewCacheStore(client *goredis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetJSON reads key into dest. Returns false on a cache miss.
func (c *CacheStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key with the given TTL.
func (c *CacheStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// DeletePrefix removes every key under the given prefix. SCAN-based, so it
// is safe on a shared instance but should only run on invalidation events.
func (c *CacheStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Ping checks if Redis is available.
func (c *CacheStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
