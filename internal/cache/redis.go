package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sitfly/seatswap/config"
)

const searchKeyPrefix = "cache:search:"

// RedisCache is a generic JSON key/value cache with optional TTL plus the
// per-swap mutation locks. Corrupt entries are treated as absent, never
// surfaced to callers.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// Get deserializes the entry under key into dest and reports whether it was
// present. Missing keys, expired keys and undecodable payloads all read as
// absent.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("cache: dropping undecodable entry %q: %v", key, err)
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) Remove(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Clear(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

// InvalidatePrefix removes every entry whose key starts with prefix. Used
// to drop search-result caches after a mutating operation.
func (c *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// AcquireSwapLock takes the per-swap mutation lock so at most one
// accept/reject runs against a swap at a time.
func (c *RedisCache) AcquireSwapLock(ctx context.Context, swapID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, swapLockKey(swapID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSwapLock(ctx context.Context, swapID string) error {
	return c.client.Del(ctx, swapLockKey(swapID)).Err()
}

// SearchKey builds a deterministic cache key from search parameters. The
// JSON encoding of a struct is stable (field order), so identical searches
// always hit the same key.
func SearchKey(params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return searchKeyPrefix + "invalid"
	}
	return searchKeyPrefix + string(data)
}

// SearchPrefix is the invalidation prefix covering all cached searches.
func SearchPrefix() string {
	return searchKeyPrefix
}

func swapLockKey(swapID string) string {
	return fmt.Sprintf("lock:swap:%s", swapID)
}
