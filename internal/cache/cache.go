// Package cache provides Redis-based caching for computed dashboard and
// report payloads.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per payload type. Aggregates are cheap to recompute, so these stay
// short; the cache exists to absorb dashboard polling, not to be durable.
const (
	TTLOverview = 30 * time.Second
	TTLChart    = time.Minute
	TTLSummary  = time.Minute
)

// Keys for cached payloads
const (
	KeyOverview = "dashboard:overview"
	KeyChart    = "dashboard:chart"
	KeySummary  = "reports:summary"
)

// Cache wraps a Redis client. A disabled cache is a no-op, so callers
// never branch on whether caching is configured.
type Cache struct {
	client    *redis.Client
	keyPrefix string
	enabled   bool
}

// Config holds cache configuration
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Enabled   bool
}

// New creates a Cache. With Enabled false no connection is made.
func New(cfg *Config) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "comptrack"
	}

	return &Cache{client: client, keyPrefix: prefix, enabled: true}, nil
}

func (c *Cache) key(k string) string {
	return c.keyPrefix + ":" + k
}

// Get loads a cached payload into dest. The bool reports whether the key
// was present; cache errors surface as misses so a flaky Redis never
// breaks a read path.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled {
		return false
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// Set stores a payload under key with the given TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Invalidate removes cached payloads, called after record mutations
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	c.client.Del(ctx, full...)
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}
