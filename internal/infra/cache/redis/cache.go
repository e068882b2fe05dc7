// Package redis stores cached query results in Redis so every instance of the
// service shares them.
//
// Key strategy:
//   - Query results: imoveis:query:v1:{sha256(cache key)} → TTL from CHAT_CACHE_TTL
//   - Purge generation: imoveis:query:v1-gen → counter, no TTL
package redis

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "imoveis:query:v1:"
	purgeBatch    = 500
)

// ResultCache implements the query cache on top of a Redis client.
type ResultCache struct {
	rdb    goredis.UniversalClient
	prefix string
	genKey string
}

// New creates a ResultCache. addr example: "localhost:6379".
func New(addr, password string, db int) *ResultCache {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewWithClient(rdb, "")
}

func NewWithClient(rdb goredis.UniversalClient, prefix string) *ResultCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &ResultCache{rdb: rdb, prefix: prefix, genKey: strings.TrimSuffix(prefix, ":") + "-gen"}
}

// Key hashes the raw cache key so arbitrary chat messages stay bounded.
func (c *ResultCache) Key(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return c.prefix + fmt.Sprintf("%x", sum)
}

// Get returns the cached payload; a miss is (nil, false, nil).
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get: %w", err)
	}
	return val, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.Key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

// Generation returns the purge counter shared by every instance.
func (c *ResultCache) Generation(ctx context.Context) (uint64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: generation: %w", err)
	}
	return gen, nil
}

// Purge bumps the generation and deletes every key under the cache prefix.
func (c *ResultCache) Purge(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.genKey).Err(); err != nil {
		return fmt.Errorf("redis: incr generation: %w", err)
	}
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+"*", purgeBatch).Result()
		if err != nil {
			return fmt.Errorf("redis: scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis: del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ping checks connectivity.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *ResultCache) Close() error { return c.rdb.Close() }
