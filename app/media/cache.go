package media

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultCacheTTL = 24 * time.Hour

// ResultCache remembers probe outcomes across runs.
type ResultCache interface {
	Get(ctx context.Context, url string) (verified bool, found bool, err error)
	Set(ctx context.Context, url string, verified bool) error
}

// RedisCache stores probe outcomes in Redis under a hashed URL key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	slog.Info("Connected to Redis", "address", addr)

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, url string) (bool, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(url)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to get cached probe for %s: %w", url, err)
	}
	return val == "1", true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, verified bool) error {
	val := "0"
	if verified {
		val = "1"
	}
	if err := c.client.Set(ctx, cacheKey(url), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache probe for %s: %w", url, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("media:%x", hash[:16])
}
