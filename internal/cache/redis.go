// Package cache stores raw CMS payloads in Redis for a short revalidation
// window.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	projectsKey = "portfolio:cms:projects" // raw ProjectsQuery data payload

	// DefaultTTL matches the page revalidation interval.
	DefaultTTL = 60 * time.Second
)

// RedisCache keeps the last good projects payload
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache on client. A non-positive ttl uses DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and checks the server is reachable
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns the cached payload. ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context) (payload json.RawMessage, ok bool, err error) {
	data, err := c.client.Get(ctx, projectsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached projects: %w", err)
	}
	return json.RawMessage(data), true, nil
}

// Set stores payload for the cache TTL
func (c *RedisCache) Set(ctx context.Context, payload json.RawMessage) error {
	if err := c.client.Set(ctx, projectsKey, []byte(payload), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache projects: %w", err)
	}
	return nil
}

// Invalidate drops the cached payload
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, projectsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached projects: %w", err)
	}
	return nil
}
