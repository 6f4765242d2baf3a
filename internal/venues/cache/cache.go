// Package cache keeps the venue catalog's display names in Redis so conflict
// checks do not hit Mongo on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const namesKey = "venues:names"

// NameCache stores the ordered list of catalog names. Get reports ok=false on
// a miss.
type NameCache interface {
	Get(ctx context.Context) (names []string, ok bool, err error)
	Set(ctx context.Context, names []string) error
	Invalidate(ctx context.Context) error
}

type redisNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNameCache(client *redis.Client, ttl time.Duration) NameCache {
	return &redisNameCache{client: client, ttl: ttl}
}

func (c *redisNameCache) Get(ctx context.Context) ([]string, bool, error) {
	data, err := c.client.Get(ctx, namesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read venue cache: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, false, fmt.Errorf("failed to decode venue cache: %w", err)
	}
	return names, true, nil
}

func (c *redisNameCache) Set(ctx context.Context, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode venue cache: %w", err)
	}
	if err := c.client.Set(ctx, namesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write venue cache: %w", err)
	}
	return nil
}

func (c *redisNameCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, namesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate venue cache: %w", err)
	}
	return nil
}

type noopNameCache struct{}

// NewNoopNameCache always misses. It is used when Redis is not configured.
func NewNoopNameCache() NameCache {
	return noopNameCache{}
}

func (noopNameCache) Get(context.Context) ([]string, bool, error) { return nil, false, nil }

func (noopNameCache) Set(context.Context, []string) error { return nil }

func (noopNameCache) Invalidate(context.Context) error { return nil }
