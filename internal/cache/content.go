package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ContentCache stores JSON snapshots of public content under prefixed keys.
type ContentCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewContentCache(client *redis.Client, prefix string, ttl time.Duration) *ContentCache {
	return &ContentCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ContentCache) key(name string) string {
	return c.prefix + ":" + name
}

// Get decodes the cached value into dst and reports whether it was present.
func (c *ContentCache) Get(ctx context.Context, name string, dst any) (bool, error) {
	if c.ttl <= 0 {
		return false, nil
	}
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", name, err)
	}
	return true, nil
}

func (c *ContentCache) Set(ctx context.Context, name string, value any) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", name, err)
	}
	if err := c.client.Set(ctx, c.key(name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", name, err)
	}
	return nil
}

func (c *ContentCache) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, c.key(name))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
