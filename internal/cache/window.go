package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter for KEYS[1] and starts its window
// on the first hit. It returns the new count and the window's remaining ms.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return { count, ttl }
`)

// WindowCounter counts hits per key in fixed windows stored in Redis.
type WindowCounter struct {
	client *redis.Client
}

func NewWindowCounter(client *redis.Client) *WindowCounter {
	return &WindowCounter{client: client}
}

// Hit records one hit for key and returns the hits so far in the current
// window together with the time left until the window resets.
func (w *WindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	vals, err := fixedWindowScript.Run(ctx, w.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("window hit: %w", err)
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("window hit: unexpected result %v", vals)
	}
	return vals[0], time.Duration(vals[1]) * time.Millisecond, nil
}
