//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/ids"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("JHS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("JHS_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestWindowCounterCountsWithinWindow(t *testing.T) {
	client := testClient(t)
	counter := NewWindowCounter(client)
	ctx := context.Background()
	key := "test:rl:" + ids.New()
	t.Cleanup(func() { client.Del(ctx, key) })

	for want := int64(1); want <= 3; want++ {
		count, reset, err := counter.Hit(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.Greater(t, reset, time.Duration(0))
		assert.LessOrEqual(t, reset, time.Minute)
	}
}

func TestWindowCounterResetsAfterWindow(t *testing.T) {
	client := testClient(t)
	counter := NewWindowCounter(client)
	ctx := context.Background()
	key := "test:rl:" + ids.New()
	t.Cleanup(func() { client.Del(ctx, key) })

	_, _, err := counter.Hit(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(120 * time.Millisecond)

	count, _, err := counter.Hit(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestContentCacheRoundTripAndInvalidate(t *testing.T) {
	client := testClient(t)
	c := NewContentCache(client, "test:"+ids.New(), time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "services", []string{"welding", "steel"}))

	var got []string
	found, err := c.Get(ctx, "services", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"welding", "steel"}, got)

	require.NoError(t, c.Invalidate(ctx, "services"))
	found, err = c.Get(ctx, "services", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
