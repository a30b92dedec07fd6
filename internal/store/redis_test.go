package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server only when REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, TTL: time.Minute, Namespace: "trendscreener-test"})
	require.NoError(t, err)
	defer c.Close()
	defer c.client.Del(ctx, c.key("X"))

	require.NoError(t, c.SaveBars(ctx, "X", day(1), day(5), barsFor(2, 3)))
	require.NoError(t, c.SaveBars(ctx, "X", day(6), day(9), barsFor(8)))

	got, ok, err := c.LoadBars(ctx, "X", day(1), day(9))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 3)

	_, ok, err = c.LoadBars(ctx, "X", day(1), day(20))
	require.NoError(t, err)
	assert.False(t, ok)
}
