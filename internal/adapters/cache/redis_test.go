package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./internal/adapters/cache/
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	c := NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), 0, time.Minute)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Ping(context.Background()))
	return c
}

func TestRedisCache_GetSet(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	want := domain.Result{
		Headline:   "IRR: 15.24%",
		Value:      15.24,
		Computable: true,
		Chart:      &domain.Chart{Kind: domain.ChartLine, Labels: []string{"0%"}, Series: []domain.ChartSeries{{Name: "NPV", Values: []float64{50000}}}},
	}
	require.NoError(t, c.Set(ctx, key, want))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisCache_Unreachable(t *testing.T) {
	c := NewRedisCache("127.0.0.1:1", "", 0, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, c.Ping(ctx))

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "errors are treated as a miss")
}
