package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", domain.Result{Headline: "IRR: 15.24%"}))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "IRR: 15.24%", got.Headline)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", domain.Result{Headline: "x"}))
	now = now.Add(2 * time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	c := NewMemoryCache(0, 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", domain.Result{}))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, "b", domain.Result{}))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, "c", domain.Result{}))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}
