package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
	}

	require.NoError(t, c.Set(ctx, "key", payload{Name: "Netflix", Price: 15}, time.Hour))

	var got payload
	found, err := c.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "Netflix", Price: 15}, got)
}

func TestCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	var got string
	found, err := c.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Invalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Hour))
	require.NoError(t, c.Invalidate(ctx, "key"))

	var got string
	found, err := c.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
