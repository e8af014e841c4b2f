package directions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evswap/core/planner"
)

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Route(ctx context.Context, origin, destination string) (planner.Route, error) {
	c.calls++
	if c.err != nil {
		return planner.Route{}, c.err
	}
	return planner.Route{EncodedPath: "_p~iF~ps|U", DistanceM: 1500, Duration: 90 * time.Second}, nil
}

func newCache(t *testing.T, next planner.RouteProvider) (*CachedProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewCachedProvider(next, rdb, time.Minute, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCachedProvider_HitsCache(t *testing.T) {
	next := &countingProvider{}
	c, mr := newCache(t, next)
	ctx := context.Background()

	first, err := c.Route(ctx, "a", "b")
	require.NoError(t, err)
	second, err := c.Route(ctx, "a", "b")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(cacheKey("a", "b")))

	_, err = c.Route(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedProvider_Expires(t *testing.T) {
	next := &countingProvider{}
	c, mr := newCache(t, next)
	ctx := context.Background()

	_, err := c.Route(ctx, "a", "b")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.Route(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	next := &countingProvider{err: errors.New("quota")}
	c, mr := newCache(t, next)

	_, err := c.Route(context.Background(), "a", "b")
	assert.Error(t, err)
	assert.False(t, mr.Exists(cacheKey("a", "b")))
}

func TestCachedProvider_RedisDown(t *testing.T) {
	next := &countingProvider{}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	c := NewCachedProvider(next, rdb, time.Minute, nil)
	defer func() { _ = c.Close() }()

	route, err := c.Route(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, route.DistanceM)
	assert.Equal(t, 1, next.calls)
}
