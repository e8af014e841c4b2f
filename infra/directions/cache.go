package directions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/evswap/core/logger"
	"github.com/kilianp07/evswap/core/planner"
)

// DefaultCacheTTL is used when no TTL is configured.
const DefaultCacheTTL = 24 * time.Hour

const keyPrefix = "evswap:route:"

type cachedRoute struct {
	EncodedPath string  `json:"encoded_path"`
	DistanceM   float64 `json:"distance_m"`
	DurationS   float64 `json:"duration_s"`
}

// CachedProvider memoizes routes in Redis. Cache failures are logged and
// fall through to the wrapped provider.
type CachedProvider struct {
	next planner.RouteProvider
	rdb  *redis.Client
	ttl  time.Duration
	log  logger.Logger
}

// NewCachedProvider wraps next with a Redis cache.
func NewCachedProvider(next planner.RouteProvider, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(origin, destination string) string {
	return keyPrefix + origin + "|" + destination
}

// Route implements planner.RouteProvider.
func (c *CachedProvider) Route(ctx context.Context, origin, destination string) (planner.Route, error) {
	key := cacheKey(origin, destination)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cr cachedRoute
		if jerr := json.Unmarshal(raw, &cr); jerr == nil {
			return planner.Route{
				EncodedPath: cr.EncodedPath,
				DistanceM:   cr.DistanceM,
				Duration:    time.Duration(cr.DurationS * float64(time.Second)),
			}, nil
		}
		c.log.Warnf("route cache: corrupt entry %s", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warnf("route cache: get %s: %v", key, err)
	}

	route, err := c.next.Route(ctx, origin, destination)
	if err != nil {
		return planner.Route{}, err
	}
	payload, _ := json.Marshal(cachedRoute{
		EncodedPath: route.EncodedPath,
		DistanceM:   route.DistanceM,
		DurationS:   route.Duration.Seconds(),
	})
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warnf("route cache: set %s: %v", key, err)
	}
	return route, nil
}

// Close releases the Redis client.
func (c *CachedProvider) Close() error { return c.rdb.Close() }
