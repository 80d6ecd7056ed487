package routing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	redisClient "github.com/592Darkness/ride-dispatch/pkg/redis"
)

const routeCachePrefix = "route:"

// CacheKey returns the stable key for an ordered origin/destination pair.
// Addresses are lowercased and whitespace-collapsed so trivially different
// spellings share an entry.
func CacheKey(origin, destination string) string {
	normalized := normalizeAddress(origin) + "|" + normalizeAddress(destination)
	sum := sha256.Sum256([]byte(normalized))
	return routeCachePrefix + hex.EncodeToString(sum[:])
}

func normalizeAddress(addr string) string {
	return strings.Join(strings.Fields(strings.ToLower(addr)), " ")
}

// Cache is the Redis-backed route cache
type Cache struct {
	redis *redisClient.Client
}

// NewCache creates a route cache
func NewCache(redis *redisClient.Client) *Cache {
	return &Cache{redis: redis}
}

// Get returns the cached estimate for a key, or an error on miss. Expiry is
// handled by the Redis TTL, so anything readable is fresh.
func (c *Cache) Get(ctx context.Context, key string) (*RouteEstimate, error) {
	data, err := c.redis.GetString(ctx, key)
	if err != nil {
		return nil, err
	}

	var estimate RouteEstimate
	if err := json.Unmarshal([]byte(data), &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// Put stores an estimate. Writes are last-write-wins; staleness within the
// TTL window is acceptable, so no locking is needed.
func (c *Cache) Put(ctx context.Context, key string, estimate *RouteEstimate, ttl time.Duration) error {
	data, err := json.Marshal(estimate)
	if err != nil {
		return err
	}
	return c.redis.SetWithExpiration(ctx, key, data, ttl)
}
