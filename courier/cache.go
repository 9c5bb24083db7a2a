package courier

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// CacheProvider is the optional keyed store of prior responses consulted by
// the executor. Keys are request signatures, so two calls that canonicalize
// identically share a cache entry. Providers own their eviction; the core
// never implements it.
type CacheProvider interface {
	Get(ctx context.Context, key string) (*TransportResponse, bool, error)
	Set(ctx context.Context, key string, resp *TransportResponse) error
}

// RedisCache is a CacheProvider backed by Redis. Entries expire via Redis
// TTL; there is no client-side eviction logic.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisCache creates a RedisCache storing entries under "courier:" with
// the given TTL. A zero TTL stores entries without expiry.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "courier:"}
}

// Get implements CacheProvider. A missing key is (nil, false, nil); only
// infrastructure problems surface as errors.
func (c *RedisCache) Get(ctx context.Context, key string) (*TransportResponse, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp TransportResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return &resp, true, nil
}

// Set implements CacheProvider.
func (c *RedisCache) Set(ctx context.Context, key string, resp *TransportResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}
