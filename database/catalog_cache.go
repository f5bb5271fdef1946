package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "cache:catalog:"

// CatalogCache is a short-TTL response cache for catalog reads. Logout
// flushes it wholesale along with the rest of the client state.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or nil on miss or any error.
func (c *CatalogCache) Get(ctx context.Context, key string) []byte {
	data, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (c *CatalogCache) Set(ctx context.Context, key string, payload []byte) {
	_ = c.client.Set(ctx, cachePrefix+key, payload, c.ttl).Err()
}

// Flush deletes every cached catalog entry.
func (c *CatalogCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
