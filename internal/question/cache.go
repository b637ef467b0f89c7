package question

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache shares the candidate pool in Redis so concurrent games within the
// TTL window reuse one DB/API round trip. Keyed by pool size only: the
// per-game seed never reaches the cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ PackCache = (*Cache)(nil)

// NewCache builds a cache; non-positive TTL selects the default.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(count int) string {
	return fmt.Sprintf("questionpool:%d", count)
}

// GetPool returns the cached candidate pool or nil on a miss.
func (c *Cache) GetPool(ctx context.Context, count int) ([]Candidate, error) {
	data, err := c.client.Get(ctx, c.key(count)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var pool []Candidate
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// SetPool stores the candidate pool for the configured TTL.
func (c *Cache) SetPool(ctx context.Context, count int, pool []Candidate) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(count), data, c.ttl).Err()
}
