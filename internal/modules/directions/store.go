// README: Directions cache backed by Redis, keyed by route id.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("directions not cached")

const cacheKeyPrefix = "directions:"

type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redis *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redis, ttl: ttl}
}

func (c *Cache) Put(ctx context.Context, d *Directions) error {
	if d == nil || d.RouteID == "" {
		return errors.New("directions without route id")
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, cacheKeyPrefix+d.RouteID, payload, c.ttl).Err()
}

func (c *Cache) Get(ctx context.Context, routeID string) (*Directions, error) {
	payload, err := c.redis.Get(ctx, cacheKeyPrefix+routeID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var d Directions
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("decoding cached directions %s: %w", routeID, err)
	}
	return &d, nil
}
