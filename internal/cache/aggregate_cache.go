package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PSilyDev/survease/internal/analytics"
)

const aggregateKey = "analytics:aggregate"

// AggregateCache holds the most recent aggregate index so analytics views
// do not re-tally every response on each request. Entries expire quickly
// and are invalidated on every new submission.
type AggregateCache interface {
	Get(ctx context.Context) (analytics.AggregateIndex, error)
	Set(ctx context.Context, idx analytics.AggregateIndex) error
	Invalidate(ctx context.Context) error
}

type aggregateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAggregateCache creates a new aggregate cache
func NewAggregateCache(client *redis.Client) AggregateCache {
	return &aggregateCache{
		client: client,
		ttl:    time.Minute,
	}
}

func (c *aggregateCache) Get(ctx context.Context) (analytics.AggregateIndex, error) {
	data, err := c.client.Get(ctx, aggregateKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var idx analytics.AggregateIndex
	if err := json.Unmarshal([]byte(data), &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (c *aggregateCache) Set(ctx context.Context, idx analytics.AggregateIndex) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, aggregateKey, data, c.ttl).Err()
}

func (c *aggregateCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, aggregateKey).Err()
}
