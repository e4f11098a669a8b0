package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PSilyDev/survease/internal/model"
)

// ShareCache resolves opaque share tokens back to the survey they were
// minted for.
type ShareCache interface {
	Set(ctx context.Context, shareID string, ref model.SurveyRef) error
	Get(ctx context.Context, shareID string) (*model.SurveyRef, error)
	Delete(ctx context.Context, shareID string) error
}

type shareCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewShareCache creates a new share token cache
func NewShareCache(client *redis.Client) ShareCache {
	return &shareCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *shareCache) Set(ctx context.Context, shareID string, ref model.SurveyRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "share:"+shareID, data, c.ttl).Err()
}

func (c *shareCache) Get(ctx context.Context, shareID string) (*model.SurveyRef, error) {
	data, err := c.client.Get(ctx, "share:"+shareID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ref model.SurveyRef
	if err := json.Unmarshal([]byte(data), &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *shareCache) Delete(ctx context.Context, shareID string) error {
	return c.client.Del(ctx, "share:"+shareID).Err()
}
