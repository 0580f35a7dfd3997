package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/capgarrick/deepfake-detector/internal/infra/metrics"
)

// ResultCache keys analysis payloads by media digest so repeated uploads of
// the same file always answer with the same scores.
type ResultCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewResultCache(client RedisClient, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ResultCache) Get(ctx context.Context, digest string) (map[string]any, bool) {
	data, err := c.client.Get(ctx, "analysis_result:"+digest)
	if err != nil {
		metrics.IncCacheRequest("result", "miss")
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		metrics.IncCacheRequest("result", "miss")
		return nil, false
	}
	metrics.IncCacheRequest("result", "hit")
	return payload, true
}

func (c *ResultCache) Store(ctx context.Context, digest string, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "analysis_result:"+digest, data, c.ttl)
}
