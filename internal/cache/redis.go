package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 24 * time.Hour
	keyPrefix  = "polarity:v1:"
)

// Cache stores description polarity scores in Redis so restarts do not
// rescore the whole catalog.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

type cachedScore struct {
	Polarity float64 `json:"polarity"`
	ScoredAt int64   `json:"scored_at"`
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(text string) string {
	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64String(text))
}

// Get a single polarity from cache
func (c *Cache) Get(ctx context.Context, text string) (float64, bool, error) {
	key := buildKey(text)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get polarity from cache: %w", err)
	}

	var score cachedScore
	if err := json.Unmarshal([]byte(val), &score); err != nil {
		return 0, false, fmt.Errorf("failed to unmarshal polarity %s: %w", key, err)
	}
	return score.Polarity, true, nil
}

// GetMany looks up every text in one round trip. Missing texts are absent
// from the returned map.
func (c *Cache) GetMany(ctx context.Context, texts []string) (map[string]float64, error) {
	found := make(map[string]float64, len(texts))
	if len(texts) == 0 {
		return found, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = buildKey(text)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get polarities from cache: %w", err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var score cachedScore
		if err := json.Unmarshal([]byte(s), &score); err != nil {
			// a corrupt entry is treated as a miss and overwritten on the next SetMany
			continue
		}
		found[texts[i]] = score.Polarity
	}
	return found, nil
}

// Set stores one polarity
func (c *Cache) Set(ctx context.Context, text string, polarity float64) error {
	val, err := json.Marshal(cachedScore{Polarity: polarity, ScoredAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("failed to marshal polarity: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(text), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set polarity in cache: %w", err)
	}
	return nil
}

// SetMany stores every score in a single pipeline.
func (c *Cache) SetMany(ctx context.Context, scores map[string]float64) error {
	if len(scores) == 0 {
		return nil
	}

	now := time.Now().Unix()
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for text, polarity := range scores {
			val, err := json.Marshal(cachedScore{Polarity: polarity, ScoredAt: now})
			if err != nil {
				return fmt.Errorf("failed to marshal polarity: %w", err)
			}
			pipe.Set(ctx, buildKey(text), val, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set polarities in cache: %w", err)
	}
	return nil
}

// Clear every cached polarity: used when the scorer changes
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
