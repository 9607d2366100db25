package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
)

// ErrCacheMiss is returned when no cached score exists for a lead.
var ErrCacheMiss = errors.New("cache miss")

const currentScoreTTL = 30 * time.Minute

// ScoreCache caches the current score per lead in Redis. It is a
// read-through accelerator only: the score history in Postgres stays
// the source of truth, so every operation here is safe to fail.
type ScoreCache struct {
	redis *redis.Client
}

// NewScoreCache creates a Redis-backed score cache and verifies the
// connection.
func NewScoreCache(redisURL string) (*ScoreCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return &ScoreCache{redis: client}, nil
}

// NewScoreCacheWithClient wraps an existing Redis client, for tests.
func NewScoreCacheWithClient(client *redis.Client) *ScoreCache {
	return &ScoreCache{redis: client}
}

// Close closes the Redis connection
func (c *ScoreCache) Close() error {
	return c.redis.Close()
}

func currentScoreKey(leadID string) string {
	return "leadscore:current:" + leadID
}

// SetCurrentScore stores the latest score for a lead
func (c *ScoreCache) SetCurrentScore(ctx context.Context, score *leadscore.LeadScore) error {
	payload, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	return c.redis.Set(ctx, currentScoreKey(score.LeadID), payload, currentScoreTTL).Err()
}

// GetCurrentScore retrieves the cached latest score for a lead.
// Returns ErrCacheMiss when nothing is cached.
func (c *ScoreCache) GetCurrentScore(ctx context.Context, leadID string) (*leadscore.LeadScore, error) {
	payload, err := c.redis.Get(ctx, currentScoreKey(leadID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached score: %w", err)
	}

	var score leadscore.LeadScore
	if err := json.Unmarshal(payload, &score); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached score: %w", err)
	}
	return &score, nil
}

// Invalidate drops the cached score for a lead
func (c *ScoreCache) Invalidate(ctx context.Context, leadID string) error {
	return c.redis.Del(ctx, currentScoreKey(leadID)).Err()
}
