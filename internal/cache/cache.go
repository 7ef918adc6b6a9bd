// Package cache provides an optional Redis read-through cache for
// recommendation responses. The planner itself is cheap, but the dashboard
// polls the recommendation endpoint aggressively while a slot dialog is open;
// caching by request fingerprint keeps that chatter off the scoring path.
//
// The cache degrades to a no-op when no Redis client is configured, and every
// Redis failure reads as a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/pkg/logger"
)

// RecommendationCache stores ranked recommendation lists keyed by request
// fingerprint with a TTL. TTL expiry is the only invalidation: calendar
// mutations change the fingerprint anyway because the snapshot is part of
// the key.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache over the given client. A nil client yields a no-op
// cache, so callers never need to branch on whether Redis is configured.
func New(client *redis.Client, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RecommendationCache{client: client, ttl: ttl}
}

// Key fingerprints a recommendation request. The full segment value is part
// of the fingerprint, not just its ID: callers may supply inline segments
// that reuse an ID with different attributes. The calendar snapshot is part
// of the fingerprint so stale entries can never outlive a mutation.
func Key(segment domain.Segment, goal domain.OptimizationGoal, cal domain.Calendar, candidates []domain.Slot) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	enc.Encode(segment)
	enc.Encode(goal)
	enc.Encode(cal)
	enc.Encode(candidates)
	return "planner:recs:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached recommendations for a key, or false on miss.
func (c *RecommendationCache) Get(ctx context.Context, key string) ([]domain.SlotRecommendation, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("recommendation cache read failed", "error", err)
		}
		return nil, false
	}
	var recs []domain.SlotRecommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		logger.Warn("recommendation cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return recs, true
}

// Set stores recommendations under a key. Failures are logged and ignored.
func (c *RecommendationCache) Set(ctx context.Context, key string, recs []domain.SlotRecommendation) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("recommendation cache write failed", "error", err)
	}
}
