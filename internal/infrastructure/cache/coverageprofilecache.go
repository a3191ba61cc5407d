package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/shared/logger"
)

const (
	profileKeyPrefix = "coverage:profile:"
	// Short TTL keeps stale payer decisions bounded; jitter spreads refresh
	// load after a cold start (anti-stampede).
	baseProfileTTL   = 5 * time.Minute
	profileTTLJitter = 1 * time.Minute
)

// RedisCoverageProfileCache implements coverage.ProfileCache backed by Redis.
// Cached profiles are an optimization only; a miss or a Redis outage falls
// back to recomputation.
type RedisCoverageProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisCoverageProfileCache creates a new Redis-based profile cache.
// A non-positive ttl falls back to the default.
func NewRedisCoverageProfileCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisCoverageProfileCache {
	if ttl <= 0 {
		ttl = baseProfileTTL
	}
	return &RedisCoverageProfileCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

var _ coverage.ProfileCache = (*RedisCoverageProfileCache)(nil)

func (c *RedisCoverageProfileCache) key(learnerID uint) string {
	return fmt.Sprintf("%s%d", profileKeyPrefix, learnerID)
}

// Get retrieves a cached profile, (nil, nil) on miss.
func (c *RedisCoverageProfileCache) Get(ctx context.Context, learnerID uint) (*coverage.CoverageProfile, error) {
	data, err := c.client.Get(ctx, c.key(learnerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coverage profile from cache: %w", err)
	}

	var snapshot coverage.ProfileSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.logger.Warnw("dropping corrupt coverage profile cache entry",
			"learner_id", learnerID,
			"error", err)
		c.client.Del(ctx, c.key(learnerID))
		return nil, nil
	}

	return coverage.FromSnapshot(snapshot), nil
}

// Set stores a computed profile with a jittered TTL.
func (c *RedisCoverageProfileCache) Set(ctx context.Context, profile *coverage.CoverageProfile) error {
	data, err := json.Marshal(profile.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal coverage profile: %w", err)
	}

	if err := c.client.Set(ctx, c.key(profile.LearnerID()), data, c.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("failed to set coverage profile in cache: %w", err)
	}

	c.logger.Debugw("coverage profile cached",
		"learner_id", profile.LearnerID(),
		"effective_count", len(profile.Effective()),
	)
	return nil
}

// Invalidate removes a learner's cached profile after a seat event.
func (c *RedisCoverageProfileCache) Invalidate(ctx context.Context, learnerID uint) error {
	if err := c.client.Del(ctx, c.key(learnerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate coverage profile cache: %w", err)
	}

	c.logger.Debugw("coverage profile cache invalidated", "learner_id", learnerID)
	return nil
}

func (c *RedisCoverageProfileCache) ttlWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(profileTTLJitter)))
	return c.ttl + jitter
}
