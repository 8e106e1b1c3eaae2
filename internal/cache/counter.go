// Package cache keeps short-lived copies of assessment counters in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flickit-platform/assessment-api/internal/models"
)

const keyPrefix = "assessment-count"

// Counter is anything that can count assessments
type Counter interface {
	CountAssessments(ctx context.Context, filter models.AssessmentCountFilter) (*models.AssessmentCount, error)
}

// CachedCounter serves counters from Redis and falls back to the wrapped
// Counter on a miss. Redis failures never fail a count.
type CachedCounter struct {
	next   Counter
	client redis.Cmdable
	ttl    time.Duration
}

// NewCachedCounter wraps next with a Redis cache whose entries live for ttl
func NewCachedCounter(next Counter, client redis.Cmdable, ttl time.Duration) *CachedCounter {
	return &CachedCounter{next: next, client: client, ttl: ttl}
}

// CountAssessments returns the cached counters or fetches and stores them
func (c *CachedCounter) CountAssessments(ctx context.Context, filter models.AssessmentCountFilter) (*models.AssessmentCount, error) {
	key := Key(filter)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var count models.AssessmentCount
		if err := json.Unmarshal(raw, &count); err == nil {
			return &count, nil
		}
		slog.Warn("discarding unreadable cached count", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("count cache read failed", "key", key, "error", err)
	}

	count, err := c.next.CountAssessments(ctx, filter)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(count)
	if err != nil {
		return count, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("count cache write failed", "key", key, "error", err)
	}

	return count, nil
}

// Key builds the cache key of a filter, for example
// "assessment-count:kit:7:t0d0n1".
func Key(filter models.AssessmentCountFilter) string {
	scope, id := "space", filter.SpaceID
	if filter.KitID != 0 {
		scope, id = "kit", filter.KitID
	}
	return fmt.Sprintf("%s:%s:%d:t%dd%dn%d", keyPrefix, scope, id,
		flag(filter.Total), flag(filter.Deleted), flag(filter.NotDeleted))
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewClient connects to Redis and verifies the connection
func NewClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
