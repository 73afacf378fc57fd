package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// subscriptionCacheTTL keeps cached records short-lived so an admin
// grant or toggle on another instance shows up quickly even without an
// explicit invalidation.
const subscriptionCacheTTL = 60 * time.Second

// SubscriptionCache is a best-effort Redis cache in front of the
// premium_users table. A cache failure is only ever a miss — callers
// fall through to Postgres, it never substitutes for a store error.
type SubscriptionCache struct {
	client *redis.Client
}

// NewSubscriptionCache connects to Redis and verifies the connection.
func NewSubscriptionCache(ctx context.Context, addr, password string, db int) (*SubscriptionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &SubscriptionCache{client: client}, nil
}

func (c *SubscriptionCache) key(userID string) string {
	return "caretrack:premium:" + userID
}

// Get returns the cached record for a user. The second result is false
// on a miss or any cache failure.
func (c *SubscriptionCache) Get(ctx context.Context, userID string) (*domain.SubscriptionRecord, bool) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("premium cache read failed")
		}
		return nil, false
	}
	var rec domain.SubscriptionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("premium cache entry corrupt")
		return nil, false
	}
	return &rec, true
}

// Set stores a record, best-effort.
func (c *SubscriptionCache) Set(ctx context.Context, rec *domain.SubscriptionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(rec.UserID), data, subscriptionCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", rec.UserID).Msg("premium cache write failed")
	}
}

// Invalidate drops the cached record after a mutation.
func (c *SubscriptionCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("premium cache invalidation failed")
	}
}

// Ping reports cache health.
func (c *SubscriptionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *SubscriptionCache) Close() error {
	return c.client.Close()
}
