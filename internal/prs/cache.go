package prs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Cache keeps computed PR collections in redis for a short while, keyed per
// user. Workout writes invalidate the key, the TTL covers everything else.
// A TTL of zero (or less) turns the cache off entirely.
type Cache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func prKey(userID string) string {
	return fmt.Sprintf("prs::%s", userID)
}

func (c *Cache) Get(ctx context.Context, userID string) ([]PersonalRecord, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.prs.get")
	defer span.End()

	cmd := c.redisClient.Get(ctx, prKey(userID))
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("failed to get cached prs for user %s: %s", userID, err)
		}
		span.SetAttributes(attribute.Bool("prs.from-cache", false))
		return nil, false
	}

	var records []PersonalRecord
	if err := json.Unmarshal([]byte(cmd.Val()), &records); err != nil {
		log.Errorf("failed to unmarshal cached prs for user %s: %s", userID, err)
		return nil, false
	}

	span.SetAttributes(attribute.Bool("prs.from-cache", true))
	return records, true
}

func (c *Cache) Set(ctx context.Context, userID string, records []PersonalRecord) {
	if c.ttl <= 0 {
		// redis treats a zero expiration as "keep forever", which is the
		// opposite of what a disabled cache should do
		return
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.prs.set")
	defer span.End()

	recordsJson, err := json.Marshal(records)
	if err != nil {
		log.Errorf("failed to marshal prs for user %s: %s", userID, err)
		return
	}

	if err := c.redisClient.Set(ctx, prKey(userID), recordsJson, c.ttl).Err(); err != nil {
		log.Errorf("failed to cache prs for user %s: %s", userID, err)
	}
}

// InvalidatePRs drops the user's cached PR view after their workout history
// changed.
func (c *Cache) InvalidatePRs(ctx context.Context, userID string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.prs.invalidate")
	defer span.End()

	if err := c.redisClient.Del(ctx, prKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate prs for user %s: %w", userID, err)
	}
	return nil
}
