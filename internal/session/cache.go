package session

import (
	"context"
	"encoding/json"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/logger"
	"sleepcalc-api/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// ProfileCache is the durable single-slot profile store. The slot holds at
// most one serialized profile, last-seen-user-wins.
type ProfileCache interface {
	// Load returns the cached profile only when its owner matches userID.
	// Best-effort: any read or decode failure is treated as a miss.
	Load(ctx context.Context, userID string) *domain.Profile

	// Save overwrites the slot; nil evicts it.
	Save(ctx context.Context, profile *domain.Profile)
}

// RedisProfileCache keeps the slot under a fixed environment-prefixed key.
type RedisProfileCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisProfileCache creates a Redis-backed profile cache
func NewRedisProfileCache(client *redis.Client, logger *logger.Logger) *RedisProfileCache {
	return &RedisProfileCache{client: client, logger: logger}
}

// Load reads the slot and discards entries belonging to a different user.
func (c *RedisProfileCache) Load(ctx context.Context, userID string) *domain.Profile {
	raw, err := c.client.Get(ctx, c.client.KeyBuilder.KeyProfileSlot())
	if err != nil {
		if err != goredis.Nil {
			c.logger.WithError(err).Warn("Profile cache read failed")
		}
		return nil
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		c.logger.WithError(err).Warn("Profile cache entry corrupted, ignoring")
		return nil
	}

	if profile.UserID != userID {
		// Slot belongs to a previously seen user; never surface it.
		return nil
	}
	return &profile
}

// Save overwrites the slot with the serialized profile; nil evicts.
func (c *RedisProfileCache) Save(ctx context.Context, profile *domain.Profile) {
	key := c.client.KeyBuilder.KeyProfileSlot()

	if profile == nil {
		if err := c.client.Delete(ctx, key); err != nil {
			c.logger.WithError(err).Warn("Profile cache eviction failed")
		}
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		c.logger.WithError(err).Error("Failed to marshal profile for caching")
		return
	}

	if err := c.client.Set(ctx, key, string(data), redis.TTLProfileSlot); err != nil {
		c.logger.WithError(err).Warn("Profile cache write failed")
	}
}
