// Package cache wraps Redis with JSON serialization for the read-heavy
// lookups (subscription state, pharmacy lists, profiles).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saglikasistani/backend/internal/config"
)

// Cache is a thin typed wrapper around a Redis client.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// Get unmarshals the cached value at key into result. The bool reports
// whether the key was present.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache key %s: %w", key, err)
	}
	return true, nil
}

// Set stores value at key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value at key with an explicit expiration.
func (c *Cache) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache key %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// SubscriptionKey returns the cache key for a user's subscription state.
func SubscriptionKey(userID string) string {
	return "subscription:" + userID
}

// PharmacyKey returns the cache key for a city/district duty pharmacy list.
func PharmacyKey(city, district string) string {
	if district == "" {
		return "pharmacies:" + city
	}
	return "pharmacies:" + city + ":" + district
}

// HospitalKey returns the cache key for a nearby hospital lookup. The
// coordinates are rounded so close-by requests share an entry.
func HospitalKey(latitude, longitude float64) string {
	return fmt.Sprintf("hospitals:%.2f:%.2f", latitude, longitude)
}

// ProfileKey returns the cache key for a user's health profile.
func ProfileKey(userID string) string {
	return "profile:" + userID
}
