package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agendavel/internal/config"
	"agendavel/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisOccupancyCache stores booked-times lists per (location, date) with a
// short TTL. It is a read-path optimization only: the booking commit always
// queries sqlite.
type RedisOccupancyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisOccupancyCache(client *redis.Client, ttl time.Duration) *RedisOccupancyCache {
	return &RedisOccupancyCache{
		client: client,
		ttl:    ttl,
	}
}

func occupancyKey(locationKey, date string) string {
	return fmt.Sprintf("slots:%s:%s", locationKey, date)
}

func (r *RedisOccupancyCache) GetOccupancy(ctx context.Context, locationKey, date string) (*models.DayOccupancy, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, occupancyKey(locationKey, date)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get occupancy from redis: %w", err)
	}

	var occupancy models.DayOccupancy
	if err := json.Unmarshal([]byte(val), &occupancy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal occupancy: %w", err)
	}

	return &occupancy, nil
}

func (r *RedisOccupancyCache) SetOccupancy(ctx context.Context, occupancy *models.DayOccupancy) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(occupancy)
	if err != nil {
		return fmt.Errorf("failed to marshal occupancy: %w", err)
	}

	key := occupancyKey(occupancy.LocationKey, occupancy.Date)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set occupancy in redis: %w", err)
	}

	return nil
}

func (r *RedisOccupancyCache) Invalidate(ctx context.Context, locationKey, date string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, occupancyKey(locationKey, date)).Err(); err != nil {
		return fmt.Errorf("failed to delete occupancy from redis: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
