package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldown is a Cooldown backed by Redis SET NX with expiry.
type RedisCooldown struct {
	client *redis.Client
	prefix string
}

// NewRedisCacheConfig contains options for creating a new RedisCooldown.
type NewRedisCacheConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// NewRedisCooldown connects to Redis and verifies the connection.
func NewRedisCooldown(ctx context.Context, cfg NewRedisCacheConfig) (*RedisCooldown, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	return NewRedisCooldownFromClient(rdb, cfg.Prefix), nil
}

// NewRedisCooldownFromClient wraps an existing client.
func NewRedisCooldownFromClient(client *redis.Client, prefix string) *RedisCooldown {
	if prefix == "" {
		prefix = "cooldown:"
	}
	return &RedisCooldown{client: client, prefix: prefix}
}

func (r *RedisCooldown) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

func (r *RedisCooldown) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := r.client.PTTL(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis pttl %s: %w", key, err)
	}
	// -2: missing key, -1: no expiry
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Close closes the underlying client.
func (r *RedisCooldown) Close() error {
	return r.client.Close()
}
