package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// SetupMiniRedis creates a miniredis instance for testing.
// Returns the miniredis server and a cleanup function.
func SetupMiniRedis(t *testing.T) (*miniredis.Miniredis, func()) {
	t.Helper()

	mr := miniredis.RunT(t)
	return mr, func() {
		mr.Close()
	}
}

// NewTestRedisClient creates a Redis client connected to miniredis.
func NewTestRedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})
	t.Cleanup(func() { client.Close() })
	return client
}
