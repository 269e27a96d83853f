// Package cache provides short-lived cooldown keys, used to reject repeated
// actions (such as copying a coupon code) while a previous one is in flight.
package cache

import (
	"context"
	"time"
)

// Cooldown reserves keys for a limited time.
type Cooldown interface {
	// Acquire reserves key for ttl. It returns false when the key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// TTL returns the remaining reservation time of key, or zero when free.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
