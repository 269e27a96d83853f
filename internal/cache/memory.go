package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCooldown is an in-process Cooldown used when no Redis is configured.
// Reservations are not shared between replicas.
type MemoryCooldown struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryCooldown() *MemoryCooldown {
	return &MemoryCooldown{until: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryCooldown) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if until, ok := m.until[key]; ok && now.Before(until) {
		return false, nil
	}
	m.until[key] = now.Add(ttl)

	// drop expired keys so the map does not grow without bound
	for k, until := range m.until {
		if !now.Before(until) {
			delete(m.until, k)
		}
	}
	return true, nil
}

func (m *MemoryCooldown) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.until[key]
	if !ok {
		return 0, nil
	}
	if d := until.Sub(m.now()); d > 0 {
		return d, nil
	}
	return 0, nil
}
