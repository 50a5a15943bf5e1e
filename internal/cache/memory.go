package cache

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold triggers removal of expired entries on Set.
const sweepThreshold = 1024

type entry struct {
	data      []byte
	expiresAt time.Time
}

var _ Store = (*Memory)(nil)

// Memory is a process-local Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry

	// Now is the clock used for expiry, time.Now when nil.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		// Only drop it if nobody refreshed it meanwhile.
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := m.now()
	data := make([]byte, len(value))
	copy(data, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= sweepThreshold {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	m.entries[key] = entry{data: data, expiresAt: now.Add(ttl)}
	return nil
}

// Len counts stored entries, expired ones included until they are swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }
