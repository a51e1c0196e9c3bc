package store

import (
	"context"
	"time"
)

type memoryEntry struct {
	value    string
	deadline time.Time // zero means no expiry
}

// MemoryBackend is a map-backed Backend with lazy expiry. It stands in for
// either real backend in tests and degraded setups.
type MemoryBackend struct {
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.deadline.IsZero() && m.now().After(e.deadline) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.deadline = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

// Len reports the number of live entries, counting expired ones not yet
// lazily dropped.
func (m *MemoryBackend) Len() int {
	return len(m.entries)
}
