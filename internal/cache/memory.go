package cache

import (
	"context"
	"sync"
	"time"

	"braces.dev/errtrace"
)

// Memory is an in-process Store.
//
// The zero value is ready to use.
type Memory struct {
	// Now reports the current time.
	// Defaults to time.Now.
	Now func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

var _ Store = (*Memory)(nil)

type memoryEntry struct {
	value   []byte
	expires time.Time // zero if the entry never expires
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Get returns the value at key if it has not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, errtrace.Wrap(ErrNotFound)
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		// Re-check: another writer may have refreshed the key.
		if cur, ok := m.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, errtrace.Wrap(ErrNotFound)
	}

	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value at key.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries == nil {
		m.entries = make(map[string]memoryEntry)
	}
	m.entries[key] = e
	return nil
}

// Len reports the number of entries held, including expired ones
// that have not been evicted yet.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
