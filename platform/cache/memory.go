package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// Memory is a process-local Cache. It is a pure performance optimization:
// entries are derived, idempotent recomputations, so a cold start or a lost
// entry only costs an extra backend round-trip.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     Clock
}

// NewMemory creates an in-memory cache with the given TTL. A nil clock
// defaults to time.Now.
func NewMemory(ttl time.Duration, now Clock) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Compile-time check that Memory implements Cache.
var _ Cache = (*Memory)(nil)

// Get returns the payload for key if it exists and has not expired.
// Expired entries are evicted lazily on access.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if m.now().Sub(entry.storedAt) >= m.ttl {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, still := m.entries[key]; still && m.now().Sub(current.storedAt) >= m.ttl {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set stores the payload, overwriting any previous entry. Last write wins.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, storedAt: m.now()}
	m.mu.Unlock()
}

// Delete removes a single key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// DeletePrefix removes all keys under the given prefix.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) {
	m.mu.Lock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// Len reports the number of live entries, counting expired ones that have not
// been evicted yet. Intended for tests and debug endpoints.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
