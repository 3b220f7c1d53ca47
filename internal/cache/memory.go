package cache

import (
	"context"
	"sync"
	"time"

	"github.com/atsbuddy/ats-buddy/internal/fingerprint"
)

// MemoryStore is an in-process Store used for local CLI runs and tests.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[fingerprint.Fingerprint]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[fingerprint.Fingerprint]Entry)}
}

// Get returns the stored entry, or nil when absent. Expiry is left to the
// caller; this mirrors a backend that only removes items via housekeeping.
func (m *MemoryStore) Get(_ context.Context, fp fingerprint.Fingerprint) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[fp]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry unless a live one already exists for the fingerprint.
// Re-writing an expired fingerprint replaces the stale item.
func (m *MemoryStore) Put(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[entry.Fingerprint]; ok && !existing.Expired(time.Now()) {
		return nil
	}
	m.entries[entry.Fingerprint] = entry
	return nil
}

// Len reports the number of physically stored entries, expired included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
