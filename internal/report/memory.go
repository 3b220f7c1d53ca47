package report

import (
	"context"
	"sync"
	"time"

	"github.com/atsbuddy/ats-buddy/internal/types"
)

// MemoryStore is an in-process ArtifactStore for local one-shot runs and
// tests. Download "URLs" are file-scheme-less pseudo references.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]string
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]string),
		now:     time.Now,
	}
}

// Store keeps the rendered report in memory.
func (m *MemoryStore) Store(ctx context.Context, content string, format types.ReportFormat, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = content
	return nil
}

// PresignDownload returns a memory:// reference valid for the standard TTL.
func (m *MemoryStore) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return "", time.Time{}, &StorageError{Message: "no stored report for key " + key}
	}
	return "memory://" + key, m.now().Add(DownloadURLTTL), nil
}

// Get returns a stored report's content.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.objects[key]
	return content, ok
}

// Len reports how many objects are stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
