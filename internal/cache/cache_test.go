package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsbuddy/ats-buddy/internal/fingerprint"
)

// brokenStore simulates an unavailable cache backend.
type brokenStore struct{}

func (b *brokenStore) Get(context.Context, fingerprint.Fingerprint) (*Entry, error) {
	return nil, errors.New("backend unavailable")
}

func (b *brokenStore) Put(context.Context, Entry) error {
	return errors.New("backend unavailable")
}

func mustFingerprint(t *testing.T, content string) fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.Compute([]byte(content))
	require.NoError(t, err)
	return fp
}

func TestCache_SaveAndLookup(t *testing.T) {
	c := New(NewMemoryStore(), time.Hour)
	fp := mustFingerprint(t, "resume content")

	require.Nil(t, c.Lookup(context.Background(), fp))

	require.NoError(t, c.Save(context.Background(), fp, "extracted text", "resume.pdf"))

	entry := c.Lookup(context.Background(), fp)
	require.NotNil(t, entry)
	assert.Equal(t, "extracted text", entry.ExtractedText)
	assert.Equal(t, "resume.pdf", entry.OriginalFilename)
	assert.Equal(t, fp, entry.Fingerprint)
	assert.True(t, entry.ExpiresAt.After(entry.CreatedAt))
}

func TestCache_PutIdempotent(t *testing.T) {
	store := NewMemoryStore()
	c := New(store, time.Hour)
	fp := mustFingerprint(t, "resume content")

	require.NoError(t, c.Save(context.Background(), fp, "extracted text", "resume.pdf"))
	first := c.Lookup(context.Background(), fp)
	require.NotNil(t, first)

	// A second write with equal content is a no-op: the original entry survives.
	require.NoError(t, c.Save(context.Background(), fp, "extracted text", "resume.pdf"))
	second := c.Lookup(context.Background(), fp)
	require.NotNil(t, second)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.ExtractedText, second.ExtractedText)
	assert.Equal(t, 1, store.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	c := New(store, time.Hour)
	fp := mustFingerprint(t, "resume content")

	require.NoError(t, c.Save(context.Background(), fp, "extracted text", "resume.pdf"))

	// Move the cache's clock past the TTL. The physical item remains; Lookup
	// must treat it as absent.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	assert.Nil(t, c.Lookup(context.Background(), fp))
	assert.Equal(t, 1, store.Len())
}

func TestCache_FailOpen(t *testing.T) {
	c := New(&brokenStore{}, time.Hour)
	fp := mustFingerprint(t, "resume content")

	// Lookup absorbs backend failure and reports a miss.
	assert.Nil(t, c.Lookup(context.Background(), fp))

	// Save surfaces the error for logging, nothing more.
	assert.Error(t, c.Save(context.Background(), fp, "text", "resume.pdf"))
}

func TestEntry_Expired(t *testing.T) {
	now := time.Now()
	entry := Entry{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, entry.Expired(now))
	assert.True(t, entry.Expired(now.Add(time.Minute)))
	assert.True(t, entry.Expired(now.Add(2*time.Minute)))
}

func TestMemoryStore_ExpiredEntryReplaceable(t *testing.T) {
	store := NewMemoryStore()
	fp := mustFingerprint(t, "resume content")

	stale := Entry{
		Fingerprint:   fp,
		ExtractedText: "old",
		CreatedAt:     time.Now().Add(-3 * time.Hour),
		ExpiresAt:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Put(context.Background(), stale))

	fresh := Entry{
		Fingerprint:   fp,
		ExtractedText: "new",
		CreatedAt:     time.Now(),
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Put(context.Background(), fresh))

	got, err := store.Get(context.Background(), fp)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.ExtractedText)
}
