// Package cache provides the content-addressed extraction cache used for
// resume deduplication. The cache is the pipeline's only persistent state.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/atsbuddy/ats-buddy/internal/fingerprint"
)

// DefaultTTL matches the retention window of the cache table's housekeeping.
const DefaultTTL = 12 * time.Hour

// Entry is a cached extraction result keyed by document fingerprint.
// Entries are created once and never updated in place; identical fingerprints
// are assumed to mean identical content.
type Entry struct {
	Fingerprint      fingerprint.Fingerprint
	OriginalFilename string
	ExtractedText    string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
// Expiry is evaluated lazily at read time; physical removal belongs to the
// backend's housekeeping.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is the cache backend contract. Get returns (nil, nil) when no entry
// exists. Put must be idempotent: writing a fingerprint that already has a
// live entry is a no-op.
type Store interface {
	Get(ctx context.Context, fp fingerprint.Fingerprint) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
}

// Cache wraps a Store with the pipeline's lookup policy: lazy TTL expiry and
// fail-open reads. A broken backend costs deduplication, never the request.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a Cache over the given backend. A zero ttl uses DefaultTTL.
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// Lookup returns the live entry for a fingerprint, or nil when the entry is
// absent, expired, or the backend is unavailable. Backend failures are logged
// and absorbed.
func (c *Cache) Lookup(ctx context.Context, fp fingerprint.Fingerprint) *Entry {
	entry, err := c.store.Get(ctx, fp)
	if err != nil {
		log.Printf("Warning: cache lookup failed for %s: %v", fp.Short(), err)
		return nil
	}
	if entry == nil {
		return nil
	}
	if entry.Expired(c.now()) {
		log.Printf("Cache entry for %s expired at %s, treating as absent", fp.Short(), entry.ExpiresAt.Format(time.RFC3339))
		return nil
	}
	return entry
}

// Save stores an extraction result under its fingerprint with the configured
// TTL. The returned error is informational: callers log it and proceed.
func (c *Cache) Save(ctx context.Context, fp fingerprint.Fingerprint, extractedText, originalFilename string) error {
	now := c.now()
	return c.store.Put(ctx, Entry{
		Fingerprint:      fp,
		OriginalFilename: originalFilename,
		ExtractedText:    extractedText,
		CreatedAt:        now,
		ExpiresAt:        now.Add(c.ttl),
	})
}
