// Package cache stores derived data between stackscope runs.
//
// Entries are opaque byte slices addressed by string keys built with [Key].
// Callers only cache values that are fully determined by their key, such as
// the files changed between two commit hashes, so a stale entry is never
// served for different inputs.
//
// [FileCache] keeps entries below the user cache directory; [NullCache]
// disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
