// Package cache stores converted font artifacts between runs.
//
// Artifacts are keyed by the content hash of the inputs that produced
// them (glyph files plus every option that influences the output) and
// the format, so a cache entry never has to be invalidated: changed
// inputs simply produce a different key.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a Redis server shared by several machines or CI jobs
//   - [NullCache]: caching disabled
//
// [Open] selects a backend from a URL-like string.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A missing or expired
	// entry is reported as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultTTL is the lifetime of cached artifacts.
const DefaultTTL = 30 * 24 * time.Hour
