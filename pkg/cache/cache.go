// Package cache stores built layouts and rendered artifacts between runs.
//
// Every backend implements [Cache], a byte-oriented key/value store with
// per-entry TTL:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps one JSON envelope per key on disk, for the CLI
//   - [RedisCache] shares entries between processes through Redis
//
// Keys come from a [Keyer]. The default keyer hashes a recipe's canonical
// bytes into a layout key, and a layout hash plus render options into an
// artifact key, so a changed recipe or option never reads a stale entry.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLLayout bounds how long a built layout snapshot is reused.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact bounds how long a rendered artifact is reused.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized pipeline results.
type Cache interface {
	// Get returns the stored bytes and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
