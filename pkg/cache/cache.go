// Package cache provides pluggable byte caches for version metadata.
//
// Backends implementing [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI (~/.cache/versionwatch)
//   - [NullCache]: never stores anything (--no-cache, tests)
//   - [RedisCache]: shared cache for `versionwatch serve` deployments
//   - [MongoCache]: shared cache backed by a TTL-indexed collection
//
// Keys are produced by a [Keyer] so that the same metadata document is stored
// under the same key regardless of which backend holds it.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
//
// Implementations must be safe for concurrent use: the batch resolver calls
// Get and Set from several workers at once.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil);
	// errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
