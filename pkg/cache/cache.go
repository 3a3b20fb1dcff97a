// Package cache provides pluggable result caching for layout builds.
//
// Backends:
//   - FileCache: per-user cache directory for CLI usage
//   - RedisCache: shared cache for the HTTP service
//   - NullCache: disables caching
//
// Keys are derived from content hashes of the inputs (graph plus build
// options), so identical builds hit the cache regardless of where they run.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime of a cached layout.
// Layouts are pure functions of their inputs, so the TTL exists mainly to
// bound disk usage, not to invalidate stale data.
const DefaultTTL = 30 * 24 * time.Hour

// Cache stores opaque byte values under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Derivation
// =============================================================================

// LayoutKeyOpts are the build options that participate in layout cache keys.
// Any option that changes the output must appear here.
type LayoutKeyOpts struct {
	Spacing float64 `json:"spacing"`
	Buffer  int     `json:"buffer"`
	Padding float64 `json:"padding"`
}

// Keyer derives cache keys for computed layouts. A layout is fully
// determined by the graph hash and the build options, so those are the only
// key components.
type Keyer interface {
	// LayoutKey generates a key for a computed layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer derives keys by hashing the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// =============================================================================
// ScopedKeyer - Namespaced Keys
// =============================================================================

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, used when
// several hosts share one redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
