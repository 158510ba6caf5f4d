// Package cache provides content-addressed caching for solve results and
// rendered artifacts.
//
// Cached values are opaque byte slices keyed by strings of the form
// "prefix:sha256". Backends share one interface so callers can swap a
// local file cache for Redis without touching pipeline code. A solve for
// a given problem and option set is deterministic, so entries stay valid
// until they expire or the cache is cleared.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLs per entry kind. Solve results only depend on their inputs and can
// live long; rendered artifacts also bake in styling, which changes more
// often between releases.
const (
	TTLSolve  = 30 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with optional expiration.
//
// Get returns (nil, false, nil) on a miss; an error only signals backend
// failure. A ttl of zero or less stores the entry without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache discards every write and misses every read. It backs
// --no-cache runs and keeps the pipeline free of nil checks.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)

// SolveKeyOpts are the option fields that change a solve result and so
// must be part of its cache key.
type SolveKeyOpts struct {
	MaxNodes int `json:"max_nodes"`
	MaxDepth int `json:"max_depth"`
}

// RenderKeyOpts are the option fields that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed"`
	Scale    float64 `json:"scale"`
}

// Keyer derives cache keys for the two cacheable pipeline stages. The
// problem and solve hashes are content hashes of their canonical JSON
// forms, so renaming a file or reordering keys does not split entries.
type Keyer interface {
	// SolveKey generates a key for a solve result.
	SolveKey(problemHash string, opts SolveKeyOpts) string

	// RenderKey generates a key for a rendered artifact.
	RenderKey(solveHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes the inputs and options into stable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SolveKey generates a key for a solve result.
func (k *DefaultKeyer) SolveKey(problemHash string, opts SolveKeyOpts) string {
	return deriveKey("solve", problemHash, opts)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(solveHash string, opts RenderKeyOpts) string {
	return deriveKey("render", solveHash, opts)
}

// deriveKey builds "prefix:digest" where digest is the full SHA-256 of
// the JSON-encoded parts. Keeping all 64 hex characters makes key
// collisions between distinct inputs practically impossible.
func deriveKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 digest of data. The pipeline uses it to
// content-address problems and solve results when building cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
