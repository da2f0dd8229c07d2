// Package cache stores built graph records and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (caching disabled)
//
// Keys come from a [Keyer] so the same input, depth and format always map to
// the same entry regardless of backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLElements applies to laid-out records. Layout is deterministic, so
	// entries only expire to bound disk use.
	TTLElements = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered DOT and SVG output.
	TTLArtifact = 7 * 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeElements = "elements"
	KeyTypeArtifact = "artifact"
)

// Keyer derives cache keys.
type Keyer interface {
	// ElementsKey identifies the records built from an input at a depth.
	ElementsKey(inputHash string, opts ElementsKeyOpts) string

	// ArtifactKey identifies a rendering of a set of records.
	ArtifactKey(elementsHash string, opts ArtifactKeyOpts) string
}

// ElementsKeyOpts are the build options that change the records.
type ElementsKeyOpts struct {
	Depth  int    `json:"depth"`
	Format string `json:"format"`
}

// ArtifactKeyOpts are the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Labels bool    `json:"labels"`
	Scale  float64 `json:"scale"`
}

// DefaultKeyer builds "type:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ElementsKey implements [Keyer].
func (DefaultKeyer) ElementsKey(inputHash string, opts ElementsKeyOpts) string {
	return hashKey(KeyTypeElements, inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(elementsHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, elementsHash, opts)
}

// keyType extracts the key type from "[scope:]type:hash" for metrics.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "other"
	}
	return parts[len(parts)-2]
}

// Hash returns the hex SHA-256 of data. Inputs and records are identified by
// their content hash, so an edited document never hits a stale entry.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "typ:<sha256>" over the JSON encoding of parts.
func hashKey(typ string, parts ...any) string {
	h := sha256.New()
	// plain values and option structs always encode
	_ = json.NewEncoder(h).Encode(parts)
	return typ + ":" + hex.EncodeToString(h.Sum(nil))
}
