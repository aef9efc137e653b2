// Package cache provides the result cache used by derivation queries.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries as JSON files for CLI usage.
//   - [RedisCache] shares entries between API server replicas.
//   - [NullCache] disables caching.
//
// Keys are built by a [Keyer] so that every backend uses the same key layout.
// Each key includes the table dimensions and a table fingerprint, so results
// computed against one table are never served for another.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per key type.
const (
	TTLDerivation = 7 * 24 * time.Hour
	TTLAnalysis   = 30 * 24 * time.Hour
	TTLArtifact   = 7 * 24 * time.Hour
)

// Key types reported to cache hooks.
const (
	KeyTypeDerivation = "derivation"
	KeyTypeAnalysis   = "analysis"
	KeyTypeArtifact   = "artifact"
)

// KeyOpts identifies the table a cached result was computed against.
type KeyOpts struct {
	Width     int    `json:"width"`
	MaxHeight int    `json:"max_height"`
	Table     string `json:"table,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DerivationKey keys the derivation result for a canonical index.
	DerivationKey(index uint64, opts KeyOpts) string

	// AnalysisKey keys the structural analysis of a shape code.
	AnalysisKey(code string, opts KeyOpts) string

	// ArtifactKey keys a rendered derivation chart.
	ArtifactKey(index uint64, format string, opts KeyOpts) string
}

// DefaultKeyer hashes key components into "type:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) DerivationKey(index uint64, opts KeyOpts) string {
	return hashKey(KeyTypeDerivation, index, opts)
}

func (DefaultKeyer) AnalysisKey(code string, opts KeyOpts) string {
	return hashKey(KeyTypeAnalysis, code, opts)
}

func (DefaultKeyer) ArtifactKey(index uint64, format string, opts KeyOpts) string {
	return hashKey(KeyTypeArtifact, index, format, opts)
}

// KeyType returns the type prefix of a key built by DefaultKeyer, or
// "unknown".
func KeyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "unknown"
	}
	prefix := key[:i]
	if j := strings.LastIndexByte(prefix, ':'); j >= 0 {
		prefix = prefix[j+1:]
	}
	switch prefix {
	case KeyTypeDerivation, KeyTypeAnalysis, KeyTypeArtifact:
		return prefix
	}
	return "unknown"
}
