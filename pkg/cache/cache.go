// Package cache stores rendered Graphviz artifacts between runs.
//
// Laying out a diagram with the embedded Graphviz is by far the slowest step
// of a render. Because output is a pure function of the DOT source and the
// image format, artifacts can be reused whenever both are unchanged.
//
// Two implementations are provided: [FileCache] for the CLI, which keeps
// entries under the user cache directory, and [NullCache], which never stores
// anything.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/matzehuels/erdot/pkg/buildinfo"
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired or unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKey returns the key of a rendered artifact. The build version is
// part of the key so a new release never serves images from an old renderer.
func ArtifactKey(dotSource, format string) string {
	return hashKey("artifact", buildinfo.Version, format, Hash([]byte(dotSource)))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins prefix and the hash of the JSON encoding of parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// NullCache misses on every Get and drops every Set. It stands in when
// caching is disabled or the cache directory cannot be created.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
