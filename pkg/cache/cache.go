// Package cache provides a generic, thread-safe cache used to memoize
// taxonomy resolutions.
//
// The resolution cache has no eviction policy: it lives for the duration of
// one resolver session and its key space is bounded by the number of distinct
// records processed in that session. Statistics are always collected; optional
// Prometheus metrics integration is available via functional options.
package cache

import (
	"github.com/c360/rubro/errors"
)

// Cache represents a generic cache interface parameterized by value type V.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// zero value and false otherwise. Note that a stored zero value (e.g. a
	// nil pointer recorded as a negative entry) still returns true.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry was
	// created, false if an existing entry was updated.
	Set(key string, value V) (bool, error)

	// SetAll stores the same value under every key in one logical operation.
	// No concurrent reader observes a state where only some of the keys are
	// populated. Empty keys are skipped.
	SetAll(keys []string, value V) error

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear() error

	// Size returns the current number of entries in the cache.
	Size() int

	// Keys returns a slice of all keys currently in the cache.
	Keys() []string

	// Stats returns cache statistics.
	Stats() *Statistics
}

// EvictCallback is called when an entry is removed from the cache.
type EvictCallback[V any] func(key string, value V)

// validateKey validates a cache key for basic requirements.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "cache", "validateKey", "key cannot be empty")
	}
	return nil
}
