// Package storage provides pluggable backend interfaces for taxonomy dataset
// storage.
package storage

import "context"

// Store is the pluggable backend interface for dataset storage.
//
// Keys are strings (hierarchical paths supported via "/" separators), values
// are binary data. The taxonomy loader reads datasets through this interface
// so the primary (local file) and fallback (object store) sources are
// interchangeable.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the data stored at key.
	// Returns errors.ErrKeyNotFound (wrapped) if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data at the specified key, overwriting any existing value.
	Put(ctx context.Context, key string, data []byte) error

	// List returns all keys matching the given prefix, in lexicographic
	// order. An empty prefix lists every key.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at key. Deleting a missing key is not an
	// error (idempotent).
	Delete(ctx context.Context, key string) error
}
