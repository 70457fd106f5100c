// Package objectstore implements storage.Store on a NATS JetStream
// ObjectStore bucket. It is the fallback taxonomy dataset source when the
// local file is unavailable.
package objectstore

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/rubro/errors"
)

// Config holds ObjectStore backend configuration.
type Config struct {
	// BucketName is the NATS ObjectStore bucket holding taxonomy datasets.
	BucketName string `json:"bucket_name"`

	// CreateBucket creates the bucket on startup when it does not exist.
	// Servers that only read datasets leave this off and treat a missing
	// bucket as a degraded-mode condition.
	CreateBucket bool `json:"create_bucket"`

	// Description is applied to the bucket when CreateBucket is set.
	Description string `json:"description,omitempty"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BucketName == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "objectstore", "Validate", "bucket_name")
	}
	return nil
}

// Store is a storage.Store backed by a NATS JetStream ObjectStore bucket.
type Store struct {
	bucket jetstream.ObjectStore
	logger *slog.Logger
}

// New binds to (or creates) the configured ObjectStore bucket.
func New(ctx context.Context, js jetstream.JetStream, cfg Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	bucket, err := js.ObjectStore(ctx, cfg.BucketName)
	if err != nil {
		if !stderrors.Is(err, jetstream.ErrBucketNotFound) {
			return nil, errors.WrapTransient(err, "objectstore", "New", "bind bucket")
		}
		if !cfg.CreateBucket {
			return nil, errors.WrapTransient(errors.ErrBucketNotFound, "objectstore", "New", cfg.BucketName)
		}
		bucket, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      cfg.BucketName,
			Description: cfg.Description,
		})
		if err != nil {
			return nil, errors.WrapTransient(err, "objectstore", "New", "create bucket")
		}
		logger.Info("Created ObjectStore bucket", "bucket", cfg.BucketName)
	}

	return &Store{bucket: bucket, logger: logger}, nil
}

// Get retrieves the object stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.GetBytes(ctx, key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, errors.WrapInvalid(errors.ErrKeyNotFound, "objectstore", "Get", key)
		}
		return nil, errors.WrapTransient(err, "objectstore", "Get", key)
	}
	return data, nil
}

// Put stores data at the specified key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if _, err := s.bucket.PutBytes(ctx, key, data); err != nil {
		return errors.WrapTransient(err, "objectstore", "Put", key)
	}
	return nil
}

// List returns all object names matching prefix, in lexicographic order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	infos, err := s.bucket.List(ctx)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrNoObjectsFound) {
			return nil, nil
		}
		return nil, errors.WrapTransient(err, "objectstore", "List", prefix)
	}

	var keys []string
	for _, info := range infos {
		if info.Deleted {
			continue
		}
		if prefix == "" || strings.HasPrefix(info.Name, prefix) {
			keys = append(keys, info.Name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the object at key. Missing objects are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if stderrors.Is(err, jetstream.ErrObjectNotFound) {
			return nil
		}
		return errors.WrapTransient(err, "objectstore", "Delete", key)
	}
	return nil
}
