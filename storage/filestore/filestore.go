// Package filestore implements storage.Store on a local directory. It is the
// primary taxonomy dataset source for server processes.
package filestore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c360/rubro/errors"
)

// Store reads and writes keys as files under a root directory.
type Store struct {
	root string
}

// New creates a file-backed store rooted at dir. The directory is created if
// it does not exist.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "filestore", "New", "root directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapFatal(err, "filestore", "New", "create root directory")
	}
	return &Store{root: dir}, nil
}

// path maps a storage key to a filesystem path, rejecting escapes from the
// root directory.
func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", errors.WrapInvalid(errors.ErrInvalidData, "filestore", "path", "key cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", errors.WrapInvalid(errors.ErrInvalidData, "filestore", "path", "key escapes store root")
	}
	return filepath.Join(s.root, clean), nil
}

// Get retrieves the contents of the file at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "filestore", "Get", "context check")
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapInvalid(errors.ErrKeyNotFound, "filestore", "Get", key)
		}
		return nil, errors.WrapTransient(err, "filestore", "Get", key)
	}
	return data, nil
}

// Put writes data to the file at key, creating parent directories as needed.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapTransient(err, "filestore", "Put", "context check")
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.WrapTransient(err, "filestore", "Put", "create parent directory")
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return errors.WrapTransient(err, "filestore", "Put", key)
	}
	return nil
}

// List returns all keys under the root matching prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "filestore", "List", "context check")
	}

	var keys []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return relErr
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "filestore", "List", prefix)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the file at key. Missing files are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapTransient(err, "filestore", "Delete", "context check")
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.WrapTransient(err, "filestore", "Delete", key)
	}
	return nil
}
