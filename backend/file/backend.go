// Package file provides a local filesystem store for omnitable.
//
// Buckets are directories directly under Root and keys are slash-separated
// paths inside them:
//
//	<Root>/<bucket>/<key>
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grokify/omnitable"
)

func init() {
	omnitable.Register("file", NewFromConfig)
}

// Config holds configuration for the file store.
type Config struct {
	// Root is the directory that contains the bucket directories.
	Root string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Root: ".",
	}
}

// Store implements omnitable.Store for the local filesystem.
type Store struct {
	config Config
	closed bool
	mu     sync.RWMutex
}

// New creates a new file store with the given configuration.
func New(config Config) *Store {
	if config.Root == "" {
		config.Root = "."
	}
	return &Store{
		config: config,
	}
}

// NewFromConfig creates a new file store from a config map.
// Supported keys:
//   - root: root directory (default: ".")
func NewFromConfig(configMap map[string]string) (omnitable.Store, error) {
	config := DefaultConfig()

	if root, ok := configMap["root"]; ok && root != "" {
		config.Root = root
	}

	return New(config), nil
}

// List lists files under prefix in bucket. Keys use forward slashes.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]omnitable.ObjectInfo, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateBucket(bucket); err != nil {
		return nil, err
	}
	if prefix != "" {
		if err := validateKey(prefix); err != nil {
			return nil, err
		}
	}

	bucketDir := filepath.Join(s.config.Root, bucket)

	// Walk only the deepest directory the prefix names
	dir := prefix
	if !strings.HasSuffix(dir, "/") {
		dir = path.Dir(dir)
	}
	walkRoot := filepath.Join(bucketDir, filepath.FromSlash(dir))

	objects := []omnitable.ObjectInfo{}
	err := filepath.WalkDir(walkRoot, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(bucketDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		objects = append(objects, omnitable.ObjectInfo{
			Key:     key,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []omnitable.ObjectInfo{}, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("file: listing %s/%s: %w", bucket, prefix, err)
	}

	return objects, nil
}

// Fetch reads the whole file at bucket/key.
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateBucket(bucket); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.fullPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, omnitable.ErrNotFound
		}
		if os.IsPermission(err) {
			return nil, omnitable.ErrPermissionDenied
		}
		return nil, fmt.Errorf("file: reading %s/%s: %w", bucket, key, err)
	}

	return data, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// fullPath returns the filesystem path of bucket/key.
func (s *Store) fullPath(bucket, key string) string {
	return filepath.Join(s.config.Root, bucket, filepath.FromSlash(key))
}

// validateBucket rejects empty names and names that leave Root.
func validateBucket(bucket string) error {
	if bucket == "" || bucket == "." || bucket == ".." || strings.ContainsAny(bucket, `/\`) {
		return omnitable.ErrInvalidKey
	}
	return nil
}

// validateKey rejects empty keys and path traversal.
func validateKey(key string) error {
	if key == "" {
		return omnitable.ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "/../") {
		return omnitable.ErrInvalidKey
	}

	return nil
}

// checkClosed returns an error if the store is closed.
func (s *Store) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return omnitable.ErrStoreClosed
	}
	return nil
}

// Ensure Store implements omnitable.Store
var _ omnitable.Store = (*Store)(nil)
