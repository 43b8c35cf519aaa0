// Package memory provides an in-memory store for omnitable.
//
// The memory store is useful for:
//   - Unit testing without network or filesystem access
//   - Loading tables that were produced in-process
//
// Data is stored in RAM and lost when the store is closed or the process exits.
package memory

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grokify/omnitable"
)

func init() {
	omnitable.Register("memory", NewFromConfig)
}

// object is a stored object.
type object struct {
	data    []byte
	etag    string
	modTime time.Time
}

// Store implements omnitable.Store in memory.
type Store struct {
	buckets map[string]map[string]*object
	closed  bool
	mu      sync.RWMutex
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		buckets: make(map[string]map[string]*object),
	}
}

// NewFromConfig creates a new memory store from a config map.
// The memory store ignores all configuration options.
func NewFromConfig(_ map[string]string) (omnitable.Store, error) {
	return New(), nil
}

// Put stores data under bucket/key, replacing any existing object.
func (s *Store) Put(bucket, key string, data []byte) error {
	if err := validate(bucket, key); err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return omnitable.ErrStoreClosed
	}

	b, ok := s.buckets[bucket]
	if !ok {
		b = make(map[string]*object)
		s.buckets[bucket] = b
	}
	b[normalizeKey(key)] = &object{
		data:    dataCopy,
		etag:    omnitable.MD5Hex(dataCopy),
		modTime: time.Now(),
	}
	return nil
}

// Remove deletes bucket/key. Removing a missing object is not an error.
func (s *Store) Remove(bucket, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[bucket]; ok {
		delete(b, normalizeKey(key))
	}
}

// List lists objects under prefix in bucket, sorted by key.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]omnitable.ObjectInfo, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := []omnitable.ObjectInfo{}
	for key, obj := range s.buckets[bucket] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		objects = append(objects, omnitable.ObjectInfo{
			Key:     key,
			Size:    int64(len(obj.data)),
			ModTime: obj.modTime,
			ETag:    obj.etag,
		})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Fetch returns a copy of the object's data.
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate(bucket, key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	obj, exists := s.buckets[bucket][normalizeKey(key)]
	s.mu.RUnlock()

	if !exists {
		return nil, omnitable.ErrNotFound
	}

	// Copy so callers cannot mutate stored data
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// Close releases all stored objects.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.buckets = nil
	return nil
}

// Count returns the number of objects in bucket.
func (s *Store) Count(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[bucket])
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

// validate checks bucket and key.
func validate(bucket, key string) error {
	if bucket == "" || key == "" {
		return omnitable.ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "/../") {
		return omnitable.ErrInvalidKey
	}

	return nil
}

// normalizeKey strips a leading slash so "/a/b" and "a/b" name one object.
func normalizeKey(key string) string {
	return strings.TrimPrefix(key, "/")
}

// Ensure Store implements omnitable.Store
var _ omnitable.Store = (*Store)(nil)
