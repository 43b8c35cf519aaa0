package omnitable

import (
	"path"
	"strings"
	"time"
)

// ObjectInfo describes one listed object.
type ObjectInfo struct {
	// Key is the full object key within the bucket.
	Key string

	// Size is the object size in bytes, or -1 if unknown.
	Size int64

	// ModTime is the last modification time, zero if unknown.
	ModTime time.Time

	// ETag is the store's entity tag with surrounding quotes removed.
	// For single-part S3 uploads it is the hex MD5 of the content.
	ETag string
}

// Name returns the final path segment of the key.
func (o ObjectInfo) Name() string {
	return path.Base(o.Key)
}

// Keys returns the keys of the given objects in order.
func Keys(objects []ObjectInfo) []string {
	keys := make([]string, len(objects))
	for i, o := range objects {
		keys[i] = o.Key
	}
	return keys
}

// DirPrefix returns prefix with a trailing "/" so that listing "foo" does
// not also match "foo2/...". An empty prefix stays empty.
func DirPrefix(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
