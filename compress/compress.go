// Package compress maps compressed object keys to their decompressors.
package compress

import (
	"strings"

	"github.com/grokify/omnitable/compress/gzip"
	"github.com/grokify/omnitable/compress/zstd"
)

// DecompressFunc expands a whole compressed payload.
type DecompressFunc func(data []byte) ([]byte, error)

var codecs = map[string]DecompressFunc{
	gzip.Extension: gzip.Decompress,
	".gzip":        gzip.Decompress,
	zstd.Extension: zstd.Decompress,
	".zstd":        zstd.Decompress,
}

// ForKey returns the decompressor for key's compression suffix and the key
// with that suffix removed. If key has no known suffix, fn is nil and base
// is key.
func ForKey(key string) (fn DecompressFunc, base string) {
	dot := strings.LastIndex(key, ".")
	if dot < 0 {
		return nil, key
	}
	if fn, ok := codecs[strings.ToLower(key[dot:])]; ok {
		return fn, key[:dot]
	}
	return nil, key
}
