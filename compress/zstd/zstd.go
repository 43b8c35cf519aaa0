// Package zstd decompresses Zstandard objects.
package zstd

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Extension is the key suffix of zstd objects.
const Extension = ".zst"

// Decompress expands a complete zstd payload of one or more frames.
// Decoding runs on the calling goroutine.
func Decompress(data []byte) ([]byte, error) {
	d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer d.Close()

	out, err := d.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
