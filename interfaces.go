// Package omnitable loads tabular data files from object stores.
//
// It lists the objects under a bucket prefix, fetches and decodes each one
// into a table.Table, optionally adds columns parsed from partition-style
// key segments (year=2023/month=05/...), and concatenates the results.
//
// Stores (S3, SFTP, local files, memory) and decoders (Parquet, NDJSON) are
// pluggable through the Store and Decoder interfaces.
//
// Basic usage:
//
//	store, _ := s3.New(s3.Config{Region: "us-east-1"})
//	l := loader.New(store, loader.Config{Parallel: true})
//	res, _ := l.LoadPrefix(ctx, "my-bucket", "events/", loader.PrefixOptions{
//	    PartitionColumns: []string{"year", "month"},
//	})
//	fmt.Println(res.Table.NumRows())
package omnitable

import (
	"context"

	"github.com/grokify/omnitable/table"
)

// Store lists and fetches objects from a bucket-addressed object store.
//
// A Store wraps one client/session and is safe for concurrent use by
// multiple goroutines. All methods accept a context.Context for
// cancellation and timeouts.
type Store interface {
	// List returns every object under prefix in bucket.
	// Pagination is handled internally; the result is the complete set.
	// Returns an empty slice if nothing matches.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	// Fetch returns the full contents of the object at key.
	// Returns ErrNotFound if the object does not exist.
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)

	// Close releases any resources held by the store.
	// After Close, all other methods return ErrStoreClosed.
	Close() error
}

// Decoder turns the bytes of one object into a table.
// Decoders must be safe for concurrent use.
type Decoder interface {
	// Name is a short identifier for the format, e.g. "parquet".
	Name() string

	// Extensions lists the key suffixes this decoder handles, e.g. ".parquet".
	Extensions() []string

	// Decode parses data into a table.
	Decode(data []byte, opts DecodeOptions) (*table.Table, error)
}
