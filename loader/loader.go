// Package loader loads partitioned tables from an omnitable.Store.
//
// A Loader lists the objects under a prefix, fetches and decodes each one,
// attaches partition columns parsed from the key, and concatenates the
// results into one table.Table. A key that cannot be loaded contributes no
// rows; it is logged and recorded in Result.Failures while the other keys
// continue.
//
// Basic usage:
//
//	l := loader.New(store, loader.Config{Parallel: true})
//	res, err := l.LoadPrefix(ctx, "my-bucket", "sales", loader.PrefixOptions{
//	    PartitionColumns: []string{"year", "month"},
//	})
//	if err != nil {
//	    return err // listing failed
//	}
//	fmt.Println(res.Table.NumRows(), len(res.Failures))
package loader

import (
	"context"
	"log/slog"

	"github.com/grokify/omnitable"
	"github.com/grokify/omnitable/compress"
	"github.com/grokify/omnitable/format/parquet"
	"github.com/grokify/omnitable/table"
)

// Loader loads tables from one Store. It is safe for concurrent use.
type Loader struct {
	store    omnitable.Store
	decoder  omnitable.Decoder
	logger   *slog.Logger
	parallel bool
	workers  int
	verify   bool
}

// New creates a Loader over store. Zero values in cfg take defaults.
func New(store omnitable.Store, cfg Config) *Loader {
	if cfg.Decoder == nil {
		cfg.Decoder = parquet.NewDecoder()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultMaxWorkers()
	}
	return &Loader{
		store:    store,
		decoder:  cfg.Decoder,
		logger:   cfg.logger(),
		parallel: cfg.Parallel,
		workers:  cfg.MaxWorkers,
		verify:   cfg.VerifyChecksums,
	}
}

// Parallel reports whether keys are loaded concurrently.
func (l *Loader) Parallel() bool {
	return l.parallel
}

// Workers returns the worker pool size used when Parallel is set.
func (l *Loader) Workers() int {
	return l.workers
}

// LoadObject fetches and decodes a single key.
//
// On failure it returns an empty, non-nil table together with a *KeyError,
// and logs a warning naming the bucket and key.
func (l *Loader) LoadObject(ctx context.Context, bucket, key string, opts ...omnitable.DecodeOption) (*table.Table, error) {
	t, kerr := l.load(ctx, bucket, omnitable.ObjectInfo{Key: key}, omnitable.ApplyDecodeOptions(opts...))
	if kerr != nil {
		return t, kerr
	}
	return t, nil
}

// load runs fetch, checksum, decompress and decode for one object.
// The returned table is never nil.
func (l *Loader) load(ctx context.Context, bucket string, obj omnitable.ObjectInfo, opts omnitable.DecodeOptions) (*table.Table, *KeyError) {
	fail := func(op string, err error) (*table.Table, *KeyError) {
		l.logger.Warn("failed to load object",
			slog.String("bucket", bucket),
			slog.String("key", obj.Key),
			slog.String("op", op),
			slog.Any("error", err),
		)
		return table.Empty(), &KeyError{Bucket: bucket, Key: obj.Key, Op: op, Err: err}
	}

	data, err := l.store.Fetch(ctx, bucket, obj.Key)
	if err != nil {
		return fail(OpFetch, err)
	}

	if l.verify && obj.ETag != "" {
		if err := omnitable.VerifyETag(data, obj.ETag); err != nil {
			return fail(OpFetch, err)
		}
	}

	if decompress, _ := compress.ForKey(obj.Key); decompress != nil {
		if data, err = decompress(data); err != nil {
			return fail(OpDecompress, err)
		}
	}

	t, err := l.decoder.Decode(data, opts)
	if err != nil {
		return fail(OpDecode, err)
	}

	l.logger.Debug("loaded object",
		slog.String("bucket", bucket),
		slog.String("key", obj.Key),
		slog.Int("rows", t.NumRows()),
	)
	return t, nil
}
