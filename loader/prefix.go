package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grokify/omnitable"
	"github.com/grokify/omnitable/compress"
	"github.com/grokify/omnitable/table"
)

// LoadPrefix loads every matching object under prefix in bucket.
//
// The prefix is treated as a directory: "sales" lists "sales/..." and never
// "salesman/...". A key matches when, after any .gz or .zst suffix, it ends
// in one of the decoder's extensions and it passes opts.Filter. Values of opts.PartitionColumns found
// in a key are added to that key's rows.
//
// The returned error is non-nil only if listing fails or ctx is cancelled.
// Per-key failures are reported in Result.Failures.
func (l *Loader) LoadPrefix(ctx context.Context, bucket, prefix string, opts PrefixOptions) (*Result, error) {
	dir := omnitable.DirPrefix(prefix)

	objects, err := l.store.List(ctx, bucket, dir)
	if err != nil {
		l.logger.Error("failed to list objects",
			slog.String("bucket", bucket),
			slog.String("prefix", dir),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("loader: listing %s/%s: %w", bucket, dir, err)
	}

	objects = opts.Filter.Apply(l.filter(objects))
	keys := omnitable.Keys(objects)

	if opts.Verbose {
		for _, key := range keys {
			l.logger.Info("found object", slog.String("bucket", bucket), slog.String("key", key))
		}
	}

	if len(objects) == 0 {
		l.logger.Info("no matching objects",
			slog.String("bucket", bucket),
			slog.String("prefix", dir),
		)
		return &Result{Table: table.Empty(), Keys: keys}, nil
	}

	tables, failures := l.dispatch(ctx, bucket, objects, opts)
	res := &Result{
		Table:    table.Concat(tables...),
		Keys:     keys,
		Failures: failures,
	}

	l.logger.Info("loaded prefix",
		slog.String("bucket", bucket),
		slog.String("prefix", dir),
		slog.Int("keys", len(keys)),
		slog.Int("rows", res.Table.NumRows()),
		slog.Int("failures", len(failures)),
	)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// LoadCategories runs LoadPrefix for each prefix in order and concatenates
// the tables. Keys reached through more than one prefix are loaded again.
func (l *Loader) LoadCategories(ctx context.Context, bucket string, prefixes []string, opts PrefixOptions) (*Result, error) {
	tables := make([]*table.Table, 0, len(prefixes))
	res := &Result{Keys: []string{}}

	for _, prefix := range prefixes {
		r, err := l.LoadPrefix(ctx, bucket, prefix, opts)
		if err != nil {
			return nil, err
		}
		tables = append(tables, r.Table)
		res.Keys = append(res.Keys, r.Keys...)
		res.Failures = append(res.Failures, r.Failures...)
	}

	res.Table = table.Concat(tables...)
	return res, nil
}

// filter keeps objects the decoder can read.
func (l *Loader) filter(objects []omnitable.ObjectInfo) []omnitable.ObjectInfo {
	out := make([]omnitable.ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if l.matches(obj.Key) {
			out = append(out, obj)
		}
	}
	return out
}

func (l *Loader) matches(key string) bool {
	_, base := compress.ForKey(key)
	for _, ext := range l.decoder.Extensions() {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}
