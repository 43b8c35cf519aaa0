package loader

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/grokify/omnitable"
	"github.com/grokify/omnitable/partition"
	"github.com/grokify/omnitable/table"
)

// dispatch loads every object and returns one table per object in input
// order, plus the failures in input order. All objects are attempted.
func (l *Loader) dispatch(ctx context.Context, bucket string, objects []omnitable.ObjectInfo, opts PrefixOptions) ([]*table.Table, []KeyError) {
	decodeOpts := omnitable.ApplyDecodeOptions(opts.Decode...)
	tables := make([]*table.Table, len(objects))
	errs := make([]*KeyError, len(objects))

	// Each unit writes only its own slot
	unit := func(i int) {
		t, kerr := l.load(ctx, bucket, objects[i], decodeOpts)
		if kerr == nil {
			partition.Apply(t, objects[i].Key, opts.PartitionColumns)
		}
		tables[i], errs[i] = t, kerr
	}

	if l.parallel && len(objects) > 1 {
		workers := min(l.workers, len(objects))
		l.logger.Debug("loading in parallel",
			slog.String("bucket", bucket),
			slog.Int("objects", len(objects)),
			slog.Int("workers", workers),
		)

		var g errgroup.Group
		g.SetLimit(workers)
		for i := range objects {
			g.Go(func() error {
				unit(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range objects {
			unit(i)
		}
	}

	var failures []KeyError
	for _, kerr := range errs {
		if kerr != nil {
			failures = append(failures, *kerr)
		}
	}
	return tables, failures
}
