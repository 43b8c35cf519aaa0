package loader

import (
	"log/slog"
	"runtime"

	"github.com/grokify/mogo/log/slogutil"

	"github.com/grokify/omnitable"
	"github.com/grokify/omnitable/filter"
	"github.com/grokify/omnitable/format/parquet"
)

// MaxDefaultWorkers caps the default worker count.
const MaxDefaultWorkers = 32

// Config configures a Loader. It is read once by New.
type Config struct {
	// Parallel fetches and decodes the keys of a prefix concurrently.
	// When false, keys are processed one at a time in listing order.
	Parallel bool

	// MaxWorkers bounds the number of concurrent keys when Parallel is set.
	// 0 means DefaultMaxWorkers().
	MaxWorkers int

	// Decoder parses fetched objects. Only keys ending in one of its
	// extensions are loaded. If nil, the Parquet decoder is used.
	Decoder omnitable.Decoder

	// Logger is used for structured logging.
	// If nil, a null logger is used (no logging).
	Logger *slog.Logger

	// VerifyChecksums compares fetched bytes with the listed ETag and
	// treats a mismatch as a fetch failure.
	VerifyChecksums bool
}

// DefaultConfig returns a sequential Parquet configuration.
func DefaultConfig() Config {
	return Config{
		MaxWorkers: DefaultMaxWorkers(),
		Decoder:    parquet.NewDecoder(),
	}
}

// DefaultMaxWorkers returns min(32, NumCPU+4).
func DefaultMaxWorkers() int {
	return min(MaxDefaultWorkers, runtime.NumCPU()+4)
}

// logger returns the configured logger or a null logger if none is set.
func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slogutil.Null()
}

// PrefixOptions configures one LoadPrefix or LoadCategories call.
type PrefixOptions struct {
	// PartitionColumns names the name=value key segments to add to every
	// row as string columns, in this order.
	PartitionColumns []string

	// Verbose logs every discovered key at Info level before loading.
	Verbose bool

	// Decode is passed to the decoder for every key.
	Decode []omnitable.DecodeOption

	// Filter further restricts which matching keys are loaded.
	// If nil, every key with a decoder extension is loaded.
	Filter *filter.Filter
}
