package omnitable

// DecodeOption configures how a Decoder parses an object.
type DecodeOption func(*DecodeOptions)

// DecodeOptions holds format-independent decoding settings.
// Decoders ignore settings they cannot honor.
type DecodeOptions struct {
	// Columns restricts the decoded columns to this set, in this order.
	// Empty means all columns.
	Columns []string

	// BatchSize is the number of rows read per batch.
	// 0 means use the decoder's default.
	BatchSize int

	// MaxRows stops decoding after this many rows.
	// 0 means no limit.
	MaxRows int
}

// WithColumns restricts decoding to the named columns.
func WithColumns(columns ...string) DecodeOption {
	return func(o *DecodeOptions) {
		o.Columns = columns
	}
}

// WithBatchSize sets the decoder batch size.
func WithBatchSize(size int) DecodeOption {
	return func(o *DecodeOptions) {
		o.BatchSize = size
	}
}

// WithMaxRows limits the number of decoded rows per object.
func WithMaxRows(n int) DecodeOption {
	return func(o *DecodeOptions) {
		o.MaxRows = n
	}
}

// ApplyDecodeOptions applies options to a DecodeOptions.
func ApplyDecodeOptions(opts ...DecodeOption) DecodeOptions {
	var o DecodeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Wants returns true if column should be kept under these options.
func (o DecodeOptions) Wants(column string) bool {
	if len(o.Columns) == 0 {
		return true
	}
	for _, c := range o.Columns {
		if c == column {
			return true
		}
	}
	return false
}
