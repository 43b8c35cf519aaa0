package loader

import (
	"github.com/hashicorp/go-multierror"

	"github.com/grokify/omnitable/table"
)

// Operations recorded in KeyError.Op.
const (
	OpFetch      = "fetch"
	OpDecompress = "decompress"
	OpDecode     = "decode"
)

// Result is the outcome of LoadPrefix or LoadCategories.
type Result struct {
	// Table holds the concatenated rows of every loaded key.
	Table *table.Table

	// Keys lists the matching keys in load order, failed ones included.
	Keys []string

	// Failures records keys that could not be loaded. Those keys
	// contributed no rows to Table.
	Failures []KeyError
}

// Success returns true if every key loaded.
func (r *Result) Success() bool {
	return len(r.Failures) == 0
}

// Err folds all failures into a single error, or returns nil.
func (r *Result) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	var merr *multierror.Error
	for i := range r.Failures {
		merr = multierror.Append(merr, &r.Failures[i])
	}
	return merr.ErrorOrNil()
}

// KeyError represents a failure to load a specific key.
type KeyError struct {
	Bucket string
	Key    string
	Op     string // "fetch", "decompress" or "decode"
	Err    error
}

func (e *KeyError) Error() string {
	return e.Op + " " + e.Bucket + "/" + e.Key + ": " + e.Err.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
