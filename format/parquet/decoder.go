// Package parquet decodes Apache Parquet objects into tables.
package parquet

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	pq "github.com/parquet-go/parquet-go"

	"github.com/grokify/omnitable"
	"github.com/grokify/omnitable/table"
)

// Extension is the key suffix of Parquet objects.
const Extension = ".parquet"

// DefaultBatchSize is the number of rows read per batch.
const DefaultBatchSize = 1000

// Decoder implements omnitable.Decoder for Parquet.
type Decoder struct{}

// NewDecoder returns a Parquet decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Name returns "parquet".
func (d *Decoder) Name() string {
	return "parquet"
}

// Extensions returns the Parquet key suffix.
func (d *Decoder) Extensions() []string {
	return []string{Extension}
}

// Decode reads every row of a Parquet file into a table. Top-level schema
// fields become columns in schema order.
func (d *Decoder) Decode(data []byte, opts omnitable.DecodeOptions) (*table.Table, error) {
	pf, err := pq.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parquet: opening file: %v", omnitable.ErrCorruptObject, err)
	}

	columns := Columns(pf.Schema(), opts)
	t := table.New(columns...)

	if pf.NumRows() == 0 {
		return t, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pfr := pq.NewGenericReader[map[string]any](pf, ProjectSchema(pf.Schema(), columns))
	defer func() { _ = pfr.Close() }()

	readBuf := make([]map[string]any, batchSize)
	for i := range readBuf {
		readBuf[i] = make(map[string]any)
	}

	for {
		for i := range readBuf {
			clear(readBuf[i])
		}

		n, err := pfr.Read(readBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: parquet: reading rows: %v", omnitable.ErrCorruptObject, err)
		}

		for i := range n {
			if opts.MaxRows > 0 && t.NumRows() >= opts.MaxRows {
				return t, nil
			}
			row := make([]any, len(columns))
			for c, name := range columns {
				row[c] = readBuf[i][name]
			}
			if err := t.AppendRow(row); err != nil {
				return nil, err
			}
		}

		if n == 0 || errors.Is(err, io.EOF) {
			break
		}
	}

	return t, nil
}

// Columns returns the top-level field names of schema, restricted and
// ordered by opts.Columns when set.
func Columns(schema *pq.Schema, opts omnitable.DecodeOptions) []string {
	fields := schema.Fields()
	present := make(map[string]bool, len(fields))
	all := make([]string, 0, len(fields))
	for _, f := range fields {
		present[f.Name()] = true
		all = append(all, f.Name())
	}

	if len(opts.Columns) == 0 {
		return all
	}

	out := make([]string, 0, len(opts.Columns))
	for _, c := range opts.Columns {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// ProjectSchema returns a schema holding only the named top-level fields of
// schema. Reading with it skips the other column chunks. schema itself is
// returned when every field is kept or none is, since rows are still counted.
func ProjectSchema(schema *pq.Schema, columns []string) *pq.Schema {
	fields := schema.Fields()
	if len(columns) == len(fields) {
		return schema
	}
	byName := make(map[string]pq.Field, len(fields))
	for _, f := range fields {
		byName[f.Name()] = f
	}
	group := make(pq.Group, len(columns))
	for _, c := range columns {
		if f, ok := byName[c]; ok {
			group[c] = f
		}
	}
	if len(group) == 0 {
		return schema
	}
	return pq.NewSchema(schema.Name(), group)
}

// Ensure Decoder implements omnitable.Decoder
var _ omnitable.Decoder = (*Decoder)(nil)
