package ndjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/grokify/omnitable"
	"github.com/grokify/omnitable/table"
)

// Decoder implements omnitable.Decoder for NDJSON. Each line must be a JSON
// object; its top-level fields become columns in first-seen order.
type Decoder struct{}

// NewDecoder returns an NDJSON decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Name returns "ndjson".
func (d *Decoder) Name() string {
	return "ndjson"
}

// Extensions returns the NDJSON key suffixes.
func (d *Decoder) Extensions() []string {
	return []string{".ndjson", ".jsonl"}
}

// Decode parses every record in data. Integral numbers that fit decode as
// int64 and other numbers as float64. Nested objects and arrays decode as
// map[string]any and []any. Projected columns that no record has are
// dropped, as the Parquet decoder does.
func (d *Decoder) Decode(data []byte, opts omnitable.DecodeOptions) (*table.Table, error) {
	t := table.New()
	r := NewReader(bytes.NewReader(data))

	for {
		if opts.MaxRows > 0 && t.NumRows() >= opts.MaxRows {
			break
		}

		line, n, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ndjson: line %d: %v", omnitable.ErrCorruptObject, n, err)
		}

		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("%w: ndjson: line %d: invalid json", omnitable.ErrCorruptObject, n)
		}
		rec := gjson.ParseBytes(line)
		if !rec.IsObject() {
			return nil, fmt.Errorf("%w: ndjson: line %d: not an object", omnitable.ErrCorruptObject, n)
		}

		row := make(map[string]any)
		rec.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if opts.Wants(name) {
				t.AddColumn(name)
				row[name] = jsonValue(value)
			}
			return true
		})
		t.AppendMap(row)
	}

	if len(opts.Columns) > 0 {
		return t.Select(opts.Columns...), nil
	}
	return t, nil
}

func jsonValue(v gjson.Result) any {
	switch {
	case v.Type == gjson.Number:
		if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return i
		}
		return v.Float()
	case v.IsObject():
		m := make(map[string]any)
		v.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = jsonValue(value)
			return true
		})
		return m
	case v.IsArray():
		arr := v.Array()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = jsonValue(e)
		}
		return out
	default:
		return v.Value()
	}
}

// Ensure Decoder implements omnitable.Decoder
var _ omnitable.Decoder = (*Decoder)(nil)
