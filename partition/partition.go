// Package partition extracts column values from partition-style object keys
// such as "events/year=2023/month=05/part-0.parquet".
package partition

import (
	"strings"

	"github.com/grokify/omnitable/table"
)

// Separator splits an object key into segments.
const Separator = "/"

// Extract returns the values of the requested columns found in key.
//
// Every segment with exactly one "=" is read as name=value. Only names
// listed in columns are kept. Requested columns absent from the key are
// omitted from the result. Values are returned verbatim.
func Extract(key string, columns []string) map[string]string {
	out := make(map[string]string)
	if len(columns) == 0 {
		return out
	}

	wanted := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		wanted[c] = struct{}{}
	}

	for _, seg := range strings.Split(key, Separator) {
		if strings.Count(seg, "=") != 1 {
			continue
		}
		name, value, _ := strings.Cut(seg, "=")
		if _, ok := wanted[name]; ok {
			out[name] = value
		}
	}
	return out
}

// Apply adds the partition values found in key to every row of t as string
// columns, in the order of columns. It returns the values that were applied.
func Apply(t *table.Table, key string, columns []string) map[string]string {
	values := Extract(key, columns)
	for _, c := range columns {
		if v, ok := values[c]; ok {
			t.SetConstant(c, v)
		}
	}
	return values
}
