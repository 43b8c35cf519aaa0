package table

import (
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Concat concatenates tables in the order given into a new table.
//
// The result's columns are the union of the input columns in first-seen
// order. Cells for columns an input table does not have are nil. Input row
// identifiers are discarded and the result is numbered 0..N-1.
//
// Concat of no tables (or only nil tables) returns an empty table.
func Concat(tables ...*Table) *Table {
	var names []string
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns() {
			if !seen[c] {
				seen[c] = true
				names = append(names, c)
			}
		}
		total += t.NumRows()
	}

	if len(names) == 0 {
		out := New()
		for i := 0; i < total; i++ {
			out.appendRow(nil)
		}
		return out
	}

	series := make([]dataframe.Series, len(names))
	for i, name := range names {
		vals := make([]any, 0, total)
		for _, t := range tables {
			if t == nil {
				continue
			}
			n := t.NumRows()
			s, ok := t.column(name)
			if !ok {
				vals = append(vals, make([]any, n)...)
				continue
			}
			for r := 0; r < n; r++ {
				vals = append(vals, s.Value(r))
			}
		}
		series[i] = dataframe.NewSeriesMixed(name, nil, vals...)
	}

	return fromFrame(dataframe.NewDataFrame(series...))
}
