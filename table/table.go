// Package table provides the in-memory tabular value produced by decoders
// and merged by the loader.
//
// A Table is a dataframe-go DataFrame whose columns are mixed-type series,
// so cells may hold any decoded value or nil. Every row also carries a
// positional row identifier which Concat renumbers.
//
// Basic usage:
//
//	t := table.New("id", "name")
//	_ = t.AppendRow([]any{int64(1), "alice"})
//	t.SetConstant("year", "2023")
//	df := t.Frame() // for dataframe-go sorting, filtering, export
package table

import (
	"errors"
	"fmt"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// ErrRowWidth is returned when a row does not match the table's column count.
var ErrRowWidth = errors.New("table: row width does not match column count")

// Table is an in-memory table with named columns.
// A Table is not safe for concurrent mutation.
type Table struct {
	df  *dataframe.DataFrame
	ids []int
}

// New creates an empty table with the given columns.
// Duplicate column names are ignored after their first occurrence.
func New(columns ...string) *Table {
	t := &Table{df: dataframe.NewDataFrame()}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

// Empty returns a table with no columns and no rows.
func Empty() *Table {
	return New()
}

// fromFrame wraps df, numbering its rows 0..n-1.
func fromFrame(df *dataframe.DataFrame) *Table {
	n := df.NRows()
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return &Table{df: df, ids: ids}
}

// Frame returns the underlying DataFrame. Mutating it directly bypasses
// row identifiers.
func (t *Table) Frame() *dataframe.DataFrame {
	return t.df
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.df.Series)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.ids)
}

// IsEmpty returns true if the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.NumRows() == 0
}

// HasColumn returns true if the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.column(name)
	return ok
}

// AddColumn adds a column filled with nil. Existing columns are left as is.
func (t *Table) AddColumn(name string) {
	t.addColumn(name)
}

// AppendRow appends a row whose values are in column order.
// The row identifier is the row's position.
func (t *Table) AppendRow(values []any) error {
	names := t.Columns()
	if len(values) != len(names) {
		return fmt.Errorf("%w: got %d values, want %d", ErrRowWidth, len(values), len(names))
	}
	row := make(map[string]any, len(names))
	for i, name := range names {
		row[name] = values[i]
	}
	t.appendRow(row)
	return nil
}

// AppendMap appends a row from a column name to value mapping.
// Names not yet present become new columns, in unspecified order; earlier
// rows get nil for them. Call AddColumn first when column order matters.
// Columns missing from the map are set to nil.
func (t *Table) AppendMap(values map[string]any) {
	for name := range values {
		t.addColumn(name)
	}
	names := t.Columns()
	row := make(map[string]any, len(names))
	for _, name := range names {
		row[name] = values[name]
	}
	t.appendRow(row)
}

// SetConstant sets column name to value on every row, adding the column
// if it does not exist.
func (t *Table) SetConstant(name string, value any) {
	t.addColumn(name)
	s, _ := t.column(name)
	for i := 0; i < t.NumRows(); i++ {
		s.Update(i, value)
	}
}

// Value returns the value at the given row and column.
// The boolean is false if the row or column does not exist.
func (t *Table) Value(row int, column string) (any, bool) {
	s, ok := t.column(column)
	if !ok || row < 0 || row >= t.NumRows() {
		return nil, false
	}
	return s.Value(row), true
}

// Column returns a copy of all values of the named column.
func (t *Table) Column(name string) ([]any, bool) {
	s, ok := t.column(name)
	if !ok {
		return nil, false
	}
	out := make([]any, t.NumRows())
	for i := range out {
		out[i] = s.Value(i)
	}
	return out, true
}

// Row returns a copy of the row at position i as a column name to value map.
func (t *Table) Row(i int) map[string]any {
	if i < 0 || i >= t.NumRows() {
		return nil
	}
	out := make(map[string]any, t.NumColumns())
	for _, s := range t.df.Series {
		out[s.Name()] = s.Value(i)
	}
	return out
}

// RowID returns the positional identifier of row i, or -1 if out of range.
func (t *Table) RowID(i int) int {
	if i < 0 || i >= len(t.ids) {
		return -1
	}
	return t.ids[i]
}

// RowIDs returns a copy of all row identifiers.
func (t *Table) RowIDs() []int {
	out := make([]int, len(t.ids))
	copy(out, t.ids)
	return out
}

// Select returns a new table with only the named columns, in the given
// order. Names the table does not have are skipped.
func (t *Table) Select(columns ...string) *Table {
	var series []dataframe.Series
	seen := make(map[string]bool, len(columns))
	for _, name := range columns {
		s, ok := t.column(name)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		series = append(series, s.Copy())
	}
	if len(series) == 0 {
		out := New()
		for i := 0; i < t.NumRows(); i++ {
			out.appendRow(map[string]any{})
		}
		return out
	}
	return fromFrame(dataframe.NewDataFrame(series...))
}

func (t *Table) column(name string) (dataframe.Series, bool) {
	idx, err := t.df.NameToColumn(name)
	if err != nil {
		return nil, false
	}
	return t.df.Series[idx], true
}

func (t *Table) addColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	s := dataframe.NewSeriesMixed(name, nil, make([]any, t.NumRows())...)
	if err := t.df.AddSeries(s, nil); err != nil {
		// the new series always has the frame's length
		panic(fmt.Sprintf("table: adding column %q: %v", name, err))
	}
}

// appendRow grows the frame by a nil row and then fills it with Update, so
// slice values are stored as one cell instead of being spread over rows.
func (t *Table) appendRow(row map[string]any) {
	blank := make(map[string]any, len(t.df.Series))
	for _, s := range t.df.Series {
		blank[s.Name()] = nil
	}
	t.df.Append(nil, blank)
	i := len(t.ids)
	t.ids = append(t.ids, i)
	for _, s := range t.df.Series {
		if v := row[s.Name()]; v != nil {
			s.Update(i, v)
		}
	}
}
