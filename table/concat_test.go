package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, columns []string, rows ...[]any) *Table {
	t.Helper()
	tbl := New(columns...)
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(r))
	}
	return tbl
}

func TestConcatNoTables(t *testing.T) {
	out := Concat()
	assert.Equal(t, 0, out.NumRows())
	assert.Equal(t, 0, out.NumColumns())

	out = Concat(nil, nil)
	assert.Equal(t, 0, out.NumRows())
}

func TestConcatRenumbersRows(t *testing.T) {
	a := mustTable(t, []string{"id"}, []any{1}, []any{2})
	b := mustTable(t, []string{"id"}, []any{3})

	out := Concat(a, b)
	require.Equal(t, 3, out.NumRows())
	assert.Equal(t, []int{0, 1, 2}, out.RowIDs())

	col, _ := out.Column("id")
	assert.Equal(t, []any{1, 2, 3}, col)

	// inputs are untouched
	assert.Equal(t, []int{0}, b.RowIDs())
}

func TestConcatUnionSchema(t *testing.T) {
	a := mustTable(t, []string{"id", "year"}, []any{1, "2023"})
	b := mustTable(t, []string{"id"}, []any{2})
	c := mustTable(t, []string{"month", "id"}, []any{"05", 3})

	out := Concat(a, b, c)
	assert.Equal(t, []string{"id", "year", "month"}, out.Columns())
	require.Equal(t, 3, out.NumRows())

	assert.Equal(t, map[string]any{"id": 1, "year": "2023", "month": nil}, out.Row(0))
	assert.Equal(t, map[string]any{"id": 2, "year": nil, "month": nil}, out.Row(1))
	assert.Equal(t, map[string]any{"id": 3, "year": nil, "month": "05"}, out.Row(2))
}

func TestConcatSkipsEmptyTables(t *testing.T) {
	a := mustTable(t, []string{"id"}, []any{1})
	out := Concat(Empty(), a, Empty())
	assert.Equal(t, 1, out.NumRows())
	assert.Equal(t, []string{"id"}, out.Columns())
}

func TestConcatRowCountIsSum(t *testing.T) {
	var tables []*Table
	want := 0
	for i := 1; i <= 5; i++ {
		tbl := New("n")
		for j := 0; j < i; j++ {
			require.NoError(t, tbl.AppendRow([]any{j}))
		}
		want += i
		tables = append(tables, tbl)
	}
	assert.Equal(t, want, Concat(tables...).NumRows())
}

func TestConcatMixedTypes(t *testing.T) {
	a := mustTable(t, []string{"v"}, []any{int64(1)})
	b := mustTable(t, []string{"v", "w"}, []any{"two", 2.5})

	out := Concat(a, b)
	col, ok := out.Column("v")
	require.True(t, ok)
	assert.Equal(t, []any{int64(1), "two"}, col)
	col, _ = out.Column("w")
	assert.Equal(t, []any{nil, 2.5}, col)
	assert.Equal(t, 2, out.Frame().NRows())
}

func TestConcatColumnlessRows(t *testing.T) {
	a := New()
	a.AppendMap(map[string]any{})
	a.AppendMap(nil)

	out := Concat(a, Empty())
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, []int{0, 1}, out.RowIDs())
}
