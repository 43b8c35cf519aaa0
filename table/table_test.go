package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeduplicatesColumns(t *testing.T) {
	tbl := New("a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.Equal(t, 0, tbl.NumRows())
	assert.True(t, tbl.IsEmpty())
}

func TestEmpty(t *testing.T) {
	tbl := Empty()
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumColumns())
}

func TestAppendRow(t *testing.T) {
	tbl := New("id", "name")
	require.NoError(t, tbl.AppendRow([]any{int64(1), "alice"}))
	require.NoError(t, tbl.AppendRow([]any{int64(2), "bob"}))

	err := tbl.AppendRow([]any{int64(3)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowWidth))

	assert.Equal(t, 2, tbl.NumRows())
	v, ok := tbl.Value(1, "name")
	require.True(t, ok)
	assert.Equal(t, "bob", v)
	assert.Equal(t, []int{0, 1}, tbl.RowIDs())
}

func TestAppendMapAddsColumns(t *testing.T) {
	tbl := New()
	tbl.AppendMap(map[string]any{"a": 1})
	tbl.AppendMap(map[string]any{"b": 2})

	assert.Equal(t, []string{"a", "b"}, tbl.Columns())

	v, ok := tbl.Value(0, "b")
	require.True(t, ok)
	assert.Nil(t, v)

	v, ok = tbl.Value(1, "a")
	require.True(t, ok)
	assert.Nil(t, v)

	v, ok = tbl.Value(1, "b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSetConstant(t *testing.T) {
	tbl := New("id")
	require.NoError(t, tbl.AppendRow([]any{1}))
	require.NoError(t, tbl.AppendRow([]any{2}))

	tbl.SetConstant("year", "2023")
	col, ok := tbl.Column("year")
	require.True(t, ok)
	assert.Equal(t, []any{"2023", "2023"}, col)

	tbl.SetConstant("year", "2024")
	col, _ = tbl.Column("year")
	assert.Equal(t, []any{"2024", "2024"}, col)
	assert.Equal(t, []string{"id", "year"}, tbl.Columns())
}

func TestSetConstantOnEmptyTable(t *testing.T) {
	tbl := Empty()
	tbl.SetConstant("year", "2023")
	assert.Equal(t, 0, tbl.NumRows())
	assert.True(t, tbl.HasColumn("year"))
}

func TestValueOutOfRange(t *testing.T) {
	tbl := New("a")
	_, ok := tbl.Value(0, "a")
	assert.False(t, ok)
	_, ok = tbl.Value(0, "missing")
	assert.False(t, ok)
	assert.Nil(t, tbl.Row(3))
	assert.Equal(t, -1, tbl.RowID(3))
}

func TestRowReturnsCopy(t *testing.T) {
	tbl := New("a")
	require.NoError(t, tbl.AppendRow([]any{"x"}))

	row := tbl.Row(0)
	row["a"] = "changed"

	v, _ := tbl.Value(0, "a")
	assert.Equal(t, "x", v)
}

func TestAddColumn(t *testing.T) {
	tbl := New("a")
	require.NoError(t, tbl.AppendRow([]any{1}))
	tbl.AddColumn("b")
	tbl.AddColumn("a")

	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	v, ok := tbl.Value(0, "b")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestFrameBacksTable(t *testing.T) {
	tbl := New("id", "name")
	require.NoError(t, tbl.AppendRow([]any{int64(1), "alice"}))
	tbl.AppendMap(map[string]any{"id": int64(2)})

	df := tbl.Frame()
	require.Equal(t, 2, df.NRows())
	assert.Equal(t, []string{"id", "name"}, df.Names())
	assert.Equal(t, "alice", df.Series[1].Value(0))
	assert.Nil(t, df.Series[1].Value(1))
}

func TestSliceValueIsOneCell(t *testing.T) {
	tbl := New("tags")
	require.NoError(t, tbl.AppendRow([]any{[]any{"a", "b"}}))
	tbl.AppendMap(map[string]any{"tags": []any{"c"}})

	require.Equal(t, 2, tbl.NumRows())
	v, _ := tbl.Value(0, "tags")
	assert.Equal(t, []any{"a", "b"}, v)
	assert.Equal(t, 2, tbl.Frame().NRows())
}

func TestSelect(t *testing.T) {
	tbl := New("a", "b", "c")
	require.NoError(t, tbl.AppendRow([]any{1, 2, 3}))
	require.NoError(t, tbl.AppendRow([]any{4, 5, 6}))

	out := tbl.Select("c", "missing", "a", "c")
	assert.Equal(t, []string{"c", "a"}, out.Columns())
	assert.Equal(t, []int{0, 1}, out.RowIDs())
	assert.Equal(t, map[string]any{"c": 6, "a": 4}, out.Row(1))

	none := tbl.Select("missing")
	assert.Equal(t, 0, none.NumColumns())
	assert.Equal(t, 2, none.NumRows())
}
