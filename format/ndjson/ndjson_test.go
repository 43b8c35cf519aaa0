package ndjson

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokify/omnitable"
)

func TestReaderSkipsBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\n\n   \n{\"a\":2}\n"))

	rec, line, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(rec))
	assert.Equal(t, 1, line)

	rec, line, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(rec))
	assert.Equal(t, 4, line)

	_, _, err = r.Read()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReaderLineTooLong(t *testing.T) {
	r := NewReaderSize(strings.NewReader(strings.Repeat("x", 100)+"\n"), 10)
	_, _, err := r.Read()
	require.Error(t, err)
	assert.False(t, errors.Is(err, io.EOF))
}

func TestDecoderMetadata(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, "ndjson", d.Name())
	assert.Equal(t, []string{".ndjson", ".jsonl"}, d.Extensions())
}

func TestDecode(t *testing.T) {
	data := []byte(`{"id":1,"name":"alice","tags":["x"]}
{"id":2,"name":"bob","extra":true}
`)
	tbl, err := NewDecoder().Decode(data, omnitable.DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"id", "name", "tags", "extra"}, tbl.Columns())

	v, _ := tbl.Value(0, "id")
	assert.Equal(t, int64(1), v)
	v, _ = tbl.Value(1, "name")
	assert.Equal(t, "bob", v)
	v, _ = tbl.Value(0, "extra")
	assert.Nil(t, v)
	v, _ = tbl.Value(1, "extra")
	assert.Equal(t, true, v)
}

func TestDecodeProjectionAndLimit(t *testing.T) {
	data := []byte("{\"a\":1,\"b\":2}\n{\"a\":3,\"b\":4}\n{\"a\":5,\"b\":6}\n")
	opts := omnitable.ApplyDecodeOptions(omnitable.WithColumns("b"), omnitable.WithMaxRows(2))

	tbl, err := NewDecoder().Decode(data, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{\"a\":1}\nnot json\n"},
		{"array record", "[1,2,3]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder().Decode([]byte(tt.data), omnitable.DecodeOptions{})
			require.Error(t, err)
			assert.True(t, omnitable.IsCorrupt(err))
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	tbl, err := NewDecoder().Decode(nil, omnitable.DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumColumns())
}

func TestDecodeLargeIntegers(t *testing.T) {
	data := []byte("{\"id\":9007199254740993,\"ratio\":0.5,\"exp\":1e3,\"huge\":18446744073709551616,\"nested\":{\"n\":[1,2.5]}}\n")

	tbl, err := NewDecoder().Decode(data, omnitable.DecodeOptions{})
	require.NoError(t, err)

	v, _ := tbl.Value(0, "id")
	assert.Equal(t, int64(9007199254740993), v)
	v, _ = tbl.Value(0, "ratio")
	assert.Equal(t, 0.5, v)
	v, _ = tbl.Value(0, "exp")
	assert.Equal(t, float64(1000), v)
	v, _ = tbl.Value(0, "huge")
	assert.IsType(t, float64(0), v)
	v, _ = tbl.Value(0, "nested")
	assert.Equal(t, map[string]any{"n": []any{int64(1), 2.5}}, v)
}

func TestDecodeProjectionDropsMissingColumns(t *testing.T) {
	data := []byte("{\"a\":1,\"b\":2}\n{\"b\":4,\"a\":3}\n")
	opts := omnitable.ApplyDecodeOptions(omnitable.WithColumns("b", "missing", "a"))

	tbl, err := NewDecoder().Decode(data, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, tbl.Columns())
	assert.False(t, tbl.HasColumn("missing"))
	assert.Equal(t, map[string]any{"a": int64(3), "b": int64(4)}, tbl.Row(1))
}
