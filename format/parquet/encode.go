package parquet

import (
	"bytes"
	"fmt"

	pq "github.com/parquet-go/parquet-go"
)

// Encode writes rows as a Parquet file and returns its bytes.
// The schema is derived from T's struct tags.
func Encode[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := pq.NewGenericWriter[T](&buf)
	if _, err := w.Write(rows); err != nil {
		return nil, fmt.Errorf("parquet: writing rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("parquet: closing writer: %w", err)
	}
	return buf.Bytes(), nil
}
