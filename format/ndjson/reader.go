// Package ndjson decodes newline-delimited JSON objects into tables.
package ndjson

import (
	"bufio"
	"bytes"
	"io"
)

// MaxLineSize is the longest record the reader accepts.
const MaxLineSize = 4 * 1024 * 1024 // 4MB

// Reader yields one JSON record per non-blank line.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return NewReaderSize(r, MaxLineSize)
}

// NewReaderSize creates a Reader whose longest accepted line is maxLine bytes.
func NewReaderSize(r io.Reader, maxLine int) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
	return &Reader{scanner: scanner}
}

// Read returns the next record and its 1-based line number.
// Blank lines are skipped. Returns io.EOF when no records remain.
// The returned slice is only valid until the next call to Read.
func (r *Reader) Read() ([]byte, int, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		return line, r.line, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, r.line, err
	}

	return nil, r.line, io.EOF
}
