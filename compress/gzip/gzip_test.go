package gzip

import (
	"bytes"
	"testing"

	kgzip "github.com/klauspost/compress/gzip"
)

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := kgzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	want := []byte("hello gzip world")
	got, err := Decompress(compress(t, want))
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Decompress = %q, want %q", got, want)
	}
}

func TestDecompressInvalid(t *testing.T) {
	if _, err := Decompress([]byte("not gzip")); err == nil {
		t.Error("Decompress of invalid data returned nil error")
	}
}

func TestDecompressConcatenatedMembers(t *testing.T) {
	data := append(compress(t, []byte("first ")), compress(t, []byte("second"))...)
	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if string(got) != "first second" {
		t.Errorf("Decompress = %q, want %q", got, "first second")
	}
}

func TestDecompressTruncated(t *testing.T) {
	data := compress(t, bytes.Repeat([]byte("truncate me "), 50))
	if _, err := Decompress(data[:len(data)-6]); err == nil {
		t.Error("Decompress of truncated data returned nil error")
	}
}
