package zstd

import (
	"bytes"
	"testing"

	kzstd "github.com/klauspost/compress/zstd"
)

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := kzstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, nil)
}

func TestDecompress(t *testing.T) {
	want := bytes.Repeat([]byte("zstd payload "), 100)
	got, err := Decompress(compress(t, want))
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Decompress returned %d bytes, want %d", len(got), len(want))
	}
}

func TestDecompressInvalid(t *testing.T) {
	if _, err := Decompress([]byte("not zstd at all")); err == nil {
		t.Error("Decompress of invalid data returned nil error")
	}
}

func TestDecompressMultipleFrames(t *testing.T) {
	data := append(compress(t, []byte("one ")), compress(t, []byte("two"))...)
	got, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if string(got) != "one two" {
		t.Errorf("Decompress = %q, want %q", got, "one two")
	}
}

func TestDecompressEmpty(t *testing.T) {
	got, err := Decompress(nil)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decompress returned %d bytes, want 0", len(got))
	}
}
