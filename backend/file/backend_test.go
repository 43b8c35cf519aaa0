package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grokify/omnitable"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "bkt/events/year=2023/a.parquet", "a")
	writeFile(t, root, "bkt/events/year=2024/b.parquet", "bb")
	writeFile(t, root, "bkt/events2/c.parquet", "ccc")
	writeFile(t, root, "other/events/d.parquet", "dddd")
	return New(Config{Root: root}), root
}

func TestListPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	defer func() { _ = store.Close() }()

	objects, err := store.List(context.Background(), "bkt", "events/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	keys := omnitable.Keys(objects)
	want := []string{"events/year=2023/a.parquet", "events/year=2024/b.parquet"}
	if len(keys) != len(want) {
		t.Fatalf("List keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if objects[1].Size != 2 {
		t.Errorf("Size = %d, want 2", objects[1].Size)
	}
}

func TestListPartialName(t *testing.T) {
	store, _ := newTestStore(t)
	defer func() { _ = store.Close() }()

	objects, err := store.List(context.Background(), "bkt", "events")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(objects) != 3 {
		t.Errorf("List returned %d objects, want 3 (string prefix match)", len(objects))
	}
}

func TestListMissingPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	defer func() { _ = store.Close() }()

	objects, err := store.List(context.Background(), "bkt", "nope/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(objects) != 0 {
		t.Errorf("List = %v, want empty", objects)
	}
}

func TestListRejectsTraversal(t *testing.T) {
	store, _ := newTestStore(t)
	defer func() { _ = store.Close() }()

	if _, err := store.List(context.Background(), "bkt", "../other/"); err != omnitable.ErrInvalidKey {
		t.Errorf("List traversal = %v, want ErrInvalidKey", err)
	}
	if _, err := store.List(context.Background(), "..", ""); err != omnitable.ErrInvalidKey {
		t.Errorf("List bad bucket = %v, want ErrInvalidKey", err)
	}
}

func TestFetch(t *testing.T) {
	store, _ := newTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	data, err := store.Fetch(ctx, "bkt", "events2/c.parquet")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "ccc" {
		t.Errorf("Fetch = %q, want %q", data, "ccc")
	}

	if _, err := store.Fetch(ctx, "bkt", "missing.parquet"); !omnitable.IsNotFound(err) {
		t.Errorf("Fetch missing = %v, want ErrNotFound", err)
	}
	if _, err := store.Fetch(ctx, "bkt", "../other/events/d.parquet"); err != omnitable.ErrInvalidKey {
		t.Errorf("Fetch traversal = %v, want ErrInvalidKey", err)
	}
}

func TestClosed(t *testing.T) {
	store, _ := newTestStore(t)
	_ = store.Close()

	if _, err := store.List(context.Background(), "bkt", ""); err != omnitable.ErrStoreClosed {
		t.Errorf("List after Close = %v, want ErrStoreClosed", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/k.parquet", "x")

	s, err := omnitable.Open("file", map[string]string{"root": root})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	data, err := s.Fetch(context.Background(), "b", "k.parquet")
	if err != nil || string(data) != "x" {
		t.Errorf("Fetch = %q, %v; want %q, nil", data, err, "x")
	}
}
