package fileutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDedupeAndSort(t *testing.T) {
	got := DedupeAndSort([]string{"b", "a", "b", "c", "a"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestDedupeStringsKeepsOrder(t *testing.T) {
	got := DedupeStrings([]string{"b", "a", "b"})
	if !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestWriteAtomicCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")

	if err := WriteAtomic(path, []byte("one")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}
	if err := WriteAtomic(path, []byte("two")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != "two" {
		t.Fatalf("unexpected contents: %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}
