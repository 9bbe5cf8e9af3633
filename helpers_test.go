package filehound_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()

	fullPath := filepath.Join(root, rel)
	parent := filepath.Dir(fullPath)

	err := os.MkdirAll(parent, 0o750)
	if err != nil {
		t.Fatalf("mkdir %s: %v", parent, err)
	}

	err = os.WriteFile(fullPath, data, 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}

	return fullPath
}

func writeFiles(t *testing.T, root string, files map[string][]byte) {
	t.Helper()

	for name, data := range files {
		writeFile(t, root, name, data)
	}
}

func touch(t *testing.T, path string, atime, mtime time.Time) {
	t.Helper()

	err := os.Chtimes(path, atime, mtime)
	if err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// jsonFixture builds the flat fixture used across filter tests:
// a.json (empty), b.json (20 bytes), dummy.txt (empty).
func jsonFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFiles(t, root, map[string][]byte{
		"a.json":    nil,
		"b.json":    []byte("01234567890123456789"),
		"dummy.txt": nil,
	})

	return root
}

// nestedFixture builds the nested fixture used by hidden/discard tests:
// .hidden1/bad.txt, c.json, d.json, mydir/e.json.
func nestedFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFiles(t, root, map[string][]byte{
		filepath.Join(".hidden1", "bad.txt"): []byte("x"),
		"c.json":                             []byte("{}"),
		"d.json":                             []byte("{}"),
		filepath.Join("mydir", "e.json"):     []byte("{}"),
	})

	return root
}

func equalPaths(t *testing.T, got []string, want ...string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d paths %v, got %d: %v", len(want), want, len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path %d: expected %q, got %q (all: %v)", i, want[i], got[i], got)
		}
	}
}
