package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagefinder/internal/logging"
	"pagefinder/internal/store"
)

// MustOpenStore opens a result store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *store.Store {
	t.Helper()

	s, err := store.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// SeedStore writes urls, one per line, to the result file in dir and returns
// its path.
func SeedStore(t testing.TB, dir string, urls ...string) string {
	t.Helper()

	path := filepath.Join(dir, store.DefaultFileName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	content := ""
	if len(urls) > 0 {
		content = strings.Join(urls, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed %s: %v", path, err)
	}
	return path
}
