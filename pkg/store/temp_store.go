package store

import (
	"os"
	"path/filepath"
	"testing"
)

// MustTempStore returns a Store backed by a temporary file for testing. The
// Store and its file are removed when the test ends.
func MustTempStore(t testing.TB) DBStore {
	dir, err := os.MkdirTemp("", "scenar.test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	st, err := NewStore(filepath.Join(dir, "db"))
	if err != nil {
		t.Fatalf("failed to create Store instance: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("failed to remove temp dir: %v", err)
		}
	})
	return st
}
