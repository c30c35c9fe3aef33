package testutils

import (
	"os"
	"path/filepath"
	"testing"
)

// FakeAudio is the content written by WriteAudio. The backends under test
// never decode it.
const FakeAudio = "ID3 fake audio"

// WriteAudio writes a fake recording named name into dir and returns its path.
func WriteAudio(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(FakeAudio), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
