// Package testutil provides shared test helpers for setting up databases and
// recordings directories.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/dagaz/internal/recordings"
	"github.com/starford/dagaz/internal/store"
)

// Defaults are the settings-row defaults used throughout tests.
var Defaults = store.ModelConfig{
	Provider:     "openai",
	Model:        "gpt-4o-mini",
	WhisperModel: "whisper-1",
}

// TestDB creates a temporary bootstrapped SQLite database that is
// automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Bootstrap(Defaults); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestRecordings creates a temporary recordings directory with its FS store.
func TestRecordings(t *testing.T) (string, *recordings.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := recordings.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}
