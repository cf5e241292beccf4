// Package recordings manages the audio recordings directory: file storage,
// a change watcher, and startup reconciliation that registers a meeting for
// every recording on disk.
package recordings

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/checksum"
)

// audioExts lists the recording file extensions handled by intake.
var audioExts = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".flac": {},
	".webm": {},
}

// IsAudioFile reports whether path has a recognized recording extension.
func IsAudioFile(path string) bool {
	_, ok := audioExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Meta describes one recording on disk.
type Meta struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}

// FS stores recordings on the local file system.
type FS struct {
	root string // absolute path to the recordings directory
}

// NewFS creates a recordings store rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("recordings: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("recordings: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("recordings: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute recordings directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the root and rejects any result
// that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("recordings: empty path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("recordings: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("recordings: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("recordings: path escapes root: %s", rel)
	}
	return abs, nil
}

// List walks the root and returns metadata for every audio file.
func (f *FS) List() ([]Meta, error) {
	var out []Meta
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsAudioFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, Meta{
			Path:      rel,
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recordings: list: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a recording.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("recordings: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically stores a recording: tmp file, fsync, rename.
func (f *FS) Write(path string, content []byte) error {
	if !IsAudioFile(path) {
		return fmt.Errorf("recordings: not an audio file: %s", path)
	}
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("recordings: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dagaz-tmp-*")
	if err != nil {
		return fmt.Errorf("recordings: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("recordings: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("recordings: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("recordings: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("recordings: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a recording from disk.
func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("recordings: delete %s: %w", path, err)
	}
	return nil
}
