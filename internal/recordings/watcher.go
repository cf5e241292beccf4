package recordings

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Registrar registers a meeting for a recording file. Registration must be
// idempotent: the watcher can see the same file several times (create plus
// write events, or a re-scan after a new directory appears).
type Registrar func(path string) error

// Watch starts an fsnotify watcher on the recordings root and registers a
// meeting for every audio file that appears, until ctx is cancelled.
//
// New directories created at runtime are added to the watch list and scanned
// for audio files already inside them. Removing a recording does not remove
// its meeting: persisted transcripts outlive the raw audio.
func Watch(ctx context.Context, store *FS, register Registrar, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, store.Root()); err != nil {
		return err
	}

	logger.Info("recordings watcher: started", slog.String("root", store.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("recordings watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("recordings watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					registerDir(store, absPath, register, logger)
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !IsAudioFile(absPath) {
				continue
			}

			rel, relErr := filepath.Rel(store.Root(), absPath)
			if relErr != nil {
				continue
			}
			if regErr := register(rel); regErr != nil {
				logger.Warn("recordings watcher: register failed",
					slog.String("path", rel),
					slog.String("error", regErr.Error()))
				continue
			}
			logger.Debug("recordings watcher: registered", slog.String("path", rel))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("recordings watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// registerDir registers audio files already present in a newly watched dir.
func registerDir(store *FS, dir string, register Registrar, logger *slog.Logger) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !IsAudioFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(store.Root(), p)
		if err != nil {
			return nil
		}
		if err := register(rel); err != nil {
			logger.Warn("recordings watcher: register failed",
				slog.String("path", rel),
				slog.String("error", err.Error()))
		}
		return nil
	})
}

// addDirsRecursive adds root and every subdirectory to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
