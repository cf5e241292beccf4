package recordings

import "log/slog"

// Sync walks the recordings root and registers a meeting for every audio
// file found. Registration is idempotent, so files seen on a previous run
// are skipped by the registrar. Run once at startup, before the watcher.
func Sync(store *FS, register Registrar, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}
	for _, m := range metas {
		if err := register(m.Path); err != nil {
			logger.Warn("recordings sync: register failed",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		logger.Debug("recordings sync: registered", slog.String("path", m.Path))
	}
	return nil
}
