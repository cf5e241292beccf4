package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// envKeySources maps settings columns to the environment variables that can
// override them at startup. Ollama has no environment-sourced key.
var envKeySources = []struct {
	envVar string
	column string
}{
	{"OPENAI_API_KEY", "openaiApiKey"},
	{"ANTHROPIC_API_KEY", "anthropicApiKey"},
	{"GROQ_API_KEY", "groqApiKey"},
}

// GetModelConfig returns the stored provider/model selection.
func (db *DB) GetModelConfig() (ModelConfig, error) {
	var mc ModelConfig
	err := db.conn.QueryRow(`SELECT provider, model, whisperModel FROM settings WHERE id = '1'`).
		Scan(&mc.Provider, &mc.Model, &mc.WhisperModel)
	if err != nil {
		return ModelConfig{}, fmt.Errorf("store: get model config: %w", err)
	}
	return mc, nil
}

// SaveModelConfig upserts the provider/model selection. API key columns are
// left untouched.
func (db *DB) SaveModelConfig(mc ModelConfig) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (id, provider, model, whisperModel)
		VALUES ('1', ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provider     = excluded.provider,
			model        = excluded.model,
			whisperModel = excluded.whisperModel
	`, mc.Provider, mc.Model, mc.WhisperModel)
	if err != nil {
		return fmt.Errorf("store: save model config: %w", err)
	}
	return nil
}

// SaveAPIKey stores the key in the provider's dedicated settings column.
func (db *DB) SaveAPIKey(p Provider, apiKey string) error {
	column, ok := apiKeyColumns[p]
	if !ok {
		return fmt.Errorf("store: no key column for provider %q", p)
	}
	_, err := db.conn.Exec(fmt.Sprintf(`UPDATE settings SET %s = ? WHERE id = '1'`, column), apiKey)
	if err != nil {
		return fmt.Errorf("store: save api key: %w", err)
	}
	return nil
}

// GetAPIKey returns the stored key for the provider, or empty string when
// none is set.
func (db *DB) GetAPIKey(p Provider) (string, error) {
	column, ok := apiKeyColumns[p]
	if !ok {
		return "", fmt.Errorf("store: no key column for provider %q", p)
	}
	var key sql.NullString
	err := db.conn.QueryRow(fmt.Sprintf(`SELECT %s FROM settings WHERE id = '1'`, column)).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get api key: %w", err)
	}
	if !key.Valid || key.String == "" {
		slog.Warn("api key not set", slog.String("provider", string(p)))
		return "", nil
	}
	return key.String, nil
}

// DeleteAPIKey clears the provider's key column. The settings row itself is
// never deleted.
func (db *DB) DeleteAPIKey(p Provider) error {
	column, ok := apiKeyColumns[p]
	if !ok {
		return fmt.Errorf("store: no key column for provider %q", p)
	}
	_, err := db.conn.Exec(fmt.Sprintf(`UPDATE settings SET %s = NULL WHERE id = '1'`, column))
	if err != nil {
		return fmt.Errorf("store: delete api key: %w", err)
	}
	return nil
}

// SyncEnvKeys copies API keys from environment variables into the settings
// row. A key is written only when the variable is set and differs from the
// stored value; an absent variable is logged and never clears a stored key.
// All writes land in one commit.
func (db *DB) SyncEnvKeys(logger *slog.Logger) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	changed := 0
	for _, src := range envKeySources {
		val := os.Getenv(src.envVar)
		if val == "" {
			logger.Warn("env key absent, stored value untouched", slog.String("env", src.envVar))
			continue
		}
		res, err := tx.Exec(fmt.Sprintf(
			`UPDATE settings SET %s = ? WHERE id = '1' AND (%s IS NULL OR %s != ?)`,
			src.column, src.column, src.column), val, val)
		if err != nil {
			return fmt.Errorf("store: sync %s: %w", src.envVar, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("api key updated from environment", slog.String("env", src.envVar))
			changed++
		}
	}

	if changed == 0 {
		logger.Info("no api key changes from environment")
	}
	return tx.Commit()
}
