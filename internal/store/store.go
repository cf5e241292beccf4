// Package store provides the SQLite persistence layer: the meeting
// registry, the transcript segment log, the per-meeting working
// transcript buffer, the summarization process tracker, and the global
// settings row, with optional FTS5 transcript search.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meetings (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS transcripts (
	id           TEXT PRIMARY KEY,
	meeting_id   TEXT NOT NULL REFERENCES meetings(id),
	transcript   TEXT NOT NULL,
	timestamp    TEXT NOT NULL,
	summary      TEXT,
	action_items TEXT,
	key_points   TEXT
);

CREATE INDEX IF NOT EXISTS idx_transcripts_meeting ON transcripts(meeting_id);

CREATE TABLE IF NOT EXISTS summary_processes (
	meeting_id      TEXT PRIMARY KEY,
	status          TEXT NOT NULL,
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL,
	error           TEXT,
	result          TEXT,
	start_time      DATETIME,
	end_time        DATETIME,
	chunk_count     INTEGER NOT NULL DEFAULT 0,
	processing_time REAL NOT NULL DEFAULT 0.0,
	metadata        TEXT
);

CREATE TABLE IF NOT EXISTS transcript_chunks (
	meeting_id      TEXT PRIMARY KEY,
	meeting_name    TEXT,
	transcript_text TEXT NOT NULL,
	model           TEXT NOT NULL,
	model_name      TEXT NOT NULL,
	chunk_size      INTEGER,
	overlap         INTEGER,
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	id              TEXT PRIMARY KEY,
	provider        TEXT NOT NULL,
	model           TEXT NOT NULL,
	whisperModel    TEXT NOT NULL,
	openaiApiKey    TEXT,
	anthropicApiKey TEXT,
	groqApiKey      TEXT,
	ollamaApiKey    TEXT
);
`

// DB wraps a sql.DB with meeting-minutes operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Bootstrap ensures the singleton settings row exists, seeding it with
// defaults. An existing row is never touched, no matter how often this runs.
func (db *DB) Bootstrap(defaults ModelConfig) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO settings (id, provider, model, whisperModel)
		VALUES ('1', ?, ?, ?)
	`, defaults.Provider, defaults.Model, defaults.WhisperModel)
	if err != nil {
		return fmt.Errorf("store: bootstrap settings: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
