package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/dagaz/internal/apperr"
)

// SaveChunk appends text to the meeting's working transcript buffer. The
// stored text is the plain concatenation of every chunk in arrival order;
// no separator is inserted and chunk boundaries are not retained. The model
// fields and created_at are overwritten with this call's values every time.
//
// The read-modify-write runs inside one transaction, and the final write is
// an atomic upsert, so concurrent saves for the same meeting serialize
// instead of losing text.
func (db *DB) SaveChunk(meetingID, text, model, modelName string, chunkSize, overlap int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existing string
	err = tx.QueryRow(`SELECT transcript_text FROM transcript_chunks WHERE meeting_id = ?`, meetingID).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: read chunk: %w", err)
	}

	accumulated := existing + text

	// Seed meeting_name from the registry on first insert; renames keep the
	// denormalized copy current afterwards (see UpdateMeetingName).
	var meetingName sql.NullString
	_ = tx.QueryRow(`SELECT title FROM meetings WHERE id = ?`, meetingID).Scan(&meetingName)

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		INSERT INTO transcript_chunks
			(meeting_id, meeting_name, transcript_text, model, model_name, chunk_size, overlap, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(meeting_id) DO UPDATE SET
			transcript_text = excluded.transcript_text,
			model           = excluded.model,
			model_name      = excluded.model_name,
			chunk_size      = excluded.chunk_size,
			overlap         = excluded.overlap,
			created_at      = excluded.created_at
	`, meetingID, meetingName, accumulated, model, modelName, chunkSize, overlap, now); err != nil {
		return fmt.Errorf("store: upsert chunk: %w", err)
	}
	return tx.Commit()
}

// GetTranscriptData returns the working buffer joined with its process status
// and result. The join is inner on purpose: a buffer without a process row
// (or the other way round) yields apperr.ErrNotFound, because transcript data
// is only meaningful alongside its processing status on this path.
func (db *DB) GetTranscriptData(meetingID string) (*TranscriptData, error) {
	var (
		td          TranscriptData
		meetingName sql.NullString
		result      sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT t.meeting_id, t.meeting_name, t.transcript_text, t.model, t.model_name,
		       COALESCE(t.chunk_size, 0), COALESCE(t.overlap, 0), t.created_at,
		       p.status, p.result
		FROM transcript_chunks t
		JOIN summary_processes p ON t.meeting_id = p.meeting_id
		WHERE t.meeting_id = ?
	`, meetingID).Scan(&td.MeetingID, &meetingName, &td.TranscriptText, &td.Model, &td.ModelName,
		&td.ChunkSize, &td.Overlap, &td.CreatedAt, &td.Status, &result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transcript data: %w", err)
	}
	td.MeetingName = meetingName.String
	if result.Valid {
		td.Result = []byte(result.String)
	}
	return &td, nil
}
