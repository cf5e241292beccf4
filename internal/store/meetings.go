package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
)

// SaveMeeting inserts a new meeting. A meeting whose id or title is already
// taken is rejected with apperr.ErrAlreadyExists; nothing is written in that case.
func (db *DB) SaveMeeting(id, title string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var existing string
	err = tx.QueryRow(`SELECT id FROM meetings WHERE id = ? OR title = ?`, id, title).Scan(&existing)
	if err == nil {
		return fmt.Errorf("%w: meeting %q", apperr.ErrAlreadyExists, id)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: check meeting: %w", err)
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		INSERT INTO meetings (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, id, title, now, now); err != nil {
		return fmt.Errorf("store: insert meeting: %w", err)
	}
	return tx.Commit()
}

// GetMeeting returns a meeting with its full transcript segment log, or
// apperr.ErrNotFound when no such meeting exists.
func (db *DB) GetMeeting(id string) (*MeetingDetail, error) {
	var m MeetingDetail
	err := db.conn.QueryRow(`
		SELECT id, title, created_at, updated_at FROM meetings WHERE id = ?
	`, id).Scan(&m.ID, &m.Title, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get meeting: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, transcript, timestamp,
		       COALESCE(summary, ''), COALESCE(action_items, ''), COALESCE(key_points, '')
		FROM transcripts
		WHERE meeting_id = ?
		ORDER BY timestamp
	`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get transcripts: %w", err)
	}
	defer rows.Close()

	m.Transcripts = []TranscriptSegment{}
	for rows.Next() {
		seg := TranscriptSegment{MeetingID: id}
		if err := rows.Scan(&seg.ID, &seg.Text, &seg.Timestamp, &seg.Summary, &seg.ActionItems, &seg.KeyPoints); err != nil {
			return nil, err
		}
		m.Transcripts = append(m.Transcripts, seg)
	}
	return &m, rows.Err()
}

// ListMeetings returns every meeting, newest first.
func (db *DB) ListMeetings() ([]MeetingSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, created_at FROM meetings ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list meetings: %w", err)
	}
	defer rows.Close()

	out := []MeetingSummary{}
	for rows.Next() {
		var m MeetingSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AppendSegment appends one finalized segment to a meeting's transcript log
// and indexes it for search. A missing segment ID is generated.
func (db *DB) AppendSegment(seg TranscriptSegment) (TranscriptSegment, error) {
	if seg.ID == "" {
		seg.ID = uuid.NewString()
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return seg, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`
		INSERT INTO transcripts (id, meeting_id, transcript, timestamp, summary, action_items, key_points)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, seg.ID, seg.MeetingID, seg.Text, seg.Timestamp, seg.Summary, seg.ActionItems, seg.KeyPoints); err != nil {
		return seg, fmt.Errorf("store: insert segment: %w", err)
	}
	if err := ftsInsert(tx, seg.ID, seg.MeetingID, seg.Text); err != nil {
		return seg, err
	}
	return seg, tx.Commit()
}

// UpdateMeetingName updates the meeting title together with its denormalized
// copy in the working transcript buffer. Both updates share one transaction,
// so either both land or neither does.
func (db *DB) UpdateMeetingName(id, name string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	res, err := tx.Exec(`UPDATE meetings SET title = ?, updated_at = ? WHERE id = ?`, name, now, id)
	if err != nil {
		return fmt.Errorf("store: update meeting title: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if _, err := tx.Exec(`UPDATE transcript_chunks SET meeting_name = ? WHERE meeting_id = ?`, name, id); err != nil {
		return fmt.Errorf("store: update chunk meeting name: %w", err)
	}
	return tx.Commit()
}

// DeleteMeeting removes a meeting and everything derived from it. Deletion is
// best-effort: failures are logged and reported as false rather than raised,
// so bulk-cleanup callers can keep going.
func (db *DB) DeleteMeeting(id string) bool {
	tx, err := db.conn.Begin()
	if err != nil {
		slog.Error("delete meeting failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
		return false
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDeleteMeeting(tx, id)
	_, _ = tx.Exec(`DELETE FROM transcript_chunks WHERE meeting_id = ?`, id)
	_, _ = tx.Exec(`DELETE FROM summary_processes WHERE meeting_id = ?`, id)
	_, _ = tx.Exec(`DELETE FROM transcripts WHERE meeting_id = ?`, id)
	_, _ = tx.Exec(`DELETE FROM meetings WHERE id = ?`, id)

	if err := tx.Commit(); err != nil {
		slog.Error("delete meeting failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
		return false
	}
	return true
}
