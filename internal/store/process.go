package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/apperr"
)

// CreateProcess registers a PENDING summarization process for the meeting and
// returns the meeting id as the process handle. Restarting an existing process
// resets it to PENDING, clears error and result, and refreshes start_time
// while keeping created_at. The upsert is a single atomic statement, so
// concurrent restarts cannot interleave.
func (db *DB) CreateProcess(meetingID string) (string, error) {
	now := time.Now().UTC()
	_, err := db.conn.Exec(`
		INSERT INTO summary_processes (meeting_id, status, created_at, updated_at, start_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(meeting_id) DO UPDATE SET
			status     = excluded.status,
			updated_at = excluded.updated_at,
			start_time = excluded.start_time,
			error      = NULL,
			result     = NULL
	`, meetingID, StatusPending, now, now, now)
	if err != nil {
		return "", fmt.Errorf("store: create process: %w", err)
	}
	return meetingID, nil
}

// UpdateProcess applies a partial update to the meeting's process row.
// Only supplied fields are written; updated_at always is. A transition to a
// terminal status stamps end_time with this update's timestamp. Transitions
// are not validated; callers own the sequencing. An update for a meeting with
// no process row matches nothing and is logged rather than raised.
func (db *DB) UpdateProcess(meetingID string, upd ProcessUpdate) error {
	now := time.Now().UTC()

	setClauses := []string{"status = ?", "updated_at = ?"}
	params := []any{upd.Status, now}

	if upd.Result != nil {
		setClauses = append(setClauses, "result = ?")
		params = append(params, string(upd.Result))
	}
	if upd.Error != nil {
		setClauses = append(setClauses, "error = ?")
		params = append(params, *upd.Error)
	}
	if upd.ChunkCount != nil {
		setClauses = append(setClauses, "chunk_count = ?")
		params = append(params, *upd.ChunkCount)
	}
	if upd.ProcessingTime != nil {
		setClauses = append(setClauses, "processing_time = ?")
		params = append(params, *upd.ProcessingTime)
	}
	if upd.Metadata != nil {
		setClauses = append(setClauses, "metadata = ?")
		params = append(params, string(upd.Metadata))
	}
	if Terminal(upd.Status) {
		setClauses = append(setClauses, "end_time = ?")
		params = append(params, now)
	}
	params = append(params, meetingID)

	query := fmt.Sprintf(`UPDATE summary_processes SET %s WHERE meeting_id = ?`, strings.Join(setClauses, ", "))
	res, err := db.conn.Exec(query, params...)
	if err != nil {
		return fmt.Errorf("store: update process: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Deliberately permissive: the original behavior is a silent no-op.
		slog.Warn("process update matched no row",
			slog.String("meeting_id", meetingID),
			slog.String("status", upd.Status))
	}
	return nil
}

// GetProcess returns the process row for a meeting, or apperr.ErrNotFound.
func (db *DB) GetProcess(meetingID string) (*SummaryProcess, error) {
	var (
		p                    SummaryProcess
		errMsg, result, meta sql.NullString
		startTime, endTime   sql.NullTime
	)
	err := db.conn.QueryRow(`
		SELECT meeting_id, status, created_at, updated_at, error, result,
		       start_time, end_time, chunk_count, processing_time, metadata
		FROM summary_processes
		WHERE meeting_id = ?
	`, meetingID).Scan(&p.MeetingID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &errMsg, &result,
		&startTime, &endTime, &p.ChunkCount, &p.ProcessingTime, &meta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get process: %w", err)
	}

	p.Error = errMsg.String
	if result.Valid {
		p.Result = []byte(result.String)
	}
	if meta.Valid {
		p.Metadata = []byte(meta.String)
	}
	if startTime.Valid {
		t := startTime.Time
		p.StartTime = &t
	}
	if endTime.Valid {
		t := endTime.Time
		p.EndTime = &t
	}
	return &p, nil
}
