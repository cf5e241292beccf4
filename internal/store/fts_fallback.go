//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search falls back to LIKE over the transcripts table.
	return nil
}

func ftsInsert(_ *sql.Tx, _, _, _ string) error {
	// Segments are already stored in the transcripts table; nothing extra to do.
	return nil
}

func ftsDeleteMeeting(_ *sql.Tx, _ string) {}

// SearchTranscripts performs a LIKE-based search (fallback when FTS5 is not
// compiled in).
func (db *DB) SearchTranscripts(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT t.meeting_id, m.title, substr(t.transcript, 1, 200)
		FROM transcripts t
		JOIN meetings m ON m.id = t.meeting_id
		WHERE t.transcript LIKE ? OR m.title LIKE ?
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.MeetingID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
