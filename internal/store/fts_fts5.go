//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS transcripts_fts USING fts5(
			segment_id UNINDEXED,
			meeting_id UNINDEXED,
			transcript,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, segmentID, meetingID, transcript string) error {
	_, err := tx.Exec(`INSERT INTO transcripts_fts (segment_id, meeting_id, transcript) VALUES (?, ?, ?)`,
		segmentID, meetingID, transcript)
	if err != nil {
		return fmt.Errorf("store: insert fts: %w", err)
	}
	return nil
}

func ftsDeleteMeeting(tx *sql.Tx, meetingID string) {
	_, _ = tx.Exec(`DELETE FROM transcripts_fts WHERE meeting_id = ?`, meetingID)
}

// SearchTranscripts performs an FTS5 full-text search over the segment log
// and returns matching meetings with snippets.
func (db *DB) SearchTranscripts(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.meeting_id,
		       m.title,
		       snippet(transcripts_fts, 2, '<b>', '</b>', '...', 64)
		FROM transcripts_fts f
		JOIN meetings m ON m.id = f.meeting_id
		WHERE transcripts_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
