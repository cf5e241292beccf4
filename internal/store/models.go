package store

import (
	"encoding/json"
	"time"
)

// Summarization process statuses. Callers may store other status strings;
// only the two terminal values receive special handling (end_time stamping).
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Meeting is a row in the meetings table.
type Meeting struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TranscriptSegment is one finalized entry in the append-only transcript log.
// Segments are never updated or merged after insertion.
type TranscriptSegment struct {
	ID          string `json:"id"`
	MeetingID   string `json:"meeting_id"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
	Summary     string `json:"summary,omitempty"`
	ActionItems string `json:"action_items,omitempty"`
	KeyPoints   string `json:"key_points,omitempty"`
}

// MeetingDetail is a meeting together with its full segment log.
type MeetingDetail struct {
	Meeting
	Transcripts []TranscriptSegment `json:"transcripts"`
}

// MeetingSummary is a lightweight item for meeting listings.
type MeetingSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptChunk is the single working transcript buffer kept per meeting.
// TranscriptText grows by concatenation on every save; the model fields
// always reflect the most recent save.
type TranscriptChunk struct {
	MeetingID      string    `json:"meeting_id"`
	MeetingName    string    `json:"meeting_name"`
	TranscriptText string    `json:"transcript_text"`
	Model          string    `json:"model"`
	ModelName      string    `json:"model_name"`
	ChunkSize      int       `json:"chunk_size"`
	Overlap        int       `json:"overlap"`
	CreatedAt      time.Time `json:"created_at"`
}

// TranscriptData joins the working buffer with its process status and result.
type TranscriptData struct {
	TranscriptChunk
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// SummaryProcess tracks the lifecycle of one meeting's summarization job.
// Result and Metadata are opaque JSON documents owned by the summarization
// worker; this layer stores and returns them verbatim.
type SummaryProcess struct {
	MeetingID      string          `json:"meeting_id"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Error          string          `json:"error,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	StartTime      *time.Time      `json:"start_time,omitempty"`
	EndTime        *time.Time      `json:"end_time,omitempty"`
	ChunkCount     int             `json:"chunk_count"`
	ProcessingTime float64         `json:"processing_time"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// Terminal reports whether status is one from which no further automatic
// transition occurs.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// ProcessUpdate is a partial update to a SummaryProcess. Only non-nil
// fields are written; Status is always written.
type ProcessUpdate struct {
	Status         string
	Result         json.RawMessage
	Error          *string
	ChunkCount     *int
	ProcessingTime *float64
	Metadata       json.RawMessage
}

// ModelConfig is the provider/model selection slice of the settings row.
type ModelConfig struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	WhisperModel string `json:"whisperModel"`
}

// SearchResult is one transcript search hit.
type SearchResult struct {
	MeetingID string `json:"meeting_id"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
}
