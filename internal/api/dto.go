package api

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/dagaz/internal/store"
)

// CreateMeetingRequest is the request body for registering a meeting.
type CreateMeetingRequest struct {
	ID    string `json:"id" example:"m-2025-03-14-standup" validate:"required"`
	Title string `json:"title" example:"Weekly standup" validate:"required"`
}

// Validate validates the create-meeting request.
func (r CreateMeetingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Title, validation.Required),
	)
}

// RenameMeetingRequest is the request body for renaming a meeting.
type RenameMeetingRequest struct {
	Title string `json:"title" validate:"required"`
}

// AppendSegmentRequest is the request body for appending a finalized
// transcript segment to a meeting's log.
type AppendSegmentRequest struct {
	Text        string `json:"text" validate:"required"`
	Timestamp   string `json:"timestamp" validate:"required"`
	Summary     string `json:"summary,omitempty"`
	ActionItems string `json:"action_items,omitempty"`
	KeyPoints   string `json:"key_points,omitempty"`
}

// Validate validates the append-segment request.
func (r AppendSegmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Timestamp, validation.Required),
	)
}

// SaveChunkRequest is the request body for appending text to the working
// transcript buffer.
type SaveChunkRequest struct {
	Text      string `json:"text" validate:"required"`
	Model     string `json:"model" validate:"required"`
	ModelName string `json:"model_name" validate:"required"`
	ChunkSize int    `json:"chunk_size"`
	Overlap   int    `json:"overlap"`
}

// Validate validates the save-chunk request. Text may be empty: an empty
// chunk still refreshes the model metadata on the buffer.
func (r SaveChunkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Model, validation.Required),
		validation.Field(&r.ModelName, validation.Required),
		validation.Field(&r.ChunkSize, validation.Min(0)),
		validation.Field(&r.Overlap, validation.Min(0)),
	)
}

// UpdateProcessRequest is the partial-update body for a summarization
// process. Absent fields are left untouched.
type UpdateProcessRequest struct {
	Status         string          `json:"status" validate:"required"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *string         `json:"error,omitempty"`
	ChunkCount     *int            `json:"chunk_count,omitempty"`
	ProcessingTime *float64        `json:"processing_time,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// Validate validates the update-process request.
func (r UpdateProcessRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

// ModelConfigRequest is the request body for saving the model configuration.
type ModelConfigRequest struct {
	Provider     string `json:"provider" validate:"required"`
	Model        string `json:"model" validate:"required"`
	WhisperModel string `json:"whisperModel" validate:"required"`
}

// Validate validates the model-config request.
func (r ModelConfigRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Provider, validation.Required),
		validation.Field(&r.Model, validation.Required),
		validation.Field(&r.WhisperModel, validation.Required),
	)
}

// SaveAPIKeyRequest is the request body for storing a provider API key.
type SaveAPIKeyRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// APIKeyResponse returns a stored API key; the key is null when unset.
type APIKeyResponse struct {
	Provider string  `json:"provider"`
	APIKey   *string `json:"api_key"`
}

// MeetingListResponse wraps meeting listings.
type MeetingListResponse struct {
	Meetings []store.MeetingSummary `json:"meetings"`
	Total    int                    `json:"total"`
}

// SearchResponse wraps transcript search results.
type SearchResponse struct {
	Results []store.SearchResult `json:"results"`
}

// CreateProcessResponse returns the process handle (the meeting id).
type CreateProcessResponse struct {
	ProcessID string `json:"process_id"`
}

// DeleteMeetingResponse reports the outcome of a best-effort delete.
type DeleteMeetingResponse struct {
	Deleted bool `json:"deleted"`
}
