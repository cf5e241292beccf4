// Package meetingservice coordinates store, recordings, and event
// publishing for meetings and their summarization lifecycle.
package meetingservice

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/recordings"
	"github.com/starford/dagaz/internal/store"
)

// EventPublisher receives lifecycle notifications after successful writes.
// The SSE broker implements it; a nil publisher disables events.
type EventPublisher interface {
	PublishMeetingEvent(kind, meetingID string)
}

// Service coordinates store and recordings operations.
type Service struct {
	db     *store.DB
	recs   *recordings.FS
	events EventPublisher
}

// NewService creates a new meeting service. recs and events may be nil when
// recordings intake or event streaming is not wired (e.g. in tests).
func NewService(db *store.DB, recs *recordings.FS, events EventPublisher) *Service {
	return &Service{db: db, recs: recs, events: events}
}

func (s *Service) publish(kind, meetingID string) {
	if s.events != nil {
		s.events.PublishMeetingEvent(kind, meetingID)
	}
}

// CreateMeeting registers a new meeting. Duplicate ids or titles are rejected
// with apperr.ErrAlreadyExists.
func (s *Service) CreateMeeting(_ context.Context, id, title string) error {
	if err := s.db.SaveMeeting(id, title); err != nil {
		return err
	}
	s.publish("meeting.created", id)
	return nil
}

// GetMeeting returns a meeting with its transcript segment log.
func (s *Service) GetMeeting(_ context.Context, id string) (*store.MeetingDetail, error) {
	return s.db.GetMeeting(id)
}

// ListMeetings returns all meetings, newest first.
func (s *Service) ListMeetings(_ context.Context) ([]store.MeetingSummary, error) {
	return s.db.ListMeetings()
}

// RenameMeeting updates the title and its denormalized copy in the working
// transcript buffer.
func (s *Service) RenameMeeting(_ context.Context, id, title string) error {
	if err := s.db.UpdateMeetingName(id, title); err != nil {
		return err
	}
	s.publish("meeting.updated", id)
	return nil
}

// DeleteMeeting removes a meeting and all derived data. Best-effort: the
// result reports success, it never raises.
func (s *Service) DeleteMeeting(_ context.Context, id string) bool {
	ok := s.db.DeleteMeeting(id)
	if ok {
		s.publish("meeting.deleted", id)
	}
	return ok
}

// AppendSegment appends one finalized transcript segment to the log.
func (s *Service) AppendSegment(_ context.Context, seg store.TranscriptSegment) (store.TranscriptSegment, error) {
	saved, err := s.db.AppendSegment(seg)
	if err != nil {
		return saved, err
	}
	s.publish("transcript.appended", seg.MeetingID)
	return saved, nil
}

// SaveChunk appends text to the meeting's working transcript buffer.
func (s *Service) SaveChunk(_ context.Context, meetingID, text, model, modelName string, chunkSize, overlap int) error {
	return s.db.SaveChunk(meetingID, text, model, modelName, chunkSize, overlap)
}

// GetTranscriptData returns the working buffer joined with process status.
func (s *Service) GetTranscriptData(_ context.Context, meetingID string) (*store.TranscriptData, error) {
	return s.db.GetTranscriptData(meetingID)
}

// CreateProcess registers (or restarts) the meeting's summarization process
// and returns the process handle.
func (s *Service) CreateProcess(_ context.Context, meetingID string) (string, error) {
	id, err := s.db.CreateProcess(meetingID)
	if err != nil {
		return "", err
	}
	s.publish("process.pending", meetingID)
	return id, nil
}

// UpdateProcess applies a partial update to the process row and publishes a
// terminal event when the status transitions to COMPLETED or FAILED.
func (s *Service) UpdateProcess(_ context.Context, meetingID string, upd store.ProcessUpdate) error {
	if err := s.db.UpdateProcess(meetingID, upd); err != nil {
		return err
	}
	switch upd.Status {
	case store.StatusCompleted:
		s.publish("process.completed", meetingID)
	case store.StatusFailed:
		s.publish("process.failed", meetingID)
	}
	return nil
}

// GetProcess returns the process row for a meeting.
func (s *Service) GetProcess(_ context.Context, meetingID string) (*store.SummaryProcess, error) {
	return s.db.GetProcess(meetingID)
}

// SearchTranscripts delegates full-text search to the store.
func (s *Service) SearchTranscripts(_ context.Context, query string, limit int) ([]store.SearchResult, error) {
	return s.db.SearchTranscripts(query, limit)
}

// GetModelConfig returns the stored provider/model selection.
func (s *Service) GetModelConfig(_ context.Context) (store.ModelConfig, error) {
	return s.db.GetModelConfig()
}

// SaveModelConfig upserts the provider/model selection.
func (s *Service) SaveModelConfig(_ context.Context, mc store.ModelConfig) error {
	return s.db.SaveModelConfig(mc)
}

// SaveAPIKey validates the provider name and stores the key.
func (s *Service) SaveAPIKey(_ context.Context, provider, apiKey string) error {
	p, err := store.ParseProvider(provider)
	if err != nil {
		return err
	}
	return s.db.SaveAPIKey(p, apiKey)
}

// GetAPIKey validates the provider name and returns the stored key, or empty
// string when none is set.
func (s *Service) GetAPIKey(_ context.Context, provider string) (string, error) {
	p, err := store.ParseProvider(provider)
	if err != nil {
		return "", err
	}
	return s.db.GetAPIKey(p)
}

// DeleteAPIKey validates the provider name and clears the stored key.
func (s *Service) DeleteAPIKey(_ context.Context, provider string) error {
	p, err := store.ParseProvider(provider)
	if err != nil {
		return err
	}
	return s.db.DeleteAPIKey(p)
}

// RecordingUpload is the result of storing an uploaded recording.
type RecordingUpload struct {
	MeetingID string `json:"meeting_id"`
	Filename  string `json:"filename"`
	Size      int    `json:"size"`
	Checksum  string `json:"checksum"`
}

// StoreRecording writes an uploaded audio file under the recordings root and
// registers a meeting for it (id and title from the file stem). Re-uploading
// a file for an already registered meeting is not an error.
func (s *Service) StoreRecording(_ context.Context, filename string, data []byte) (*RecordingUpload, error) {
	if s.recs == nil {
		return nil, errors.New("recordings storage not configured")
	}
	if err := s.recs.Write(filename, data); err != nil {
		return nil, err
	}

	id := MeetingIDForFile(filename)
	if err := s.db.SaveMeeting(id, id); err != nil && !errors.Is(err, apperr.ErrAlreadyExists) {
		return nil, err
	} else if err == nil {
		s.publish("meeting.created", id)
	}

	return &RecordingUpload{
		MeetingID: id,
		Filename:  filename,
		Size:      len(data),
		Checksum:  checksum.Sum(data),
	}, nil
}

// RegisterRecording registers a meeting for an audio file already on disk.
// Used by the recordings watcher and startup sync; duplicates are ignored.
func (s *Service) RegisterRecording(path string) error {
	id := MeetingIDForFile(path)
	err := s.db.SaveMeeting(id, id)
	if errors.Is(err, apperr.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}
	s.publish("meeting.created", id)
	return nil
}

// MeetingIDForFile derives the meeting id from a recording filename: the
// base name without its extension.
func MeetingIDForFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DecodeDocument validates that raw is well-formed JSON and returns it as an
// opaque document. The payload shape belongs to the summarization worker,
// not to this layer. A JSON null counts as an absent document.
func DecodeDocument(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("malformed JSON document")
	}
	return raw, nil
}
