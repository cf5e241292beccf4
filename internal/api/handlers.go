package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/meetingservice"
	"github.com/starford/dagaz/internal/store"
)

const maxBodyBytes = 10 << 20 // 10 MB

// Handler holds API route handlers.
type Handler struct {
	svc *meetingservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *meetingservice.Service) *Handler {
	return &Handler{svc: svc}
}

func meetingID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// ListMeetings handles GET /api/meetings.
//
//	@Summary		List all meetings, newest first
//	@Tags			meetings
//	@Produce		json
//	@Success		200	{object}	MeetingListResponse
//	@Security		BearerAuth
//	@Router			/meetings [get]
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListMeetings(r.Context())
	if err != nil {
		slog.Error("list meetings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, MeetingListResponse{Meetings: items, Total: len(items)})
}

// CreateMeeting handles POST /api/meetings.
//
//	@Summary		Register a new meeting
//	@Tags			meetings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMeetingRequest	true	"Meeting to register"
//	@Success		201		{object}	store.Meeting
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings [post]
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.CreateMeeting(r.Context(), req.ID, req.Title); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("meeting already exists"))
		} else {
			slog.Error("create meeting failed", slog.String("meeting_id", req.ID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	m, err := h.svc.GetMeeting(r.Context(), req.ID)
	if err != nil {
		slog.Error("read back meeting failed", slog.String("meeting_id", req.ID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// GetMeeting handles GET /api/meetings/{id}.
//
//	@Summary		Get a meeting with its transcript segment log
//	@Tags			meetings
//	@Produce		json
//	@Param			id	path		string	true	"Meeting id"
//	@Success		200	{object}	store.MeetingDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id} [get]
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id := meetingID(r)
	m, err := h.svc.GetMeeting(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get meeting failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// RenameMeeting handles PATCH /api/meetings/{id}.
//
//	@Summary		Rename a meeting (updates the working-buffer copy too)
//	@Tags			meetings
//	@Accept			json
//	@Param			id		path	string					true	"Meeting id"
//	@Param			body	body	RenameMeetingRequest	true	"New title"
//	@Success		204		"Renamed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id} [patch]
func (h *Handler) RenameMeeting(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := meetingID(r)
	var req RenameMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}
	if err := h.svc.RenameMeeting(r.Context(), id, req.Title); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("rename meeting failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMeeting handles DELETE /api/meetings/{id}.
//
//	@Summary		Delete a meeting and everything derived from it (best-effort)
//	@Tags			meetings
//	@Produce		json
//	@Param			id	path		string	true	"Meeting id"
//	@Success		200	{object}	DeleteMeetingResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id} [delete]
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := meetingID(r)
	ok := h.svc.DeleteMeeting(r.Context(), id)
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, DeleteMeetingResponse{Deleted: ok})
}

// AppendSegment handles POST /api/meetings/{id}/segments.
//
//	@Summary		Append a finalized transcript segment
//	@Tags			transcripts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Meeting id"
//	@Param			body	body		AppendSegmentRequest	true	"Segment"
//	@Success		201		{object}	store.TranscriptSegment
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id}/segments [post]
func (h *Handler) AppendSegment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := meetingID(r)
	var req AppendSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	seg, err := h.svc.AppendSegment(r.Context(), store.TranscriptSegment{
		MeetingID:   id,
		Text:        req.Text,
		Timestamp:   req.Timestamp,
		Summary:     req.Summary,
		ActionItems: req.ActionItems,
		KeyPoints:   req.KeyPoints,
	})
	if err != nil {
		slog.Error("append segment failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, seg)
}

// SaveChunk handles POST /api/meetings/{id}/transcript.
//
//	@Summary		Append text to the working transcript buffer
//	@Tags			transcripts
//	@Accept			json
//	@Param			id		path	string				true	"Meeting id"
//	@Param			body	body	SaveChunkRequest	true	"Chunk"
//	@Success		204		"Saved"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id}/transcript [post]
func (h *Handler) SaveChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := meetingID(r)
	var req SaveChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.SaveChunk(r.Context(), id, req.Text, req.Model, req.ModelName, req.ChunkSize, req.Overlap); err != nil {
		slog.Error("save chunk failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTranscriptData handles GET /api/meetings/{id}/transcript.
//
//	@Summary		Get the working transcript buffer with its process status
//	@Tags			transcripts
//	@Produce		json
//	@Param			id	path		string	true	"Meeting id"
//	@Success		200	{object}	store.TranscriptData
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id}/transcript [get]
func (h *Handler) GetTranscriptData(w http.ResponseWriter, r *http.Request) {
	id := meetingID(r)
	td, err := h.svc.GetTranscriptData(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get transcript data failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, td)
}

// CreateProcess handles POST /api/meetings/{id}/process.
//
//	@Summary		Register or restart the meeting's summarization process
//	@Tags			process
//	@Produce		json
//	@Param			id	path		string	true	"Meeting id"
//	@Success		201	{object}	CreateProcessResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id}/process [post]
func (h *Handler) CreateProcess(w http.ResponseWriter, r *http.Request) {
	id := meetingID(r)
	processID, err := h.svc.CreateProcess(r.Context(), id)
	if err != nil {
		slog.Error("create process failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, CreateProcessResponse{ProcessID: processID})
}

// UpdateProcess handles PATCH /api/meetings/{id}/process.
//
//	@Summary		Apply a partial update to the summarization process
//	@Tags			process
//	@Accept			json
//	@Param			id		path	string					true	"Meeting id"
//	@Param			body	body	UpdateProcessRequest	true	"Fields to update"
//	@Success		204		"Updated"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id}/process [patch]
func (h *Handler) UpdateProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := meetingID(r)
	var req UpdateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	result, err := meetingservice.DecodeDocument(req.Result)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("result: "+err.Error()))
		return
	}
	metadata, err := meetingservice.DecodeDocument(req.Metadata)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("metadata: "+err.Error()))
		return
	}
	upd := store.ProcessUpdate{
		Status:         req.Status,
		Result:         result,
		Error:          req.Error,
		ChunkCount:     req.ChunkCount,
		ProcessingTime: req.ProcessingTime,
		Metadata:       metadata,
	}
	if err := h.svc.UpdateProcess(r.Context(), id, upd); err != nil {
		slog.Error("update process failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProcess handles GET /api/meetings/{id}/process.
//
//	@Summary		Get the summarization process state
//	@Tags			process
//	@Produce		json
//	@Param			id	path		string	true	"Meeting id"
//	@Success		200	{object}	store.SummaryProcess
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id}/process [get]
func (h *Handler) GetProcess(w http.ResponseWriter, r *http.Request) {
	id := meetingID(r)
	p, err := h.svc.GetProcess(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get process failed", slog.String("meeting_id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SearchTranscripts handles GET /api/search.
//
//	@Summary		Full-text search across transcript segments
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) SearchTranscripts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchTranscripts(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
