package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/starford/dagaz/internal/meetingservice"
	"github.com/starford/dagaz/internal/recordings"
)

const maxUploadBytes = 200 << 20 // 200 MB

// RecordingHandler accepts audio recording uploads.
type RecordingHandler struct {
	svc *meetingservice.Service
}

// NewRecordingHandler creates a handler backed by the meeting service.
func NewRecordingHandler(svc *meetingservice.Service) *RecordingHandler {
	return &RecordingHandler{svc: svc}
}

// safeName validates that the filename is a plain audio file name
// (no path separators, no traversal).
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if !recordings.IsAudioFile(cleaned) {
		return "", fmt.Errorf("unsupported audio format: %s", name)
	}
	return cleaned, nil
}

// Upload handles POST /api/recordings (multipart/form-data, field "file").
// Storing a recording registers a meeting named after the file stem.
//
//	@Summary		Upload a meeting recording
//	@Tags			recordings
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Audio file"
//	@Success		201		{object}	meetingservice.RecordingUpload
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recordings [post]
func (h *RecordingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	name, err := safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to read upload"))
		return
	}

	upload, err := h.svc.StoreRecording(r.Context(), name, data)
	if err != nil {
		slog.Error("store recording failed", slog.String("filename", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to store recording"))
		return
	}
	writeJSON(w, http.StatusCreated, upload)
}
