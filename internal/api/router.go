package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/meetingservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *meetingservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	rh := NewRecordingHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Meetings CRUD.
	r.Get("/meetings", h.ListMeetings)
	r.Post("/meetings", h.CreateMeeting)
	r.Get("/meetings/{id}", h.GetMeeting)
	r.Patch("/meetings/{id}", h.RenameMeeting)
	r.Delete("/meetings/{id}", h.DeleteMeeting)

	// Transcripts: finalized segment log and working buffer.
	r.Post("/meetings/{id}/segments", h.AppendSegment)
	r.Post("/meetings/{id}/transcript", h.SaveChunk)
	r.Get("/meetings/{id}/transcript", h.GetTranscriptData)

	// Summarization process lifecycle.
	r.Post("/meetings/{id}/process", h.CreateProcess)
	r.Patch("/meetings/{id}/process", h.UpdateProcess)
	r.Get("/meetings/{id}/process", h.GetProcess)

	// Search.
	r.Get("/search", h.SearchTranscripts)

	// Settings and API keys.
	r.Get("/settings/model", h.GetModelConfig)
	r.Put("/settings/model", h.SaveModelConfig)
	r.Get("/settings/api-keys/{provider}", h.GetAPIKey)
	r.Put("/settings/api-keys/{provider}", h.SaveAPIKey)
	r.Delete("/settings/api-keys/{provider}", h.DeleteAPIKey)

	// Recording upload (auth-protected).
	r.Post("/recordings", rh.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
