package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/store"
)

// GetModelConfig handles GET /api/settings/model.
//
//	@Summary		Get the active provider/model selection
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	store.ModelConfig
//	@Security		BearerAuth
//	@Router			/settings/model [get]
func (h *Handler) GetModelConfig(w http.ResponseWriter, r *http.Request) {
	mc, err := h.svc.GetModelConfig(r.Context())
	if err != nil {
		slog.Error("get model config failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, mc)
}

// SaveModelConfig handles PUT /api/settings/model.
//
//	@Summary		Save the provider/model selection (API keys untouched)
//	@Tags			settings
//	@Accept			json
//	@Param			body	body	ModelConfigRequest	true	"Model configuration"
//	@Success		204		"Saved"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings/model [put]
func (h *Handler) SaveModelConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ModelConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	mc := store.ModelConfig{Provider: req.Provider, Model: req.Model, WhisperModel: req.WhisperModel}
	if err := h.svc.SaveModelConfig(r.Context(), mc); err != nil {
		slog.Error("save model config failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAPIKey handles GET /api/settings/api-keys/{provider}.
//
//	@Summary		Get a provider API key (null when unset)
//	@Tags			settings
//	@Produce		json
//	@Param			provider	path		string	true	"Provider name"	Enums(openai, claude, groq, ollama)
//	@Success		200			{object}	APIKeyResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings/api-keys/{provider} [get]
func (h *Handler) GetAPIKey(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	key, err := h.svc.GetAPIKey(r.Context(), provider)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidProvider) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("get api key failed", slog.String("provider", provider), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	resp := APIKeyResponse{Provider: provider}
	if key != "" {
		resp.APIKey = &key
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveAPIKey handles PUT /api/settings/api-keys/{provider}.
//
//	@Summary		Store a provider API key
//	@Tags			settings
//	@Accept			json
//	@Param			provider	path	string				true	"Provider name"	Enums(openai, claude, groq, ollama)
//	@Param			body		body	SaveAPIKeyRequest	true	"API key"
//	@Success		204			"Saved"
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings/api-keys/{provider} [put]
func (h *Handler) SaveAPIKey(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	provider := chi.URLParam(r, "provider")
	var req SaveAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.APIKey == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("api_key is required"))
		return
	}
	if err := h.svc.SaveAPIKey(r.Context(), provider, req.APIKey); err != nil {
		if errors.Is(err, apperr.ErrInvalidProvider) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("save api key failed", slog.String("provider", provider), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAPIKey handles DELETE /api/settings/api-keys/{provider}.
//
//	@Summary		Clear a provider API key (the settings row remains)
//	@Tags			settings
//	@Param			provider	path	string	true	"Provider name"	Enums(openai, claude, groq, ollama)
//	@Success		204			"Cleared"
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings/api-keys/{provider} [delete]
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if err := h.svc.DeleteAPIKey(r.Context(), provider); err != nil {
		if errors.Is(err, apperr.ErrInvalidProvider) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("delete api key failed", slog.String("provider", provider), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
