package search

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shopvoice/backend/internal/artifact"
	"github.com/shopvoice/backend/internal/model/catalog"
	"github.com/shopvoice/backend/internal/service/query"
	"github.com/shopvoice/backend/pkg/utils"
)

// AudioProvider abstracts artifact retrieval so the handler can be tested
// without a live synthesis service.
type AudioProvider interface {
	Artifact(artifactID string) ([]byte, error)
}

// Handler serves the conversational search API.
type Handler struct {
	orchestrator *query.Orchestrator
	catalog      catalog.Store
	audio        AudioProvider
}

// New creates the search handler. audio may be nil when speech is disabled.
func New(orchestrator *query.Orchestrator, store catalog.Store, audio AudioProvider) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		catalog:      store,
		audio:        audio,
	}
}

// RegisterRoutes registers the search, catalog and audio routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/search", h.handleSearch)
	r.Get("/products", h.handleListProducts)
	r.Get("/audio/{artifactID}", h.handleGetAudio)
}

// handleSearch runs one conversational turn.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query     string `json:"query"`
		SessionID string `json:"sessionId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Query) == "" {
		utils.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := h.orchestrator.HandleTurn(r.Context(), payload.SessionID, payload.Query)
	utils.RespondJSON(w, http.StatusOK, result)
}

// handleListProducts returns the full unfiltered catalog.
func (h *Handler) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"products": h.catalog.List()})
}

// handleGetAudio serves a previously synthesized summary. Superseded
// artifacts report not-found.
func (h *Handler) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	artifactID := chi.URLParam(r, "artifactID")
	if artifactID == "" {
		utils.RespondError(w, http.StatusBadRequest, "artifactID is required")
		return
	}

	if h.audio == nil {
		utils.RespondError(w, http.StatusNotFound, "audio not found")
		return
	}

	data, err := h.audio.Artifact(artifactID)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "audio not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load audio")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// Client went away mid-transfer; nothing to recover.
		return
	}
}
