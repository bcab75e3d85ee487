// Package api provides shared HTTP handler utilities and the small
// informational endpoints (health, sidebar resources).
package api

import (
	"encoding/json"
	"net/http"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/config"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/domain"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/store"
	"github.com/go-chi/chi/v5"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Handler serves the informational endpoints.
type Handler struct {
	repo store.Repository
	cfg  *config.Config
}

// NewHandler creates a Handler.
func NewHandler(repo store.Repository, cfg *config.Config) *Handler {
	return &Handler{repo: repo, cfg: cfg}
}

// HandleHealth reports service and database health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  h.cfg.Groq.ModelID,
	})
}

// HandleResources returns the fixed sidebar reference links.
func (h *Handler) HandleResources(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string][]domain.Resource{
		"resources": domain.LegalResources(),
	})
}

// RegisterRoutes registers the informational routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.HandleHealth)
	r.Get("/api/resources", h.HandleResources)
}
