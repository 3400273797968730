package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/listkeeper/backend/internal/service"
	"github.com/listkeeper/backend/internal/state"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store     *state.Store
	documents *service.Documents
	logger    *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(store *state.Store, documents *service.Documents, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		documents: documents,
		logger:    logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the request body into v and, when v knows
// how to validate itself, runs that validation. It writes the 400
// response on failure and reports whether the caller may proceed.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if val, ok := v.(validator); ok {
		if err := val.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return false
		}
	}
	return true
}
