package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flickit-platform/assessment-api/internal/storage"
	"github.com/flickit-platform/assessment-api/internal/validation"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, &apiError{Code: code, Message: message})
}

func writeError(w http.ResponseWriter, status int, apiErr *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error:   apiErr,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondFailure maps an error from the store, a validator or a view to a response
func respondFailure(w http.ResponseWriter, err error, what string) {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, &apiError{Code: "validation_error", Message: ve.Message, Field: ve.Field})
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", what+" not found")
	default:
		slog.Error("request failed", "error", err, "resource", what)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load "+what)
	}
}

// pathID parses the {id} URL parameter
func pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid "+what+" id")
		return 0, false
	}
	return id, true
}

// pagination parses limit and offset query parameters
func pagination(w http.ResponseWriter, r *http.Request) (validation.Pagination, bool) {
	q := r.URL.Query()
	page, err := validation.ParsePagination(q.Get("limit"), q.Get("offset"))
	if err != nil {
		respondFailure(w, err, "page")
		return page, false
	}
	return page, true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	checks, healthy := s.health.CheckAll(r.Context())
	if !healthy {
		for _, c := range checks {
			if !c.Healthy {
				slog.Warn("dependency not ready", "name", c.Name, "error", c.Error)
			}
		}
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
