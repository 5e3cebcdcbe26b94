// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondJSON writes a JSON body with the given status
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps domain errors to HTTP statuses. Stock shortage is a
// conflict with current state, not a bad request; an exhausted retry
// budget asks the client to try again shortly.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var status int
	var label string

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, label = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		status, label = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, label = http.StatusConflict, "insufficient_stock"
	case errors.Is(err, domain.ErrStoreConflict):
		status, label = http.StatusServiceUnavailable, "store_conflict"
	default:
		status, label = http.StatusInternalServerError, "internal_error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
		respondJSON(w, status, errorResponse{Error: label})
		return
	}
	respondJSON(w, status, errorResponse{Error: label, Details: err.Error()})
}
