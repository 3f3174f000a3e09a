// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/sync/coordinator"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// WriteCoordinatorError maps a coordinator failure to its HTTP status and writes it
func WriteCoordinatorError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := StatusForError(err)
	resp := ErrorResponse{Error: err.Error()}

	var coordErr *coordinator.Error
	if errors.As(err, &coordErr) {
		resp.Kind = string(coordErr.Kind)
	}
	if statusCode >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", statusCode, "error", err)
	}
	WriteJSONResponse(w, resp, statusCode)
}

// StatusForError returns the HTTP status code of a coordinator failure
func StatusForError(err error) int {
	switch {
	case errors.Is(err, listing.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, listing.ErrInvalidCategory):
		return http.StatusBadRequest
	case coordinator.IsKind(err, coordinator.KindRemoteFailure):
		return http.StatusBadGateway
	case coordinator.IsKind(err, coordinator.KindEmptyRemoteResult):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
