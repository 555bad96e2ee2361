package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
)

// APIError is the error body returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// writeJSON writes the payload as-is. Success payloads mirror the shapes
// the frontend already consumes, without an extra envelope.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeRawJSON writes a pre-encoded document without re-marshalling.
func writeRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// writeJSONError writes a structured error body.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Error:   APIError{Code: code, Message: message},
	})
}

// writeDomainError maps a domain error to an HTTP status and body.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrUnavailable), errors.Is(err, shared.ErrBankUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	case shared.IsPersistence(err):
		writeJSONError(w, http.StatusInternalServerError, "storage_error", "Failed to persist user progress")
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
