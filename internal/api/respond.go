// ABOUTME: JSON response envelope helpers for the HTTP API.
// ABOUTME: Every response is {status: ok, data} or {status: error, message}.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harperreed/vitals/internal/storage"
)

type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: "ok", Data: data})
}

// respondError writes an error envelope. Validation messages are passed
// through verbatim; everything else stays generic.
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: "error", Message: message})
}

// respondStorageError maps storage failures onto the API contract:
// missing records are 404, anything else is a generic 500.
func respondStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON parses a request body, treating malformed JSON as a
// client error with a generic message.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
