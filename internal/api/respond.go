// ABOUTME: JSON response helpers shared by all API handlers
// ABOUTME: Centralizes the error envelope shapes so every handler agrees

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes a {"message": ...} body with the given status code.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationErrors writes the 422 envelope with per-field messages.
func writeValidationErrors(w http.ResponseWriter, errs fieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

// writeNotFound writes the single 404 shape. Authorization denials on owned
// resources also land here so existence never leaks.
func writeNotFound(w http.ResponseWriter) {
	writeMessage(w, http.StatusNotFound, "Not found.")
}

// writeServerError logs the cause and writes an opaque 500. Persistence
// failures must not leak detail to the caller.
func writeServerError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("request failed", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Internal server error.")
}
