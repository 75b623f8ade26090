// internal/server/handlers/respond.go

// Package handlers implements the HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		slog.Error("http error", "code", code, "message", message, "error", err)
	}

	respondWithJSON(w, code, map[string]string{"error": message})
}
