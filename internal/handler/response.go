package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// response is the JSON envelope the original frontend expects from every
// mutating endpoint.
type response struct {
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Message string   `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
