package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// healthCheck verifies the server is running and returns 200 OK.
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("Ok")); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response", "error", err)

		return
	}
}

// statsResponse is the body of GET /api/v1/stats.
type statsResponse struct {
	SessionTTL  string `json:"session_ttl"`
	Sessions    int    `json:"sessions"`
	MaxSessions int    `json:"max_sessions"`
}

// stats reports the session counts to operators.
func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Sessions:    a.sessions.len(),
		MaxSessions: a.sessions.max,
		SessionTTL:  a.sessions.ttl.Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode stats", "error", err)
	}
}
