package handlers

import (
	"net/http"
)

const homeMessage = "Ayu-Chain AI Agent is running (Powered by Gemini)!"

// RecordCounter reports how many health records are held.
type RecordCounter interface {
	Count() int
}

// HomeHandler serves the service status endpoints.
type HomeHandler struct {
	records RecordCounter
	version string
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(records RecordCounter, version string) *HomeHandler {
	return &HomeHandler{
		records: records,
		version: version,
	}
}

type homeResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Version       string `json:"version"`
	RecordsLoaded bool   `json:"records_loaded"`
}

// Home handles GET /
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, homeResponse{
		Status:        "healthy",
		Message:       homeMessage,
		Version:       h.version,
		RecordsLoaded: h.records.Count() > 0,
	})
}

// Health handles GET /health
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
