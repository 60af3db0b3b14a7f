package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/handlers"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func TestHomeHandler_Home(t *testing.T) {
	handler := handlers.NewHomeHandler(fixedCounter(1), "2.1.0")

	w := httptest.NewRecorder()
	handler.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"status": "healthy",
		"message": "Ayu-Chain AI Agent is running (Powered by Gemini)!",
		"version": "2.1.0",
		"records_loaded": true
	}`, w.Body.String())
}

func TestHomeHandler_HomeWithoutRecords(t *testing.T) {
	handler := handlers.NewHomeHandler(fixedCounter(0), "2.1.0")

	w := httptest.NewRecorder()
	handler.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["records_loaded"])
}

func TestHomeHandler_Health(t *testing.T) {
	handler := handlers.NewHomeHandler(fixedCounter(0), "2.1.0")

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
