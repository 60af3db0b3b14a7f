package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/adapters/documents"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/adapters/memory"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/handlers"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/routes"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/application/services"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
)

type echoInference struct {
	prompts []*entities.PromptRequest
}

func (e *echoInference) Generate(ctx context.Context, prompt *entities.PromptRequest) (string, error) {
	e.prompts = append(e.prompts, prompt)
	return "answer from model", nil
}

func newTestServer(t *testing.T) (*httptest.Server, *echoInference) {
	t.Helper()

	store := memory.NewPatientRecordStore()
	store.Put(&entities.PatientRecord{PatientID: "test_patient", Text: "Blood pressure 120/80"})

	inference := &echoInference{}
	ingestion := services.NewRecordIngestionService(documents.NewPDFExtractor(), store, nil)
	assistant := services.NewAssistantService(store, inference, "test_patient")

	router := routes.NewRouter(
		handlers.NewHomeHandler(ingestion, "2.1.0"),
		handlers.NewAssistantHandler(assistant),
		handlers.NewRecordHandler(ingestion, 1<<20),
		nil,
		nil,
	)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)
	return server, inference
}

func TestRouter_Home(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRouter_AskFlow(t *testing.T) {
	server, inference := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/ask", "application/json", strings.NewReader(`{"question":"Am I healthy?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.Len(t, inference.prompts, 1)
	assert.Contains(t, inference.prompts[0].UserMessage, "Blood pressure 120/80")
}

func TestRouter_AskMissingQuestion(t *testing.T) {
	server, inference := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/ask", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, inference.prompts)
}

func TestRouter_MethodAndPathMatching(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/ask")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(server.URL + "/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_UploadRejectsNonPDF(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/records/p-1", strings.NewReader("definitely not a pdf"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
