package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/config"
)

const testKey = "test-api-key"

func testPrompt() *entities.PromptRequest {
	return &entities.PromptRequest{
		SystemInstruction: "You are a health assistant.",
		UserMessage:       "PATIENT QUESTION:\nAm I healthy?",
		Temperature:       0.7,
		MaxOutputTokens:   1200,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(&config.GeminiConfig{
		APIKey:  testKey,
		BaseURL: server.URL,
		Model:   "gemini-test",
		Timeout: 2 * time.Second,
	})
	return client, &calls
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func requireInferenceError(t *testing.T, err error) *entities.InferenceError {
	t.Helper()
	var inferenceErr *entities.InferenceError
	require.True(t, errors.As(err, &inferenceErr), "expected *entities.InferenceError, got %v", err)
	return inferenceErr
}

func TestClient_Generate_Success(t *testing.T) {
	client, calls := newTestClient(t, respond(http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"X"}]},"finishReason":"STOP"}]}`))

	text, err := client.Generate(context.Background(), testPrompt())

	require.NoError(t, err)
	assert.Equal(t, "X", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_Generate_RequestShape(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		respond(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)(w, r)
	})

	_, err := client.Generate(context.Background(), testPrompt())
	require.NoError(t, err)

	contents := captured["contents"].([]any)
	require.Len(t, contents, 1)
	entry := contents[0].(map[string]any)
	assert.Equal(t, "user", entry["role"])
	assert.Equal(t, "PATIENT QUESTION:\nAm I healthy?", entry["parts"].([]any)[0].(map[string]any)["text"])

	system := captured["systemInstruction"].(map[string]any)
	assert.Equal(t, "You are a health assistant.", system["parts"].([]any)[0].(map[string]any)["text"])

	generation := captured["generationConfig"].(map[string]any)
	assert.Equal(t, 0.7, generation["temperature"])
	assert.Equal(t, float64(1200), generation["maxOutputTokens"])
}

func TestClient_Generate_NoTextPart(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK,
		`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceNoContent, inferenceErr.Kind)
	assert.Contains(t, inferenceErr.Detail, "SAFETY")
	assert.Contains(t, inferenceErr.Detail, "No valid text found in Gemini response. Finish reason: SAFETY. Response: ")
}

func TestClient_Generate_NoTextPartUnknownReason(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK, `{"candidates":[{}]}`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceNoContent, inferenceErr.Kind)
	assert.Contains(t, inferenceErr.Detail, "Finish reason: Unknown.")
}

func TestClient_Generate_APIErrorWithoutCandidates(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK, `{"error":{"code":403,"message":"bad request"}}`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceAPIError, inferenceErr.Kind)
	assert.Equal(t, "Gemini API Error: bad request", inferenceErr.Detail)
}

func TestClient_Generate_APIErrorDefaultMessage(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, "Gemini API Error: Unknown error or blocked content.", inferenceErr.Detail)
}

func TestClient_Generate_BadRequestIncludesStatusAndBody(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusBadRequest,
		`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceAPIError, inferenceErr.Kind)
	assert.Equal(t, http.StatusBadRequest, inferenceErr.StatusCode)
	assert.Contains(t, inferenceErr.Detail, "Gemini API Error (400): bad request. Full details: ")
	assert.Contains(t, inferenceErr.Detail, "INVALID_ARGUMENT")
}

func TestClient_Generate_MissingAPIKeyMakesNoCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClient(&config.GeminiConfig{BaseURL: server.URL})

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceMissingCredential, inferenceErr.Kind)
	assert.Equal(t, "Error: Missing GEMINI_API_KEY in your .env file.", inferenceErr.Detail)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClient_Generate_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(&config.GeminiConfig{APIKey: testKey, BaseURL: baseURL, Timeout: time.Second})

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceTransport, inferenceErr.Kind)
	assert.Contains(t, inferenceErr.Detail, "Error connecting to Gemini API: ")
	assert.NotContains(t, inferenceErr.Detail, testKey)
}

func TestClient_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(&config.GeminiConfig{APIKey: testKey, BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceTransport, inferenceErr.Kind)
	assert.NotContains(t, inferenceErr.Detail, testKey)
}

func TestClient_Generate_ServerErrorIsTransport(t *testing.T) {
	client, calls := newTestClient(t, respond(http.StatusServiceUnavailable,
		`{"error":{"code":503,"message":"The model is overloaded."}}`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceTransport, inferenceErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, inferenceErr.StatusCode)
	assert.Contains(t, inferenceErr.Detail, "503 Service Unavailable")
	assert.Contains(t, inferenceErr.Detail, "The model is overloaded.")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_Generate_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK, `not json`))

	_, err := client.Generate(context.Background(), testPrompt())

	inferenceErr := requireInferenceError(t, err)
	assert.Equal(t, entities.InferenceUnexpected, inferenceErr.Kind)
	assert.Contains(t, inferenceErr.Detail, "Error getting AI response: ")
}
