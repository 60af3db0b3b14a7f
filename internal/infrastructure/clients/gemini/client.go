package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/providers"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/config"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash-preview-09-2025"

	maxResponseBytes = 4 << 20

	missingKeyDetail   = "Error: Missing GEMINI_API_KEY in your .env file."
	unknownErrorDetail = "Unknown error or blocked content."
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Gemini client. An empty API key is accepted;
// every Generate call then fails without touching the network.
func NewClient(cfg *config.GeminiConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: baseURL + "/v1beta/models/" + url.PathEscape(model) + ":generateContent",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

var _ providers.InferenceProvider = (*Client)(nil)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SystemInstruction content          `json:"systemInstruction"`
}

type responsePart struct {
	Text *string `json:"text"`
}

type candidate struct {
	Content struct {
		Parts []responsePart `json:"parts"`
	} `json:"content"`
	FinishReason string `json:"finishReason"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
}

// Generate sends one generateContent request and returns the first
// candidate's text. Failures are *entities.InferenceError.
func (c *Client) Generate(ctx context.Context, prompt *entities.PromptRequest) (text string, err error) {
	start := time.Now()
	statusCode := 0
	defer func() {
		recordGeminiMetric(ctx, c.model, statusCode, time.Since(start), err)
	}()

	if c.apiKey == "" {
		return "", &entities.InferenceError{Kind: entities.InferenceMissingCredential, Detail: missingKeyDetail}
	}
	if prompt == nil {
		return "", &entities.InferenceError{Kind: entities.InferenceUnexpected, Detail: "Error getting AI response: prompt is required"}
	}

	body, marshalErr := json.Marshal(generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt.UserMessage}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     prompt.Temperature,
			MaxOutputTokens: prompt.MaxOutputTokens,
		},
		SystemInstruction: content{Parts: []part{{Text: prompt.SystemInstruction}}},
	})
	if marshalErr != nil {
		return "", unexpected(marshalErr)
	}

	text, statusCode, inferenceErr := c.call(ctx, body)
	if inferenceErr != nil {
		return "", inferenceErr
	}
	return text, nil
}

func (c *Client) call(ctx context.Context, body []byte) (string, int, *entities.InferenceError) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", 0, unexpected(err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", 0, unexpected(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, transport(stripURL(err), 0)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", resp.StatusCode, transport(err, resp.StatusCode)
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().Int("status", resp.StatusCode).Str("response", string(raw)).Msg("Gemini API response")

	var envelope generateContentResponse
	decodeErr := json.Unmarshal(raw, &envelope)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && resp.StatusCode != http.StatusBadRequest {
		cause := fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if decodeErr == nil && envelope.Error != nil && envelope.Error.Message != "" {
			cause = fmt.Errorf("%w: %s", cause, envelope.Error.Message)
		}
		return "", resp.StatusCode, transport(cause, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", resp.StatusCode, unexpected(decodeErr)
	}

	text, inferenceErr := parseResponse(&envelope, raw, resp.StatusCode)
	if inferenceErr != nil {
		return "", resp.StatusCode, inferenceErr
	}
	return text, resp.StatusCode, nil
}

func parseResponse(envelope *generateContentResponse, raw []byte, statusCode int) (string, *entities.InferenceError) {
	if len(envelope.Candidates) > 0 {
		first := envelope.Candidates[0]
		if parts := first.Content.Parts; len(parts) > 0 && parts[0].Text != nil {
			return *parts[0].Text, nil
		}

		finishReason := first.FinishReason
		if finishReason == "" {
			finishReason = "Unknown"
		}
		return "", &entities.InferenceError{
			Kind:       entities.InferenceNoContent,
			Detail:     fmt.Sprintf("No valid text found in Gemini response. Finish reason: %s. Response: %s", finishReason, indent(raw)),
			StatusCode: statusCode,
		}
	}

	message := unknownErrorDetail
	if envelope.Error != nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	detail := "Gemini API Error: " + message
	if statusCode == http.StatusBadRequest {
		detail = fmt.Sprintf("Gemini API Error (400): %s. Full details: %s", message, indent(raw))
	}
	return "", &entities.InferenceError{
		Kind:       entities.InferenceAPIError,
		Detail:     detail,
		StatusCode: statusCode,
	}
}

func transport(err error, statusCode int) *entities.InferenceError {
	return &entities.InferenceError{
		Kind:       entities.InferenceTransport,
		Detail:     "Error connecting to Gemini API: " + err.Error(),
		StatusCode: statusCode,
		Err:        err,
	}
}

func unexpected(err error) *entities.InferenceError {
	return &entities.InferenceError{
		Kind:   entities.InferenceUnexpected,
		Detail: "Error getting AI response: " + err.Error(),
		Err:    err,
	}
}

// stripURL drops the request URL, which carries the API key, from client errors.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func indent(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
