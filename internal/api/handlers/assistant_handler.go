package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
)

// AssistantService defines the assistant operations used by the handler.
type AssistantService interface {
	Ask(ctx context.Context, patientID, question string) (*entities.Consultation, error)
	Analyze(ctx context.Context, patientID string) (*entities.Consultation, error)
}

// AssistantHandler handles the question and analysis endpoints.
type AssistantHandler struct {
	service AssistantService
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(service AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

type askRequest struct {
	Question  string `json:"question"`
	PatientID string `json:"patient_id"`
}

type askResponse struct {
	Success        bool   `json:"success"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	PatientID      string `json:"patient_id"`
	InferenceError string `json:"inference_error,omitempty"`
}

type analyzeRequest struct {
	PatientID string `json:"patient_id"`
}

type analyzeResponse struct {
	Success        bool   `json:"success"`
	Analysis       string `json:"analysis"`
	PatientID      string `json:"patient_id"`
	InferenceError string `json:"inference_error,omitempty"`
}

// Ask handles POST /api/ask
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var payload askRequest
	if err := decodeOptionalJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if strings.TrimSpace(payload.Question) == "" {
		respondWithError(w, http.StatusBadRequest, "Question is required")
		return
	}

	result, err := h.service.Ask(r.Context(), payload.PatientID, payload.Question)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, askResponse{
		Success:        true,
		Question:       result.Question,
		Answer:         result.Answer,
		PatientID:      result.PatientID,
		InferenceError: failureKind(result),
	})
}

// Analyze handles POST /api/analyze
func (h *AssistantHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := decodeOptionalJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.Analyze(r.Context(), payload.PatientID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, analyzeResponse{
		Success:        true,
		Analysis:       result.Answer,
		PatientID:      result.PatientID,
		InferenceError: failureKind(result),
	})
}

// decodeOptionalJSON decodes the request body into v. An empty body leaves v unchanged.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func failureKind(result *entities.Consultation) string {
	if result.Failure == nil {
		return ""
	}
	return string(result.Failure.Kind)
}
