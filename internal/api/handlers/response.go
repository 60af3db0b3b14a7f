package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
	apperrors "github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/errors"
)

// failureResponse is the envelope for unexpected failures.
type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithFailure writes the {success:false, error} envelope.
func respondWithFailure(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, failureResponse{
		Success: false,
		Error:   message,
	})
}

// respondWithAppError maps an application error to an HTTP response.
// Client errors use the plain {error} body, everything else the failure envelope.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeIngestion:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeTooLarge:
			respondWithError(w, http.StatusRequestEntityTooLarge, appErr.Message)
			return
		}
	}

	observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Request failed")
	respondWithFailure(w, http.StatusInternalServerError, err.Error())
}
