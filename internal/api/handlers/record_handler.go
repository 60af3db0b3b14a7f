package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	apperrors "github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/errors"
)

const uploadFormField = "file"

// RecordService defines the record operations used by the handler.
type RecordService interface {
	LoadDocument(ctx context.Context, patientID, name string, r io.ReaderAt, size int64) (*entities.PatientRecord, error)
	Get(patientID string) (entities.RecordSummary, error)
}

// RecordHandler handles health record uploads and lookups.
type RecordHandler struct {
	service        RecordService
	maxUploadBytes int64
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(service RecordService, maxUploadBytes int64) *RecordHandler {
	return &RecordHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

type uploadResponse struct {
	Success    bool   `json:"success"`
	PatientID  string `json:"patient_id"`
	Characters int    `json:"characters"`
	Pages      int    `json:"pages"`
}

// PutRecord handles PUT /api/records/{patient_id}
func (h *RecordHandler) PutRecord(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient_id is required")
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	name, data, err := h.readDocument(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	record, err := h.service.LoadDocument(r.Context(), patientID, name, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, uploadResponse{
		Success:    true,
		PatientID:  record.PatientID,
		Characters: record.Characters(),
		Pages:      record.Pages,
	})
}

// GetRecord handles GET /api/records/{patient_id}
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Get(r.PathValue("patient_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// readDocument returns the uploaded document from a multipart form field
// or, for any other content type, the raw request body.
func (h *RecordHandler) readDocument(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, h.bodyError(err)
		}
		if len(data) == 0 {
			return "", nil, apperrors.NewValidationError("request body is empty")
		}
		return "upload.pdf", data, nil
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, h.bodyError(err)
		}
		return "", nil, apperrors.NewValidationError(fmt.Sprintf("multipart field %q is required", uploadFormField))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, h.bodyError(err)
	}
	return header.Filename, data, nil
}

func (h *RecordHandler) bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.NewTooLargeError(fmt.Sprintf("document exceeds %d bytes", maxErr.Limit))
	}
	return apperrors.NewValidationError("failed to read request body")
}
