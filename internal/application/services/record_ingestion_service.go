package services

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/providers"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/repositories"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
	apperrors "github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/errors"
)

const previewChars = 200

// RecordIngestionService loads health documents into the record store.
type RecordIngestionService struct {
	extractor providers.DocumentExtractor
	repo      repositories.PatientRecordRepository
	metrics   *observability.Metrics
}

// NewRecordIngestionService creates a new record ingestion service.
// metrics may be nil.
func NewRecordIngestionService(
	extractor providers.DocumentExtractor,
	repo repositories.PatientRecordRepository,
	metrics *observability.Metrics,
) *RecordIngestionService {
	return &RecordIngestionService{
		extractor: extractor,
		repo:      repo,
		metrics:   metrics,
	}
}

// LoadFile extracts the document at path and stores it under patientID.
// On failure the store is left untouched.
func (s *RecordIngestionService) LoadFile(ctx context.Context, patientID, path string) (*entities.PatientRecord, error) {
	ctx, span := observability.StartSpan(ctx, "records.load_file")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("patient.id", patientID))

	if patientID == "" {
		return nil, apperrors.NewValidationError("patient_id is required")
	}

	doc, err := s.extractor.ExtractFile(ctx, path)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordIngestionMetric(ctx, s.metrics, "file", 0, err)
		return nil, apperrors.NewIngestionError("failed to read health record "+filepath.Base(path), err)
	}

	return s.store(ctx, patientID, filepath.Base(path), "file", doc), nil
}

// LoadDocument extracts the document read from r and stores it under
// patientID, replacing any existing record.
func (s *RecordIngestionService) LoadDocument(ctx context.Context, patientID, name string, r io.ReaderAt, size int64) (*entities.PatientRecord, error) {
	ctx, span := observability.StartSpan(ctx, "records.load_document")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("patient.id", patientID),
		attribute.Int64("document.size", size),
	)

	if patientID == "" {
		return nil, apperrors.NewValidationError("patient_id is required")
	}

	doc, err := s.extractor.Extract(ctx, r, size)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordIngestionMetric(ctx, s.metrics, "upload", 0, err)
		return nil, apperrors.NewIngestionError("failed to read health record "+name, err)
	}

	return s.store(ctx, patientID, name, "upload", doc), nil
}

// Get returns the summary of the stored record for patientID.
func (s *RecordIngestionService) Get(patientID string) (entities.RecordSummary, error) {
	record, ok := s.repo.Lookup(patientID)
	if !ok {
		return entities.RecordSummary{}, apperrors.NewNotFoundError("no health records found for patient " + patientID)
	}
	return record.Summary(), nil
}

// Count returns the number of records held.
func (s *RecordIngestionService) Count() int {
	return s.repo.Count()
}

func (s *RecordIngestionService) store(ctx context.Context, patientID, source, kind string, doc *providers.ExtractedDocument) *entities.PatientRecord {
	record := &entities.PatientRecord{
		ID:        uuid.New().String(),
		PatientID: patientID,
		Text:      doc.Text,
		Source:    source,
		Pages:     doc.Pages,
		LoadedAt:  time.Now().UTC(),
	}
	s.repo.Put(record)

	characters := record.Characters()
	observability.RecordIngestionMetric(ctx, s.metrics, kind, characters, nil)

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("patient_id", patientID).
		Str("source", source).
		Int("pages", doc.Pages).
		Int("characters", characters).
		Msg("Loaded health record")
	logger.Debug().
		Str("patient_id", patientID).
		Str("preview", preview(doc.Text)).
		Msg("Health record preview")

	return record
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars]) + "..."
}
