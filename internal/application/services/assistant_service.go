package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/providers"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/repositories"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
	apperrors "github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/errors"
)

// AssistantService answers questions about a patient's health record.
type AssistantService struct {
	repo             repositories.PatientRecordRepository
	inference        providers.InferenceProvider
	defaultPatientID string
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	repo repositories.PatientRecordRepository,
	inference providers.InferenceProvider,
	defaultPatientID string,
) *AssistantService {
	return &AssistantService{
		repo:             repo,
		inference:        inference,
		defaultPatientID: defaultPatientID,
	}
}

// Ask answers a caller-supplied question against the patient's record.
func (s *AssistantService) Ask(ctx context.Context, patientID, question string) (*entities.Consultation, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.NewValidationError("Question is required")
	}
	return s.consult(ctx, "assistant.ask", patientID, question)
}

// Analyze runs the fixed four-point analysis against the patient's record.
func (s *AssistantService) Analyze(ctx context.Context, patientID string) (*entities.Consultation, error) {
	return s.consult(ctx, "assistant.analyze", patientID, AnalysisPrompt)
}

// DefaultPatientID returns the identifier used when a caller omits one.
func (s *AssistantService) DefaultPatientID() string {
	return s.defaultPatientID
}

func (s *AssistantService) consult(ctx context.Context, spanName, patientID, question string) (*entities.Consultation, error) {
	if patientID == "" {
		patientID = s.defaultPatientID
	}

	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("patient.id", patientID))

	prompt := BuildPrompt(s.repo.Get(patientID), question)

	consultation := &entities.Consultation{
		PatientID: patientID,
		Question:  question,
	}

	answer, err := s.inference.Generate(ctx, prompt)
	if err != nil {
		var inferenceErr *entities.InferenceError
		if !errors.As(err, &inferenceErr) {
			observability.RecordError(span, err)
			return nil, apperrors.NewInternalError("failed to generate answer", err)
		}

		observability.RecordError(span, inferenceErr)
		observability.SetSpanAttributes(span, attribute.String("ai.error_kind", string(inferenceErr.Kind)))
		observability.LoggerFromContext(ctx).Warn().
			Str("patient_id", patientID).
			Str("kind", string(inferenceErr.Kind)).
			Msg(inferenceErr.Detail)

		consultation.Answer = inferenceErr.Detail
		consultation.Failure = inferenceErr
		return consultation, nil
	}

	consultation.Answer = answer
	return consultation, nil
}
