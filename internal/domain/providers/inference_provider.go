package providers

import (
	"context"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
)

// InferenceProvider generates text from an assembled prompt. Failures are
// reported as *entities.InferenceError.
type InferenceProvider interface {
	Generate(ctx context.Context, prompt *entities.PromptRequest) (string, error)
}
