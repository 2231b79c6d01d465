package driven

import (
	"context"

	"github.com/codequery/codequery-cli/internal/core/domain"
)

// AnswerService generates a natural-language answer to a question, grounded
// in retrieved code chunks. The core supplies only the ranked hits as
// context; prompt construction is the adapter's concern.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - Ollama (local models)
type AnswerService interface {
	// GenerateAnswer produces an answer with file-level citations.
	GenerateAnswer(ctx context.Context, question string, hits []domain.SearchHit) (*domain.Answer, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
