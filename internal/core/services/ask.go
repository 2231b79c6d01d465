package services

import (
	"context"
	"fmt"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
	"github.com/codequery/codequery-cli/internal/core/ports/driving"
	"github.com/codequery/codequery-cli/internal/logger"
)

// DefaultTopK is the number of chunks retrieved per question when the
// caller does not specify one.
const DefaultTopK = 5

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers questions by retrieving the most relevant chunks from
// a ready vector index and handing them to the answer service as context.
type AskService struct {
	index    *VectorIndex
	answerer driven.AnswerService
	session  *Session
}

// NewAskService creates an ask service over a ready index. The session is
// updated on every answered question.
func NewAskService(index *VectorIndex, answerer driven.AnswerService, session *Session) *AskService {
	return &AskService{
		index:    index,
		answerer: answerer,
		session:  session,
	}
}

// Ask retrieves the k most relevant chunks for the question and generates
// a cited answer from them. The retrieved hits are returned alongside the
// answer so callers can render citations.
func (s *AskService) Ask(ctx context.Context, question string, k int) (*domain.Answer, []domain.SearchHit, error) {
	if k < 1 {
		k = DefaultTopK
	}

	logger.Section("Ask")
	logger.Debug("Question: %q (k=%d)", question, k)

	hits, err := s.index.Search(ctx, question, k)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieving context: %w", err)
	}

	answer, err := s.answerer.GenerateAnswer(ctx, question, hits)
	if err != nil {
		return nil, hits, fmt.Errorf("generating answer: %w", err)
	}

	s.session.Record(answer.ChunksUsed)
	logger.Info("Generated answer using %d chunks", answer.ChunksUsed)
	return answer, hits, nil
}
