package driving

import (
	"context"

	"github.com/codequery/codequery-cli/internal/core/domain"
)

// Searcher serves similarity queries against a ready collection.
type Searcher interface {
	// Search returns up to k chunks relevant to the query, ordered by
	// ascending distance.
	Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error)

	// Stats describes the collection behind this searcher.
	Stats(ctx context.Context) (*domain.IndexStats, error)
}

// AskService answers questions grounded in retrieved chunks.
type AskService interface {
	// Ask retrieves the k most relevant chunks for question and generates
	// a cited answer from them.
	Ask(ctx context.Context, question string, k int) (*domain.Answer, []domain.SearchHit, error)
}

// CollectionAdmin manages persisted collections.
type CollectionAdmin interface {
	// List returns the names of all persisted collections.
	List(ctx context.Context) ([]string, error)

	// Delete removes a collection and its vectors.
	Delete(ctx context.Context, name string) error

	// Stats describes one persisted collection.
	Stats(ctx context.Context, name string) (*domain.IndexStats, error)
}
