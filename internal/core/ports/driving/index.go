package driving

import (
	"context"

	"github.com/codequery/codequery-cli/internal/splitter"
)

// IndexOptions configures a repository indexing run.
type IndexOptions struct {
	// ChunkSize is the maximum characters per chunk (0 = default).
	ChunkSize int

	// ChunkOverlap is the characters shared between consecutive chunks
	// of one file (0 = default).
	ChunkOverlap int

	// Overwrite replaces an existing collection of the same name instead
	// of failing with domain.ErrAlreadyExists.
	Overwrite bool
}

// IndexSummary reports the outcome of one indexing run.
type IndexSummary struct {
	// Candidates is the number of regular files scanned.
	Candidates int

	// FilesLoaded is the number of files that passed all filters.
	FilesLoaded int

	// TotalChunks is the number of chunks embedded and persisted.
	TotalChunks int

	// ChunkStats holds advisory chunk-size statistics for the run.
	ChunkStats splitter.ChunkStats
}

// Indexer builds a searchable collection from a repository tree.
type Indexer interface {
	// Index loads, chunks, embeds and persists the repository at root.
	Index(ctx context.Context, root, collection string, opts IndexOptions) (*IndexSummary, error)

	// Watch rebuilds the collection whenever files under root change.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, root, collection string, opts IndexOptions) error
}
