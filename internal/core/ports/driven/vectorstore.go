package driven

import (
	"context"

	"github.com/codequery/codequery-cli/internal/core/domain"
)

// VectorItem is one embedded chunk handed to the backend for storage.
// The backend copies content and metadata into its own storage.
type VectorItem struct {
	// Embedding is the vector representation of Content.
	Embedding []float32

	// Content is the chunk text.
	Content string

	// RelativePath is the source file of the chunk.
	RelativePath string

	// FileName is the base name of the source file.
	FileName string

	// ChunkIndex is the chunk's position within its file.
	ChunkIndex int
}

// VectorBackend owns the durable storage of named collections of embedded
// chunks and serves nearest-neighbour queries against them.
//
// A collection is identified by its name within one storage root. The
// backend assumes single-writer, single-reader-at-a-time access per
// collection; there is no locking or concurrent-build protection.
type VectorBackend interface {
	// CreateCollection persists the given items under name.
	// Fails with domain.ErrAlreadyExists when the collection exists and
	// overwrite is false; with overwrite it replaces the prior contents.
	CreateCollection(ctx context.Context, name string, items []VectorItem, overwrite bool) error

	// OpenCollection attaches to an existing collection.
	// Fails with domain.ErrNotFound when the collection does not exist.
	OpenCollection(ctx context.Context, name string) (Collection, error)

	// ListCollections returns the names of all persisted collections.
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection removes a collection and its vectors.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}

// Collection is a searchable handle to one persisted collection.
type Collection interface {
	// Search returns up to k stored chunks nearest to the query vector,
	// ordered by ascending distance. An empty collection returns an empty
	// slice, never an error.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error)

	// Count returns the exact number of stored vectors.
	Count(ctx context.Context) (int, error)
}
