package services

import (
	"context"
	"fmt"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
	"github.com/codequery/codequery-cli/internal/logger"
)

// indexState tracks the lifecycle of a VectorIndex instance.
type indexState int

const (
	stateUninitialized indexState = iota
	stateBuilt
	stateLoaded
)

// VectorIndex owns one named, persisted collection of embedded chunks and
// serves similarity queries against it.
//
// An instance starts uninitialized and becomes ready through exactly one of
// Create or Load; there is no transition between the two ready states.
// The embedding service is fixed for the lifetime of the instance and must
// be the same model used to build the collection being queried.
//
// VectorIndex is not safe for concurrent use.
type VectorIndex struct {
	embedder       driven.EmbeddingService
	backend        driven.VectorBackend
	collectionName string
	persistDir     string
	state          indexState
	handle         driven.Collection
}

// NewVectorIndex creates an uninitialized index over the named collection.
func NewVectorIndex(embedder driven.EmbeddingService, backend driven.VectorBackend, collectionName, persistDir string) *VectorIndex {
	return &VectorIndex{
		embedder:       embedder,
		backend:        backend,
		collectionName: collectionName,
		persistDir:     persistDir,
	}
}

// Create embeds the chunks and persists them as a full rebuild of the
// collection, then transitions to the ready state.
//
// An empty chunk list fails with domain.ErrEmptyInput: an index over zero
// vectors is a caller error, not a valid empty state. A colliding
// collection name fails with domain.ErrAlreadyExists unless overwrite is
// set.
func (v *VectorIndex) Create(ctx context.Context, chunks []domain.Chunk, overwrite bool) error {
	if len(chunks) == 0 {
		return fmt.Errorf("cannot create index: %w", domain.ErrEmptyInput)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	logger.Info("Embedding %d chunks with %s", len(chunks), v.embedder.ModelName())
	embeddings, err := v.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks))
	}

	items := make([]driven.VectorItem, len(chunks))
	for i, chunk := range chunks {
		items[i] = driven.VectorItem{
			Embedding:    embeddings[i],
			Content:      chunk.Content,
			RelativePath: chunk.RelativePath,
			FileName:     chunk.FileName,
			ChunkIndex:   chunk.ChunkIndex,
		}
	}

	if err := v.backend.CreateCollection(ctx, v.collectionName, items, overwrite); err != nil {
		return fmt.Errorf("persisting collection: %w", err)
	}

	handle, err := v.backend.OpenCollection(ctx, v.collectionName)
	if err != nil {
		return fmt.Errorf("opening created collection: %w", err)
	}

	v.handle = handle
	v.state = stateBuilt
	logger.Info("Indexed %d chunks into collection %q", len(chunks), v.collectionName)
	return nil
}

// Load attaches to an existing persisted collection and transitions to the
// ready state. It validates eagerly that the collection exists and fails
// with domain.ErrNotFound otherwise.
func (v *VectorIndex) Load(ctx context.Context) error {
	handle, err := v.backend.OpenCollection(ctx, v.collectionName)
	if err != nil {
		return fmt.Errorf("loading collection %q: %w", v.collectionName, err)
	}

	v.handle = handle
	v.state = stateLoaded
	logger.Info("Loaded collection %q from %s", v.collectionName, v.persistDir)
	return nil
}

// Search embeds the query with the build-time embedding service and returns
// up to k stored chunks ordered by ascending distance. A collection with
// fewer than k vectors returns all of them; an empty collection returns an
// empty slice, never an error.
func (v *VectorIndex) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	if err := v.requireReady(); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1: %w", domain.ErrInvalidInput)
	}

	queryVec, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := v.handle.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("searching collection: %w", err)
	}

	logger.Debug("Found %d relevant chunks for query", len(hits))
	return hits, nil
}

// Stats returns the exact stored vector count and collection identity.
func (v *VectorIndex) Stats(ctx context.Context) (*domain.IndexStats, error) {
	if err := v.requireReady(); err != nil {
		return nil, err
	}

	count, err := v.handle.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting vectors: %w", err)
	}

	return &domain.IndexStats{
		TotalChunks:    count,
		CollectionName: v.collectionName,
		PersistDir:     v.persistDir,
	}, nil
}

// requireReady rejects search and stats calls before Create or Load.
func (v *VectorIndex) requireReady() error {
	if v.state == stateUninitialized {
		return fmt.Errorf("call Create or Load first: %w", domain.ErrNotInitialized)
	}
	return nil
}
