package services

import (
	"context"
	"fmt"

	"github.com/codequery/codequery-cli/internal/connectors/filesystem"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
	"github.com/codequery/codequery-cli/internal/core/ports/driving"
	"github.com/codequery/codequery-cli/internal/logger"
	"github.com/codequery/codequery-cli/internal/splitter"
)

// Ensure IndexService implements the interface.
var _ driving.Indexer = (*IndexService)(nil)

// IndexService orchestrates the build pipeline:
// loader -> chunker -> vector index.
type IndexService struct {
	embedder   driven.EmbeddingService
	backend    driven.VectorBackend
	persistDir string
}

// NewIndexService creates an index service over the given embedding service
// and vector backend.
func NewIndexService(embedder driven.EmbeddingService, backend driven.VectorBackend, persistDir string) *IndexService {
	return &IndexService{
		embedder:   embedder,
		backend:    backend,
		persistDir: persistDir,
	}
}

// Index loads the repository at root, chunks every eligible file, embeds
// the chunks and persists them as the named collection.
func (s *IndexService) Index(ctx context.Context, root, collection string, opts driving.IndexOptions) (*driving.IndexSummary, error) {
	logger.Section("Index Build")

	loader := filesystem.New(root)
	docs, loadStats, err := loader.LoadFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading files: %w", err)
	}

	chunker := splitter.New(
		splitter.WithChunkSize(opts.ChunkSize),
		splitter.WithOverlap(opts.ChunkOverlap),
	)
	chunks, chunkStats := chunker.ChunkDocuments(docs)

	index := NewVectorIndex(s.embedder, s.backend, collection, s.persistDir)
	if err := index.Create(ctx, chunks, opts.Overwrite); err != nil {
		return nil, err
	}

	return &driving.IndexSummary{
		Candidates:  loadStats.Candidates,
		FilesLoaded: loadStats.Accepted,
		TotalChunks: len(chunks),
		ChunkStats:  chunkStats,
	}, nil
}

// Watch builds the collection, then rebuilds it whenever files under root
// change. Rebuilds always overwrite. Watch blocks until ctx is cancelled;
// a failed rebuild is logged and the watch continues.
func (s *IndexService) Watch(ctx context.Context, root, collection string, opts driving.IndexOptions) error {
	if _, err := s.Index(ctx, root, collection, opts); err != nil {
		return err
	}

	watcher, err := filesystem.NewWatcher(filesystem.New(root))
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	opts.Overwrite = true
	logger.Info("Watching %s for changes", root)

	for range watcher.Changes(ctx) {
		logger.Info("Change detected, rebuilding collection %q", collection)
		if _, err := s.Index(ctx, root, collection, opts); err != nil {
			logger.Error("Rebuild failed: %v", err)
		}
	}
	return ctx.Err()
}
