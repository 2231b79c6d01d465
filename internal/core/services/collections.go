package services

import (
	"context"
	"fmt"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
	"github.com/codequery/codequery-cli/internal/core/ports/driving"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionAdmin = (*CollectionService)(nil)

// CollectionService administers the collections persisted under one
// storage root.
type CollectionService struct {
	backend    driven.VectorBackend
	persistDir string
}

// NewCollectionService creates a collection admin over the backend.
func NewCollectionService(backend driven.VectorBackend, persistDir string) *CollectionService {
	return &CollectionService{
		backend:    backend,
		persistDir: persistDir,
	}
}

// List returns the names of all persisted collections.
func (s *CollectionService) List(ctx context.Context) ([]string, error) {
	return s.backend.ListCollections(ctx)
}

// Delete removes a collection and its vectors. This is the only recovery
// path for a collection left inconsistent by an interrupted build.
func (s *CollectionService) Delete(ctx context.Context, name string) error {
	return s.backend.DeleteCollection(ctx, name)
}

// Stats describes one persisted collection.
func (s *CollectionService) Stats(ctx context.Context, name string) (*domain.IndexStats, error) {
	handle, err := s.backend.OpenCollection(ctx, name)
	if err != nil {
		return nil, err
	}

	count, err := handle.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting vectors: %w", err)
	}

	return &domain.IndexStats{
		TotalChunks:    count,
		CollectionName: name,
		PersistDir:     s.persistDir,
	}, nil
}
