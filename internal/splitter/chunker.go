package splitter

import (
	"strings"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/logger"
)

// DefaultChunkSize is the default maximum characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks of one file.
const DefaultChunkOverlap = 200

// Chunker converts documents into ordered chunk sequences.
type Chunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithSeparators replaces the default separator cascade.
func WithSeparators(separators []string) Option {
	return func(c *Chunker) {
		if len(separators) > 0 {
			c.separators = separators
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below chunk size or splitting degenerates.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkStats summarises chunk sizes across one batch. Advisory only.
type ChunkStats struct {
	// Count is the number of chunks produced.
	Count int

	// MinSize is the smallest chunk length in characters.
	MinSize int

	// MaxSize is the largest chunk length in characters.
	MaxSize int

	// MeanSize is the mean chunk length in characters.
	MeanSize float64
}

// ChunkDocuments splits each document into chunks, preserving source
// metadata. Chunk indexes are dense and zero-based per file, in split
// order. Empty or whitespace-only documents produce no chunks and no error.
func (c *Chunker) ChunkDocuments(docs []domain.Document) ([]domain.Chunk, ChunkStats) {
	var chunks []domain.Chunk
	var sizes []int

	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}

		pieces := Split(doc.Content, c.separators, c.chunkSize, c.overlap)
		for i, piece := range pieces {
			chunks = append(chunks, domain.Chunk{
				Content:      piece,
				RelativePath: doc.RelativePath,
				FileName:     doc.FileName,
				ChunkIndex:   i,
				TotalChunks:  len(pieces),
			})
			sizes = append(sizes, len(piece))
		}
	}

	stats := ChunkStats{Count: len(chunks)}
	if len(sizes) > 0 {
		stats.MinSize = sizes[0]
		stats.MaxSize = sizes[0]
		sum := 0
		for _, s := range sizes {
			if s < stats.MinSize {
				stats.MinSize = s
			}
			if s > stats.MaxSize {
				stats.MaxSize = s
			}
			sum += s
		}
		stats.MeanSize = float64(sum) / float64(len(sizes))
	}

	logger.Debug("Created %d chunks from %d documents (min=%d max=%d mean=%.0f)",
		stats.Count, len(docs), stats.MinSize, stats.MaxSize, stats.MeanSize)

	return chunks, stats
}
