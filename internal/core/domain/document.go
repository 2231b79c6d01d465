// Package domain contains the core value types of the indexing pipeline.
package domain

import "fmt"

// Document represents one source file loaded from a repository.
// It is the immutable output of the file loader and the input to the chunker.
type Document struct {
	// Content is the decoded UTF-8 text of the file.
	Content string

	// RelativePath is the path relative to the repository root.
	// It is the stable identity key for the file.
	RelativePath string

	// FileName is the base name of the file.
	FileName string

	// Extension is the file extension including the leading dot.
	Extension string
}

// Chunk represents a bounded slice of one document's text.
// It is the unit of embedding and citation.
type Chunk struct {
	// Content is the chunk text. Length is at most the configured chunk
	// size, except for a single atomic piece that cannot be split further.
	Content string

	// RelativePath is inherited from the source document.
	RelativePath string

	// FileName is inherited from the source document.
	FileName string

	// ChunkIndex is the zero-based position within the source file.
	// Indexes are dense: a file with n chunks uses exactly 0..n-1.
	ChunkIndex int

	// TotalChunks is the number of chunks produced from the source file.
	TotalChunks int
}

// Citation returns the human-readable pointer back to the chunk's origin,
// e.g. "File: src/auth/login.go (Part 2/5)".
func (c Chunk) Citation() string {
	return fmt.Sprintf("File: %s (Part %d/%d)", c.RelativePath, c.ChunkIndex+1, c.TotalChunks)
}
