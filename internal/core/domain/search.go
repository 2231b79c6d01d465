package domain

// SearchHit is a single similarity-search result.
type SearchHit struct {
	// Content is the matched chunk text.
	Content string

	// RelativePath is the source file of the chunk.
	RelativePath string

	// FileName is the base name of the source file.
	FileName string

	// ChunkIndex is the chunk's position within its file.
	ChunkIndex int

	// Score is the distance between the query and the chunk embedding.
	// Lower means more similar. This is a distance, not a 0-1 similarity.
	Score float64
}

// IndexStats describes a ready vector index.
type IndexStats struct {
	// TotalChunks is the exact number of stored vectors.
	TotalChunks int

	// CollectionName is the name of the persisted collection.
	CollectionName string

	// PersistDir is the storage root holding the collection.
	PersistDir string
}

// Answer is a grounded response generated from retrieved chunks.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the relative paths of the chunks used as context,
	// in retrieval order, duplicates preserved.
	Sources []string

	// ChunksUsed is the number of chunks supplied as context.
	ChunksUsed int

	// Model is the model that produced the answer.
	Model string
}
