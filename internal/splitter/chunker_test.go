package splitter

import (
	"strings"
	"testing"

	"github.com/codequery/codequery-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c := New(WithChunkSize(500))
		if c.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", c.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.overlap)
		}
	})
}

func TestChunker_ChunkDocuments_MetadataPreserved(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	docs := []domain.Document{
		{
			Content:      strings.Repeat("some words here ", 20),
			RelativePath: "pkg/server/handler.go",
			FileName:     "handler.go",
			Extension:    ".go",
		},
	}

	chunks, stats := c.ChunkDocuments(docs)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if stats.Count != len(chunks) {
		t.Errorf("stats count %d does not match %d chunks", stats.Count, len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.RelativePath != "pkg/server/handler.go" {
			t.Errorf("chunk %d: wrong RelativePath %q", i, chunk.RelativePath)
		}
		if chunk.FileName != "handler.go" {
			t.Errorf("chunk %d: wrong FileName %q", i, chunk.FileName)
		}
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d: expected dense index, got %d", i, chunk.ChunkIndex)
		}
		if chunk.TotalChunks != len(chunks) {
			t.Errorf("chunk %d: expected TotalChunks %d, got %d", i, len(chunks), chunk.TotalChunks)
		}
	}
}

func TestChunker_ChunkDocuments_SkipsEmptyDocuments(t *testing.T) {
	c := New()
	docs := []domain.Document{
		{Content: "", RelativePath: "empty.go", FileName: "empty.go"},
		{Content: "   \n\t\n  ", RelativePath: "blank.go", FileName: "blank.go"},
		{Content: "real content", RelativePath: "real.go", FileName: "real.go"},
	}

	chunks, stats := c.ChunkDocuments(docs)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].RelativePath != "real.go" {
		t.Errorf("expected chunk from real.go, got %q", chunks[0].RelativePath)
	}
	if stats.Count != 1 {
		t.Errorf("expected stats count 1, got %d", stats.Count)
	}
}

func TestChunker_ChunkDocuments_PerFileNumbering(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(0))
	docs := []domain.Document{
		{Content: strings.Repeat("alpha words ", 30), RelativePath: "a.go", FileName: "a.go"},
		{Content: "tiny", RelativePath: "b.go", FileName: "b.go"},
	}

	chunks, _ := c.ChunkDocuments(docs)

	// Indexes restart at zero for each file.
	var bChunks []domain.Chunk
	for _, chunk := range chunks {
		if chunk.FileName == "b.go" {
			bChunks = append(bChunks, chunk)
		}
	}
	if len(bChunks) != 1 {
		t.Fatalf("expected 1 chunk for b.go, got %d", len(bChunks))
	}
	if bChunks[0].ChunkIndex != 0 {
		t.Errorf("expected index 0 for b.go chunk, got %d", bChunks[0].ChunkIndex)
	}
	if bChunks[0].TotalChunks != 1 {
		t.Errorf("expected TotalChunks 1 for b.go, got %d", bChunks[0].TotalChunks)
	}
}

func TestChunker_ChunkDocuments_Stats(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(0))
	docs := []domain.Document{
		{Content: strings.Repeat("word ", 50), RelativePath: "a.go", FileName: "a.go"},
	}

	chunks, stats := c.ChunkDocuments(docs)
	if stats.Count != len(chunks) {
		t.Fatalf("stats count %d, chunks %d", stats.Count, len(chunks))
	}
	if stats.MinSize > stats.MaxSize {
		t.Errorf("min %d exceeds max %d", stats.MinSize, stats.MaxSize)
	}
	if stats.MeanSize < float64(stats.MinSize) || stats.MeanSize > float64(stats.MaxSize) {
		t.Errorf("mean %.1f outside [%d, %d]", stats.MeanSize, stats.MinSize, stats.MaxSize)
	}
}

func TestChunker_ChunkDocuments_NoDocuments(t *testing.T) {
	c := New()
	chunks, stats := c.ChunkDocuments(nil)
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
	if stats.Count != 0 {
		t.Errorf("expected zero stats count, got %d", stats.Count)
	}
}
