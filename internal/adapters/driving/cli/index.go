package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/codequery/codequery-cli/internal/adapters/driven/config/file"
	"github.com/codequery/codequery-cli/internal/core/ports/driving"
	"github.com/codequery/codequery-cli/internal/core/services"
)

var (
	indexCollection   string
	indexChunkSize    int
	indexChunkOverlap int
	indexOverwrite    bool
	indexWatch        bool
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Index a repository's source files into a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend()
		if err != nil {
			return err
		}
		defer backend.Close()

		embedder, err := buildEmbedder()
		if err != nil {
			return err
		}
		defer embedder.Close()

		svc := services.NewIndexService(embedder, backend, persistDir())

		opts := driving.IndexOptions{
			ChunkSize:    indexChunkSize,
			ChunkOverlap: indexChunkOverlap,
			Overwrite:    indexOverwrite,
		}
		if opts.ChunkSize == 0 {
			opts.ChunkSize = configStore.GetIntOr(configfile.KeyChunkSize, 0)
		}
		if opts.ChunkOverlap == 0 {
			opts.ChunkOverlap = configStore.GetIntOr(configfile.KeyChunkOverlap, 0)
		}

		if indexWatch {
			cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", args[0])
			return svc.Watch(cmd.Context(), args[0], indexCollection, opts)
		}

		start := time.Now()
		summary, err := svc.Index(cmd.Context(), args[0], indexCollection, opts)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", args[0], err)
		}

		cmd.Printf("Indexed %d files (%d candidates) into %q: %d chunks in %s\n",
			summary.FilesLoaded, summary.Candidates, indexCollection,
			summary.TotalChunks, formatDuration(time.Since(start)))
		if summary.TotalChunks > 0 {
			cmd.Printf("Chunk sizes: min %d, max %d, mean %.0f\n",
				summary.ChunkStats.MinSize, summary.ChunkStats.MaxSize, summary.ChunkStats.MeanSize)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexCollection, "collection", "c", "default", "collection name")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "max chunk size in characters (default 1000)")
	indexCmd.Flags().IntVar(&indexChunkOverlap, "chunk-overlap", 0, "overlap between chunks in characters (default 200)")
	indexCmd.Flags().BoolVar(&indexOverwrite, "overwrite", false, "replace the collection if it already exists")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "rebuild the collection when files change")
	rootCmd.AddCommand(indexCmd)
}
