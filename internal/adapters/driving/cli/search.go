package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codequery/codequery-cli/internal/core/services"
)

var (
	searchCollection string
	searchLimit      int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve the chunks most similar to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

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

		index := services.NewVectorIndex(embedder, backend, searchCollection, persistDir())
		if err := index.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading collection %q: %w", searchCollection, err)
		}

		hits, err := index.Search(cmd.Context(), query, searchLimit)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		}

		if len(hits) == 0 {
			cmd.Println("No results.")
			return nil
		}
		for i, hit := range hits {
			cmd.Printf("%d. %s (chunk %d, score %.4f)\n", i+1, hit.RelativePath, hit.ChunkIndex, hit.Score)
			cmd.Printf("   %s\n", snippet(hit.Content, 160))
		}
		return nil
	},
}

// snippet returns the first line of s, truncated to max runes.
func snippet(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}

func init() {
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "default", "collection name")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", services.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}
