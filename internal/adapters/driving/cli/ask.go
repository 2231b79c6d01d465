package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codequery/codequery-cli/internal/core/services"
)

var (
	askCollection string
	askTopK       int
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about an indexed codebase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

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

		answerer, err := buildAnswerer()
		if err != nil {
			return err
		}
		defer answerer.Close()

		index := services.NewVectorIndex(embedder, backend, askCollection, persistDir())
		if err := index.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading collection %q: %w", askCollection, err)
		}

		session := services.NewSession(askCollection)
		svc := services.NewAskService(index, answerer, session)

		answer, hits, err := svc.Ask(cmd.Context(), question, askTopK)
		if err != nil {
			return err
		}

		cmd.Println(answer.Text)
		if len(hits) > 0 {
			cmd.Println("\nSources:")
			for _, src := range answer.Sources {
				cmd.Printf("  %s\n", src)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "default", "collection name")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", services.DefaultTopK, "number of chunks to retrieve")
	rootCmd.AddCommand(askCmd)
}
