package cli

import (
	"github.com/spf13/cobra"

	"github.com/codequery/codequery-cli/internal/core/services"
)

var statsCollection string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		backend, err := openBackend()
		if err != nil {
			return err
		}
		defer backend.Close()

		svc := services.NewCollectionService(backend, persistDir())
		stats, err := svc.Stats(cmd.Context(), statsCollection)
		if err != nil {
			return err
		}

		cmd.Printf("Collection:   %s\n", stats.CollectionName)
		cmd.Printf("Total chunks: %d\n", stats.TotalChunks)
		cmd.Printf("Storage:      %s\n", stats.PersistDir)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsCollection, "collection", "c", "default", "collection name")
	rootCmd.AddCommand(statsCmd)
}
