package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codequery/codequery-cli/internal/core/services"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage stored collections",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		backend, err := openBackend()
		if err != nil {
			return err
		}
		defer backend.Close()

		svc := services.NewCollectionService(backend, persistDir())
		names, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(names) == 0 {
			cmd.Println("No collections. Run 'codequery index <path>' to create one.")
			return nil
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a collection and its vectors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend()
		if err != nil {
			return err
		}
		defer backend.Close()

		svc := services.NewCollectionService(backend, persistDir())
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting collection %q: %w", args[0], err)
		}
		cmd.Printf("Deleted collection %q\n", args[0])
		return nil
	},
}

func init() {
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)
	rootCmd.AddCommand(collectionsCmd)
}
