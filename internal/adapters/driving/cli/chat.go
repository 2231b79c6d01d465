package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/codequery/codequery-cli/internal/adapters/driving/tui"
	"github.com/codequery/codequery-cli/internal/core/services"
)

var chatCollection string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session over a collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		index := services.NewVectorIndex(embedder, backend, chatCollection, persistDir())
		if err := index.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading collection %q: %w", chatCollection, err)
		}

		session := services.NewSession(chatCollection)
		svc := services.NewAskService(index, answerer, session)

		program := tea.NewProgram(tui.New(svc, session), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatCollection, "collection", "c", "default", "collection name")
	rootCmd.AddCommand(chatCmd)
}
