// Package cli implements the cobra command tree that drives the core.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/codequery/codequery-cli/internal/adapters/driven/config/file"
	embollama "github.com/codequery/codequery-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/codequery/codequery-cli/internal/adapters/driven/embedding/openai"
	llmanthropic "github.com/codequery/codequery-cli/internal/adapters/driven/llm/anthropic"
	llmollama "github.com/codequery/codequery-cli/internal/adapters/driven/llm/ollama"
	"github.com/codequery/codequery-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
	"github.com/codequery/codequery-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagDataDir string
)

// configStore is initialised once in the persistent pre-run.
var configStore *configfile.ConfigStore

var rootCmd = &cobra.Command{
	Use:   "codequery",
	Short: "Ask questions about a codebase",
	Long: `codequery indexes a repository's source files into a searchable
vector collection and answers natural-language questions about the code,
grounded in retrieved chunks with file-level citations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		store, err := configfile.NewConfigStore("")
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		configStore = store
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "storage root for collections (default ~/.codequery/data)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// persistDir resolves the storage root from the flag, config, or default.
func persistDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	if dir := configStore.GetString(configfile.KeyPersistDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codequery-data"
	}
	return filepath.Join(home, ".codequery", "data")
}

// openBackend opens the vector store under the resolved storage root.
func openBackend() (*sqlite.Store, error) {
	store, err := sqlite.NewStore(persistDir())
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return store, nil
}

// buildEmbedder constructs the configured embedding service.
// Provider selection comes from config; credentials come from environment.
func buildEmbedder() (driven.EmbeddingService, error) {
	provider := configStore.GetStringOr(configfile.KeyEmbeddingProvider, "openai")

	switch provider {
	case "openai":
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  configStore.GetString(configfile.KeyEmbeddingModel),
		})
	case "ollama":
		return embollama.NewEmbeddingService(embollama.Config{
			Model: configStore.GetString(configfile.KeyEmbeddingModel),
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildAnswerer constructs the configured answer-generation service.
func buildAnswerer() (driven.AnswerService, error) {
	provider := configStore.GetStringOr(configfile.KeyLLMProvider, "anthropic")

	switch provider {
	case "anthropic":
		return llmanthropic.NewAnswerService(llmanthropic.Config{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  configStore.GetString(configfile.KeyLLMModel),
		})
	case "ollama":
		return llmollama.NewAnswerService(llmollama.Config{
			Model: configStore.GetString(configfile.KeyLLMModel),
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// formatDuration renders elapsed time for command summaries.
func formatDuration(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}
