// Package ollama provides an answer-generation adapter using a local
// Ollama server. It reuses the same prompt shape as the anthropic adapter
// so answers stay comparable across providers.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codequery/codequery-cli/internal/core/domain"
	"github.com/codequery/codequery-cli/internal/core/ports/driven"
)

// Ensure AnswerService implements the interface.
var _ driven.AnswerService = (*AnswerService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1"
	DefaultTimeout = 300 * time.Second
)

// Config holds configuration for the Ollama answer service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use for generation (default: llama3.1).
	Model string

	// Timeout is the request timeout (default: 300s, local inference is slow).
	Timeout time.Duration
}

// AnswerService generates grounded answers using a local Ollama server.
type AnswerService struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewAnswerService creates a new Ollama answer service.
func NewAnswerService(cfg Config) *AnswerService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &AnswerService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// GenerateAnswer produces an answer to the question grounded in the
// retrieved chunks.
func (s *AnswerService) GenerateAnswer(ctx context.Context, question string, hits []domain.SearchHit) (*domain.Answer, error) {
	prompt := buildPrompt(question, formatContext(hits))

	reqBody := generateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": 0},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	sources := make([]string, len(hits))
	for i, hit := range hits {
		sources[i] = hit.RelativePath
	}

	return &domain.Answer{
		Text:       genResp.Response,
		Sources:    sources,
		ChunksUsed: len(hits),
		Model:      s.model,
	}, nil
}

// ModelName returns the name of the model being used.
func (s *AnswerService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *AnswerService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func formatContext(hits []domain.SearchHit) string {
	if len(hits) == 0 {
		return "No relevant code found in the codebase."
	}

	sections := make([]string, 0, len(hits))
	for _, hit := range hits {
		sections = append(sections, fmt.Sprintf("File: %s (Part %d)\n```\n%s\n```\n",
			hit.RelativePath, hit.ChunkIndex+1, hit.Content))
	}
	return strings.Join(sections, "\n")
}

func buildPrompt(question, context string) string {
	return fmt.Sprintf(`You are an expert code documentation assistant helping developers understand a codebase.

CODE CONTEXT:
%s

USER QUESTION:
%s

INSTRUCTIONS:
1. Answer the question based ONLY on the provided code context
2. Include specific file paths and function/class names when referencing code
3. If the code context doesn't contain enough information to answer,
   say "The provided code doesn't contain information about this."

ANSWER:`, context, question)
}
