// Package anthropic provides an answer-generation adapter using the
// Anthropic API.
package anthropic

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
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-haiku-4-5-20251001"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 2048

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic answer service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use for generation.
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxTokens caps the generated answer length (default: 2048).
	MaxTokens int
}

// AnswerService generates grounded answers using the Anthropic API.
// Generation is deterministic (temperature 0) so repeated questions over an
// unchanged collection give stable answers.
type AnswerService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnswerService creates a new Anthropic answer service.
func NewAnswerService(cfg Config) (*AnswerService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w (set ANTHROPIC_API_KEY)", domain.ErrMissingAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &AnswerService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// GenerateAnswer produces an answer to the question grounded in the
// retrieved chunks, with file-level citations.
func (s *AnswerService) GenerateAnswer(ctx context.Context, question string, hits []domain.SearchHit) (*domain.Answer, error) {
	prompt := buildPrompt(question, formatContext(hits))

	reqBody := messagesRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: 0,
		Messages: []messagesMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return nil, fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	var text strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	sources := make([]string, len(hits))
	for i, hit := range hits {
		sources[i] = hit.RelativePath
	}

	return &domain.Answer{
		Text:       text.String(),
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

// formatContext renders retrieved chunks as labelled code blocks so the
// model can cite file paths.
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

// buildPrompt instructs the model to answer only from the supplied context.
func buildPrompt(question, context string) string {
	return fmt.Sprintf(`You are an expert code documentation assistant helping developers understand a codebase.

CODE CONTEXT:
%s

USER QUESTION:
%s

INSTRUCTIONS:
1. Answer the question based ONLY on the provided code context
2. Include specific file paths and function/class names when referencing code
3. Use code examples from the context when helpful
4. Be concise but complete - aim for clarity
5. If the code context doesn't contain enough information to answer,
   say "The provided code doesn't contain information about this."
6. Structure your answer with clear sections if answering multiple points

Format your answer to be helpful for a developer reading it.

ANSWER:`, context, question)
}
