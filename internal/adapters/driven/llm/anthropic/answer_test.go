package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequery/codequery-cli/internal/core/domain"
)

func testHits() []domain.SearchHit {
	return []domain.SearchHit{
		{Content: "func main() {}", RelativePath: "cmd/app/main.go", FileName: "main.go", ChunkIndex: 0, Score: 0.1},
		{Content: "type Server struct {}", RelativePath: "internal/server/server.go", FileName: "server.go", ChunkIndex: 2, Score: 0.3},
	}
}

func TestNewAnswerService(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewAnswerService(Config{})
		assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	})

	t.Run("defaults applied", func(t *testing.T) {
		svc, err := NewAnswerService(Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
	})
}

func TestAnswerService_GenerateAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("grounded answer with sources", func(t *testing.T) {
		var gotReq messagesRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			resp := map[string]any{
				"content":     []map[string]any{{"type": "text", "text": "The entry point is main()."}},
				"stop_reason": "end_turn",
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer server.Close()

		svc, err := NewAnswerService(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		answer, err := svc.GenerateAnswer(ctx, "where is the entry point?", testHits())
		require.NoError(t, err)

		assert.Equal(t, "The entry point is main().", answer.Text)
		assert.Equal(t, []string{"cmd/app/main.go", "internal/server/server.go"}, answer.Sources)
		assert.Equal(t, 2, answer.ChunksUsed)
		assert.Equal(t, DefaultModel, answer.Model)

		// Generation must be deterministic and bounded.
		assert.Zero(t, gotReq.Temperature)
		assert.Equal(t, DefaultMaxTokens, gotReq.MaxTokens)
		require.Len(t, gotReq.Messages, 1)
		assert.Contains(t, gotReq.Messages[0].Content, "where is the entry point?")
		assert.Contains(t, gotReq.Messages[0].Content, "File: cmd/app/main.go (Part 1)")
	})

	t.Run("api error surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "max_tokens too large"}}`))
		}))
		defer server.Close()

		svc, err := NewAnswerService(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.GenerateAnswer(ctx, "question", testHits())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_tokens too large")
	})
}

func TestFormatContext(t *testing.T) {
	t.Run("labels chunks with file and part", func(t *testing.T) {
		out := formatContext(testHits())
		assert.Contains(t, out, "File: cmd/app/main.go (Part 1)")
		assert.Contains(t, out, "File: internal/server/server.go (Part 3)")
		assert.Contains(t, out, "func main() {}")
	})

	t.Run("no hits", func(t *testing.T) {
		out := formatContext(nil)
		assert.Equal(t, "No relevant code found in the codebase.", out)
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("what does Server do?", "some context")
	assert.Contains(t, prompt, "CODE CONTEXT:\nsome context")
	assert.Contains(t, prompt, "USER QUESTION:\nwhat does Server do?")
	assert.Contains(t, prompt, "based ONLY on the provided code context")
}
