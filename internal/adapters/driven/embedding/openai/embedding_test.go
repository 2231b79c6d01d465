package openai

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

// newTestService points a service at a stub API server.
func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	})

	t.Run("defaults applied", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, 1536, svc.Dimensions())
	})

	t.Run("known model dimensions", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
		require.NoError(t, err)
		assert.Equal(t, 3072, svc.Dimensions())
	})
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns embeddings in input order", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req embeddingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			// Answer out of order to exercise index-based reassembly.
			resp := map[string]any{
				"data": []map[string]any{
					{"embedding": []float64{2, 0}, "index": 1},
					{"embedding": []float64{1, 0}, "index": 0},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		})

		embeddings, err := svc.EmbedBatch(ctx, []string{"first", "second"})
		require.NoError(t, err)
		require.Len(t, embeddings, 2)
		assert.Equal(t, []float32{1, 0}, embeddings[0])
		assert.Equal(t, []float32{2, 0}, embeddings[1])
	})

	t.Run("empty input", func(t *testing.T) {
		svc := newTestService(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("no request expected for empty input")
		})

		embeddings, err := svc.EmbedBatch(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, embeddings)
	})

	t.Run("api error surfaced", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
		})

		_, err := svc.EmbedBatch(ctx, []string{"text"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})
}

func TestEmbeddingService_Embed(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.5, -0.5}, "index": 0},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	embedding, err := svc.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, embedding)
}

func TestEmbeddingService_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})
		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		assert.Error(t, svc.Ping(context.Background()))
	})
}
