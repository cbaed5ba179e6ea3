package openaiEmbedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEmbeddingsServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// reply out of order to check the index sort
		data := make([]map[string]any, 0, len(body.Input))
		for i := len(body.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{float64(i), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  body.Model,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestBatchEmbeddingKeepsInputOrder(t *testing.T) {
	srv := fakeEmbeddingsServer(t)
	defer srv.Close()

	e := NewOpenAIEmbedder(config.ProviderSettings{Model: "text-embedding-3-small", APIKey: "sk-test"},
		option.WithBaseURL(srv.URL), option.WithHTTPClient(srv.Client()))

	vectors, err := e.BatchEmbedding(context.Background(), []string{"a", "b", "c"}, false)
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for i, v := range vectors {
		assert.Equal(t, float32(i), v[0])
	}
	assert.Equal(t, "openai/text-embedding-3-small", e.ModelId())
}

func TestGetEmbedding(t *testing.T) {
	srv := fakeEmbeddingsServer(t)
	defer srv.Close()

	e := NewOpenAIEmbedder(config.ProviderSettings{Model: "m", APIKey: "k"},
		option.WithBaseURL(srv.URL), option.WithHTTPClient(srv.Client()))
	v, err := e.GetEmbedding(context.Background(), "payment due date")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, v)
}

func TestBatchEmbeddingEmpty(t *testing.T) {
	e := NewOpenAIEmbedder(config.ProviderSettings{Model: "m"})
	v, err := e.BatchEmbedding(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(config.ProviderSettings{Model: "m", APIKey: "k"},
		option.WithBaseURL(srv.URL), option.WithHTTPClient(srv.Client()), option.WithMaxRetries(0))
	_, err := e.GetEmbedding(context.Background(), "q")
	assert.Error(t, err)
}
