package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nomic-embed-text", body.Model)
		out := make([][]float32, len(body.Input))
		for i := range body.Input {
			out[i] = []float32{float32(i), 1}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": out})
	}))
	defer srv.Close()

	p, err := New(context.Background(), Config{Provider: "ollama", OllamaHost: srv.URL})
	require.NoError(t, err)
	vecs, err := p.Embed(context.Background(), TaskSemanticSimilarity, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}}, vecs)
}

func TestOllamaFallsBackToLegacyEndpoint(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embed":
			w.WriteHeader(http.StatusNotFound)
		case "/api/embeddings":
			calls++
			_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.5, 0.25}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p, err := New(context.Background(), Config{Provider: "ollama", OllamaHost: srv.URL})
	require.NoError(t, err)
	vecs, err := p.Embed(context.Background(), TaskSemanticSimilarity, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []float32{0.5, 0.25}, vecs[2])
}

func TestOllamaErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	p, err := New(context.Background(), Config{Provider: "ollama", OllamaHost: srv.URL, Dimensions: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Dimensions())
	_, err = p.Embed(context.Background(), TaskSemanticSimilarity, []string{"x"})
	assert.EqualError(t, err, "ollama error: model not found")
}
