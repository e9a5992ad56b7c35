package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskType(t *testing.T) {
	assert.Equal(t, TaskSemanticSimilarity, ParseTaskType(""))
	assert.Equal(t, TaskClustering, ParseTaskType(" clustering "))
	assert.Equal(t, TaskRetrievalQuery, ParseTaskType("RETRIEVAL_QUERY"))
	assert.Equal(t, TaskSemanticSimilarity, ParseTaskType("poetry"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "gemini", NormalizeName(""))
	assert.Equal(t, "gemini", NormalizeName("Google"))
	assert.Equal(t, "vertexai", NormalizeName("vertex"))
	assert.Equal(t, "localai", NormalizeName("llama.cpp"))
	assert.Equal(t, "cohere", NormalizeName("Cohere"))
}

func TestNewRequiresCredentials(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"gemini", "vertexai", "openai", "ollama"} {
		_, err := New(ctx, Config{Provider: name})
		assert.ErrorIs(t, err, ErrNotConfigured, name)
	}
	_, err := New(ctx, Config{Provider: "cohere"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestNewGeminiDefaults(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: "gemini", GeminiAPIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "gemini-embedding-001", p.Model())
	assert.Equal(t, 512, p.Dimensions())

	p, err = New(context.Background(), Config{Provider: "gemini", GeminiAPIKey: "test-key", Model: "text-embedding-004", Dimensions: 768})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-004", p.Model())
	assert.Equal(t, 768, p.Dimensions())
}

func TestNewLocalAIDefaults(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: "localai"})
	require.NoError(t, err)
	assert.Equal(t, "localai", p.Name())
	assert.Equal(t, 1536, p.Dimensions())

	p, err = New(context.Background(), Config{Provider: "localai", Dimensions: 384})
	require.NoError(t, err)
	assert.Equal(t, 384, p.Dimensions())
}
