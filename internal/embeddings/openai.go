package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI embeddings and OpenAI-compatible servers (LocalAI, llama.cpp).

type openAIProvider struct {
	client *openai.Client
	name   string
	model  string
	dims   int
	// requestDims is sent as "dimensions"; only text-embedding-3 models accept it.
	requestDims int
}

func newOpenAI(cfg Config) (Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for provider openai", ErrNotConfigured)
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	oc := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	p := &openAIProvider{client: openai.NewClientWithConfig(oc), name: "openai", model: model, dims: defaultOpenAIDims(model)}
	if cfg.Dimensions > 0 && strings.Contains(model, "embedding-3") {
		p.dims = cfg.Dimensions
		p.requestDims = cfg.Dimensions
	}
	return p, nil
}

func newLocalAI(cfg Config) (Provider, error) {
	base := cfg.LocalAIBaseURL
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}
	if base == "" {
		base = "http://localhost:8080/v1"
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.AdaEmbeddingV2)
	}
	// LocalAI ignores the key unless started with --api-keys.
	oc := openai.DefaultConfig(cfg.LocalAIAPIKey)
	oc.BaseURL = base
	oc.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	var p Provider = &openAIProvider{client: openai.NewClientWithConfig(oc), name: "localai", model: model, dims: defaultOpenAIDims(model)}
	if cfg.Dimensions > 0 && cfg.Dimensions != p.Dimensions() {
		p = WrapToDims(p, cfg.Dimensions, cfg.AdaptMode)
	}
	return p, nil
}

func defaultOpenAIDims(model string) int {
	if strings.Contains(model, "large") {
		return 3072
	}
	return 1536
}

func (p *openAIProvider) Name() string    { return p.name }
func (p *openAIProvider) Model() string   { return p.model }
func (p *openAIProvider) Dimensions() int { return p.dims }

// Embed ignores the task type; OpenAI embeddings are task-agnostic.
func (p *openAIProvider) Embed(ctx context.Context, _ TaskType, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	req := openai.EmbeddingRequest{
		Input:      inputs,
		Model:      openai.EmbeddingModel(p.model),
		Dimensions: p.requestDims,
	}
	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s embeddings error: %w", p.name, err)
	}
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float32, len(data))
	for i, d := range data {
		out[i] = d.Embedding
	}
	return out, nil
}
