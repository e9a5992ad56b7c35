package embeddings

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Gemini and Vertex AI embeddings through the Google GenAI SDK.
// Docs: https://ai.google.dev/gemini-api/docs/embeddings

const (
	defaultGeminiModel = "gemini-embedding-001"
	defaultVertexModel = "text-embedding-005"
	// The embed screen renders 512-dimensional vectors.
	defaultGeminiDims = 512
	defaultVertexDims = 768
)

type genaiProvider struct {
	client *genai.Client
	name   string
	model  string
	dims   int
}

func newGemini(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is required for provider gemini", ErrNotConfigured)
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultGeminiDims
	}
	return newGenAIProvider(ctx, "gemini", model, dims, cc)
}

func newVertex(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.VertexProject == "" || cfg.VertexLocation == "" {
		return nil, fmt.Errorf("%w: VERTEX_PROJECT and VERTEX_LOCATION are required for provider vertexai", ErrNotConfigured)
	}
	cc := &genai.ClientConfig{
		Project:    cfg.VertexProject,
		Location:   cfg.VertexLocation,
		Backend:    genai.BackendVertexAI,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	model := cfg.Model
	if model == "" {
		model = defaultVertexModel
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultVertexDims
	}
	return newGenAIProvider(ctx, "vertexai", model, dims, cc)
}

func newGenAIProvider(ctx context.Context, name, model string, dims int, cc *genai.ClientConfig) (Provider, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", name, err)
	}
	return &genaiProvider{client: client, name: name, model: model, dims: dims}, nil
}

func (p *genaiProvider) Name() string    { return p.name }
func (p *genaiProvider) Model() string   { return p.model }
func (p *genaiProvider) Dimensions() int { return p.dims }

func (p *genaiProvider) Embed(ctx context.Context, task TaskType, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	contents := make([]*genai.Content, len(inputs))
	for i, in := range inputs {
		contents[i] = genai.NewContentFromText(in, genai.RoleUser)
	}
	conf := &genai.EmbedContentConfig{TaskType: string(task)}
	if p.dims > 0 {
		d := int32(p.dims)
		conf.OutputDimensionality = &d
	}
	resp, err := p.client.Models.EmbedContent(ctx, p.model, contents, conf)
	if err != nil {
		return nil, fmt.Errorf("%s embed failed: %w", p.name, err)
	}
	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			continue
		}
		out[i] = e.Values
	}
	return out, nil
}
