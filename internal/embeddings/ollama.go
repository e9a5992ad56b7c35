package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
)

type ollamaProvider struct {
	host  string
	model string
	dims  int
	http  *http.Client
}

func newOllama(cfg Config) (Provider, error) {
	host := strings.TrimSpace(cfg.OllamaHost)
	if cfg.BaseURL != "" {
		host = cfg.BaseURL
	}
	if host == "" {
		return nil, fmt.Errorf("%w: OLLAMA_HOST is required for provider ollama", ErrNotConfigured)
	}
	if _, err := url.Parse(host); err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}
	model := cfg.Model
	if model == "" {
		model = "nomic-embed-text"
	}
	return &ollamaProvider{host: host, model: model, dims: 768, http: &http.Client{Timeout: cfg.HTTPTimeout}}, nil
}

func (p *ollamaProvider) Name() string    { return "ollama" }
func (p *ollamaProvider) Model() string   { return p.model }
func (p *ollamaProvider) Dimensions() int { return p.dims }

// Embed calls /api/embed (Ollama v0.2.6+) and falls back to the legacy
// per-input /api/embeddings endpoint on 404/405. The task type is ignored.
func (p *ollamaProvider) Embed(ctx context.Context, _ TaskType, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	var out struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	status, err := p.post(ctx, "/api/embed", map[string]any{"model": p.model, "input": inputs}, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		return p.embedLegacy(ctx, inputs)
	}
	return out.Embeddings, nil
}

func (p *ollamaProvider) embedLegacy(ctx context.Context, inputs []string) ([][]float32, error) {
	results := make([][]float32, 0, len(inputs))
	for _, in := range inputs {
		var single struct {
			Embedding []float64 `json:"embedding"`
		}
		status, err := p.post(ctx, "/api/embeddings", map[string]any{"model": p.model, "prompt": in}, &single)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("ollama http status: %d", status)
		}
		if len(single.Embedding) == 0 {
			return nil, fmt.Errorf("ollama returned no embedding")
		}
		results = append(results, f64to32(single.Embedding))
	}
	return results, nil
}

// post sends body as JSON and decodes a 2xx response into out. 404 and 405
// are returned as status without error so callers can fall back.
func (p *ollamaProvider) post(ctx context.Context, endpoint string, body any, out any) (int, error) {
	u, err := url.Parse(p.host)
	if err != nil {
		return 0, err
	}
	u.Path = path.Join(u.Path, endpoint)
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
		return resp.StatusCode, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error != "" {
			return resp.StatusCode, fmt.Errorf("ollama error: %s", e.Error)
		}
		return resp.StatusCode, fmt.Errorf("ollama http status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode ollama response: %w", err)
	}
	return resp.StatusCode, nil
}

func f64to32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i := range v {
		out[i] = float32(v[i])
	}
	return out
}
