package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the selected provider lacks required settings.
var ErrNotConfigured = errors.New("embeddings provider not configured")

// TaskType hints the provider about the intended use of the embeddings.
type TaskType string

const (
	TaskSemanticSimilarity TaskType = "SEMANTIC_SIMILARITY"
	TaskClassification     TaskType = "CLASSIFICATION"
	TaskClustering         TaskType = "CLUSTERING"
	TaskRetrievalDocument  TaskType = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery     TaskType = "RETRIEVAL_QUERY"
	TaskQuestionAnswering  TaskType = "QUESTION_ANSWERING"
	TaskFactVerification   TaskType = "FACT_VERIFICATION"
	TaskCodeRetrievalQuery TaskType = "CODE_RETRIEVAL_QUERY"
)

// ParseTaskType normalizes s; unknown or empty values map to TaskSemanticSimilarity.
func ParseTaskType(s string) TaskType {
	t := TaskType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TaskSemanticSimilarity, TaskClassification, TaskClustering, TaskRetrievalDocument,
		TaskRetrievalQuery, TaskQuestionAnswering, TaskFactVerification, TaskCodeRetrievalQuery:
		return t
	default:
		return TaskSemanticSimilarity
	}
}

// Provider defines a simple embeddings provider interface.
// Implementations should be concurrency-safe.
type Provider interface {
	// Name returns the provider name (e.g., "gemini", "openai").
	Name() string
	// Model returns the embedding model identifier.
	Model() string
	// Dimensions returns the embedding dimensionality this provider produces.
	Dimensions() int
	// Embed returns one embedding per input string, in input order.
	Embed(ctx context.Context, task TaskType, inputs []string) ([][]float32, error)
}

// Config selects and configures a provider.
type Config struct {
	// Provider: "gemini", "vertexai", "openai", "localai" or "ollama".
	Provider string
	// Model overrides the provider's default model.
	Model string
	// Dimensions requests a specific output size. Zero keeps the model default.
	Dimensions int
	// AdaptMode controls WrapToDims for providers that cannot honor Dimensions natively.
	AdaptMode   string
	HTTPTimeout time.Duration
	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string

	GeminiAPIKey   string
	VertexProject  string
	VertexLocation string
	OpenAIAPIKey   string
	LocalAIBaseURL string
	LocalAIAPIKey  string
	OllamaHost     string
}

// Names lists the supported provider names.
func Names() []string {
	return []string{"gemini", "vertexai", "openai", "localai", "ollama"}
}

// NormalizeName maps provider aliases onto canonical names.
func NormalizeName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini", "google-gemini", "google_genai", "google":
		return "gemini"
	case "vertex", "vertexai", "google-vertex":
		return "vertexai"
	case "openai":
		return "openai"
	case "localai", "llamacpp", "llama.cpp":
		return "localai"
	case "ollama":
		return "ollama"
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

// New constructs the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	switch name := NormalizeName(cfg.Provider); name {
	case "gemini":
		return newGemini(ctx, cfg)
	case "vertexai":
		return newVertex(ctx, cfg)
	case "openai":
		return newOpenAI(cfg)
	case "localai":
		return newLocalAI(cfg)
	case "ollama":
		p, err := newOllama(cfg)
		if err != nil {
			return nil, err
		}
		// Ollama has no output-size knob.
		if cfg.Dimensions > 0 {
			return WrapToDims(p, cfg.Dimensions, cfg.AdaptMode), nil
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported embeddings provider %q (use one of %s)", cfg.Provider, strings.Join(Names(), ", "))
	}
}
