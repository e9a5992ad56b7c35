// Package similarity embeds exactly three texts through an external provider
// and scores every pair with cosine similarity.
package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
)

// TextCount is the number of texts compared in one run.
const TextCount = 3

// Result holds the provider vectors and the pairwise scores of one run.
type Result struct {
	Embeddings   []apptype.Embedding
	Similarities []apptype.SimilarityScore
}

// Engine runs comparisons against a single provider. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	provider embeddings.Provider
	task     embeddings.TaskType
	log      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTaskType sets the default task type hint sent to the provider.
func WithTaskType(t embeddings.TaskType) Option {
	return func(e *Engine) { e.task = t }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an engine bound to provider.
func NewEngine(provider embeddings.Provider, opts ...Option) *Engine {
	e := &Engine{provider: provider, task: embeddings.TaskSemanticSimilarity, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Provider returns the underlying embeddings provider.
func (e *Engine) Provider() embeddings.Provider { return e.provider }

// TaskType returns the default task type.
func (e *Engine) TaskType() embeddings.TaskType { return e.task }

// Compare embeds texts with the default task type and scores all pairs.
func (e *Engine) Compare(ctx context.Context, texts []string) (*Result, error) {
	return e.CompareTask(ctx, e.task, texts)
}

// CompareTask is Compare with an explicit task type hint.
func (e *Engine) CompareTask(ctx context.Context, task embeddings.TaskType, texts []string) (*Result, error) {
	if err := ValidateTexts(texts); err != nil {
		return nil, err
	}
	if task == "" {
		task = e.task
	}

	vecs, err := e.embed(ctx, task, texts)
	if err != nil {
		return nil, err
	}
	for i, v := range vecs {
		if magnitude(v) == 0 {
			return nil, fmt.Errorf("text %d: %w", i, ErrDegenerateVector)
		}
	}

	scores := make([]apptype.SimilarityScore, 0, len(Pairs))
	for _, pair := range Pairs {
		i, j := pair[0], pair[1]
		s, err := Cosine(vecs[i], vecs[j])
		if err != nil {
			return nil, fmt.Errorf("texts %d and %d: %w", i, j, err)
		}
		metrics.Default().ObserveSimilarity(fmt.Sprintf("%d-%d", i, j), s)
		scores = append(scores, apptype.SimilarityScore{
			Text1Index: i,
			Text2Index: j,
			Text1:      texts[i],
			Text2:      texts[j],
			Similarity: s,
		})
	}
	e.log.Debug("comparison complete",
		zap.String("provider", e.provider.Name()),
		zap.Int("dimensions", len(vecs[0])),
		zap.Float64("sim01", scores[0].Similarity),
		zap.Float64("sim02", scores[1].Similarity),
		zap.Float64("sim12", scores[2].Similarity))
	return &Result{Embeddings: vecs, Similarities: scores}, nil
}

// ValidateTexts rejects inputs that would never reach the provider.
func ValidateTexts(texts []string) error {
	if len(texts) != TextCount {
		return fmt.Errorf("%w: got %d", ErrInvalidInputCount, len(texts))
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: text %d", ErrEmptyText, i)
		}
	}
	return nil
}

// embed performs the single provider call and converts the loosely shaped
// response into typed, validated vectors.
func (e *Engine) embed(ctx context.Context, task embeddings.TaskType, texts []string) ([]apptype.Embedding, error) {
	if e.provider == nil {
		return nil, &ProviderError{Provider: "none", Err: embeddings.ErrNotConfigured}
	}
	name := e.provider.Name()
	raw, err := e.provider.Embed(ctx, task, texts)
	if err != nil {
		return nil, &ProviderError{Provider: name, Err: err}
	}
	if len(raw) != len(texts) {
		return nil, &ProviderError{Provider: name, Err: fmt.Errorf("returned %d embeddings for %d texts", len(raw), len(texts))}
	}
	dims := len(raw[0])
	out := make([]apptype.Embedding, len(raw))
	for i, v := range raw {
		if len(v) == 0 {
			return nil, &ProviderError{Provider: name, Err: fmt.Errorf("empty embedding for text %d", i)}
		}
		if len(v) != dims {
			return nil, &ProviderError{Provider: name, Err: fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(v), dims)}
		}
		for k, x := range v {
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				return nil, &ProviderError{Provider: name, Err: fmt.Errorf("embedding %d has non-finite value at %d", i, k)}
			}
		}
		vec := make(apptype.Embedding, len(v))
		copy(vec, v)
		out[i] = vec
	}
	return out, nil
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
