package embeddings

import (
	"context"
	"strings"
)

// Dimension adapt modes for providers that cannot size vectors natively.
const (
	AdaptPadOrTruncate = "pad_or_truncate"
	AdaptTruncate      = "truncate"
	AdaptPad           = "pad"
)

// resizer forces every vector from an inner Provider to a fixed length.
type resizer struct {
	inner Provider
	dims  int
	mode  string
}

// WrapToDims returns a Provider whose vectors always have targetDims entries.
// It returns base itself when no resizing is needed. An empty mode means
// AdaptPadOrTruncate.
func WrapToDims(base Provider, targetDims int, mode string) Provider {
	if base == nil || targetDims <= 0 || base.Dimensions() == targetDims {
		return base
	}
	m := strings.ToLower(strings.TrimSpace(mode))
	if m == "" {
		m = AdaptPadOrTruncate
	}
	return &resizer{inner: base, dims: targetDims, mode: m}
}

func (r *resizer) Name() string    { return r.inner.Name() }
func (r *resizer) Model() string   { return r.inner.Model() }
func (r *resizer) Dimensions() int { return r.dims }

func (r *resizer) Embed(ctx context.Context, task TaskType, inputs []string) ([][]float32, error) {
	raw, err := r.inner.Embed(ctx, task, inputs)
	if err != nil {
		return nil, err
	}
	resized := make([][]float32, 0, len(raw))
	for _, v := range raw {
		resized = append(resized, adaptVector(v, r.dims, r.mode))
	}
	return resized, nil
}

// adaptVector always returns a fresh slice so callers never alias provider memory.
// AdaptTruncate only shortens and AdaptPad only lengthens; other sizes pass through.
// Truncated vectors are not re-normalized; cosine similarity is scale-invariant.
func adaptVector(v []float32, target int, mode string) []float32 {
	size := target
	switch {
	case target <= 0:
		size = len(v)
	case mode == AdaptTruncate && len(v) < target:
		size = len(v)
	case mode == AdaptPad && len(v) > target:
		size = len(v)
	}
	out := make([]float32, size)
	copy(out, v)
	return out
}
