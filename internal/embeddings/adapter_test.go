package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	dims int
	vecs [][]float32
}

func (s *staticProvider) Name() string    { return "static" }
func (s *staticProvider) Model() string   { return "static-1" }
func (s *staticProvider) Dimensions() int { return s.dims }
func (s *staticProvider) Embed(context.Context, TaskType, []string) ([][]float32, error) {
	return s.vecs, nil
}

func TestWrapToDimsReturnsBaseWhenMatching(t *testing.T) {
	base := &staticProvider{dims: 4}
	assert.Same(t, Provider(base), WrapToDims(base, 4, ""))
	assert.Same(t, Provider(base), WrapToDims(base, 0, ""))
	assert.Nil(t, WrapToDims(nil, 4, ""))
}

func TestWrapToDimsPadOrTruncate(t *testing.T) {
	base := &staticProvider{dims: 3, vecs: [][]float32{{1, 2, 3}, {4, 5}}}
	p := WrapToDims(base, 2, "")
	require.Equal(t, 2, p.Dimensions())
	assert.Equal(t, "static", p.Name())
	assert.Equal(t, "static-1", p.Model())

	out, err := p.Embed(context.Background(), TaskSemanticSimilarity, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {4, 5}}, out)

	out, err = WrapToDims(base, 4, "pad_or_truncate").Embed(context.Background(), TaskSemanticSimilarity, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2, 3, 0}, {4, 5, 0, 0}}, out)
}

func TestAdaptVectorModes(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.Equal(t, []float32{1, 2, 3}, adaptVector(v, 5, "truncate"))
	assert.Equal(t, []float32{1, 2}, adaptVector(v, 2, "truncate"))
	assert.Equal(t, []float32{1, 2, 3, 0}, adaptVector(v, 4, "pad"))
	assert.Equal(t, []float32{1, 2, 3}, adaptVector(v, 2, "pad"))

	out := adaptVector(v, 3, "")
	out[0] = 42
	assert.Equal(t, float32(1), v[0], "adapted vectors must not alias the input")
}
