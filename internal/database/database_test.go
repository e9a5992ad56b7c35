package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
)

func setupTestStore(t testing.TB) *Store {
	t.Helper()
	store, err := Open(context.Background(), &Config{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func sampleComparison() *apptype.Comparison {
	texts := []string{"the cat sat", "the cat sat", "a spaceship launched"}
	return &apptype.Comparison{
		Provider:   "gemini",
		Model:      "gemini-embedding-001",
		TaskType:   "SEMANTIC_SIMILARITY",
		Dimensions: 3,
		Texts:      texts,
		Embeddings: []apptype.Embedding{{1, 0, 0}, {1, 0, 0}, {0, 0.5, -0.25}},
		Similarities: []apptype.SimilarityScore{
			{Text1Index: 0, Text2Index: 1, Text1: texts[0], Text2: texts[1], Similarity: 1},
			{Text1Index: 0, Text2Index: 2, Text1: texts[0], Text2: texts[2], Similarity: 0.125},
			{Text1Index: 1, Text2Index: 2, Text1: texts[1], Text2: texts[2], Similarity: 0.125},
		},
		Layout: apptype.Layout{
			Canvas: apptype.Canvas{Width: 400, Height: 300, NodeRadius: 20, Padding: 30},
			Nodes:  []apptype.NodePosition{{Index: 0, X: 200, Y: 90}, {Index: 1, X: 228.28, Y: 118.28}, {Index: 2, X: 110.5, Y: 208}},
			Edges:  []apptype.Edge{{From: 0, To: 1, Similarity: 1, Opacity: 1}},
		},
	}
}

func TestSaveAndGetComparison(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	assert.Equal(t, "sqlite", store.Driver())

	c := sampleComparison()
	require.NoError(t, store.SaveComparison(ctx, c))
	require.NotEmpty(t, c.ID)
	require.False(t, c.CreatedAt.IsZero())

	got, err := store.GetComparison(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Provider, got.Provider)
	assert.Equal(t, c.Model, got.Model)
	assert.Equal(t, c.TaskType, got.TaskType)
	assert.Equal(t, c.Dimensions, got.Dimensions)
	assert.Equal(t, c.Texts, got.Texts)
	assert.Equal(t, c.Embeddings, got.Embeddings)
	assert.Equal(t, c.Similarities, got.Similarities)
	assert.Equal(t, c.Layout, got.Layout)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
}

func TestSaveWithoutEmbeddings(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	c := sampleComparison()
	c.Embeddings = nil
	require.NoError(t, store.SaveComparison(ctx, c))

	got, err := store.GetComparison(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Embeddings)
	assert.Len(t, got.Similarities, 3)
}

func TestSaveRejectsEmpty(t *testing.T) {
	store := setupTestStore(t)
	assert.Error(t, store.SaveComparison(context.Background(), &apptype.Comparison{}))
	assert.Error(t, store.SaveComparison(context.Background(), nil))
}

func TestGetComparisonNotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetComparison(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListComparisons(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	empty, err := store.ListComparisons(ctx, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c := sampleComparison()
		c.ID = fmt.Sprintf("cmp-%d", i)
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.SaveComparison(ctx, c))
	}

	page, err := store.ListComparisons(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "cmp-4", page[0].ID)
	assert.Equal(t, "cmp-3", page[1].ID)
	assert.Equal(t, []string{"the cat sat", "the cat sat", "a spaceship launched"}, page[0].Texts)
	require.Len(t, page[0].Similarities, 3)
	assert.Equal(t, "a spaceship launched", page[0].Similarities[2].Text2)

	page, err = store.ListComparisons(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "cmp-0", page[0].ID)

	all, err := store.ListComparisons(ctx, 1000, -1)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDeleteComparison(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	c := sampleComparison()
	require.NoError(t, store.SaveComparison(ctx, c))
	require.NoError(t, store.DeleteComparison(ctx, c.ID))

	_, err := store.GetComparison(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteComparison(ctx, c.ID), ErrNotFound)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &Config{Driver: "postgres", URL: "x"})
	assert.Error(t, err)
}

func TestDataSourceName(t *testing.T) {
	cfg := &Config{URL: "libsql://db.turso.io", AuthToken: "tok en"}
	assert.Equal(t, "libsql://db.turso.io?authToken=tok+en", dataSourceName("libsql", cfg))

	cfg = &Config{URL: "file:./textsim.db", AuthToken: "tok"}
	assert.Equal(t, "file:./textsim.db", dataSourceName("libsql", cfg))

	cfg = &Config{URL: ":memory:", AuthToken: "tok"}
	assert.Equal(t, ":memory:", dataSourceName("sqlite", cfg))
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0, -1.5, 3.25, 1e-7}
	got, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	got, err = decodeVector(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
