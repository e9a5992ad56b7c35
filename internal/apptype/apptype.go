package apptype

import "time"

// Embedding is a single embedding vector returned by a provider.
type Embedding []float32

// EmbeddingValues mirrors the provider response shape ({"values": [...]}) for display.
type EmbeddingValues struct {
	Values Embedding `json:"values"`
}

// SimilarityScore is the cosine similarity between two of the compared texts.
// Text1Index is always lower than Text2Index.
type SimilarityScore struct {
	Text1Index int     `json:"text1Index"`
	Text2Index int     `json:"text2Index"`
	Text1      string  `json:"text1,omitempty"`
	Text2      string  `json:"text2,omitempty"`
	Similarity float64 `json:"similarity"`
}

// Canvas describes the drawing area used for the triangulated layout.
type Canvas struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	NodeRadius float64 `json:"nodeRadius"`
	Padding    float64 `json:"padding"`
}

// NodePosition is the clamped position of one text node.
type NodePosition struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Edge connects two nodes; Opacity equals the pair's similarity.
type Edge struct {
	From       int     `json:"from"`
	To         int     `json:"to"`
	Similarity float64 `json:"similarity"`
	Opacity    float64 `json:"opacity"`
}

// Layout is the render-ready result of triangulation.
type Layout struct {
	Canvas Canvas         `json:"canvas"`
	Nodes  []NodePosition `json:"nodes"`
	Edges  []Edge         `json:"edges"`
}

// Comparison is the full result of one compare run.
type Comparison struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model"`
	TaskType     string            `json:"taskType"`
	Dimensions   int               `json:"dimensions"`
	Texts        []string          `json:"texts"`
	Embeddings   []Embedding       `json:"embeddings,omitempty"`
	Similarities []SimilarityScore `json:"similarities"`
	Layout       Layout            `json:"layout"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ComparisonSummary is the list view of a stored comparison.
type ComparisonSummary struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model"`
	Texts        []string          `json:"texts"`
	Similarities []SimilarityScore `json:"similarities"`
	CreatedAt    time.Time         `json:"createdAt"`
}
