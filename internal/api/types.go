package api

import "github.com/ZanzyTHEbar/textsim-go/internal/apptype"

type EmbeddingsRequest struct {
	Texts    []string `json:"texts"`
	TaskType string   `json:"taskType,omitempty"`
}

type EmbeddingsResponse struct {
	Success      bool                      `json:"success"`
	ID           string                    `json:"id"`
	Provider     string                    `json:"provider"`
	Model        string                    `json:"model"`
	Dimensions   int                       `json:"dimensions"`
	Embeddings   []apptype.EmbeddingValues `json:"embeddings"`
	Similarities []apptype.SimilarityScore `json:"similarities"`
	Layout       apptype.Layout            `json:"layout"`
}

type LayoutRequest struct {
	Similarities []apptype.SimilarityScore `json:"similarities"`
	Canvas       *apptype.Canvas           `json:"canvas,omitempty"`
}

type LayoutResponse struct {
	Layout apptype.Layout `json:"layout"`
}

type ListResponse struct {
	Comparisons []apptype.ComparisonSummary `json:"comparisons"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	History    bool   `json:"history"`
}
