package apptype

// CompareTextsArgs represents the arguments for the compare_texts tool
type CompareTextsArgs struct {
	Texts             []string `json:"texts" jsonschema:"Exactly three non-empty texts to compare."`
	TaskType          string   `json:"taskType,omitempty" jsonschema:"Embedding task type hint (default SEMANTIC_SIMILARITY)."`
	IncludeEmbeddings bool     `json:"includeEmbeddings,omitempty" jsonschema:"Whether to include the raw embedding vectors in the result."`
}

// LayoutArgs represents the arguments for the layout_similarities tool
type LayoutArgs struct {
	Similarities []SimilarityScore `json:"similarities" jsonschema:"Pairwise similarity scores keyed by text index pair."`
	Canvas       *Canvas           `json:"canvas,omitempty" jsonschema:"Optional canvas; defaults to 400x300 with padding 30."`
}

// LayoutResult wraps a layout for structured tool output.
type LayoutResult struct {
	Layout Layout `json:"layout"`
}

// GetComparisonArgs represents the arguments for the get_comparison tool
type GetComparisonArgs struct {
	ID                string `json:"id" jsonschema:"Comparison id returned by compare_texts."`
	IncludeEmbeddings bool   `json:"includeEmbeddings,omitempty" jsonschema:"Whether to include the stored embedding vectors."`
}

// ListComparisonsArgs represents the arguments for the list_comparisons tool
type ListComparisonsArgs struct {
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of comparisons to return (default 10)."`
	Offset int `json:"offset,omitempty" jsonschema:"Number of comparisons to skip (for pagination)."`
}

// ComparisonResult is the structured output of compare_texts and get_comparison.
// CreatedAt is RFC 3339.
type ComparisonResult struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model"`
	TaskType     string            `json:"taskType"`
	Dimensions   int               `json:"dimensions"`
	Texts        []string          `json:"texts"`
	Embeddings   []Embedding       `json:"embeddings,omitempty"`
	Similarities []SimilarityScore `json:"similarities"`
	Layout       Layout            `json:"layout"`
	CreatedAt    string            `json:"createdAt"`
}

type ComparisonSummaryResult struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	Model        string            `json:"model"`
	Texts        []string          `json:"texts"`
	Similarities []SimilarityScore `json:"similarities"`
	CreatedAt    string            `json:"createdAt"`
}

// ListComparisonsResult is the structured output of list_comparisons.
type ListComparisonsResult struct {
	Comparisons []ComparisonSummaryResult `json:"comparisons"`
}

// Health
type HealthArgs struct{}

type HealthResult struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Revision   string `json:"revision"`
	BuildDate  string `json:"build_date"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	History    bool   `json:"history"`
}
