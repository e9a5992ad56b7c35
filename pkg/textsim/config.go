package textsim

import (
	"time"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/config"
	"github.com/ZanzyTHEbar/textsim-go/internal/database"
	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
)

// Config exposes a stable wrapper for provider and history configuration in
// package mode. Most fields map directly to internal/embeddings.Config and
// internal/database.Config.
type Config struct {
	Provider    string
	Model       string
	Dimensions  int
	TaskType    string
	AdaptMode   string
	HTTPTimeout time.Duration
	BaseURL     string

	GeminiAPIKey   string
	VertexProject  string
	VertexLocation string
	OpenAIAPIKey   string
	LocalAIBaseURL string
	LocalAIAPIKey  string
	OllamaHost     string

	HistoryEnabled   bool
	HistoryDriver    string
	HistoryURL       string
	HistoryAuthToken string
	MaxOpenConns     int

	Logger *zap.Logger
}

// FromConfig maps loaded application settings onto a service Config.
func FromConfig(c *config.Config, logger *zap.Logger) *Config {
	pc := c.ProviderConfig()
	return &Config{
		Provider:         pc.Provider,
		Model:            pc.Model,
		Dimensions:       pc.Dimensions,
		TaskType:         c.Embeddings.TaskType,
		AdaptMode:        pc.AdaptMode,
		HTTPTimeout:      pc.HTTPTimeout,
		BaseURL:          pc.BaseURL,
		GeminiAPIKey:     pc.GeminiAPIKey,
		VertexProject:    pc.VertexProject,
		VertexLocation:   pc.VertexLocation,
		OpenAIAPIKey:     pc.OpenAIAPIKey,
		LocalAIBaseURL:   pc.LocalAIBaseURL,
		LocalAIAPIKey:    pc.LocalAIAPIKey,
		OllamaHost:       pc.OllamaHost,
		HistoryEnabled:   c.History.Enabled,
		HistoryDriver:    c.History.Driver,
		HistoryURL:       c.History.URL,
		HistoryAuthToken: c.History.AuthToken,
		MaxOpenConns:     c.History.MaxOpenConns,
		Logger:           logger,
	}
}

func (c *Config) providerConfig() embeddings.Config {
	return embeddings.Config{
		Provider:       c.Provider,
		Model:          c.Model,
		Dimensions:     c.Dimensions,
		AdaptMode:      c.AdaptMode,
		HTTPTimeout:    c.HTTPTimeout,
		BaseURL:        c.BaseURL,
		GeminiAPIKey:   c.GeminiAPIKey,
		VertexProject:  c.VertexProject,
		VertexLocation: c.VertexLocation,
		OpenAIAPIKey:   c.OpenAIAPIKey,
		LocalAIBaseURL: c.LocalAIBaseURL,
		LocalAIAPIKey:  c.LocalAIAPIKey,
		OllamaHost:     c.OllamaHost,
	}
}

func (c *Config) historyConfig() *database.Config {
	return &database.Config{
		Driver:       c.HistoryDriver,
		URL:          c.HistoryURL,
		AuthToken:    c.HistoryAuthToken,
		MaxOpenConns: c.MaxOpenConns,
	}
}
