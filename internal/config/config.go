// Package config loads textsim settings from .env, an optional YAML file and
// the process environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
)

type EmbeddingsConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TaskType   string `yaml:"task_type"`
	AdaptMode  string `yaml:"adapt_mode"`
	Timeout    string `yaml:"timeout"`
	BaseURL    string `yaml:"base_url"`

	GeminiAPIKey   string `yaml:"gemini_api_key"`
	VertexProject  string `yaml:"vertex_project"`
	VertexLocation string `yaml:"vertex_location"`
	OpenAIAPIKey   string `yaml:"openai_api_key"`
	LocalAIBaseURL string `yaml:"localai_base_url"`
	LocalAIAPIKey  string `yaml:"localai_api_key"`
	OllamaHost     string `yaml:"ollama_host"`
}

type HTTPConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type MCPConfig struct {
	SSEAddr     string `yaml:"sse_addr"`
	SSEEndpoint string `yaml:"sse_endpoint"`
}

type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Driver       string `yaml:"driver"`
	URL          string `yaml:"url"`
	AuthToken    string `yaml:"auth_token"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type MetricsConfig struct {
	Prometheus bool   `yaml:"prometheus"`
	Addr       string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	HTTP       HTTPConfig       `yaml:"http"`
	MCP        MCPConfig        `yaml:"mcp"`
	History    HistoryConfig    `yaml:"history"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Embeddings: EmbeddingsConfig{
			Provider:  "gemini",
			TaskType:  string(embeddings.TaskSemanticSimilarity),
			AdaptMode: embeddings.AdaptPadOrTruncate,
			Timeout:   "30s",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		MCP: MCPConfig{
			SSEAddr:     ":8081",
			SSEEndpoint: "/sse",
		},
		History: HistoryConfig{
			Driver: "libsql",
			URL:    "file:./textsim.db",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty),
// then environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	e := &c.Embeddings
	e.Provider = getEnv("EMBEDDINGS_PROVIDER", e.Provider)
	e.Dimensions = getEnvInt("EMBEDDING_DIMS", e.Dimensions)
	e.TaskType = getEnv("EMBEDDINGS_TASK_TYPE", e.TaskType)
	e.AdaptMode = getEnv("EMBEDDINGS_ADAPT_MODE", e.AdaptMode)
	e.Timeout = getEnv("EMBEDDINGS_HTTP_TIMEOUT", e.Timeout)
	e.BaseURL = getEnv("EMBEDDINGS_BASE_URL", e.BaseURL)
	e.GeminiAPIKey = getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", e.GeminiAPIKey))
	e.VertexProject = getEnv("VERTEX_PROJECT", getEnv("GOOGLE_CLOUD_PROJECT", e.VertexProject))
	e.VertexLocation = getEnv("VERTEX_LOCATION", getEnv("GOOGLE_CLOUD_LOCATION", e.VertexLocation))
	e.OpenAIAPIKey = getEnv("OPENAI_API_KEY", e.OpenAIAPIKey)
	e.LocalAIBaseURL = getEnv("LOCALAI_BASE_URL", e.LocalAIBaseURL)
	e.LocalAIAPIKey = getEnv("LOCALAI_API_KEY", e.LocalAIAPIKey)
	e.OllamaHost = getEnv("OLLAMA_HOST", e.OllamaHost)

	e.Model = getEnv("EMBEDDINGS_MODEL", e.Model)
	if key := modelEnvKey(e.Provider); key != "" {
		e.Model = getEnv(key, e.Model)
	}

	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.ShutdownTimeout = getEnv("HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout)
	c.MCP.SSEAddr = getEnv("MCP_SSE_ADDR", c.MCP.SSEAddr)
	c.MCP.SSEEndpoint = getEnv("MCP_SSE_ENDPOINT", c.MCP.SSEEndpoint)

	c.History.Enabled = getEnvBool("HISTORY_ENABLED", c.History.Enabled)
	c.History.Driver = getEnv("HISTORY_DRIVER", c.History.Driver)
	c.History.URL = getEnv("LIBSQL_URL", c.History.URL)
	c.History.AuthToken = getEnv("LIBSQL_AUTH_TOKEN", c.History.AuthToken)
	c.History.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.History.MaxOpenConns)

	c.Metrics.Prometheus = getEnvBool("METRICS_PROMETHEUS", c.Metrics.Prometheus)
	c.Metrics.Addr = getEnv("METRICS_ADDR", c.Metrics.Addr)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

func modelEnvKey(provider string) string {
	switch embeddings.NormalizeName(provider) {
	case "gemini", "vertexai":
		return "GEMINI_EMBEDDINGS_MODEL"
	case "openai":
		return "OPENAI_EMBEDDINGS_MODEL"
	case "localai":
		return "LOCALAI_EMBEDDINGS_MODEL"
	case "ollama":
		return "OLLAMA_EMBEDDINGS_MODEL"
	}
	return ""
}

// Validate reports settings that can never work. Missing credentials are not
// an error here: the HTTP layer answers 503 for compare requests instead.
func (c *Config) Validate() error {
	name := embeddings.NormalizeName(c.Embeddings.Provider)
	known := false
	for _, n := range embeddings.Names() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unsupported embeddings provider %q (use one of %s)", c.Embeddings.Provider, strings.Join(embeddings.Names(), ", "))
	}
	if c.Embeddings.Dimensions < 0 {
		return fmt.Errorf("EMBEDDING_DIMS must not be negative, got %d", c.Embeddings.Dimensions)
	}
	if _, err := c.ProviderTimeout(); err != nil {
		return err
	}
	if _, err := parseDuration(c.HTTP.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid http shutdown timeout: %w", err)
	}
	switch c.History.Driver {
	case "libsql", "sqlite":
	default:
		return fmt.Errorf("unsupported history driver %q (use libsql or sqlite)", c.History.Driver)
	}
	if c.History.Enabled && c.History.URL == "" {
		return fmt.Errorf("LIBSQL_URL is required when history is enabled")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("unsupported log format %q (use json or console)", c.Logging.Format)
	}
	return nil
}

// ProviderTimeout parses the embeddings timeout. Bare integers are seconds.
func (c *Config) ProviderTimeout() (time.Duration, error) {
	d, err := parseDuration(c.Embeddings.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid embeddings timeout: %w", err)
	}
	return d, nil
}

// ShutdownTimeout returns the graceful shutdown budget for HTTP servers.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := parseDuration(c.HTTP.ShutdownTimeout)
	if err != nil || d == 0 {
		return 10 * time.Second
	}
	return d
}

// ProviderConfig converts the embeddings section for embeddings.New.
func (c *Config) ProviderConfig() embeddings.Config {
	timeout, _ := c.ProviderTimeout()
	e := c.Embeddings
	return embeddings.Config{
		Provider:       e.Provider,
		Model:          e.Model,
		Dimensions:     e.Dimensions,
		AdaptMode:      e.AdaptMode,
		HTTPTimeout:    timeout,
		BaseURL:        e.BaseURL,
		GeminiAPIKey:   e.GeminiAPIKey,
		VertexProject:  e.VertexProject,
		VertexLocation: e.VertexLocation,
		OpenAIAPIKey:   e.OpenAIAPIKey,
		LocalAIBaseURL: e.LocalAIBaseURL,
		LocalAIAPIKey:  e.LocalAIAPIKey,
		OllamaHost:     e.OllamaHost,
	}
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
