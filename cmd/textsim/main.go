package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/textsim-go/internal/config"
	"github.com/ZanzyTHEbar/textsim-go/internal/logging"
	"github.com/ZanzyTHEbar/textsim-go/pkg/textsim"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	provider   string
	model      string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "textsim",
	Short: "Compare three texts by embedding similarity",
	Long: `textsim embeds exactly three texts with a configurable provider
(gemini, vertexai, openai, localai, ollama), scores every pair with cosine
similarity and triangulates a 2-D layout where closer nodes are more similar.

It runs as an HTTP service (serve), as an MCP server (mcp) or as a one-shot
command (compare).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (revision %s, built %s)\n",
			buildinfo.Name, buildinfo.Version, buildinfo.Revision, buildinfo.BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env vars still take precedence)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or console")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Embeddings provider override")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Embeddings model override")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(probeCmd)
}

// applyFlagOverrides gives explicitly set flags the final word over the
// environment and the config file.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Logging.Format = logFormat
	}
	if flags.Changed("provider") {
		c.Embeddings.Provider = provider
	}
	if flags.Changed("model") {
		c.Embeddings.Model = model
	}
}

func newService(ctx context.Context) (*textsim.Service, error) {
	return textsim.NewService(ctx, textsim.FromConfig(cfg, logger))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
