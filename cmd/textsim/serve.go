package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ZanzyTHEbar/textsim-go/internal/api"
	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
	"github.com/ZanzyTHEbar/textsim-go/internal/server"
)

var (
	serveAddr   string
	serveMCPSSE bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (optionally with the MCP SSE endpoint)",
	Long: `Starts the HTTP API:

  POST   /api/gemini/embeddings   compare three texts
  POST   /api/layout              layout precomputed similarities
  GET    /api/comparisons         list stored comparisons
  GET    /api/comparisons/{id}    fetch one comparison
  DELETE /api/comparisons/{id}    delete one comparison
  GET    /health                  liveness and provider info

With --mcp-sse the MCP server is also exposed over SSE on the configured
MCP address. Prometheus metrics are served when METRICS_PROMETHEUS is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveMCPSSE, "mcp-sse", false, "Also serve MCP over SSE")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}
	if cfg.Metrics.Prometheus {
		metrics.Init(ctx, cfg.Metrics.Addr, logger)
	}

	svc, err := newService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("error closing history store", zap.Error(err))
		}
	}()

	info := svc.Info()
	logger.Info("starting textsim",
		zap.String("provider", info.Provider),
		zap.String("model", info.Model),
		zap.Bool("history", info.History))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(api.NewHandler(logger, svc), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})
	if serveMCPSSE {
		mcpServer := server.NewMCPServer(svc, logger)
		g.Go(func() error {
			return mcpServer.RunSSE(gctx, cfg.MCP.SSEAddr, cfg.MCP.SSEEndpoint)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
