package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
	"github.com/ZanzyTHEbar/textsim-go/internal/server"
)

var (
	mcpTransport   string
	mcpAddr        string
	mcpSSEEndpoint string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio or SSE",
	Long: `Exposes compare_texts, layout_similarities, get_comparison,
list_comparisons and health_check as MCP tools.

Logs go to stderr so stdio stays reserved for the protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Metrics.Prometheus {
			metrics.Init(ctx, cfg.Metrics.Addr, logger)
		}
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		mcpServer := server.NewMCPServer(svc, logger)
		logger.Info("starting MCP server", zap.String("transport", mcpTransport))
		switch mcpTransport {
		case "stdio":
			return mcpServer.Run(ctx)
		case "sse":
			addr := cfg.MCP.SSEAddr
			if mcpAddr != "" {
				addr = mcpAddr
			}
			endpoint := cfg.MCP.SSEEndpoint
			if mcpSSEEndpoint != "" {
				endpoint = mcpSSEEndpoint
			}
			return mcpServer.RunSSE(ctx, addr, endpoint)
		default:
			return fmt.Errorf("unknown transport: %s (expected: stdio or sse)", mcpTransport)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use: stdio or sse")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "Address to listen on when using SSE transport (overrides MCP_SSE_ADDR)")
	mcpCmd.Flags().StringVar(&mcpSSEEndpoint, "sse-endpoint", "", "SSE endpoint path when using SSE transport (overrides MCP_SSE_ENDPOINT)")
}
