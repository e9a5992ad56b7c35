package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
	"github.com/ZanzyTHEbar/textsim-go/pkg/textsim"
)

// MCPServer handles MCP protocol communication
type MCPServer struct {
	server *mcp.Server
	svc    *textsim.Service
	log    *zap.Logger
}

// NewMCPServer creates a new MCP server
func NewMCPServer(svc *textsim.Service, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    buildinfo.Name,
		Version: buildinfo.Version,
	}, nil)

	mcpServer := &MCPServer{
		server: server,
		svc:    svc,
		log:    logger.Named("mcp"),
	}
	mcpServer.setupToolHandlers()
	return mcpServer
}

func mustSchema[T any](name string) *jsonschema.Schema {
	schema, err := jsonschema.For[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for %s: %v", name, err))
	}
	return schema
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	compareAnnotations := mcp.ToolAnnotations{
		Title: "Compare Texts",
	}
	readOnly := mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations:  &compareAnnotations,
		Name:         "compare_texts",
		Title:        "Compare Texts",
		Description:  "Embed exactly three texts, return pairwise cosine similarities and a triangle layout.",
		InputSchema:  mustSchema[apptype.CompareTextsArgs]("CompareTextsArgs"),
		OutputSchema: mustSchema[apptype.ComparisonResult]("ComparisonResult"),
	}, s.handleCompareTexts)

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations:  &readOnly,
		Name:         "layout_similarities",
		Title:        "Layout Similarities",
		Description:  "Triangulate node positions for three texts from precomputed pairwise similarities.",
		InputSchema:  mustSchema[apptype.LayoutArgs]("LayoutArgs"),
		OutputSchema: mustSchema[apptype.LayoutResult]("LayoutResult"),
	}, s.handleLayout)

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations:  &readOnly,
		Name:         "get_comparison",
		Title:        "Get Comparison",
		Description:  "Fetch a stored comparison by id (requires history).",
		InputSchema:  mustSchema[apptype.GetComparisonArgs]("GetComparisonArgs"),
		OutputSchema: mustSchema[apptype.ComparisonResult]("ComparisonResult (get)"),
	}, s.handleGetComparison)

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations:  &readOnly,
		Name:         "list_comparisons",
		Title:        "List Comparisons",
		Description:  "List stored comparisons, newest first (requires history).",
		InputSchema:  mustSchema[apptype.ListComparisonsArgs]("ListComparisonsArgs"),
		OutputSchema: mustSchema[apptype.ListComparisonsResult]("ListComparisonsResult"),
	}, s.handleListComparisons)

	mcp.AddTool(s.server, &mcp.Tool{
		Annotations:  &readOnly,
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Report server version, embeddings provider and history status.",
		InputSchema:  mustSchema[apptype.HealthArgs]("HealthArgs"),
		OutputSchema: mustSchema[apptype.HealthResult]("HealthResult"),
	}, s.handleHealth)
}

// handleCompareTexts handles the compare_texts tool call
func (s *MCPServer) handleCompareTexts(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.CompareTextsArgs],
) (*mcp.CallToolResultFor[apptype.ComparisonResult], error) {
	done := metrics.TimeTool("compare_texts")
	var success bool
	defer func() { done(success) }()

	c, err := s.svc.Compare(ctx, params.Arguments.Texts, params.Arguments.TaskType)
	if err != nil {
		s.log.Debug("compare_texts failed", zap.Error(err))
		return nil, fmt.Errorf("failed to compare texts: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.ComparisonResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summarize(c.Similarities)},
		},
		StructuredContent: toResult(c, params.Arguments.IncludeEmbeddings),
	}, nil
}

// handleLayout handles the layout_similarities tool call
func (s *MCPServer) handleLayout(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.LayoutArgs],
) (*mcp.CallToolResultFor[apptype.LayoutResult], error) {
	done := metrics.TimeTool("layout_similarities")
	var success bool
	defer func() { done(success) }()

	var canvas apptype.Canvas
	if params.Arguments.Canvas != nil {
		canvas = *params.Arguments.Canvas
	}
	l, err := s.svc.Layout(params.Arguments.Similarities, canvas)
	if err != nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.LayoutResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "Layout computed"}},
		StructuredContent: apptype.LayoutResult{Layout: l},
	}, nil
}

// handleGetComparison handles the get_comparison tool call
func (s *MCPServer) handleGetComparison(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.GetComparisonArgs],
) (*mcp.CallToolResultFor[apptype.ComparisonResult], error) {
	done := metrics.TimeTool("get_comparison")
	var success bool
	defer func() { done(success) }()

	c, err := s.svc.Get(ctx, params.Arguments.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.ComparisonResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: summarize(c.Similarities)}},
		StructuredContent: toResult(c, params.Arguments.IncludeEmbeddings),
	}, nil
}

// handleListComparisons handles the list_comparisons tool call
func (s *MCPServer) handleListComparisons(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.ListComparisonsArgs],
) (*mcp.CallToolResultFor[apptype.ListComparisonsResult], error) {
	done := metrics.TimeTool("list_comparisons")
	var success bool
	defer func() { done(success) }()

	list, err := s.svc.List(ctx, params.Arguments.Limit, params.Arguments.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	success = true

	out := apptype.ListComparisonsResult{Comparisons: make([]apptype.ComparisonSummaryResult, 0, len(list))}
	for _, c := range list {
		out.Comparisons = append(out.Comparisons, apptype.ComparisonSummaryResult{
			ID:           c.ID,
			Provider:     c.Provider,
			Model:        c.Model,
			Texts:        c.Texts,
			Similarities: c.Similarities,
			CreatedAt:    c.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return &mcp.CallToolResultFor[apptype.ListComparisonsResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%d comparisons", len(out.Comparisons))}},
		StructuredContent: out,
	}, nil
}

// handleHealth handles the health_check tool call
func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()

	info := s.svc.Info()
	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content: []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: apptype.HealthResult{
			Name:       buildinfo.Name,
			Version:    buildinfo.Version,
			Revision:   buildinfo.Revision,
			BuildDate:  buildinfo.BuildDate,
			Provider:   info.Provider,
			Model:      info.Model,
			Dimensions: info.Dimensions,
			History:    info.History,
		},
	}, nil
}

func toResult(c *textsim.Comparison, includeEmbeddings bool) apptype.ComparisonResult {
	res := apptype.ComparisonResult{
		ID:           c.ID,
		Provider:     c.Provider,
		Model:        c.Model,
		TaskType:     c.TaskType,
		Dimensions:   c.Dimensions,
		Texts:        c.Texts,
		Similarities: c.Similarities,
		Layout:       c.Layout,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339Nano),
	}
	if includeEmbeddings {
		res.Embeddings = c.Embeddings
	}
	return res
}

func summarize(scores []apptype.SimilarityScore) string {
	text := "Similarities:"
	for _, sc := range scores {
		text += fmt.Sprintf(" %d-%d=%.4f", sc.Text1Index, sc.Text2Index, sc.Similarity)
	}
	return text
}

// Run starts the MCP server over stdio
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// SSEHandler returns the MCP SSE handler for mounting on an existing mux.
func (s *MCPServer) SSEHandler() http.Handler {
	return mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
}

// RunSSE starts the MCP server over SSE at the given address and endpoint.
// It returns nil after ctx is cancelled and the listener has shut down.
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	mux := http.NewServeMux()
	mux.Handle(endpoint, s.SSEHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("SSE MCP server listening", zap.String("addr", addr), zap.String("endpoint", endpoint))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
