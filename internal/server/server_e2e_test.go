package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
	"github.com/ZanzyTHEbar/textsim-go/pkg/textsim"
)

// pickFreePort tries to get a free TCP port on 127.0.0.1
func pickFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

type stubProvider struct{}

func (stubProvider) Name() string    { return "stub" }
func (stubProvider) Model() string   { return "stub-model" }
func (stubProvider) Dimensions() int { return 3 }

func (stubProvider) Embed(_ context.Context, _ embeddings.TaskType, inputs []string) ([][]float32, error) {
	table := map[string][]float32{
		"cat":       {1, 0.1, 0},
		"kitten":    {0.9, 0.2, 0},
		"spaceship": {0, 0.1, 1},
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, ok := table[in]
		if !ok {
			v = []float32{0.3, 0.3, 0.3}
		}
		out[i] = v
	}
	return out, nil
}

func startSSE(t *testing.T) (context.Context, *mcp.ClientSession) {
	t.Helper()
	svc, err := textsim.NewWithProvider(context.Background(), &textsim.Config{
		HistoryEnabled: true,
		HistoryDriver:  "sqlite",
		HistoryURL:     ":memory:",
	}, stubProvider{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	srv := NewMCPServer(svc, nil)

	port, err := pickFreePort()
	require.NoError(t, err)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	endpoint := "/sse"

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// start SSE server
	go func() { _ = srv.RunSSE(ctx, addr, endpoint) }()

	// wait briefly for server to bind
	time.Sleep(150 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{Name: "e2e-client", Version: "test"}, nil)
	transport := mcp.NewSSEClientTransport("http://"+addr+endpoint, nil)

	// retry connect a few times to avoid flakes
	var session *mcp.ClientSession
	for i := 0; i < 5; i++ {
		session, err = client.Connect(ctx, transport)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return ctx, session
}

func structured[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestSSEServer_ListTools(t *testing.T) {
	ctx, session := startSSE(t)

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"compare_texts", "layout_similarities", "get_comparison", "list_comparisons", "health_check"}, names)
}

func TestSSEServer_CompareAndHistory(t *testing.T) {
	ctx, session := startSSE(t)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "compare_texts",
		Arguments: map[string]any{"texts": []string{"cat", "kitten", "spaceship"}, "includeEmbeddings": true},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	cmp := structured[apptype.ComparisonResult](t, res)
	require.NotEmpty(t, cmp.ID)
	require.Len(t, cmp.Similarities, 3)
	assert.Len(t, cmp.Embeddings, 3)
	assert.Len(t, cmp.Layout.Nodes, 3)
	assert.Greater(t, cmp.Similarities[0].Similarity, cmp.Similarities[1].Similarity)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_comparison",
		Arguments: map[string]any{"id": cmp.ID},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	got := structured[apptype.ComparisonResult](t, res)
	assert.Equal(t, cmp.Texts, got.Texts)
	assert.Empty(t, got.Embeddings)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_comparisons",
		Arguments: map[string]any{"limit": 5},
	})
	require.NoError(t, err)
	list := structured[apptype.ListComparisonsResult](t, res)
	require.Len(t, list.Comparisons, 1)
	assert.Equal(t, cmp.ID, list.Comparisons[0].ID)
}

func TestSSEServer_CompareRejectsTwoTexts(t *testing.T) {
	ctx, session := startSSE(t)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "compare_texts",
		Arguments: map[string]any{"texts": []string{"cat", "kitten"}},
	})
	if err == nil {
		assert.True(t, res.IsError)
	}
}

func TestSSEServer_LayoutAndHealth(t *testing.T) {
	ctx, session := startSSE(t)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "layout_similarities",
		Arguments: map[string]any{"similarities": []map[string]any{
			{"text1Index": 0, "text2Index": 1, "similarity": 0.99},
			{"text1Index": 0, "text2Index": 2, "similarity": 0.99},
			{"text1Index": 1, "text2Index": 2, "similarity": 0.0},
		}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	l := structured[apptype.LayoutResult](t, res)
	require.Len(t, l.Layout.Nodes, 3)
	for _, n := range l.Layout.Nodes {
		assert.GreaterOrEqual(t, n.X, 30.0)
		assert.LessOrEqual(t, n.X, 370.0)
		assert.GreaterOrEqual(t, n.Y, 30.0)
		assert.LessOrEqual(t, n.Y, 270.0)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "health_check", Arguments: map[string]any{}})
	require.NoError(t, err)
	health := structured[apptype.HealthResult](t, res)
	assert.Equal(t, "stub", health.Provider)
	assert.True(t, health.History)
}
