package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/buildinfo"
)

type StepResult struct {
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type Report struct {
	SSEURL     string       `json:"sse_url"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMs int64        `json:"duration_ms"`
	Steps      []StepResult `json:"steps"`
	Passed     bool         `json:"passed"`
}

var (
	probeSSEURL  string
	probeTimeout time.Duration
	probeTexts   []string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Smoke-test a running MCP SSE endpoint and print a JSON report",
	Long: `Connects to an MCP SSE endpoint, lists tools, calls health_check and
layout_similarities, and optionally compare_texts when --texts is given.
Exits non-zero if any step fails.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		defer cancel()

		report := runProbe(ctx, probeSSEURL, probeTexts)
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.Passed {
			return fmt.Errorf("probe failed")
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeSSEURL, "sse-url", "http://localhost:8081/sse", "SSE endpoint URL")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "Overall timeout")
	probeCmd.Flags().StringSliceVar(&probeTexts, "texts", nil, "Three comma-separated texts for a compare_texts step (calls the provider)")
}

func runProbe(ctx context.Context, sseURL string, texts []string) Report {
	client := mcp.NewClient(&mcp.Implementation{Name: buildinfo.Name + "-probe", Version: buildinfo.Version}, nil)
	transport := mcp.NewSSEClientTransport(sseURL, nil)

	start := time.Now()
	report := Report{SSEURL: sseURL, StartedAt: start}
	steps := make([]StepResult, 0, 5)

	tConn := time.Now()
	connRes := StepResult{Name: "connect"}
	session, err := client.Connect(ctx, transport)
	connRes.ElapsedMs = elapsedMsSince(tConn)
	if err != nil {
		connRes.Error = err.Error()
		report.Steps = append(steps, connRes)
		report.DurationMs = elapsedMsSince(start)
		return report
	}
	defer session.Close()
	connRes.Success = true
	steps = append(steps, connRes)

	steps = append(steps, runStep("list_tools", func() error {
		_, err := session.ListTools(ctx, &mcp.ListToolsParams{})
		return err
	}))
	steps = append(steps, runStep("health_check", func() error {
		return callTool(ctx, session, "health_check", apptype.HealthArgs{})
	}))
	steps = append(steps, runStep("layout_similarities", func() error {
		return callTool(ctx, session, "layout_similarities", apptype.LayoutArgs{
			Similarities: []apptype.SimilarityScore{
				{Text1Index: 0, Text2Index: 1, Similarity: 0.8},
				{Text1Index: 0, Text2Index: 2, Similarity: 0.2},
				{Text1Index: 1, Text2Index: 2, Similarity: 0.3},
			},
		})
	}))
	if len(texts) > 0 {
		steps = append(steps, runStep("compare_texts", func() error {
			return callTool(ctx, session, "compare_texts", apptype.CompareTextsArgs{Texts: texts})
		}))
	}

	report.Steps = steps
	report.DurationMs = elapsedMsSince(start)
	report.Passed = true
	for _, s := range steps {
		if !s.Success {
			report.Passed = false
			break
		}
	}
	return report
}

func runStep(name string, fn func() error) StepResult {
	t0 := time.Now()
	res := StepResult{Name: name}
	if err := fn(); err != nil {
		res.Error = err.Error()
	} else {
		res.Success = true
	}
	res.ElapsedMs = elapsedMsSince(t0)
	return res
}

func callTool(ctx context.Context, session *mcp.ClientSession, name string, args any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: json.RawMessage(raw)})
	if err != nil {
		return err
	}
	if res.IsError {
		return fmt.Errorf("%s returned a tool error", name)
	}
	return nil
}

func elapsedMsSince(t time.Time) int64 { return time.Since(t).Milliseconds() }
