package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingRecorder struct {
	noopRecorder
	tools     map[string]int
	providers map[string]int
}

func (c *countingRecorder) IncToolTotal(tool string, success bool) {
	if success {
		c.tools[tool]++
	}
}

func (c *countingRecorder) IncProviderTotal(provider string, success bool) {
	if !success {
		c.providers[provider]++
	}
}

func TestTimersReportToCurrentRecorder(t *testing.T) {
	rec := &countingRecorder{tools: map[string]int{}, providers: map[string]int{}}
	SetRecorder(rec)
	defer SetRecorder(nil)

	TimeTool("compare_texts")(true)
	TimeTool("compare_texts")(false)
	TimeProvider("gemini")(false)

	assert.Equal(t, 1, rec.tools["compare_texts"])
	assert.Equal(t, 1, rec.providers["gemini"])
}

func TestSetRecorderNilRestoresNoop(t *testing.T) {
	SetRecorder(nil)
	assert.IsType(t, &noopRecorder{}, Default())
	// must not panic
	TimeOp("save_comparison")(true)
}
