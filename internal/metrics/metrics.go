// Package metrics provides a minimal instrumentation interface with a no-op
// default and an optional Prometheus-backed implementation enabled via Init.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncStoreOpTotal(op string, success bool)
	ObserveStoreOpSeconds(op string, success bool, seconds float64)
	IncToolTotal(tool string, success bool)
	ObserveToolSeconds(tool string, success bool, seconds float64)
	IncProviderTotal(provider string, success bool)
	ObserveProviderSeconds(provider string, success bool, seconds float64)
	ObserveSimilarity(pair string, value float64)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncStoreOpTotal(string, bool)                 {}
func (n *noopRecorder) ObserveStoreOpSeconds(string, bool, float64)  {}
func (n *noopRecorder) IncToolTotal(string, bool)                    {}
func (n *noopRecorder) ObserveToolSeconds(string, bool, float64)     {}
func (n *noopRecorder) IncProviderTotal(string, bool)                {}
func (n *noopRecorder) ObserveProviderSeconds(string, bool, float64) {}
func (n *noopRecorder) ObserveSimilarity(string, float64)            {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	if r == nil {
		r = &noopRecorder{}
	}
	recorder = r
}

// TimeOp times a history store operation.
func TimeOp(op string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncStoreOpTotal(op, success)
		Default().ObserveStoreOpSeconds(op, success, dur)
	}
}

// TimeTool times an MCP tool call or HTTP route.
func TimeTool(tool string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncToolTotal(tool, success)
		Default().ObserveToolSeconds(tool, success, dur)
	}
}

// TimeProvider times one embedding provider request.
func TimeProvider(provider string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncProviderTotal(provider, success)
		Default().ObserveProviderSeconds(provider, success, dur)
	}
}

var initOnce sync.Once

// Init installs the Prometheus recorder and exporter once per process.
// An empty addr installs the recorder without starting the exporter. The
// exporter shuts down when ctx is cancelled; listen failures are logged.
func Init(ctx context.Context, addr string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	initOnce.Do(func() {
		if err := enablePrometheus(ctx, addr, logger.Named("metrics")); err != nil {
			logger.Warn("prometheus metrics disabled", zap.Error(err))
		}
	})
}

// enablePrometheus is provided by build-tagged files.
