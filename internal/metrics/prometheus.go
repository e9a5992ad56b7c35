//go:build !noprom

package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "textsim"

type promRecorder struct {
	storeTotal      *prom.CounterVec
	storeSeconds    *prom.HistogramVec
	toolTotal       *prom.CounterVec
	toolSeconds     *prom.HistogramVec
	providerTotal   *prom.CounterVec
	providerSeconds *prom.HistogramVec
	similarity      *prom.HistogramVec
}

func (p *promRecorder) IncStoreOpTotal(op string, success bool) {
	p.storeTotal.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

func (p *promRecorder) ObserveStoreOpSeconds(op string, success bool, seconds float64) {
	p.storeSeconds.WithLabelValues(op, strconv.FormatBool(success)).Observe(seconds)
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, strconv.FormatBool(success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, strconv.FormatBool(success)).Observe(seconds)
}

func (p *promRecorder) IncProviderTotal(provider string, success bool) {
	p.providerTotal.WithLabelValues(provider, strconv.FormatBool(success)).Inc()
}

func (p *promRecorder) ObserveProviderSeconds(provider string, success bool, seconds float64) {
	p.providerSeconds.WithLabelValues(provider, strconv.FormatBool(success)).Observe(seconds)
}

func (p *promRecorder) ObserveSimilarity(pair string, value float64) {
	p.similarity.WithLabelValues(pair).Observe(value)
}

func newPromRecorder() *promRecorder {
	return &promRecorder{
		storeTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "store_ops_total",
			Help:      "Total number of history store operations",
		}, []string{"op", "success"}),
		storeSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "store_op_seconds",
			Help:      "History store operation duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"op", "success"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool and HTTP route calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_seconds",
			Help:      "MCP tool and HTTP route duration in seconds",
			Buckets:   prom.DefBuckets,
		}, []string{"tool", "success"}),
		providerTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Total number of embedding provider calls",
		}, []string{"provider", "success"}),
		providerSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_seconds",
			Help:      "Embedding provider call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"provider", "success"}),
		similarity: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pair_similarity",
			Help:      "Distribution of computed cosine similarities per text pair",
			Buckets:   prom.LinearBuckets(-1, 0.2, 11),
		}, []string{"pair"}),
	}
}

func enablePrometheus(ctx context.Context, addr string, logger *zap.Logger) error {
	registry := prom.NewRegistry()
	p := newPromRecorder()

	registry.MustRegister(p.storeTotal, p.storeSeconds, p.toolTotal, p.toolSeconds,
		p.providerTotal, p.providerSeconds, p.similarity)
	SetRecorder(p)

	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go runExporter(ctx, srv, logger)
	return nil
}

// runExporter serves srv until ctx is cancelled or listening fails.
func runExporter(ctx context.Context, srv *http.Server, logger *zap.Logger) {
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	logger.Info("metrics exporter listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics exporter failed", zap.String("addr", srv.Addr), zap.Error(err))
	}
}
