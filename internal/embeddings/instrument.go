package embeddings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
)

type instrumentedProvider struct {
	Provider
	log *zap.Logger
}

// Instrument wraps p so every Embed call is timed in metrics and logged at debug level.
func Instrument(p Provider, log *zap.Logger) Provider {
	if p == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &instrumentedProvider{Provider: p, log: log.Named("embeddings")}
}

func (p *instrumentedProvider) Embed(ctx context.Context, task TaskType, inputs []string) ([][]float32, error) {
	done := metrics.TimeProvider(p.Name())
	start := time.Now()
	vecs, err := p.Provider.Embed(ctx, task, inputs)
	done(err == nil)
	if err != nil {
		p.log.Warn("embed failed",
			zap.String("provider", p.Name()),
			zap.String("model", p.Model()),
			zap.Int("inputs", len(inputs)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	p.log.Debug("embed complete",
		zap.String("provider", p.Name()),
		zap.String("model", p.Model()),
		zap.String("task", string(task)),
		zap.Int("inputs", len(inputs)),
		zap.Int("vectors", len(vecs)),
		zap.Duration("elapsed", time.Since(start)))
	return vecs, nil
}
