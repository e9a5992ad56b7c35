// Package textsim is the library-first API for comparing three texts: embed
// them, score every pair and lay the result out as a triangle, optionally
// keeping a history of past comparisons.
package textsim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/database"
	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
	"github.com/ZanzyTHEbar/textsim-go/internal/layout"
	"github.com/ZanzyTHEbar/textsim-go/internal/similarity"
)

// ErrHistoryDisabled is returned by history operations when no store is configured.
var ErrHistoryDisabled = errors.New("comparison history is disabled")

type (
	Provider          = embeddings.Provider
	TaskType          = embeddings.TaskType
	Comparison        = apptype.Comparison
	ComparisonSummary = apptype.ComparisonSummary
	SimilarityScore   = apptype.SimilarityScore
	Layout            = apptype.Layout
	Canvas            = apptype.Canvas
)

// Info describes the active provider and history settings.
type Info struct {
	Provider   string
	Model      string
	Dimensions int
	History    bool
}

// Service provides comparisons without any transport.
type Service struct {
	engine *similarity.Engine
	store  *database.Store
	log    *zap.Logger
	info   Info
}

// NewService constructs a Service with the provider named in cfg. A provider
// missing credentials does not fail construction; Compare then reports a
// provider error wrapping embeddings.ErrNotConfigured.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	p, err := embeddings.New(ctx, cfg.providerConfig())
	if err != nil && !errors.Is(err, embeddings.ErrNotConfigured) {
		return nil, err
	}
	if err != nil {
		logger(cfg).Warn("embeddings provider not configured", zap.String("provider", embeddings.NormalizeName(cfg.Provider)), zap.Error(err))
		p = nil
	}
	return NewWithProvider(ctx, cfg, p)
}

// NewWithProvider constructs a Service around an existing provider. A nil
// provider yields a service whose Compare always fails.
func NewWithProvider(ctx context.Context, cfg *Config, p Provider) (*Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	log := logger(cfg)
	s := &Service{log: log}

	s.info.Provider = embeddings.NormalizeName(cfg.Provider)
	s.info.Model = cfg.Model
	s.info.Dimensions = cfg.Dimensions
	if p != nil {
		s.info.Provider, s.info.Model, s.info.Dimensions = p.Name(), p.Model(), p.Dimensions()
		p = embeddings.Instrument(p, log)
	}
	task := embeddings.ParseTaskType(cfg.TaskType)
	s.engine = similarity.NewEngine(p, similarity.WithTaskType(task), similarity.WithLogger(log.Named("similarity")))

	if cfg.HistoryEnabled {
		store, err := database.Open(ctx, cfg.historyConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		s.store = store
		s.info.History = true
	}
	return s, nil
}

func logger(cfg *Config) *zap.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return zap.NewNop()
}

// Close releases resources.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Info reports the active provider and whether history is kept.
func (s *Service) Info() Info { return s.info }

// Compare embeds exactly three texts, scores each pair and triangulates the
// default canvas. taskType may be empty to use the configured default. When
// history is enabled the result is stored; a storage failure is logged and
// does not fail the comparison.
func (s *Service) Compare(ctx context.Context, texts []string, taskType string) (*Comparison, error) {
	task := s.engine.TaskType()
	if taskType != "" {
		task = embeddings.ParseTaskType(taskType)
	}
	res, err := s.engine.CompareTask(ctx, task, texts)
	if err != nil {
		return nil, err
	}
	l, err := layout.Triangulate(res.Similarities, layout.DefaultCanvas())
	if err != nil {
		return nil, err
	}

	c := &Comparison{
		ID:           uuid.NewString(),
		Provider:     s.info.Provider,
		Model:        s.info.Model,
		TaskType:     string(task),
		Dimensions:   len(res.Embeddings[0]),
		Texts:        append([]string(nil), texts...),
		Embeddings:   res.Embeddings,
		Similarities: res.Similarities,
		Layout:       l,
		CreatedAt:    time.Now().UTC(),
	}
	if s.store != nil {
		if err := s.store.SaveComparison(ctx, c); err != nil {
			s.log.Warn("failed to save comparison", zap.String("id", c.ID), zap.Error(err))
		}
	}
	return c, nil
}

// Layout triangulates precomputed similarities without a provider call. A
// zero canvas selects the default 400x300 canvas.
func (s *Service) Layout(scores []SimilarityScore, canvas Canvas) (Layout, error) {
	return layout.Triangulate(scores, canvas)
}

// Get returns a stored comparison.
func (s *Service) Get(ctx context.Context, id string) (*Comparison, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.GetComparison(ctx, id)
}

// List returns stored comparison summaries, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]ComparisonSummary, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.ListComparisons(ctx, limit, offset)
}

// Delete removes a stored comparison.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrHistoryDisabled
	}
	return s.store.DeleteComparison(ctx, id)
}
