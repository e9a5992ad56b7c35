package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
)

// ErrNotFound is returned when a comparison id is unknown.
var ErrNotFound = errors.New("comparison not found")

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type comparisonRow struct {
	ID         string `db:"id"`
	Provider   string `db:"provider"`
	Model      string `db:"model"`
	TaskType   string `db:"task_type"`
	Dimensions int    `db:"dimensions"`
	Layout     string `db:"layout"`
	CreatedAt  int64  `db:"created_at"`
}

type textRow struct {
	ComparisonID string `db:"comparison_id"`
	Idx          int    `db:"idx"`
	Content      string `db:"content"`
	Embedding    []byte `db:"embedding"`
}

type similarityRow struct {
	ComparisonID string  `db:"comparison_id"`
	Text1Index   int     `db:"text1_index"`
	Text2Index   int     `db:"text2_index"`
	Similarity   float64 `db:"similarity"`
}

const (
	insertComparisonSQL = `INSERT INTO comparisons (id, provider, model, task_type, dimensions, layout, created_at)
        VALUES (:id, :provider, :model, :task_type, :dimensions, :layout, :created_at)`
	insertTextSQL = `INSERT INTO comparison_texts (comparison_id, idx, content, embedding)
        VALUES (:comparison_id, :idx, :content, :embedding)`
	insertSimilaritySQL = `INSERT INTO comparison_similarities (comparison_id, text1_index, text2_index, similarity)
        VALUES (:comparison_id, :text1_index, :text2_index, :similarity)`

	selectComparisonSQL = `SELECT id, provider, model, task_type, dimensions, layout, created_at
        FROM comparisons WHERE id = ?`
	selectTextsSQL        = `SELECT comparison_id, idx, content, embedding FROM comparison_texts WHERE comparison_id IN (?) ORDER BY comparison_id, idx`
	selectSimilaritiesSQL = `SELECT comparison_id, text1_index, text2_index, similarity FROM comparison_similarities WHERE comparison_id IN (?) ORDER BY comparison_id, text1_index, text2_index`
	listComparisonsSQL    = `SELECT id, provider, model, task_type, dimensions, layout, created_at
        FROM comparisons ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
)

// SaveComparison stores c. An empty ID is filled with a new UUID and a zero
// CreatedAt with the current time; both are written back to c.
func (s *Store) SaveComparison(ctx context.Context, c *apptype.Comparison) error {
	done := metrics.TimeOp("save_comparison")
	success := false
	defer func() { done(success) }()

	if c == nil || len(c.Texts) == 0 {
		return fmt.Errorf("comparison must have at least one text")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	layout, err := json.Marshal(c.Layout)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for comparison %q: %w", c.ID, err)
	}
	defer tx.Rollback()

	row := comparisonRow{
		ID:         c.ID,
		Provider:   c.Provider,
		Model:      c.Model,
		TaskType:   c.TaskType,
		Dimensions: c.Dimensions,
		Layout:     string(layout),
		CreatedAt:  c.CreatedAt.UnixNano(),
	}
	if _, err := tx.NamedExecContext(ctx, insertComparisonSQL, row); err != nil {
		return fmt.Errorf("failed to insert comparison %q: %w", c.ID, err)
	}
	for i, text := range c.Texts {
		tr := textRow{ComparisonID: c.ID, Idx: i, Content: text}
		if i < len(c.Embeddings) {
			tr.Embedding = encodeVector(c.Embeddings[i])
		}
		if _, err := tx.NamedExecContext(ctx, insertTextSQL, tr); err != nil {
			return fmt.Errorf("failed to insert text %d of comparison %q: %w", i, c.ID, err)
		}
	}
	for _, sim := range c.Similarities {
		sr := similarityRow{ComparisonID: c.ID, Text1Index: sim.Text1Index, Text2Index: sim.Text2Index, Similarity: sim.Similarity}
		if _, err := tx.NamedExecContext(ctx, insertSimilaritySQL, sr); err != nil {
			return fmt.Errorf("failed to insert similarity %d-%d of comparison %q: %w", sim.Text1Index, sim.Text2Index, c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comparison %q: %w", c.ID, err)
	}
	success = true
	return nil
}

// GetComparison loads one comparison including embeddings.
func (s *Store) GetComparison(ctx context.Context, id string) (*apptype.Comparison, error) {
	done := metrics.TimeOp("get_comparison")
	success := false
	defer func() { done(success) }()

	stmt, err := s.preparedStmt(ctx, selectComparisonSQL)
	if err != nil {
		return nil, err
	}
	var row comparisonRow
	if err := stmt.GetContext(ctx, &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to query comparison %q: %w", id, err)
	}

	texts, sims, err := s.loadChildren(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	c, err := toComparison(row, texts[id], sims[id])
	if err != nil {
		return nil, err
	}
	success = true
	return c, nil
}

// ListComparisons returns summaries, newest first. limit defaults to 10 and is
// capped at 100.
func (s *Store) ListComparisons(ctx context.Context, limit, offset int) ([]apptype.ComparisonSummary, error) {
	done := metrics.TimeOp("list_comparisons")
	success := false
	defer func() { done(success) }()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var rows []comparisonRow
	if err := s.db.SelectContext(ctx, &rows, listComparisonsSQL, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	out := make([]apptype.ComparisonSummary, 0, len(rows))
	if len(rows) == 0 {
		success = true
		return out, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	texts, sims, err := s.loadChildren(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		contents := make([]string, len(texts[r.ID]))
		for i, t := range texts[r.ID] {
			contents[i] = t.Content
		}
		out = append(out, apptype.ComparisonSummary{
			ID:           r.ID,
			Provider:     r.Provider,
			Model:        r.Model,
			Texts:        contents,
			Similarities: toScores(sims[r.ID], contents),
			CreatedAt:    time.Unix(0, r.CreatedAt).UTC(),
		})
	}
	success = true
	return out, nil
}

// DeleteComparison removes a comparison and its rows.
func (s *Store) DeleteComparison(ctx context.Context, id string) error {
	done := metrics.TimeOp("delete_comparison")
	success := false
	defer func() { done(success) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comparison_similarities WHERE comparison_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete similarities of %q: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM comparison_texts WHERE comparison_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete texts of %q: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM comparisons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete comparison %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	success = true
	return nil
}

func (s *Store) loadChildren(ctx context.Context, ids []string) (map[string][]textRow, map[string][]similarityRow, error) {
	query, args, err := sqlx.In(selectTextsSQL, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build text query: %w", err)
	}
	var texts []textRow
	if err := s.db.SelectContext(ctx, &texts, s.db.Rebind(query), args...); err != nil {
		return nil, nil, fmt.Errorf("failed to query texts: %w", err)
	}

	query, args, err = sqlx.In(selectSimilaritiesSQL, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build similarity query: %w", err)
	}
	var sims []similarityRow
	if err := s.db.SelectContext(ctx, &sims, s.db.Rebind(query), args...); err != nil {
		return nil, nil, fmt.Errorf("failed to query similarities: %w", err)
	}

	byText := make(map[string][]textRow, len(ids))
	for _, t := range texts {
		byText[t.ComparisonID] = append(byText[t.ComparisonID], t)
	}
	bySim := make(map[string][]similarityRow, len(ids))
	for _, sr := range sims {
		bySim[sr.ComparisonID] = append(bySim[sr.ComparisonID], sr)
	}
	return byText, bySim, nil
}

func toComparison(row comparisonRow, texts []textRow, sims []similarityRow) (*apptype.Comparison, error) {
	c := &apptype.Comparison{
		ID:         row.ID,
		Provider:   row.Provider,
		Model:      row.Model,
		TaskType:   row.TaskType,
		Dimensions: row.Dimensions,
		Texts:      make([]string, len(texts)),
		CreatedAt:  time.Unix(0, row.CreatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Layout), &c.Layout); err != nil {
		return nil, fmt.Errorf("failed to decode layout of %q: %w", row.ID, err)
	}
	hasEmbeddings := false
	embs := make([]apptype.Embedding, len(texts))
	for i, t := range texts {
		c.Texts[i] = t.Content
		v, err := decodeVector(t.Embedding)
		if err != nil {
			return nil, fmt.Errorf("text %d of %q: %w", i, row.ID, err)
		}
		if v != nil {
			hasEmbeddings = true
		}
		embs[i] = v
	}
	if hasEmbeddings {
		c.Embeddings = embs
	}
	c.Similarities = toScores(sims, c.Texts)
	return c, nil
}

func toScores(sims []similarityRow, texts []string) []apptype.SimilarityScore {
	out := make([]apptype.SimilarityScore, 0, len(sims))
	for _, sr := range sims {
		score := apptype.SimilarityScore{Text1Index: sr.Text1Index, Text2Index: sr.Text2Index, Similarity: sr.Similarity}
		if sr.Text1Index >= 0 && sr.Text1Index < len(texts) {
			score.Text1 = texts[sr.Text1Index]
		}
		if sr.Text2Index >= 0 && sr.Text2Index < len(texts) {
			score.Text2 = texts[sr.Text2Index]
		}
		out = append(out, score)
	}
	return out
}

// Driver returns the sql driver name in use.
func (s *Store) Driver() string { return strings.ToLower(s.db.DriverName()) }
