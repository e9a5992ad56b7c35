package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// preparedStmt returns or prepares and caches a statement for sqlText
func (s *Store) preparedStmt(ctx context.Context, sqlText string) (*sqlx.Stmt, error) {
	// fast path read
	s.stmtMu.RLock()
	if stmt, ok := s.stmtCache[sqlText]; ok {
		s.stmtMu.RUnlock()
		return stmt, nil
	}
	s.stmtMu.RUnlock()

	stmt, err := s.db.PreparexContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()
	if existing, ok := s.stmtCache[sqlText]; ok {
		_ = stmt.Close()
		return existing, nil
	}
	s.stmtCache[sqlText] = stmt
	return stmt, nil
}

func (s *Store) closeStmts() {
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()
	for k, stmt := range s.stmtCache {
		_ = stmt.Close()
		delete(s.stmtCache, k)
	}
}
