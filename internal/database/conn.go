package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/go-libsql"
	_ "modernc.org/sqlite"

	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
)

func init() {
	sqlx.BindDriver("libsql", sqlx.QUESTION)
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store persists finished comparisons.
type Store struct {
	config *Config
	db     *sqlx.DB

	stmtMu    sync.RWMutex
	stmtCache map[string]*sqlx.Stmt
}

// Open connects to the configured database and applies the schema.
func Open(ctx context.Context, config *Config) (*Store, error) {
	if config == nil {
		config = NewConfig()
	}
	driver := config.Driver
	if driver == "" {
		driver = "libsql"
	}
	if driver != "libsql" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}

	db, err := sqlx.Open(driver, dataSourceName(driver, config))
	if err != nil {
		return nil, fmt.Errorf("failed to create database connector: %w", err)
	}

	// Every connection to an in-memory database is a separate database.
	if isMemory(config.URL) {
		db.SetMaxOpenConns(1)
	} else if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxIdleSec > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.ConnMaxIdleSec) * time.Second)
	}
	if config.ConnMaxLifeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifeSec) * time.Second)
	}

	s := &Store{config: config, db: db, stmtCache: make(map[string]*sqlx.Stmt)}
	if err := s.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

// dataSourceName appends the auth token for remote libSQL URLs.
func dataSourceName(driver string, config *Config) string {
	dbURL := config.URL
	if driver != "libsql" || config.AuthToken == "" || strings.HasPrefix(dbURL, "file:") {
		return dbURL
	}
	if u, err := url.Parse(dbURL); err == nil {
		q := u.Query()
		q.Set("authToken", config.AuthToken)
		u.RawQuery = q.Encode()
		return u.String()
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&authToken=" + url.QueryEscape(config.AuthToken)
	}
	return dbURL + "?authToken=" + url.QueryEscape(config.AuthToken)
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// initialize creates tables and indexes if they don't exist
func (s *Store) initialize(ctx context.Context) error {
	done := metrics.TimeOp("db_initialize")
	success := false
	defer func() { done(success) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for initialization: %w", err)
	}
	defer tx.Rollback()

	for _, statement := range schema {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	success = true
	return nil
}

// Close releases cached statements and the connection pool.
func (s *Store) Close() error {
	s.closeStmts()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
