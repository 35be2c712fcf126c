// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists saved papers, projects and the papers pinned to
// each project in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/paprly/paprly/pkg/types"
)

var (
	// ErrNotFound is returned when a paper or project does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a paper with the same arXiv id exists.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalid is returned when a record fails validation.
	ErrInvalid = errors.New("invalid record")
)

// driverName is go-sqlite3 with a Unicode-aware lower() replacement, so
// filters fold case the same way in SQL and in Go.
const driverName = "sqlite3_paprly"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// Store manages the SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist. ":memory:" is accepted for tests.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, cfg.Path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.Path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			arxiv_id TEXT UNIQUE,
			url TEXT,
			pdf_url TEXT,
			title TEXT NOT NULL,
			abstract TEXT,
			authors TEXT NOT NULL DEFAULT '[]',
			contributors TEXT,
			date_published TEXT,
			year INTEGER,
			problem TEXT,
			method TEXT,
			results TEXT,
			limitations TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_created_at ON papers(created_at)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			goal TEXT,
			abstract TEXT,
			theme TEXT NOT NULL DEFAULT '',
			contributors TEXT NOT NULL DEFAULT '',
			ideas TEXT,
			notes TEXT,
			related TEXT,
			queue TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at)`,
		`CREATE TABLE IF NOT EXISTS project_papers (
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			pinned_at TEXT NOT NULL,
			PRIMARY KEY (project_id, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_project_papers_paper_id ON project_papers(paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) timestamp() string {
	return formatTime(s.now())
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// nullString maps "" to SQL NULL.
func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
