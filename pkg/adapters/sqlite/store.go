package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS line_hits (
	path TEXT NOT NULL,
	line INTEGER NOT NULL,
	hits INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (path, line)
)`

// Store provides a SQLite-backed ports.CoverageStore.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Merge upserts every line inside one transaction.
func (s *Store) Merge(ctx context.Context, report domain.Report) error {
	if len(report) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO line_hits (path, line, hits) VALUES (?, ?, ?)
ON CONFLICT (path, line) DO UPDATE SET hits = hits + excluded.hits`)
	if err != nil {
		return fmt.Errorf("prepare merge: %w", err)
	}
	defer stmt.Close()

	for file, hits := range report {
		for line, n := range hits {
			if _, err := stmt.ExecContext(ctx, file, line, n); err != nil {
				return fmt.Errorf("merge %s:%d: %w", file, line, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}

// Load reads all stored lines.
func (s *Store) Load(ctx context.Context) (domain.Report, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT path, line, hits FROM line_hits`)
	if err != nil {
		return nil, fmt.Errorf("query line hits: %w", err)
	}
	defer rows.Close()

	report := make(domain.Report)
	for rows.Next() {
		var (
			path string
			line int
			hits int64
		)
		if err := rows.Scan(&path, &line, &hits); err != nil {
			return nil, fmt.Errorf("scan line hits: %w", err)
		}
		file, ok := report[path]
		if !ok {
			file = make(domain.LineHits)
			report[path] = file
		}
		file[line] = hits
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line hits: %w", err)
	}
	return report, nil
}

// Clear deletes all rows.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM line_hits`); err != nil {
		return fmt.Errorf("clear line hits: %w", err)
	}
	return nil
}
