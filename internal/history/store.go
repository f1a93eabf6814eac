// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a record of every executed conversion in a
// SQLite database, so past runs can be inspected with the history command.
// Recording is best-effort: a store failure never fails the conversion
// that produced the record.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/queball1999/QConvert/pkg/types"
)

// Record is one executed conversion.
type Record struct {
	ID           string
	InputPath    string
	OutputPath   string
	InputFormat  types.Format
	OutputFormat types.Format
	Engine       types.Engine
	Succeeded    bool
	ErrorDetail  string
	StartedAt    time.Time
	Duration     time.Duration
}

// Store manages the conversion-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at cfg.Path, creating the
// schema and any missing parent directories.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS conversions (
		id TEXT PRIMARY KEY,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		input_format TEXT NOT NULL,
		output_format TEXT NOT NULL,
		engine TEXT,
		succeeded INTEGER NOT NULL,
		error_detail TEXT,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Add inserts one record, assigning it a fresh id when empty.
func (s *Store) Add(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	succeeded := 0
	if rec.Succeeded {
		succeeded = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
		 (id, input_path, output_path, input_format, output_format, engine, succeeded, error_detail, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputPath, rec.OutputPath,
		string(rec.InputFormat), string(rec.OutputFormat), string(rec.Engine),
		succeeded, rec.ErrorDetail,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// uses the configured maximum.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, output_path, input_format, output_format, engine, succeeded, error_detail, started_at, duration_ms
		 FROM conversions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversion records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			succeeded  int
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &rec.InputPath, &rec.OutputPath,
			&rec.InputFormat, &rec.OutputFormat, &rec.Engine,
			&succeeded, &rec.ErrorDetail, &startedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning conversion record: %w", err)
		}
		rec.Succeeded = succeeded != 0
		if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			rec.StartedAt = ts
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
