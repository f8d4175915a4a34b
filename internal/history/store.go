// Package history keeps a local record of completed analyses so earlier
// reports can be reviewed without paying for another backend call.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"safemedia/internal/analysis"
)

//go:embed schema.sql
var schemaSQL string

const dbFile = "history.db"

// Entry is one recorded analysis.
type Entry struct {
	ID           string
	Query        string
	Title        string
	MediaType    string
	SuggestedAge string
	Report       *analysis.MediaAnalysis
	CreatedAt    time.Time
}

// Store manages analysis history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database in stateDir.
func Open(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends a completed analysis.
func (s *Store) Record(ctx context.Context, query string, report *analysis.MediaAnalysis) (*Entry, error) {
	if report == nil {
		return nil, fmt.Errorf("history record: report required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("history record: encode report: %w", err)
	}

	entry := &Entry{
		ID:           uuid.NewString(),
		Query:        query,
		Title:        report.Title,
		MediaType:    report.MediaType,
		SuggestedAge: report.Ratings.SuggestedAge,
		Report:       report,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO analyses (id, query, title, media_type, suggested_age, report, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Query,
		entry.Title,
		entry.MediaType,
		entry.SuggestedAge,
		string(payload),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("history record: insert: %w", err)
	}
	return entry, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, query, title, media_type, suggested_age, report, created_at
         FROM analyses ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history list: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var payload, createdAt string
		if err := rows.Scan(&entry.ID, &entry.Query, &entry.Title, &entry.MediaType,
			&entry.SuggestedAge, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("history list: scan: %w", err)
		}
		var report analysis.MediaAnalysis
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			return nil, fmt.Errorf("history list: decode report %s: %w", entry.ID, err)
		}
		entry.Report = &report
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history list: rows: %w", err)
	}
	return entries, nil
}
