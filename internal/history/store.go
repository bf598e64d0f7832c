// Package history persists extraction outcomes in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lonelymovie/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	imdb_id TEXT NOT NULL,
	source TEXT NOT NULL,
	stream_url TEXT NOT NULL DEFAULT '',
	stream_type TEXT NOT NULL DEFAULT '',
	attempts INTEGER NOT NULL DEFAULT 0,
	found INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extractions_imdb_id ON extractions(imdb_id);
`

// Store manages extraction history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path, creating
// parent directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one extraction outcome.
func (s *Store) Record(ctx context.Context, rec media.Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (imdb_id, source, stream_url, stream_type, attempts, found, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.IMDBID, rec.Source, rec.StreamURL, rec.Type, rec.Attempts,
		boolToInt(rec.Found), createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert extraction record: %w", err)
	}
	return nil
}

// Recent returns up to limit history entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]media.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, imdb_id, source, stream_url, stream_type, attempts, found, created_at
		 FROM extractions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query extraction records: %w", err)
	}
	defer rows.Close()

	var records []media.Record
	for rows.Next() {
		var rec media.Record
		var found int
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.IMDBID, &rec.Source, &rec.StreamURL,
			&rec.Type, &rec.Attempts, &found, &createdAt); err != nil {
			return nil, fmt.Errorf("scan extraction record: %w", err)
		}
		rec.Found = found != 0
		if ts, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extraction records: %w", err)
	}

	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
