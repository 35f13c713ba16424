// Package scores keeps the leaderboard in a SQLite file.
package scores

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one finished game.
type Entry struct {
	Name     string
	Score    int
	Level    int
	Lines    int
	Pieces   int
	PlayedAt time.Time
}

// Store persists entries. A nil *Store, or one opened with an empty path,
// accepts every call and keeps nothing.
type Store struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		level INTEGER NOT NULL,
		lines INTEGER NOT NULL DEFAULT 0,
		pieces INTEGER NOT NULL DEFAULT 0,
		played_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, played_at ASC);`,
}

// Open opens or creates the database at path. An empty path returns a
// store that discards everything.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return &Store{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create score directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open score database: %w", err)
	}
	// A single connection serializes writers on the file.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create score schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Enabled reports whether entries are persisted.
func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

// Record saves e. A zero PlayedAt is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if !s.Enabled() {
		return nil
	}
	if e.PlayedAt.IsZero() {
		e.PlayedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (name, score, level, lines, pieces, played_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.Score, e.Level, e.Lines, e.Pieces, e.PlayedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// Top returns the n best entries, highest score first. Ties go to the
// earlier game.
func (s *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	if !s.Enabled() || n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score, level, lines, pieces, played_at FROM scores
		ORDER BY score DESC, played_at ASC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var playedAt int64
		if err := rows.Scan(&e.Name, &e.Score, &e.Level, &e.Lines, &e.Pieces, &playedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.PlayedAt = time.UnixMilli(playedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read top scores: %w", err)
	}
	return entries, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.db.Close()
}
