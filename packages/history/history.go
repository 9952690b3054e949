// Package history keeps a SQLite log of form submissions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	url         TEXT NOT NULL,
	multipart   INTEGER NOT NULL,
	bytes       INTEGER NOT NULL,
	parts       INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	status      INTEGER NOT NULL,
	duration_us INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS submissions_created_at ON submissions (created_at);
`

// Entry is one recorded submission. Status is zero when no response arrived.
type Entry struct {
	ID        string
	CreatedAt time.Time
	URL       string
	Multipart bool
	Bytes     int
	Parts     int
	Skipped   int
	Status    int
	Duration  time.Duration
	Error     string
}

// Store is a submission log backed by a SQLite database file.
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

// Open opens (creating if needed) the history database at path.
// Both "sqlite://path" and "sqlite:path" forms are accepted as well as a bare path.
func Open(path string) (*Store, error) {
	dsn := parseConnectionString(path)
	if dsn == "" {
		return nil, fmt.Errorf("history database path is empty")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{
		db:           db,
		path:         dsn,
		queryTimeout: 30 * time.Second,
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores e, assigning an ID and timestamp when they are unset.
// The stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, created_at, url, multipart, bytes, parts, skipped, status, duration_us, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UnixMicro(), e.URL, e.Multipart, e.Bytes, e.Parts, e.Skipped,
		e.Status, e.Duration.Microseconds(), e.Error,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record submission: %w", err)
	}
	return e, nil
}

// List returns the most recent entries first. A limit of zero or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `SELECT id, created_at, url, multipart, bytes, parts, skipped, status, duration_us, error
		FROM submissions ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e          Entry
			createdAt  int64
			durationUs int64
		)
		if err := rows.Scan(&e.ID, &createdAt, &e.URL, &e.Multipart, &e.Bytes, &e.Parts,
			&e.Skipped, &e.Status, &durationUs, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.CreatedAt = time.UnixMicro(createdAt)
		e.Duration = time.Duration(durationUs) * time.Microsecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded submissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}
	return n, nil
}

func parseConnectionString(connStr string) string {
	connStr = strings.TrimSpace(connStr)
	if strings.HasPrefix(connStr, "sqlite://") {
		return strings.TrimPrefix(connStr, "sqlite://")
	}
	return strings.TrimPrefix(connStr, "sqlite:")
}
