// Package history keeps a journal of paper conversions in SQLite.
//
// Each entry records which renderer served a request and how long it took.
// The submission itself is never stored; only its title is kept for
// identification.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Outcomes stored in Entry.Outcome.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// DefaultListLimit and MaxListLimit bound List.
const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one conversion.
type Entry struct {
	RequestID string        `json:"requestId"`
	Time      time.Time     `json:"time"`
	Title     string        `json:"title"`
	Authors   int           `json:"authors"`
	Renderer  string        `json:"renderer,omitempty"`
	Outcome   string        `json:"outcome"`
	Bytes     int           `json:"bytes"`
	Duration  time.Duration `json:"durationNs"`
}

// Store wraps a SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path. ":memory:" gives a private
// in-memory journal.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			title TEXT NOT NULL,
			authors INTEGER NOT NULL,
			renderer TEXT NOT NULL,
			outcome TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_renders_created_at ON renders(created_at);
	`)
	return err
}

// Record appends e to the journal.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (request_id, created_at, title, authors, renderer, outcome, bytes, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Time.UTC().Format(timeLayout), e.Title, e.Authors,
		e.Renderer, e.Outcome, e.Bytes, int64(e.Duration),
	)
	if err != nil {
		return fmt.Errorf("recording render: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit outside
// [1, MaxListLimit] is replaced by DefaultListLimit or clamped.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id, created_at, title, authors, renderer, outcome, bytes, duration_ns
		 FROM renders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing renders: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created string
			durNS   int64
		)
		if err := rows.Scan(&e.RequestID, &created, &e.Title, &e.Authors, &e.Renderer, &e.Outcome, &e.Bytes, &durNS); err != nil {
			return nil, fmt.Errorf("scanning render: %w", err)
		}
		e.Time, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parsing render time %q: %w", created, err)
		}
		e.Duration = time.Duration(durNS)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates the journal per renderer and outcome.
type Stats struct {
	Total      int            `json:"total"`
	ByRenderer map[string]int `json:"byRenderer"`
	ByOutcome  map[string]int `json:"byOutcome"`
}

// Summary returns counts over the whole journal.
func (s *Store) Summary(ctx context.Context) (*Stats, error) {
	st := &Stats{ByRenderer: map[string]int{}, ByOutcome: map[string]int{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT renderer, outcome, COUNT(*) FROM renders GROUP BY renderer, outcome`)
	if err != nil {
		return nil, fmt.Errorf("summarizing renders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var renderer, outcome string
		var n int
		if err := rows.Scan(&renderer, &outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		st.Total += n
		if renderer != "" {
			st.ByRenderer[renderer] += n
		}
		st.ByOutcome[outcome] += n
	}
	return st, rows.Err()
}

// Prune deletes entries older than cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders WHERE created_at < ?`,
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning renders: %w", err)
	}
	return res.RowsAffected()
}
