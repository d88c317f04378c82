// Package transcript persists REPL and script evaluations to a SQL store
// so past sessions can be listed, exported and cleared.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fortio.org/log"

	// Registered database/sql drivers, one per supported backend.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Kind classifies a recorded evaluation.
type Kind string

const (
	KindValue      Kind = "value"
	KindError      Kind = "error"
	KindParseError Kind = "parse-error"
)

// Entry is a single recorded evaluation.
type Entry struct {
	ID      int64     `json:"id"`
	Session string    `json:"session"`
	Time    time.Time `json:"time"`
	Input   string    `json:"input"`
	Output  string    `json:"output"`
	Kind    Kind      `json:"kind"`
}

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	Since   time.Time
	Limit   int
	Session string
}

// Store is a transcript backed by database/sql.
type Store struct {
	mu         sync.Mutex
	db         *sql.DB
	driver     string
	maxEntries int
}

// Open connects to the transcript database and creates the schema.
// driver is one of "sqlite", "postgres" or "mysql".
func Open(driver, dsn string) (*Store, error) {
	var sqlDriver string
	switch driver {
	case "sqlite", "":
		driver, sqlDriver = "sqlite", "sqlite"
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("creating transcript directory: %w", err)
			}
		}
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
	case "postgres":
		sqlDriver = "postgres"
	case "mysql":
		sqlDriver = "mysql"
	default:
		return nil, fmt.Errorf("unknown transcript driver %q (supported: sqlite, postgres, mysql)", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening transcript database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to transcript database: %w", err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating transcript schema: %w", err)
	}
	log.LogVf("transcript: opened %s store", driver)
	return s, nil
}

// SetMaxEntries bounds the number of stored entries; 0 disables truncation.
func (s *Store) SetMaxEntries(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxEntries = n
}

func (s *Store) createSchema() error {
	var idColumn string
	switch s.driver {
	case "postgres":
		idColumn = "id BIGSERIAL PRIMARY KEY"
	case "mysql":
		idColumn = "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	default:
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	// one statement per Exec: the mysql driver rejects multi-statement strings
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transcript (
			` + idColumn + `,
			session VARCHAR(64) NOT NULL,
			created_at BIGINT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			kind VARCHAR(16) NOT NULL
		)`,
	}
	if s.driver != "mysql" {
		stmts = append(stmts, `CREATE INDEX IF NOT EXISTS idx_transcript_created ON transcript(created_at)`)
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record appends an entry. A zero Time is replaced with the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if e.Kind == "" {
		e.Kind = KindValue
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO transcript (session, created_at, input, output, kind)
		VALUES (?, ?, ?, ?, ?)
	`), e.Session, e.Time.UnixNano(), e.Input, e.Output, string(e.Kind))
	if err != nil {
		return fmt.Errorf("recording transcript entry: %w", err)
	}

	if err := s.maybeTruncate(ctx); err != nil {
		log.Warnf("transcript truncation failed: %v", err)
	}
	return nil
}

// maybeTruncate deletes the oldest entries beyond maxEntries. Caller holds mu.
func (s *Store) maybeTruncate(ctx context.Context) error {
	if s.maxEntries <= 0 {
		return nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcript`).Scan(&count); err != nil {
		return err
	}
	if count <= s.maxEntries {
		return nil
	}

	var keepFrom int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id FROM transcript ORDER BY id DESC LIMIT 1 OFFSET ?
	`), s.maxEntries-1).Scan(&keepFrom)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM transcript WHERE id < ?`), keepFrom)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		log.LogVf("transcript: truncated %d entries", n)
	}
	return nil
}

// List returns matching entries in chronological order. With a Limit, the
// most recent entries are kept.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, session, created_at, input, output, kind FROM transcript`
	var where []string
	var args []any
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.Since.UnixNano())
	}
	if f.Session != "" {
		where = append(where, "session = ?")
		args = append(args, f.Session)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing transcript: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var nanos int64
		var kind string
		if err := rows.Scan(&e.ID, &e.Session, &nanos, &e.Input, &e.Output, &kind); err != nil {
			return nil, fmt.Errorf("scanning transcript entry: %w", err)
		}
		e.Time = time.Unix(0, nanos)
		e.Kind = Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transcript: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcript`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting transcript: %w", err)
	}
	return count, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM transcript`)
	if err != nil {
		return 0, fmt.Errorf("clearing transcript: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
