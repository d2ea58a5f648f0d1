package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for resolution trace logs.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY on concurrent appends.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// BeginPass registers a new resolution pass for a component.
func (s *Store) BeginPass(ctx context.Context, token, component string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO passes (token, component) VALUES (?, ?)`,
		token, component)
	if err != nil {
		return fmt.Errorf("failed to begin pass %s: %w", token, err)
	}
	return nil
}

// Append writes one event row for a pass. Seq is assigned by the store and
// is strictly increasing across all passes.
func (s *Store) Append(ctx context.Context, token, kind, slot, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (token, kind, slot, detail) VALUES (?, ?, ?, ?)`,
		token, kind, slot, detail)
	if err != nil {
		return fmt.Errorf("failed to append event for pass %s: %w", token, err)
	}
	return nil
}

// Event is one recorded resolution step.
type Event struct {
	Seq    int64
	Token  string
	Kind   string
	Slot   string
	Detail string
}

// Pass reads all events of one pass ordered by seq ASC.
func (s *Store) Pass(ctx context.Context, token string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, token, kind, slot, detail FROM events WHERE token = ? ORDER BY seq ASC`,
		token)
	if err != nil {
		return nil, fmt.Errorf("failed to read pass %s: %w", token, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.Seq, &ev.Token, &ev.Kind, &ev.Slot, &ev.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// PassInfo describes one registered pass.
type PassInfo struct {
	Token     string
	Component string
}

// Passes lists registered passes in insertion order (token is UUIDv7, so
// lexical order is creation order).
func (s *Store) Passes(ctx context.Context) ([]PassInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token, component FROM passes ORDER BY token ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	defer rows.Close()

	var passes []PassInfo
	for rows.Next() {
		var p PassInfo
		if err := rows.Scan(&p.Token, &p.Component); err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate passes: %w", err)
	}
	return passes, nil
}
