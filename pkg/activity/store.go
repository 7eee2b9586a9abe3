// Package activity records per-kernel execution activity.
//
// The store is backed by SQLite so the numbers survive gateway restarts
// when a database path is configured; the default is an in-memory
// database scoped to the process. Snapshots feed the /_api/activity
// endpoint.
package activity

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// InMemoryDSN is the default database location.
const InMemoryDSN = ":memory:"

// KernelActivity is one kernel's recorded activity. Field names in the
// JSON form follow the activity feed this gateway has always served.
type KernelActivity struct {
	KernelID          string  `json:"kernel_id"`
	Busy              bool    `json:"busy"`
	Executions        int64   `json:"executions"`
	Errors            int64   `json:"errors"`
	Retired           bool    `json:"retired"`
	LastMessageAt     *string `json:"last_message_to_kernel"`
	LastStateChangeAt *string `json:"last_time_state_changed"`
}

// Config holds store settings.
type Config struct {
	// Path is the SQLite database location. Empty selects an in-memory
	// database.
	Path string
}

// Store persists kernel activity counters. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// New opens the database, applies pragmas, and creates the schema.
func New(cfg Config) (*Store, error) {
	path := cfg.Path
	inMemory := path == ""
	if inMemory {
		path = InMemoryDSN
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("activity: open database: %w", err)
	}
	if inMemory {
		// a :memory: database exists per connection; pin the pool to one
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("activity: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("activity: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kernel_activity (
			kernel_id            TEXT PRIMARY KEY,
			busy                 INTEGER NOT NULL DEFAULT 0,
			executions           INTEGER NOT NULL DEFAULT 0,
			errors               INTEGER NOT NULL DEFAULT 0,
			retired              INTEGER NOT NULL DEFAULT 0,
			last_message_at      TEXT,
			last_state_change_at TEXT
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordStart registers a kernel the moment its session is ready. Known
// kernels keep their counters.
func (s *Store) RecordStart(ctx context.Context, kernelID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO kernel_activity (kernel_id, last_state_change_at)
		VALUES (?, datetime('now'))`,
		kernelID)
	if err != nil {
		return fmt.Errorf("activity: record start: %w", err)
	}
	return nil
}

// RecordBusy flips the busy flag for a kernel.
func (s *Store) RecordBusy(ctx context.Context, kernelID string, busy bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE kernel_activity
		SET busy = ?, last_state_change_at = datetime('now')
		WHERE kernel_id = ?`,
		boolToInt(busy), kernelID)
	if err != nil {
		return fmt.Errorf("activity: record busy: %w", err)
	}
	return nil
}

// RecordExecution counts one completed code submission for a kernel.
func (s *Store) RecordExecution(ctx context.Context, kernelID string, failed bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE kernel_activity
		SET executions = executions + 1,
		    errors = errors + ?,
		    last_message_at = datetime('now')
		WHERE kernel_id = ?`,
		boolToInt(failed), kernelID)
	if err != nil {
		return fmt.Errorf("activity: record execution: %w", err)
	}
	return nil
}

// RecordRetired marks a kernel as replaced or shut down. The row is kept
// so operators can still see what a damaged kernel did.
func (s *Store) RecordRetired(ctx context.Context, kernelID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE kernel_activity
		SET retired = 1, busy = 0, last_state_change_at = datetime('now')
		WHERE kernel_id = ?`,
		kernelID)
	if err != nil {
		return fmt.Errorf("activity: record retired: %w", err)
	}
	return nil
}

// Snapshot returns the activity of every known kernel keyed by kernel id.
func (s *Store) Snapshot(ctx context.Context) (map[string]*KernelActivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kernel_id, busy, executions, errors, retired, last_message_at, last_state_change_at
		FROM kernel_activity
		ORDER BY kernel_id`)
	if err != nil {
		return nil, fmt.Errorf("activity: snapshot: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*KernelActivity)
	for rows.Next() {
		var a KernelActivity
		var lastMsg, lastChange sql.NullString
		if err := rows.Scan(&a.KernelID, &a.Busy, &a.Executions, &a.Errors, &a.Retired, &lastMsg, &lastChange); err != nil {
			return nil, fmt.Errorf("activity: scan: %w", err)
		}
		if lastMsg.Valid {
			a.LastMessageAt = &lastMsg.String
		}
		if lastChange.Valid {
			a.LastStateChangeAt = &lastChange.String
		}
		out[a.KernelID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity: snapshot rows: %w", err)
	}

	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
