// Package eventlog records completed GetConfig operations in an
// append-only SQLite database for auditing. It is not a content cache:
// it stores metadata about requests (stage, environment, component,
// outcome, duration), never the archived bytes, and is never consulted
// to answer a request.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded GetConfig outcome.
type Entry struct {
	ID          int64
	Stage       string
	Environment string
	Component   string
	Kind        string // errorkind.Kind string, or "" on success
	ByteSize    int64  // len(data) on success, 0 on failure
	DurationMS  int64
	Timestamp   time.Time
}

// Log appends GetConfig outcomes to a SQLite-backed table.
type Log struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the event log at dbPath. Use ":memory:" for a
// transient, process-local log.
func Open(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	l := &Log{db: db}
	if err := l.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return l, nil
}

func (l *Log) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS get_config_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stage TEXT NOT NULL,
		environment TEXT NOT NULL,
		component TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		byte_size INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_get_config_events_stage ON get_config_events(stage);
	CREATE INDEX IF NOT EXISTS idx_get_config_events_timestamp ON get_config_events(timestamp);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record appends a single GetConfig outcome. kind is empty on success;
// byteSize is the size of the returned archive and is 0 on failure.
func (l *Log) Record(ctx context.Context, stage, environment, component, kind string, byteSize int64, duration time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		"INSERT INTO get_config_events (stage, environment, component, kind, byte_size, duration_ms, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		stage, environment, component, kind, byteSize, duration.Milliseconds(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns the most recent entries for a stage, newest first.
func (l *Log) Recent(ctx context.Context, stage string, limit int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, stage, environment, component, kind, byte_size, duration_ms, timestamp FROM get_config_events WHERE stage = ? ORDER BY id DESC LIMIT ?",
		stage, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var timestampUnix int64
		if err := rows.Scan(&e.ID, &e.Stage, &e.Environment, &e.Component, &e.Kind, &e.ByteSize, &e.DurationMS, &timestampUnix); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Timestamp = time.Unix(timestampUnix, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Close()
}
