package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ── Run History ────────────────────────────────────────────
// Every migration run leaves one row behind: when it ran, how many rows
// it read and wrote, and how it ended. The collection contents are the
// product; this store is the audit trail.

// RunLog is a historical record of a single migration run.
type RunLog struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Status      string    `json:"status"` // "success" | "error"
	RowsRead    int       `json:"rowsRead"`
	RowsWritten int       `json:"rowsWritten"`
	Error       string    `json:"error,omitempty"`
}

// RunStore persists run logs in a local SQLite file.
type RunStore struct {
	conn *sql.DB
}

// OpenRunStore opens (or creates) the SQLite file at dbPath.
func OpenRunStore(dbPath string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to single connection to prevent SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	s := &RunStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.conn.Close()
}

func (s *RunStore) migrate() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS migration_runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		rows_read INTEGER NOT NULL DEFAULT 0,
		rows_written INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

// CreateRunLog records one finished run.
func (s *RunStore) CreateRunLog(l *RunLog) error {
	l.ID = uuid.New().String()
	_, err := s.conn.Exec(
		`INSERT INTO migration_runs (id, started_at, finished_at, status, rows_read, rows_written, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.StartedAt, l.FinishedAt, l.Status, l.RowsRead, l.RowsWritten, l.Error,
	)
	return err
}

// ListRunLogs returns the most recent runs, newest first.
func (s *RunStore) ListRunLogs(limit int) ([]RunLog, error) {
	rows, err := s.conn.Query(
		`SELECT id, started_at, finished_at, status, rows_read, rows_written, error
		 FROM migration_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []RunLog
	for rows.Next() {
		var l RunLog
		if err := rows.Scan(&l.ID, &l.StartedAt, &l.FinishedAt, &l.Status, &l.RowsRead, &l.RowsWritten, &l.Error); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
