// Package state journals fetch runs in a SQLite database so past API
// pulls can be listed and inspected.
package state

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunKind identifies which fetcher produced a run.
type RunKind string

const (
	KindPlaces RunKind = "places"
	KindBEA    RunKind = "bea"
)

// RunStatus is the lifecycle state of a fetch run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// Run is one journaled fetch.
type Run struct {
	ID          string
	Kind        RunKind
	Params      string
	Status      RunStatus
	Rows        int64
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// Store persists runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates an unopened store.
func NewStore() *Store {
	return &Store{}
}

// Open opens the SQLite database at path, creating it when missing.
// Use ":memory:" for an in-memory journal.
func (s *Store) Open(path string) error {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		// WAL keeps the journal readable while a fetch writes to it.
		dsn += "&_pragma=journal_mode(wal)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs all pending database migrations.
func (s *Store) Migrate() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// StartRun journals the beginning of a fetch.
func (s *Store) StartRun(kind RunKind, params string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        uuid.New().String(),
		Kind:      kind,
		Params:    params,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, kind, params, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.Params, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun marks a run as completed with its row count and status.
func (s *Store) FinishRun(id string, rows int64, status RunStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE runs SET status = ?, rows_fetched = ?, completed_at = ?, error = ? WHERE id = ?`,
		status, rows, now, errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := s.db.QueryRow(
		`SELECT id, kind, params, status, rows_fetched, started_at, completed_at, error FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.Kind, &run.Params, &run.Status, &run.Rows, &run.StartedAt, &completedAt, &errMsg)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first. A non-positive
// limit returns up to 50.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, kind, params, status, rows_fetched, started_at, completed_at, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var completedAt sql.NullTime
		var errMsg sql.NullString

		err := rows.Scan(&run.ID, &run.Kind, &run.Params, &run.Status, &run.Rows, &run.StartedAt, &completedAt, &errMsg)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
