// Package store persists validation runs and their diagnostics so a
// downstream tool (an editor integration, a CI dashboard) can query past
// results without re-running or re-parsing log text.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Componolit/RecordFlux/internal/diag"
)

// Store wraps a SQLite database holding past validation runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// ensures its schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		);
		CREATE TABLE IF NOT EXISTS diagnostics (
			run_id TEXT NOT NULL REFERENCES runs(id),
			subsystem TEXT NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL,
			file TEXT NOT NULL,
			line INTEGER NOT NULL,
			column INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
	`)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// RecordRun persists one validation run's diagnostics under a new
// correlation ID, returned for the caller to hand to downstream tooling.
func (s *Store) RecordRun(ctx context.Context, subject string, bag *diag.Bag) (string, error) {
	runID := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, subject) VALUES (?, ?)`, runID, subject); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	for _, d := range bag.Diagnostics() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, subsystem, severity, message, file, line, column) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, d.Subsystem.String(), d.Severity.String(), d.Message, d.Location.File, d.Location.Line, d.Location.Column,
		)
		if err != nil {
			return "", fmt.Errorf("record diagnostic: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// RunDiagnostic is one row read back from a prior run.
type RunDiagnostic struct {
	Subsystem, Severity, Message, File string
	Line, Column                       int
}

// Diagnostics returns every diagnostic recorded for runID, in insertion
// order.
func (s *Store) Diagnostics(ctx context.Context, runID string) ([]RunDiagnostic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subsystem, severity, message, file, line, column FROM diagnostics WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunDiagnostic
	for rows.Next() {
		var d RunDiagnostic
		if err := rows.Scan(&d.Subsystem, &d.Severity, &d.Message, &d.File, &d.Line, &d.Column); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
