// runlog_backend.go: Storage backends for the run log
//
// Two backends cover the realistic deployments of a configure-style tool:
// JSONL files (grep-able, shippable to log aggregators) and SQLite (a
// queryable trace of repeated configure runs on one machine). Backend
// choice is by output file extension.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/agilira/go-errors"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// runLogBackend abstracts run log storage so the RunLogger's buffering and
// lifecycle stay identical across JSONL and SQLite.
type runLogBackend interface {
	// Write persists a batch of events.
	Write(events []CheckEvent) error

	// Flush commits pending writes to storage.
	Flush() error

	// Close releases resources. The backend must not be used afterwards.
	Close() error
}

// createRunLogBackend selects a backend from the configured output file:
// ".db" selects SQLite, everything else JSONL.
func createRunLogBackend(config RunLogConfig) (runLogBackend, error) {
	if config.OutputFile == "" {
		return nil, errors.New(ErrCodeRunLogError, "run log requires an output file")
	}
	if filepath.Ext(config.OutputFile) == ".db" {
		return newSQLiteRunLogBackend(config.OutputFile)
	}
	return newJSONLRunLogBackend(config.OutputFile)
}

// jsonlRunLogBackend appends one JSON object per event to a text file.
type jsonlRunLogBackend struct {
	file   *os.File
	mu     sync.Mutex
	closed bool
}

func newJSONLRunLogBackend(path string) (*jsonlRunLogBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(err, ErrCodeRunLogError, "failed to create run log directory").
			WithContext("path", path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- run log path is user-provided intentionally
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeRunLogError, "failed to open run log file").
			WithContext("path", path)
	}

	return &jsonlRunLogBackend{file: file}, nil
}

func (j *jsonlRunLogBackend) Write(events []CheckEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return errors.New(ErrCodeRunLogError, "run log backend is closed")
	}

	for _, event := range events {
		line, err := json.Marshal(event)
		if err != nil {
			return errors.Wrap(err, ErrCodeRunLogError, "failed to serialize run log event")
		}
		if _, err := j.file.Write(append(line, '\n')); err != nil {
			return errors.Wrap(err, ErrCodeRunLogError, "failed to write run log event")
		}
	}
	return nil
}

func (j *jsonlRunLogBackend) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	return j.file.Sync()
}

func (j *jsonlRunLogBackend) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

// sqliteRunLogBackend stores events in a single check_events table with a
// prepared insert. WAL mode keeps concurrent readers (runlog query tooling)
// from blocking the writer.
type sqliteRunLogBackend struct {
	db         *sql.DB
	insertStmt *sql.Stmt
	mu         sync.Mutex
	closed     bool
}

func newSQLiteRunLogBackend(path string) (*sqliteRunLogBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(err, ErrCodeRunLogError, "failed to create run log directory").
			WithContext("path", path)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path))
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeRunLogError, "failed to open run log database").
			WithContext("path", path)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, ErrCodeRunLogError, "failed to ping run log database").
			WithContext("path", path)
	}

	backend := &sqliteRunLogBackend{db: db}
	if err := backend.initializeSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := backend.prepareStatements(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (s *sqliteRunLogBackend) initializeSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS check_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		level TEXT NOT NULL,
		event TEXT NOT NULL,
		section TEXT,
		key TEXT,
		operation TEXT,
		value TEXT,
		result TEXT,
		defined TEXT,
		detail TEXT,
		process_id INTEGER,
		process_name TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_check_events_timestamp ON check_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_check_events_section ON check_events(section);`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, ErrCodeRunLogError, "failed to initialize run log schema")
	}
	return nil
}

func (s *sqliteRunLogBackend) prepareStatements() error {
	insertSQL := `
	INSERT INTO check_events (
		timestamp, level, event, section, key, operation,
		value, result, defined, detail, process_id, process_name
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := s.db.Prepare(insertSQL)
	if err != nil {
		return errors.Wrap(err, ErrCodeRunLogError, "failed to prepare run log insert")
	}
	s.insertStmt = stmt
	return nil
}

func (s *sqliteRunLogBackend) Write(events []CheckEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(ErrCodeRunLogError, "run log backend is closed")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, ErrCodeRunLogError, "failed to begin run log transaction")
	}

	stmt := tx.Stmt(s.insertStmt)
	for _, event := range events {
		result := ""
		if event.Result != nil {
			result = fmt.Sprintf("%v", event.Result)
		}
		if _, err := stmt.Exec(
			event.Timestamp, event.Level.String(), event.Event,
			event.Section, event.Key, event.Operation,
			event.Value, result, event.Defined, event.Detail,
			event.ProcessID, event.ProcessName,
		); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, ErrCodeRunLogError, "failed to insert run log event")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, ErrCodeRunLogError, "failed to commit run log transaction")
	}
	return nil
}

func (s *sqliteRunLogBackend) Flush() error {
	// SQLite commits on transaction boundaries; Write already committed.
	return nil
}

func (s *sqliteRunLogBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.insertStmt != nil {
		_ = s.insertStmt.Close()
	}
	return s.db.Close()
}
