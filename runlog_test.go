// runlog_test.go: Run log buffering and backend tests
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// readJSONLEvents decodes every event written to a JSONL run log.
func readJSONLEvents(t *testing.T, path string) []CheckEvent {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open run log: %v", err)
	}
	defer file.Close()

	var events []CheckEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event CheckEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("Failed to decode run log line %q: %v", scanner.Text(), err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Failed to scan run log: %v", err)
	}
	return events
}

func TestRunLoggerJSONL(t *testing.T) {
	t.Run("records_checks_warnings_and_boundaries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.jsonl")
		logger, err := NewRunLogger(DefaultRunLogConfig(path))
		if err != nil {
			t.Fatalf("Failed to create run logger: %v", err)
		}

		logger.LogRun("run_start", "configure.ini")
		logger.LogCheck("headers", "stdio.h", OpCheckHeader, "HAVE_STDIO_H", true, "HAVE_STDIO_H")
		logger.LogWarn("bundle", "mystery", OpNone, "no provider operation")
		logger.LogRun("run_end", "configure.ini")

		if err := logger.Close(); err != nil {
			t.Fatalf("Failed to close run logger: %v", err)
		}

		events := readJSONLEvents(t, path)
		if len(events) != 4 {
			t.Fatalf("Expected 4 events, got %d", len(events))
		}

		check := events[1]
		if check.Event != "check" || check.Section != "headers" || check.Key != "stdio.h" {
			t.Errorf("Unexpected check event: %+v", check)
		}
		if check.Operation != "check_header" || check.Defined != "HAVE_STDIO_H" {
			t.Errorf("Unexpected check metadata: %+v", check)
		}
		if check.ProcessID != os.Getpid() {
			t.Errorf("Expected process ID %d, got %d", os.Getpid(), check.ProcessID)
		}

		warn := events[2]
		if warn.Level != CheckWarn || warn.Event != "entry_skipped" {
			t.Errorf("Unexpected warn event: %+v", warn)
		}
	})

	t.Run("nil_logger_is_safe", func(t *testing.T) {
		var logger *RunLogger
		logger.LogCheck("headers", "stdio.h", OpCheckHeader, "1", true, "")
		logger.LogWarn("bundle", "x", OpNone, "detail")
		logger.LogRun("run_start", "configure.ini")
		if err := logger.Flush(); err != nil {
			t.Errorf("Nil flush should be a no-op, got %v", err)
		}
		if err := logger.Close(); err != nil {
			t.Errorf("Nil close should be a no-op, got %v", err)
		}
	})

	t.Run("disabled_logger_writes_nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.jsonl")
		config := DefaultRunLogConfig(path)
		config.Enabled = false

		logger, err := NewRunLogger(config)
		if err != nil {
			t.Fatalf("Failed to create run logger: %v", err)
		}
		logger.LogCheck("headers", "stdio.h", OpCheckHeader, "1", true, "")
		if err := logger.Close(); err != nil {
			t.Fatalf("Failed to close run logger: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Run log file should exist: %v", err)
		}
		if info.Size() != 0 {
			t.Errorf("Disabled logger must write nothing, file has %d bytes", info.Size())
		}
	})

	t.Run("buffer_overflow_triggers_flush", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.jsonl")
		config := DefaultRunLogConfig(path)
		config.BufferSize = 2
		config.FlushInterval = 0 // no background flushing

		logger, err := NewRunLogger(config)
		if err != nil {
			t.Fatalf("Failed to create run logger: %v", err)
		}
		defer logger.Close()

		logger.LogRun("run_start", "a.ini")
		logger.LogRun("run_end", "a.ini")

		events := readJSONLEvents(t, path)
		if len(events) != 2 {
			t.Errorf("Expected flush at buffer capacity, got %d events on disk", len(events))
		}
	})

	t.Run("missing_output_file_rejected", func(t *testing.T) {
		if _, err := NewRunLogger(RunLogConfig{Enabled: true}); err == nil {
			t.Error("Empty output file should be rejected")
		}
	})
}

func TestRunLoggerSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	config := DefaultRunLogConfig(path)
	config.FlushInterval = 0

	logger, err := NewRunLogger(config)
	if err != nil {
		t.Fatalf("Failed to create SQLite run logger: %v", err)
	}

	logger.LogRun("run_start", "configure.ini")
	logger.LogCheck("funcs", "printf", OpCheckFunc, "HAVE_PRINTF", true, "HAVE_PRINTF")
	logger.LogCheck("sizeof_types", "int", OpSizeofType, "1", 4, "")
	logger.LogRun("run_end", "configure.ini")

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close run logger: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to reopen run log database: %v", err)
	}
	defer db.Close()

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM check_events").Scan(&total); err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if total != 4 {
		t.Errorf("Expected 4 stored events, got %d", total)
	}

	var operation, result string
	err = db.QueryRow(
		"SELECT operation, result FROM check_events WHERE section = ? AND key = ?",
		"sizeof_types", "int",
	).Scan(&operation, &result)
	if err != nil {
		t.Fatalf("Failed to query sizeof event: %v", err)
	}
	if operation != "check_sizeof_type" || result != "4" {
		t.Errorf("Expected check_sizeof_type/4, got %s/%s", operation, result)
	}
}

func TestRunnerWritesRunLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	config := DefaultRunLogConfig(path)
	config.FlushInterval = 0

	logger, err := NewRunLogger(config)
	if err != nil {
		t.Fatalf("Failed to create run logger: %v", err)
	}

	provider := newFakeProvider()
	provider.headerResults["stdio.h"] = true

	docPath := filepath.Join(t.TempDir(), "configure.ini")
	if err := os.WriteFile(docPath, []byte("[headers]\nstdio.h = HAVE_STDIO_H\n"), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}

	runner, err := New(provider, WithRunLogger(logger))
	if err != nil {
		t.Fatalf("Failed to create runner: %v", err)
	}
	if err := runner.Run(docPath); err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close run logger: %v", err)
	}

	events := readJSONLEvents(t, path)
	if len(events) != 3 {
		t.Fatalf("Expected run_start/check/run_end, got %d events", len(events))
	}
	if events[0].Event != "run_start" || events[2].Event != "run_end" {
		t.Errorf("Missing run boundaries: %+v", events)
	}
	if events[1].Event != "check" || events[1].Defined != "HAVE_STDIO_H" {
		t.Errorf("Unexpected check event: %+v", events[1])
	}
	if events[1].Timestamp.IsZero() || time.Since(events[1].Timestamp) > time.Minute {
		t.Errorf("Unexpected event timestamp: %v", events[1].Timestamp)
	}
}
