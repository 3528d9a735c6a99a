// cli_integration_test.go: CLI integration testing
//
// Tests drive the Manager directly, the way main does, against real
// documents in isolated temp directories, and verify the printed output.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLITestFixture manages CLI testing in isolated environments.
type CLITestFixture struct {
	t       *testing.T
	tempDir string
	manager *Manager
}

// NewCLITestFixture creates an isolated environment for CLI testing.
func NewCLITestFixture(t *testing.T) *CLITestFixture {
	t.Helper()
	return &CLITestFixture{
		t:       t,
		tempDir: t.TempDir(),
		manager: NewManager(),
	}
}

// RunCLI executes a CLI command via the Manager, capturing stdout.
func (f *CLITestFixture) RunCLI(args ...string) (string, error) {
	f.t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		f.t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Flag values parsed by the Orpheus app persist across Run calls, so
	// each invocation needs a fresh Manager, the way main gets one per process.
	f.manager = NewManager()
	runErr := f.manager.Run(args)

	os.Stdout = oldStdout
	_ = w.Close()
	output, err := io.ReadAll(r)
	if err != nil {
		f.t.Fatalf("Failed to read captured output: %v", err)
	}
	_ = r.Close()

	return strings.TrimSpace(string(output)), runErr
}

// CreateTempDocument creates a document file in the temp directory.
func (f *CLITestFixture) CreateTempDocument(name, content string) string {
	f.t.Helper()

	path := filepath.Join(f.tempDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.t.Fatalf("Failed to create temp document: %v", err)
	}
	return path
}

func TestCLIValidate(t *testing.T) {
	fixture := NewCLITestFixture(t)

	t.Run("valid_document", func(t *testing.T) {
		path := fixture.CreateTempDocument("configure.ini", `
[headers]
stdio.h = 1
time.h = 0

[mystery]
thing = 1
`)
		output, err := fixture.RunCLI("validate", path)
		if err != nil {
			t.Fatalf("Validate should succeed: %v", err)
		}

		if !strings.Contains(output, "[headers]") {
			t.Errorf("Expected headers section in output:\n%s", output)
		}
		if !strings.Contains(output, "(unrecognized, ignored at run time)") {
			t.Errorf("Expected unrecognized section marker:\n%s", output)
		}
		if !strings.Contains(output, "(falsy, skipped)") {
			t.Errorf("Expected falsy entry marker:\n%s", output)
		}
		if !strings.Contains(output, "Valid document:") {
			t.Errorf("Expected validation summary:\n%s", output)
		}
	})

	t.Run("missing_argument", func(t *testing.T) {
		if _, err := fixture.RunCLI("validate"); err == nil {
			t.Error("Validate without a file should fail")
		}
	})

	t.Run("nonexistent_file", func(t *testing.T) {
		missing := filepath.Join(fixture.tempDir, "absent.ini")
		if _, err := fixture.RunCLI("validate", missing); err == nil {
			t.Error("Validate of a missing file should fail")
		}
	})

	t.Run("explicit_format_override", func(t *testing.T) {
		path := fixture.CreateTempDocument("probes.txt", "headers:\n  stdio.h: 1\n")
		output, err := fixture.RunCLI("validate", path, "--format", "yaml")
		if err != nil {
			t.Fatalf("Validate with explicit format should succeed: %v", err)
		}
		if !strings.Contains(output, "stdio.h") {
			t.Errorf("Expected parsed entry in output:\n%s", output)
		}
	})

	t.Run("unknown_extension_without_format", func(t *testing.T) {
		path := fixture.CreateTempDocument("probes.dat", "[headers]\nstdio.h = 1\n")
		if _, err := fixture.RunCLI("validate", path); err == nil {
			t.Error("Unknown extension without --format should fail")
		}
	})
}

func TestCLIPlan(t *testing.T) {
	fixture := NewCLITestFixture(t)

	t.Run("prints_execution_order", func(t *testing.T) {
		path := fixture.CreateTempDocument("configure.ini", `
[outputs]
config.h = 1

[headers]
stdio.h = HAVE_STDIO_H

[includes]
/opt/include = 1
`)
		output, err := fixture.RunCLI("plan", path)
		if err != nil {
			t.Fatalf("Plan should succeed: %v", err)
		}

		// Fixed processing order regardless of document order.
		incl := strings.Index(output, "push_include_path /opt/include")
		hdr := strings.Index(output, "check_header stdio.h")
		out := strings.Index(output, "write_config_header config.h")
		if incl < 0 || hdr < 0 || out < 0 {
			t.Fatalf("Missing plan steps:\n%s", output)
		}
		if !(incl < hdr && hdr < out) {
			t.Errorf("Plan steps out of order:\n%s", output)
		}
		if !strings.Contains(output, "define HAVE_STDIO_H") {
			t.Errorf("Expected define line:\n%s", output)
		}
		if !strings.Contains(output, "3 operations") {
			t.Errorf("Expected operation count:\n%s", output)
		}
	})

	t.Run("verbose_shows_prologue", func(t *testing.T) {
		path := fixture.CreateTempDocument("probes.ini", `
[headers]
stdio.h = 1

[funcs]
printf = 1
`)
		output, err := fixture.RunCLI("plan", path, "--verbose")
		if err != nil {
			t.Fatalf("Plan should succeed: %v", err)
		}
		if !strings.Contains(output, "prologue: #include <stdio.h>") {
			t.Errorf("Expected prologue detail:\n%s", output)
		}
	})

	t.Run("empty_document", func(t *testing.T) {
		path := fixture.CreateTempDocument("empty.ini", "")
		output, err := fixture.RunCLI("plan", path)
		if err != nil {
			t.Fatalf("Plan should succeed: %v", err)
		}
		if !strings.Contains(output, "Nothing to do") {
			t.Errorf("Expected empty plan message:\n%s", output)
		}
	})

	t.Run("writes_run_log", func(t *testing.T) {
		docPath := fixture.CreateTempDocument("configure.ini", "[headers]\nstdio.h = 1\n")
		logPath := filepath.Join(fixture.tempDir, "plan.jsonl")

		if _, err := fixture.RunCLI("plan", docPath, "--run-log", logPath); err != nil {
			t.Fatalf("Plan should succeed: %v", err)
		}

		data, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("Run log should exist: %v", err)
		}
		if !strings.Contains(string(data), "check_header") {
			t.Errorf("Run log missing check event:\n%s", data)
		}
	})
}

func TestCLISections(t *testing.T) {
	fixture := NewCLITestFixture(t)

	output, err := fixture.RunCLI("sections")
	if err != nil {
		t.Fatalf("Sections should succeed: %v", err)
	}

	for _, name := range []string{"includes", "headers", "funcs", "outputs"} {
		if !strings.Contains(output, name) {
			t.Errorf("Expected section %s in output:\n%s", name, output)
		}
	}
	if strings.Index(output, "includes") > strings.Index(output, "outputs") {
		t.Errorf("Sections printed out of processing order:\n%s", output)
	}
	if !strings.Contains(output, "check_prog_cc") {
		t.Errorf("Expected progs overrides in output:\n%s", output)
	}
}

func TestCLIRunLogQuery(t *testing.T) {
	fixture := NewCLITestFixture(t)

	// Produce a real run log through the plan command first.
	docPath := fixture.CreateTempDocument("configure.ini", `
[headers]
stdio.h = HAVE_STDIO_H

[funcs]
printf = 1
`)
	logPath := filepath.Join(fixture.tempDir, "run.jsonl")
	if _, err := fixture.RunCLI("plan", docPath, "--run-log", logPath); err != nil {
		t.Fatalf("Plan should succeed: %v", err)
	}

	t.Run("prints_all_events", func(t *testing.T) {
		output, err := fixture.RunCLI("runlog", "query", logPath)
		if err != nil {
			t.Fatalf("Query should succeed: %v", err)
		}
		if !strings.Contains(output, "check_header") || !strings.Contains(output, "check_func") {
			t.Errorf("Expected both checks in output:\n%s", output)
		}
		if !strings.Contains(output, "define=HAVE_STDIO_H") {
			t.Errorf("Expected define annotation:\n%s", output)
		}
	})

	t.Run("section_filter", func(t *testing.T) {
		output, err := fixture.RunCLI("runlog", "query", logPath, "--section", "funcs")
		if err != nil {
			t.Fatalf("Query should succeed: %v", err)
		}
		if strings.Contains(output, "check_header") {
			t.Errorf("Section filter leaked headers events:\n%s", output)
		}
		if !strings.Contains(output, "check_func") {
			t.Errorf("Expected funcs event:\n%s", output)
		}
	})

	t.Run("event_filter", func(t *testing.T) {
		output, err := fixture.RunCLI("runlog", "query", logPath, "--event", "check")
		if err != nil {
			t.Fatalf("Query should succeed: %v", err)
		}
		if !strings.Contains(output, "2 events") {
			t.Errorf("Expected exactly the two check events:\n%s", output)
		}
	})

	t.Run("limit", func(t *testing.T) {
		output, err := fixture.RunCLI("runlog", "query", logPath, "--limit", "1")
		if err != nil {
			t.Fatalf("Query should succeed: %v", err)
		}
		if !strings.Contains(output, "1 events") {
			t.Errorf("Expected limit to apply:\n%s", output)
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		if _, err := fixture.RunCLI("runlog", "query", filepath.Join(fixture.tempDir, "absent.jsonl")); err == nil {
			t.Error("Query of a missing run log should fail")
		}
	})
}

func TestCLIUtilities(t *testing.T) {
	t.Run("detect_format", func(t *testing.T) {
		tests := []struct {
			path     string
			explicit string
			want     string
		}{
			{"configure.ini", "auto", "ini"},
			{"configure.yml", "auto", "yaml"},
			{"configure.dat", "yaml", "yaml"},
			{"configure.ini", "yaml", "yaml"},
			{"configure.dat", "auto", "unknown"},
			{"configure.dat", "nonsense", "unknown"},
		}
		for _, tt := range tests {
			if got := detectFormat(tt.path, tt.explicit); got.String() != tt.want {
				t.Errorf("detectFormat(%q, %q) = %s, want %s", tt.path, tt.explicit, got, tt.want)
			}
		}
	})

	t.Run("recognized_sections", func(t *testing.T) {
		known := recognizedSections()
		if !known["headers"] || !known["outputs"] {
			t.Error("Expected headers and outputs to be recognized")
		}
		if known["mystery"] {
			t.Error("Unexpected section recognized")
		}
	})
}
