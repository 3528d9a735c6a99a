// Package cli provides the command-line interface for autoconf-ini.
//
// The CLI is built on the Orpheus framework and covers the workflows that
// do not need a real probing provider: validating configuration documents,
// printing the resolved execution plan for a document, inspecting the
// dispatch table, and querying run logs.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package cli

import (
	autoconfini "github.com/agilira/autoconf-ini"
	"github.com/agilira/orpheus/pkg/orpheus"
)

// Manager wires the Orpheus application and its command handlers.
type Manager struct {
	app *orpheus.App
}

// NewManager creates the CLI manager with all commands registered.
func NewManager() *Manager {
	app := orpheus.New("autoconf-ini").
		SetDescription("Declarative INI front end for autoconf-style system probing").
		SetVersion(autoconfini.Version)

	m := &Manager{app: app}
	m.setupDocumentCommands()
	m.setupRunLogCommands()
	return m
}

// Run executes the CLI with the provided arguments.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

// setupDocumentCommands registers document-level commands.
func (m *Manager) setupDocumentCommands() {
	// validate <file> [--format=auto]
	validateCmd := orpheus.NewCommand("validate", "Validate a configuration document")
	validateCmd.SetHandler(m.handleValidate)
	validateCmd.AddFlag("format", "f", "auto", "Document format (auto|ini|yaml)")
	m.app.AddCommand(validateCmd)

	// plan <file> [--format=auto] [--verbose] [--run-log=]
	planCmd := orpheus.NewCommand("plan", "Print the resolved execution plan for a document")
	planCmd.SetHandler(m.handlePlan)
	planCmd.AddFlag("format", "f", "auto", "Document format (auto|ini|yaml)")
	planCmd.AddBoolFlag("verbose", "v", false, "Include prologue details per probe")
	planCmd.AddFlag("run-log", "l", "", "Write a run log of the plan (.jsonl or .db)")
	m.app.AddCommand(planCmd)

	// sections
	sectionsCmd := orpheus.NewCommand("sections", "Print the section dispatch table")
	sectionsCmd.SetHandler(m.handleSections)
	m.app.AddCommand(sectionsCmd)
}

// setupRunLogCommands registers run log inspection commands.
func (m *Manager) setupRunLogCommands() {
	runlogCmd := orpheus.NewCommand("runlog", "Run log management")

	queryCmd := runlogCmd.Subcommand("query", "Query a JSONL run log", m.handleRunLogQuery)
	queryCmd.AddIntFlag("limit", "l", 100, "Maximum events to print")
	queryCmd.AddFlag("section", "s", "", "Section filter")
	queryCmd.AddFlag("event", "e", "", "Event type filter (check|entry_skipped|run_start|run_end)")

	m.app.AddCommand(runlogCmd)
}
