// Command handlers for the autoconf-ini CLI
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	autoconfini "github.com/agilira/autoconf-ini"
	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
)

// handleValidate parses a document and reports its sections and entries,
// flagging unrecognized sections and entries that a run would skip.
func (m *Manager) handleValidate(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if filePath == "" {
		return errors.New(autoconfini.ErrCodeInvalidDocument, "usage: validate <file>")
	}

	doc, err := loadDocument(filePath, ctx.GetFlagString("format"))
	if err != nil {
		return err
	}

	known := recognizedSections()
	unknownSections := 0
	falsyEntries := 0

	for _, section := range doc.Sections {
		marker := ""
		if !known[section.Name] {
			marker = "  (unrecognized, ignored at run time)"
			unknownSections++
		}
		fmt.Printf("[%s]%s\n", section.Name, marker)
		for _, entry := range section.Entries {
			note := ""
			if !autoconfini.IsTruthy(entry.Value) {
				note = "  (falsy, skipped)"
				falsyEntries++
			}
			fmt.Printf("  %s = %s%s\n", entry.Key, entry.Value, note)
		}
	}

	fmt.Printf("\nValid document: %s (%d sections, %d entries", filePath, len(doc.Sections), doc.Len())
	if unknownSections > 0 {
		fmt.Printf(", %d unrecognized sections", unknownSections)
	}
	if falsyEntries > 0 {
		fmt.Printf(", %d disabled entries", falsyEntries)
	}
	fmt.Println(")")
	return nil
}

// handlePlan dry-runs a document against the recording plan provider and
// prints every operation in execution order.
func (m *Manager) handlePlan(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if filePath == "" {
		return errors.New(autoconfini.ErrCodeInvalidDocument, "usage: plan <file>")
	}
	verbose := ctx.GetFlagBool("verbose")

	doc, err := loadDocument(filePath, ctx.GetFlagString("format"))
	if err != nil {
		return err
	}

	provider := &planProvider{}
	opts := []autoconfini.Option{
		autoconfini.WithWarnHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}),
	}

	if logPath := ctx.GetFlagString("run-log"); logPath != "" {
		runLog, err := autoconfini.NewRunLogger(autoconfini.DefaultRunLogConfig(logPath))
		if err != nil {
			return err
		}
		defer func() {
			_ = runLog.Close()
		}()
		opts = append(opts, autoconfini.WithRunLogger(runLog))
	}

	runner, err := autoconfini.New(provider, opts...)
	if err != nil {
		return err
	}
	if err := runner.RunDocument(doc); err != nil {
		return err
	}

	if len(provider.steps) == 0 {
		fmt.Printf("Nothing to do for %s\n", filePath)
		return nil
	}

	fmt.Printf("Execution plan for %s:\n", filePath)
	for i, step := range provider.steps {
		fmt.Printf("%3d. %s %s\n", i+1, step.Op, step.Arg)
		if step.Defined != "" {
			fmt.Printf("     define %s\n", step.Defined)
		}
		if verbose && step.Prologue != "" {
			for _, line := range strings.Split(step.Prologue, "\n") {
				fmt.Printf("     prologue: %s\n", line)
			}
		}
	}
	fmt.Printf("%d operations\n", len(provider.steps))
	return nil
}

// handleSections prints the dispatch table in processing order, with each
// section's default operation and per-key overrides.
func (m *Manager) handleSections(ctx *orpheus.Context) error {
	fmt.Println("Sections in processing order:")
	for i, info := range autoconfini.Sections() {
		fmt.Printf("%3d. %-17s %s\n", i+1, info.Name, info.DefaultOp)
		if len(info.Overrides) == 0 {
			continue
		}
		keys := make([]string, 0, len(info.Overrides))
		for key := range info.Overrides {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("     %-16s %s\n", key, info.Overrides[key])
		}
	}
	return nil
}

// handleRunLogQuery prints events from a JSONL run log with optional
// section and event filters.
func (m *Manager) handleRunLogQuery(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	if filePath == "" {
		return errors.New(autoconfini.ErrCodeRunLogError, "usage: runlog query <file.jsonl>")
	}
	limit := ctx.GetFlagInt("limit")
	sectionFilter := ctx.GetFlagString("section")
	eventFilter := ctx.GetFlagString("event")

	file, err := os.Open(filePath) // #nosec G304 -- run log path is user-provided intentionally
	if err != nil {
		return errors.Wrap(err, autoconfini.ErrCodeRunLogError, "failed to open run log").
			WithContext("path", filePath)
	}
	defer func() {
		_ = file.Close()
	}()

	printed := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && printed < limit {
		var event autoconfini.CheckEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			return errors.Wrap(err, autoconfini.ErrCodeRunLogError, "malformed run log line")
		}
		if sectionFilter != "" && event.Section != sectionFilter {
			continue
		}
		if eventFilter != "" && event.Event != eventFilter {
			continue
		}

		switch event.Event {
		case "check":
			defined := ""
			if event.Defined != "" {
				defined = " define=" + event.Defined
			}
			fmt.Printf("%s %s [%s] %s %s -> %v%s\n",
				event.Timestamp.Format("15:04:05.000"), event.Level,
				event.Section, event.Operation, event.Key, event.Result, defined)
		case "entry_skipped":
			fmt.Printf("%s %s [%s] %s %s (%s)\n",
				event.Timestamp.Format("15:04:05.000"), event.Level,
				event.Section, event.Operation, event.Key, event.Detail)
		default:
			fmt.Printf("%s %s %s %s\n",
				event.Timestamp.Format("15:04:05.000"), event.Level,
				event.Event, event.Detail)
		}
		printed++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, autoconfini.ErrCodeRunLogError, "failed to read run log")
	}

	fmt.Printf("%d events\n", printed)
	return nil
}
