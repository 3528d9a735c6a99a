// Package autoconfini drives an autoconf-style system-probing library from
// declarative INI (or YAML) configuration documents.
//
// # Overview
//
// autoconf-ini is a thin, ordered dispatch layer. It parses a configuration
// document whose sections name categories of checks (headers, functions,
// types, programs, ...), and invokes the matching probe operation on an
// externally supplied capability provider, one entry at a time, in a fixed
// section order. The probing itself - compiler invocation, PATH lookups,
// config header generation - is entirely owned by the provider and is never
// reimplemented here.
//
// The layer contributes four things:
//  1. A closed dispatch table from section name to probe operation,
//     including per-key overrides for well-known programs (cc, yacc, ...).
//  2. An ordering policy: sections run in a fixed sequence regardless of
//     their position in the document, and entries within a section run in
//     document order.
//  3. A header prologue accumulator: every header confirmed present is
//     remembered, and later probes receive an include prologue built from
//     the confirmed headers in discovery order.
//  4. Value semantics: an entry's right-hand side decides both whether the
//     check runs at all (truthiness) and whether the result is bound to a
//     named variable on the provider (non-numeric values only).
//
// # Quick Start
//
//	runner, err := autoconfini.New(provider)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := runner.Run("configure.ini"); err != nil {
//		log.Fatal(err)
//	}
//
// A missing document file is a no-op, not an error, so applications can ship
// an optional configure.ini without guarding the call.
//
// # Document Format
//
// Documents are ordered section/key/value files. INI is the primary format
// (parsed with gopkg.in/ini.v1, preserving order; the last occurrence of a
// duplicate key wins); YAML documents are also accepted, parsed through
// yaml.Node so mapping order survives. A minimal document:
//
//	[headers]
//	stdio.h = HAVE_STDIO_H
//	time.h = HAVE_TIME_H
//
//	[funcs]
//	strtold = HAVE_STRTOLD
//
//	[progs]
//	cc = CC
//
//	[outputs]
//	config.h = 1
//
// Right-hand values follow two independent rules: a falsy value ("" or "0")
// disables the entry entirely, and a truthy non-numeric value additionally
// names the variable the check result is bound to. A plain "1" runs the
// check without binding a variable.
//
// # Run Log
//
// Every run can be traced to a config.log-style run log with JSONL or SQLite
// storage, using buffered background flushing:
//
//	runLog, _ := autoconfini.NewRunLogger(autoconfini.RunLogConfig{
//		Enabled:    true,
//		OutputFile: "configure-run.jsonl",
//	})
//	defer runLog.Close()
//	runner, _ := autoconfini.New(provider, autoconfini.WithRunLogger(runLog))
//
// # Concurrency
//
// Execution is strictly sequential: later checks depend on state
// accumulated by earlier ones (the header prologue), so there is no
// parallelism across entries or sections. A Runner is not safe for
// concurrent use; run documents from one goroutine.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package autoconfini
