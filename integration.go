// integration.go: FlashFlags integration for embedding applications
//
// Applications that embed autoconf-ini without the full CLI still need a
// way to wire the document path, run log, and format override to their own
// command line. Setup binds those options through FlashFlags and builds a
// ready Runner, fluent-interface style.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import (
	"os"

	flashflags "github.com/agilira/flash-flags"
)

// Setup binds autoconf-ini run options to command-line flags and constructs
// Runners from the parsed result.
//
// Registered flags:
//
//	--document   path to the configuration document (default "configure.ini")
//	--run-log    run log output file ("" disables the run log)
//	--strict     treat skipped entries (unknown operations) as fatal
type Setup struct {
	flags   *flashflags.FlagSet
	appName string
}

// NewSetup creates a Setup for the named application with the standard
// autoconf-ini flags registered. Additional application flags can be added
// through Flags() before Parse.
func NewSetup(appName string) *Setup {
	s := &Setup{
		flags:   flashflags.New(appName),
		appName: appName,
	}
	s.flags.String("document", "configure.ini", "Configuration document to run")
	s.flags.String("run-log", "", "Run log output file (.jsonl or .db; empty disables)")
	s.flags.Bool("strict", false, "Treat skipped entries as fatal")
	return s
}

// SetDescription sets the application description for help text.
func (s *Setup) SetDescription(description string) *Setup {
	s.flags.SetDescription(description)
	return s
}

// SetVersion sets the application version for help text.
func (s *Setup) SetVersion(version string) *Setup {
	s.flags.SetVersion(version)
	return s
}

// Flags exposes the underlying FlashFlags set for application-specific
// additions.
func (s *Setup) Flags() *flashflags.FlagSet {
	return s.flags
}

// Parse parses the given command-line arguments.
func (s *Setup) Parse(args []string) error {
	return s.flags.Parse(args)
}

// ParseArgs parses os.Args[1:].
func (s *Setup) ParseArgs() error {
	return s.Parse(os.Args[1:])
}

// DocumentPath returns the parsed document path.
func (s *Setup) DocumentPath() string {
	return s.flags.GetString("document")
}

// RunLogPath returns the parsed run log path ("" when disabled).
func (s *Setup) RunLogPath() string {
	return s.flags.GetString("run-log")
}

// Strict reports whether skipped entries should abort the run.
func (s *Setup) Strict() bool {
	return s.flags.GetBool("strict")
}

// NewRunner builds a Runner for the provider using the parsed options: run
// log attached when configured, strict warnings when requested. The
// returned RunLogger is nil when no run log was requested; the caller owns
// its Close.
func (s *Setup) NewRunner(provider Provider) (*Runner, *RunLogger, error) {
	var opts []Option

	var runLog *RunLogger
	if path := s.RunLogPath(); path != "" {
		var err error
		runLog, err = NewRunLogger(DefaultRunLogConfig(path))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithRunLogger(runLog))
	}

	if s.Strict() {
		opts = append(opts, WithStrictWarnings())
	}

	runner, err := New(provider, opts...)
	if err != nil {
		if runLog != nil {
			_ = runLog.Close()
		}
		return nil, nil, err
	}
	return runner, runLog, nil
}
