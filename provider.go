// provider.go: Capability-provider interface consumed by the Runner
//
// The Provider is the wrapped autoconf-style probing library. autoconf-ini
// never implements probing itself: compiler and linker invocation, PATH
// lookups, size/alignment measurement, and config header generation all
// live behind this interface. Probe errors returned by a Provider propagate
// out of a run unchanged.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

// Probe carries per-check options built by the Runner for compile probes.
type Probe struct {
	// Prologue is an ordered block of include directives, one per header
	// confirmed present earlier in the run, joined by newlines. Probes
	// compile it ahead of their test program so checks can depend on
	// previously confirmed headers.
	Prologue string
}

// Provider is the capability surface of the wrapped probing library.
//
// Check methods return the probe's result value: program checks return the
// resolved program path ("" when not found), boolean checks report
// presence, and size/alignment checks return a byte count (0 when the type
// is unknown). Any error aborts the run and reaches the Run caller
// unchanged.
type Provider interface {
	// Build-environment pushes. These only accumulate state inside the
	// provider; they cannot fail.
	PushIncludePath(dir string)
	PushPreprocessFlag(flag string)
	PushCompilerFlag(flag string)
	PushLinkerFlag(flag string)

	// Filesystem and program checks.
	CheckFile(path string) (bool, error)
	CheckProg(name string) (string, error)
	CheckProgYacc() (string, error)
	CheckProgAwk() (string, error)
	CheckProgEgrep() (string, error)
	CheckProgLex() (string, error)
	CheckProgSed() (string, error)
	CheckProgPkgConfig() (string, error)
	CheckProgCC() (string, error)

	// Compile probes. probe carries the accumulated header prologue and is
	// never nil.
	CheckHeader(header string, probe *Probe) (bool, error)
	CheckDecl(symbol string, probe *Probe) (bool, error)
	CheckFunc(name string, probe *Probe) (bool, error)
	CheckType(name string, probe *Probe) (bool, error)
	SizeofType(name string, probe *Probe) (int, error)
	AlignofType(name string, probe *Probe) (int, error)
	CheckMember(member string, probe *Probe) (bool, error)

	// Pre-composed header bundle probes. Headers confirmed by a bundle are
	// recorded inside the provider; their contribution to later prologues
	// is the provider's contract, not the Runner's.
	CheckStdcHeaders() (bool, error)
	CheckDefaultHeaders() (bool, error)
	CheckDirentHeaders() (bool, error)

	// Define binds a named result variable on the provider.
	Define(name string, value interface{})

	// Progress notification pair bracketing a check ("checking file x..."
	// followed by yes/no).
	NotifyChecking(msg string)
	NotifyResult(value interface{})

	// WriteConfigHeader generates an output configuration header from the
	// state accumulated during the run. Invoked once per truthy entry of
	// the outputs section, after all checks.
	WriteConfigHeader(path string) error
}
