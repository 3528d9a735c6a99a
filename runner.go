// runner.go: Ordered section dispatcher driving the capability provider
//
// The Runner walks a parsed document in the fixed section order from
// ops.go, resolves each entry to a provider operation, and invokes it. Two
// pieces of state cross entries: the provider's own accumulated definitions
// and flags (externally owned), and the run-scoped header success set that
// feeds later probe prologues.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/agilira/go-errors"
)

// opFunc invokes one resolved provider operation for a document entry.
// probe is nil for sections that do not carry a prologue.
type opFunc func(key string, probe *Probe) (interface{}, error)

// WarnHandler receives non-fatal per-entry warnings (an entry whose
// resolved operation is missing from the dispatch table). The run continues
// after the handler returns.
type WarnHandler func(err error)

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithWarnHandler replaces the default warning handler, which writes to the
// standard logger.
func WithWarnHandler(h WarnHandler) Option {
	return func(r *Runner) {
		if h != nil {
			r.warn = h
		}
	}
}

// WithRunLogger attaches a run log that records every invoked check,
// warning, and run boundary.
func WithRunLogger(l *RunLogger) Option {
	return func(r *Runner) {
		r.runLog = l
	}
}

// WithStrictWarnings makes an entry with no resolvable operation abort the
// run with an error instead of the default warn-and-skip behavior.
func WithStrictWarnings() Option {
	return func(r *Runner) {
		r.strict = true
	}
}

// Runner dispatches configuration document entries to a capability
// provider. A Runner is reusable across documents: definitions and pushed
// flags accumulate on the provider, while the header success set is scoped
// to a single run. Not safe for concurrent use.
type Runner struct {
	provider Provider
	ops      map[Op]opFunc
	warn     WarnHandler
	runLog   *RunLogger
	strict   bool

	// Header success set for the current run: discovery order plus a
	// membership index. Grows monotonically, cleared when the run ends.
	headers    []string
	headerSeen map[string]bool
}

// New creates a Runner bound to the given capability provider. The full
// operation dispatch table is resolved here, once, so entry dispatch never
// looks up provider methods by name.
func New(provider Provider, opts ...Option) (*Runner, error) {
	if provider == nil {
		return nil, errors.New(ErrCodeNilProvider, "capability provider cannot be nil")
	}

	r := &Runner{
		provider: provider,
		ops:      buildOpTable(provider),
		warn: func(err error) {
			log.Printf("autoconf-ini: warning: %v", err)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run loads and executes the configuration document at path. An empty path
// or a non-existent file is a no-op, not an error: the document is
// optional by contract. Any error returned by a provider probe aborts the
// run and is returned unchanged.
func (r *Runner) Run(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		r.runLog.LogRun("document_missing", path)
		return nil
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	r.runLog.LogRun("run_start", path)
	err = r.RunDocument(doc)
	r.runLog.LogRun("run_end", path)
	return err
}

// RunDocument executes an already parsed document: each recognized section
// in fixed table order, each entry in document order. Sections absent from
// the document are skipped; unrecognized sections are ignored entirely.
func (r *Runner) RunDocument(doc *Document) error {
	if doc == nil {
		return nil
	}

	r.headers = nil
	r.headerSeen = make(map[string]bool)
	defer func() {
		// Run-scoped state does not leak into the next run.
		r.headers = nil
		r.headerSeen = nil
	}()

	for i := range sectionTable {
		spec := &sectionTable[i]
		section := doc.Section(spec.name)
		if section == nil {
			continue
		}
		for _, entry := range section.Entries {
			if err := r.runEntry(spec, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// runEntry applies the per-entry algorithm: truthiness gate, operation
// resolution, prologue construction, invocation, header recording, and
// variable binding.
func (r *Runner) runEntry(spec *sectionSpec, entry Entry) error {
	if !IsTruthy(entry.Value) {
		return nil
	}

	op := spec.resolveOp(entry.Key)
	if op == OpNone {
		if spec.boolOnly {
			// Unrecognized bundle identifiers are ignored without a
			// warning so documents written for newer bundles still run.
			return nil
		}
		return r.warnUnknownOp(spec, entry, op)
	}

	fn := r.ops[op]
	if fn == nil {
		// A hole in the dispatch table is a table defect, not bad user
		// input: warn, skip the entry, keep the run going.
		return r.warnUnknownOp(spec, entry, op)
	}

	var probe *Probe
	if spec.probe {
		probe = &Probe{Prologue: r.prologue()}
	}

	if spec.progressFmt != "" {
		r.provider.NotifyChecking(fmt.Sprintf(spec.progressFmt, entry.Key))
	}

	result, err := fn(entry.Key, probe)
	if err != nil {
		return err // provider errors propagate unchanged
	}

	if spec.progressFmt != "" {
		r.provider.NotifyResult(result)
	}

	if spec.recordHeader && resultTruthy(result) {
		r.recordHeader(entry.Key)
	}

	defined := ""
	if !spec.boolOnly && !LooksNumeric(entry.Value) {
		// Binding is independent of probe success: a failed check binds
		// its (falsy) result so the variable is still defined.
		r.provider.Define(entry.Value, result)
		defined = entry.Value
	}

	r.runLog.LogCheck(spec.name, entry.Key, op, entry.Value, result, defined)
	return nil
}

// recordHeader adds a confirmed header to the success set. The set only
// grows, and discovery order is preserved for prologue construction.
func (r *Runner) recordHeader(header string) {
	if r.headerSeen[header] {
		return
	}
	r.headerSeen[header] = true
	r.headers = append(r.headers, header)
}

// prologue renders the include prologue for the current run: one include
// directive per confirmed header, in discovery order, newline-joined.
func (r *Runner) prologue() string {
	if len(r.headers) == 0 {
		return ""
	}
	lines := make([]string, len(r.headers))
	for i, h := range r.headers {
		lines[i] = "#include <" + h + ">"
	}
	return strings.Join(lines, "\n")
}

// warnUnknownOp reports an entry whose resolved operation has no dispatch
// table binding. It returns a non-nil error only in strict mode; otherwise
// the entry is skipped and the run continues.
func (r *Runner) warnUnknownOp(spec *sectionSpec, entry Entry, op Op) error {
	err := errors.New(ErrCodeUnknownOperation, "no provider operation for entry, skipping").
		WithContext("section", spec.name).
		WithContext("key", entry.Key).
		WithContext("operation", op.String())
	r.runLog.LogWarn(spec.name, entry.Key, op, err.Error())
	if r.strict {
		return err
	}
	r.warn(err)
	return nil
}

// resultTruthy reports whether a probe result counts as success for header
// recording: true booleans, non-empty strings, and non-zero sizes.
func resultTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	default:
		return true
	}
}

// buildOpTable resolves every Op to a concrete provider call. Push
// operations and outputs ignore the probe argument; compile probes receive
// it as built by the Runner.
func buildOpTable(p Provider) map[Op]opFunc {
	return map[Op]opFunc{
		OpPushIncludePath: func(key string, _ *Probe) (interface{}, error) {
			p.PushIncludePath(key)
			return nil, nil
		},
		OpPushPreprocessFlag: func(key string, _ *Probe) (interface{}, error) {
			p.PushPreprocessFlag(key)
			return nil, nil
		},
		OpPushCompilerFlag: func(key string, _ *Probe) (interface{}, error) {
			p.PushCompilerFlag(key)
			return nil, nil
		},
		OpPushLinkerFlag: func(key string, _ *Probe) (interface{}, error) {
			p.PushLinkerFlag(key)
			return nil, nil
		},
		OpCheckFile: func(key string, _ *Probe) (interface{}, error) {
			return p.CheckFile(key)
		},
		OpCheckProg: func(key string, _ *Probe) (interface{}, error) {
			return p.CheckProg(key)
		},
		OpCheckProgYacc: func(string, *Probe) (interface{}, error) {
			return p.CheckProgYacc()
		},
		OpCheckProgAwk: func(string, *Probe) (interface{}, error) {
			return p.CheckProgAwk()
		},
		OpCheckProgEgrep: func(string, *Probe) (interface{}, error) {
			return p.CheckProgEgrep()
		},
		OpCheckProgLex: func(string, *Probe) (interface{}, error) {
			return p.CheckProgLex()
		},
		OpCheckProgSed: func(string, *Probe) (interface{}, error) {
			return p.CheckProgSed()
		},
		OpCheckProgPkgConfig: func(string, *Probe) (interface{}, error) {
			return p.CheckProgPkgConfig()
		},
		OpCheckProgCC: func(string, *Probe) (interface{}, error) {
			return p.CheckProgCC()
		},
		OpCheckHeader: func(key string, probe *Probe) (interface{}, error) {
			return p.CheckHeader(key, probe)
		},
		OpCheckDecl: func(key string, probe *Probe) (interface{}, error) {
			return p.CheckDecl(key, probe)
		},
		OpCheckFunc: func(key string, probe *Probe) (interface{}, error) {
			return p.CheckFunc(key, probe)
		},
		OpCheckType: func(key string, probe *Probe) (interface{}, error) {
			return p.CheckType(key, probe)
		},
		OpSizeofType: func(key string, probe *Probe) (interface{}, error) {
			return p.SizeofType(key, probe)
		},
		OpAlignofType: func(key string, probe *Probe) (interface{}, error) {
			return p.AlignofType(key, probe)
		},
		OpCheckMember: func(key string, probe *Probe) (interface{}, error) {
			return p.CheckMember(key, probe)
		},
		OpBundleStdcHeaders: func(string, *Probe) (interface{}, error) {
			return p.CheckStdcHeaders()
		},
		OpBundleDefaultHeaders: func(string, *Probe) (interface{}, error) {
			return p.CheckDefaultHeaders()
		},
		OpBundleDirentHeaders: func(string, *Probe) (interface{}, error) {
			return p.CheckDirentHeaders()
		},
		OpWriteOutput: func(key string, _ *Probe) (interface{}, error) {
			return nil, p.WriteConfigHeader(key)
		},
	}
}
