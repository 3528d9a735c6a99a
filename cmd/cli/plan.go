// Plan provider for the autoconf-ini CLI
//
// The plan provider implements the capability-provider interface without
// probing anything: every check records what would run and reports success,
// so the printed plan shows the full execution order a real provider would
// see, including header prologue accumulation.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	autoconfini "github.com/agilira/autoconf-ini"
)

// planStep is one recorded provider invocation.
type planStep struct {
	Op       string
	Arg      string
	Prologue string
	Defined  string
}

// planProvider records every invocation instead of probing.
type planProvider struct {
	steps []planStep
}

func (p *planProvider) record(op, arg string, probe *autoconfini.Probe) {
	step := planStep{Op: op, Arg: arg}
	if probe != nil {
		step.Prologue = probe.Prologue
	}
	p.steps = append(p.steps, step)
}

func (p *planProvider) PushIncludePath(dir string)  { p.record("push_include_path", dir, nil) }
func (p *planProvider) PushPreprocessFlag(f string) { p.record("push_preprocess_flag", f, nil) }
func (p *planProvider) PushCompilerFlag(f string)   { p.record("push_compiler_flag", f, nil) }
func (p *planProvider) PushLinkerFlag(f string)     { p.record("push_linker_flag", f, nil) }

func (p *planProvider) CheckFile(path string) (bool, error) {
	p.record("check_file", path, nil)
	return true, nil
}

func (p *planProvider) CheckProg(name string) (string, error) {
	p.record("check_prog", name, nil)
	return name, nil
}

func (p *planProvider) CheckProgYacc() (string, error) {
	p.record("check_prog_yacc", "", nil)
	return "yacc", nil
}

func (p *planProvider) CheckProgAwk() (string, error) {
	p.record("check_prog_awk", "", nil)
	return "awk", nil
}

func (p *planProvider) CheckProgEgrep() (string, error) {
	p.record("check_prog_egrep", "", nil)
	return "egrep", nil
}

func (p *planProvider) CheckProgLex() (string, error) {
	p.record("check_prog_lex", "", nil)
	return "lex", nil
}

func (p *planProvider) CheckProgSed() (string, error) {
	p.record("check_prog_sed", "", nil)
	return "sed", nil
}

func (p *planProvider) CheckProgPkgConfig() (string, error) {
	p.record("check_prog_pkg_config", "", nil)
	return "pkg-config", nil
}

func (p *planProvider) CheckProgCC() (string, error) {
	p.record("check_prog_cc", "", nil)
	return "cc", nil
}

func (p *planProvider) CheckHeader(h string, probe *autoconfini.Probe) (bool, error) {
	p.record("check_header", h, probe)
	return true, nil
}

func (p *planProvider) CheckDecl(s string, probe *autoconfini.Probe) (bool, error) {
	p.record("check_decl", s, probe)
	return true, nil
}

func (p *planProvider) CheckFunc(f string, probe *autoconfini.Probe) (bool, error) {
	p.record("check_func", f, probe)
	return true, nil
}

func (p *planProvider) CheckType(t string, probe *autoconfini.Probe) (bool, error) {
	p.record("check_type", t, probe)
	return true, nil
}

func (p *planProvider) SizeofType(t string, probe *autoconfini.Probe) (int, error) {
	p.record("check_sizeof_type", t, probe)
	return 0, nil
}

func (p *planProvider) AlignofType(t string, probe *autoconfini.Probe) (int, error) {
	p.record("check_alignof_type", t, probe)
	return 0, nil
}

func (p *planProvider) CheckMember(m string, probe *autoconfini.Probe) (bool, error) {
	p.record("check_member", m, probe)
	return true, nil
}

func (p *planProvider) CheckStdcHeaders() (bool, error) {
	p.record("check_stdc_headers", "", nil)
	return true, nil
}

func (p *planProvider) CheckDefaultHeaders() (bool, error) {
	p.record("check_default_headers", "", nil)
	return true, nil
}

func (p *planProvider) CheckDirentHeaders() (bool, error) {
	p.record("check_dirent_headers", "", nil)
	return true, nil
}

// Define attaches the binding to the step that produced it.
func (p *planProvider) Define(name string, _ interface{}) {
	if len(p.steps) > 0 {
		p.steps[len(p.steps)-1].Defined = name
	}
}

func (p *planProvider) NotifyChecking(string)    {}
func (p *planProvider) NotifyResult(interface{}) {}

func (p *planProvider) WriteConfigHeader(path string) error {
	p.record("write_config_header", path, nil)
	return nil
}
