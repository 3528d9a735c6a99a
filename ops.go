// ops.go: Closed operation enumeration and section dispatch table
//
// Every operation the Runner can invoke on a capability provider is a
// member of the Op enumeration, and every recognized document section maps
// to a default Op plus optional per-key overrides. The table is static:
// section processing order is fixed here regardless of where sections
// appear in the document, because later probes consume state (the header
// prologue) accumulated by earlier ones.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

// Op identifies a single capability-provider operation. Ops are resolved to
// concrete provider calls when the Runner is constructed, not by name at
// dispatch time, so a typo in the table is a compile-time problem rather
// than a runtime one.
type Op int

const (
	OpNone Op = iota

	// Build-environment pushes.
	OpPushIncludePath
	OpPushPreprocessFlag
	OpPushCompilerFlag
	OpPushLinkerFlag

	// Filesystem and program checks.
	OpCheckFile
	OpCheckProg
	OpCheckProgYacc
	OpCheckProgAwk
	OpCheckProgEgrep
	OpCheckProgLex
	OpCheckProgSed
	OpCheckProgPkgConfig
	OpCheckProgCC

	// Compile probes. These receive the accumulated header prologue.
	OpCheckHeader
	OpCheckDecl
	OpCheckFunc
	OpCheckType
	OpSizeofType
	OpAlignofType
	OpCheckMember

	// Pre-composed header bundle probes.
	OpBundleStdcHeaders
	OpBundleDefaultHeaders
	OpBundleDirentHeaders

	// Finalization.
	OpWriteOutput
)

var opNames = map[Op]string{
	OpNone:                 "none",
	OpPushIncludePath:      "push_include_path",
	OpPushPreprocessFlag:   "push_preprocess_flag",
	OpPushCompilerFlag:     "push_compiler_flag",
	OpPushLinkerFlag:       "push_linker_flag",
	OpCheckFile:            "check_file",
	OpCheckProg:            "check_prog",
	OpCheckProgYacc:        "check_prog_yacc",
	OpCheckProgAwk:         "check_prog_awk",
	OpCheckProgEgrep:       "check_prog_egrep",
	OpCheckProgLex:         "check_prog_lex",
	OpCheckProgSed:         "check_prog_sed",
	OpCheckProgPkgConfig:   "check_prog_pkg_config",
	OpCheckProgCC:          "check_prog_cc",
	OpCheckHeader:          "check_header",
	OpCheckDecl:            "check_decl",
	OpCheckFunc:            "check_func",
	OpCheckType:            "check_type",
	OpSizeofType:           "check_sizeof_type",
	OpAlignofType:          "check_alignof_type",
	OpCheckMember:          "check_member",
	OpBundleStdcHeaders:    "check_stdc_headers",
	OpBundleDefaultHeaders: "check_default_headers",
	OpBundleDirentHeaders:  "check_dirent_headers",
	OpWriteOutput:          "write_config_header",
}

// String returns the canonical operation name, matching the wrapped
// library's method naming.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "invalid"
}

// Recognized section names, in required processing order.
const (
	SectionIncludes        = "includes"
	SectionPreprocessFlags = "preprocess_flags"
	SectionCompilerFlags   = "compiler_flags"
	SectionLinkFlags       = "link_flags"
	SectionFiles           = "files"
	SectionProgs           = "progs"
	SectionBundle          = "bundle"
	SectionHeaders         = "headers"
	SectionDecls           = "decls"
	SectionFuncs           = "funcs"
	SectionTypes           = "types"
	SectionSizeofTypes     = "sizeof_types"
	SectionAlignofTypes    = "alignof_types"
	SectionMembers         = "members"
	SectionOutputs         = "outputs"
)

// sectionSpec describes how one recognized section dispatches its entries.
type sectionSpec struct {
	name      string
	defaultOp Op

	// overrides maps specific keys to specialized operations. The progs
	// section routes well-known tool names to their dedicated checks; the
	// bundle section has no default operation at all, only overrides.
	overrides map[string]Op

	// probe sections pass the accumulated header prologue to the provider.
	probe bool

	// recordHeader marks the headers section: a successful check adds the
	// header to the success set consumed by later prologues.
	recordHeader bool

	// boolOnly sections treat values as pure on/off switches and never bind
	// result variables. For bundle, which has no default operation,
	// unrecognized keys are additionally ignored for forward compatibility.
	boolOnly bool

	// progressFmt, when set, brackets each check with checking/result
	// notifications ("file %s" for the files section).
	progressFmt string
}

// sectionTable is the fixed dispatch table. Slice order is execution order.
var sectionTable = []sectionSpec{
	{name: SectionIncludes, defaultOp: OpPushIncludePath, boolOnly: true},
	{name: SectionPreprocessFlags, defaultOp: OpPushPreprocessFlag, boolOnly: true},
	{name: SectionCompilerFlags, defaultOp: OpPushCompilerFlag, boolOnly: true},
	{name: SectionLinkFlags, defaultOp: OpPushLinkerFlag, boolOnly: true},
	{name: SectionFiles, defaultOp: OpCheckFile, progressFmt: "file %s"},
	{name: SectionProgs, defaultOp: OpCheckProg, overrides: map[string]Op{
		"yacc":       OpCheckProgYacc,
		"awk":        OpCheckProgAwk,
		"egrep":      OpCheckProgEgrep,
		"lex":        OpCheckProgLex,
		"sed":        OpCheckProgSed,
		"pkg_config": OpCheckProgPkgConfig,
		"cc":         OpCheckProgCC,
	}},
	{name: SectionBundle, boolOnly: true, overrides: map[string]Op{
		"stdc_headers":    OpBundleStdcHeaders,
		"default_headers": OpBundleDefaultHeaders,
		"dirent_headers":  OpBundleDirentHeaders,
	}},
	{name: SectionHeaders, defaultOp: OpCheckHeader, probe: true, recordHeader: true},
	{name: SectionDecls, defaultOp: OpCheckDecl, probe: true},
	{name: SectionFuncs, defaultOp: OpCheckFunc, probe: true},
	{name: SectionTypes, defaultOp: OpCheckType, probe: true},
	{name: SectionSizeofTypes, defaultOp: OpSizeofType, probe: true},
	{name: SectionAlignofTypes, defaultOp: OpAlignofType, probe: true},
	{name: SectionMembers, defaultOp: OpCheckMember, probe: true},
	{name: SectionOutputs, defaultOp: OpWriteOutput},
}

// resolveOp resolves the operation for one entry: per-key override first,
// then the section default. OpNone means the section defines no operation
// for this key (only possible for bundle).
func (s *sectionSpec) resolveOp(key string) Op {
	if op, ok := s.overrides[key]; ok {
		return op
	}
	return s.defaultOp
}

// SectionNames returns the recognized section names in processing order.
func SectionNames() []string {
	names := make([]string, len(sectionTable))
	for i, s := range sectionTable {
		names[i] = s.name
	}
	return names
}

// SectionInfo is one dispatch table row, exposed for inspection tooling.
type SectionInfo struct {
	Name      string
	DefaultOp Op
	Overrides map[string]Op
}

// Sections returns the dispatch table rows in processing order. Override
// maps are copies; mutating them does not affect dispatch.
func Sections() []SectionInfo {
	infos := make([]SectionInfo, len(sectionTable))
	for i, s := range sectionTable {
		info := SectionInfo{Name: s.name, DefaultOp: s.defaultOp}
		if len(s.overrides) > 0 {
			info.Overrides = make(map[string]Op, len(s.overrides))
			for k, op := range s.overrides {
				info.Overrides[k] = op
			}
		}
		infos[i] = info
	}
	return infos
}
