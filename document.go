// document.go: Ordered configuration document model and loaders
//
// This file provides the ordered section/key/value document model consumed
// by the Runner, plus loaders for the two supported on-disk formats:
// - INI (.ini, .conf, .cfg) via gopkg.in/ini.v1
// - YAML (.yml, .yaml) via go.yaml.in/yaml/v3 yaml.Node
//
// Order is load-bearing here: probe side effects (the accumulated header
// prologue) depend on invocation order, so both loaders preserve section
// order and key order within a section. The last occurrence of a duplicate
// key within a section wins, at the position where the key first appeared.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
	"gopkg.in/ini.v1"
)

// DocumentFormat represents supported configuration document formats.
type DocumentFormat int

const (
	FormatINI DocumentFormat = iota
	FormatYAML
	FormatUnknown
)

// String returns a human-readable format name.
func (f DocumentFormat) String() string {
	switch f {
	case FormatINI:
		return "ini"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file extension.
func DetectFormat(path string) DocumentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".conf", ".cfg":
		return FormatINI
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Entry is a single key/value pair within a document section.
type Entry struct {
	Key   string
	Value string
}

// Section is a named, ordered group of entries.
type Section struct {
	Name    string
	Entries []Entry

	index map[string]int // key -> position in Entries
}

// set records a key/value pair. A repeated key replaces the value at the
// key's original position (last occurrence wins).
func (s *Section) set(key, value string) {
	if i, ok := s.index[key]; ok {
		s.Entries[i].Value = value
		return
	}
	s.index[key] = len(s.Entries)
	s.Entries = append(s.Entries, Entry{Key: key, Value: value})
}

// Get returns the value for key and whether the key is present.
func (s *Section) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.Entries[i].Value, true
}

// Document is an ordered collection of sections parsed from a
// configuration document.
type Document struct {
	Sections []*Section

	index map[string]*Section
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[string]*Section)}
}

// Section returns the named section, or nil if the document does not
// contain it.
func (d *Document) Section(name string) *Section {
	return d.index[name]
}

// section returns the named section, creating it if needed. A section name
// repeated in the input merges into the section's first occurrence.
func (d *Document) section(name string) *Section {
	if s, ok := d.index[name]; ok {
		return s
	}
	s := &Section{Name: name, index: make(map[string]int)}
	d.index[name] = s
	d.Sections = append(d.Sections, s)
	return s
}

// Len returns the total number of entries across all sections.
func (d *Document) Len() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Entries)
	}
	return n
}

// LoadDocument reads and parses a configuration document, detecting the
// format from the file extension. The file must exist; callers that treat a
// missing document as empty (like Runner.Run) check existence first.
func LoadDocument(path string) (*Document, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, errors.New(ErrCodeUnknownFormat, "unsupported document format").
			WithContext("path", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- document path is user-provided intentionally
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to read document").
			WithContext("path", path)
	}

	return ParseDocument(data, format)
}

// ParseDocument parses raw document data in the given format into an
// ordered Document. Malformed input errors come from the underlying parser
// and are wrapped with ErrCodeInvalidDocument.
func ParseDocument(data []byte, format DocumentFormat) (*Document, error) {
	switch format {
	case FormatINI:
		return parseINIDocument(data)
	case FormatYAML:
		return parseYAMLDocument(data)
	default:
		return nil, errors.New(ErrCodeUnknownFormat, fmt.Sprintf("unsupported document format: %s", format))
	}
}

// parseINIDocument parses INI data through gopkg.in/ini.v1, which preserves
// section and key order and applies last-wins duplicate semantics. Keys
// outside any section (ini.v1's DEFAULT pseudo-section) are ignored: every
// recognized entry category is a named section.
func parseINIDocument(data []byte) (*Document, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidDocument, "failed to parse INI document")
	}

	doc := NewDocument()
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		target := doc.section(sec.Name())
		for _, key := range sec.KeyStrings() {
			target.set(key, sec.Key(key).Value())
		}
	}
	return doc, nil
}

// parseYAMLDocument parses YAML data through the yaml.Node API rather than
// a plain map, because mapping order must survive. The document must be a
// mapping of section name to a (possibly empty) mapping of scalar entries.
func parseYAMLDocument(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidDocument, "failed to parse YAML document")
	}

	doc := NewDocument()
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil // empty document
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.New(ErrCodeInvalidDocument, "YAML document root must be a mapping of sections").
			WithContext("line", top.Line)
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		nameNode, secNode := top.Content[i], top.Content[i+1]
		section := doc.section(nameNode.Value)

		if secNode.Tag == "!!null" {
			continue // empty section
		}
		if secNode.Kind != yaml.MappingNode {
			return nil, errors.New(ErrCodeInvalidDocument, "YAML section must be a mapping").
				WithContext("section", nameNode.Value).
				WithContext("line", secNode.Line)
		}

		for j := 0; j+1 < len(secNode.Content); j += 2 {
			keyNode, valNode := secNode.Content[j], secNode.Content[j+1]
			if valNode.Kind != yaml.ScalarNode {
				return nil, errors.New(ErrCodeInvalidDocument, "YAML entry value must be a scalar").
					WithContext("section", nameNode.Value).
					WithContext("key", keyNode.Value).
					WithContext("line", valNode.Line)
			}
			value := valNode.Value
			if valNode.Tag == "!!null" {
				value = "" // bare keys behave like absent values
			}
			section.set(keyNode.Value, value)
		}
	}
	return doc, nil
}
