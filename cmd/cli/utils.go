// Utility functions for the autoconf-ini CLI
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	autoconfini "github.com/agilira/autoconf-ini"
	"github.com/agilira/go-errors"
)

// detectFormat resolves the document format from an explicit flag value or,
// for "auto", from the file extension.
func detectFormat(filePath, explicitFormat string) autoconfini.DocumentFormat {
	if explicitFormat != "" && explicitFormat != "auto" {
		return parseExplicitFormat(explicitFormat)
	}
	return autoconfini.DetectFormat(filePath)
}

// parseExplicitFormat parses an explicitly specified format string.
func parseExplicitFormat(formatStr string) autoconfini.DocumentFormat {
	switch strings.ToLower(formatStr) {
	case "ini", "conf", "cfg":
		return autoconfini.FormatINI
	case "yaml", "yml":
		return autoconfini.FormatYAML
	default:
		return autoconfini.FormatUnknown
	}
}

// loadDocument reads and parses a document with the resolved format.
func loadDocument(filePath, explicitFormat string) (*autoconfini.Document, error) {
	format := detectFormat(filePath, explicitFormat)
	if format == autoconfini.FormatUnknown {
		return nil, errors.New(autoconfini.ErrCodeUnknownFormat,
			fmt.Sprintf("cannot determine document format for %s (use --format)", filePath))
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- document path is user-provided intentionally
	if err != nil {
		return nil, errors.Wrap(err, autoconfini.ErrCodeIOError, "failed to read document").
			WithContext("path", filePath)
	}

	return autoconfini.ParseDocument(data, format)
}

// recognizedSections indexes the dispatch table's section names.
func recognizedSections() map[string]bool {
	known := make(map[string]bool)
	for _, name := range autoconfini.SectionNames() {
		known[name] = true
	}
	return known
}
