// autoconfini.go: Shared constants and error codes for autoconf-ini
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

// Error codes for autoconf-ini operations, used with github.com/agilira/go-errors.
const (
	ErrCodeInvalidDocument  = "AUTOCONFINI_INVALID_DOCUMENT"
	ErrCodeUnknownFormat    = "AUTOCONFINI_UNKNOWN_FORMAT"
	ErrCodeUnknownOperation = "AUTOCONFINI_UNKNOWN_OPERATION"
	ErrCodeNilProvider      = "AUTOCONFINI_NIL_PROVIDER"
	ErrCodeIOError          = "AUTOCONFINI_IO_ERROR"
	ErrCodeRunLogError      = "AUTOCONFINI_RUNLOG_ERROR"
)

// Version is the autoconf-ini library version.
const Version = "1.0.0"
