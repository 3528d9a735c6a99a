// values.go: Right-hand-side value predicates
//
// An entry's value answers two independent questions: does the check run at
// all (truthiness), and should the result be bound to a named variable
// (only when the value does not look numeric). Whitespace is significant in
// both predicates.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import "strconv"

// IsTruthy reports whether a value enables its entry. Only the empty string
// and "0" are falsy; whitespace is significant, so " 0" is truthy.
func IsTruthy(value string) bool {
	return value != "" && value != "0"
}

// LooksNumeric reports whether a value reads as a number, in which case it
// only enables the check and never names a result variable. The test is a
// strict float parse of the raw string: "0", "1", "3.14" and "1e3" are
// numeric; "", " 1", "1 " and "HAVE_FOO" are not.
func LooksNumeric(value string) bool {
	if value == "" {
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}
