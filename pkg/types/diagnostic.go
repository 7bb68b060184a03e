// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	Warning Severity = iota // Module skipped, not a failure
	Error                   // Module failed; run continues
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a per-module message reported to the operator.
type Diagnostic struct {
	Severity Severity
	Path     string // Offending source module
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Path, d.Message)
}

// Status is the overall outcome of a generation run.
type Status int

const (
	StatusSuccess Status = iota // Every module generated cleanly
	StatusPartial               // Some modules failed and were skipped
	StatusFailed                // Platform or shared index failure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText renders the severity as its name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
