// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
)

const maxSubjectLength = 72

// Summary describes a generation run for the commit message.
type Summary struct {
	Bindings int      // Binding modules written
	Skipped  int      // Modules with error diagnostics
	Files    []string // Filled in by Commit
}

// GenerateMessage creates a conventional commit message for regenerated
// bindings.
func GenerateMessage(s Summary) string {
	subject := fmt.Sprintf("chore(bindings): regenerate %d bun:ffi binding %s", s.Bindings, plural(s.Bindings, "module", "modules"))
	if s.Skipped > 0 {
		subject += fmt.Sprintf(" (%d skipped)", s.Skipped)
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}

	msg := subject
	if body := buildBody(s.Files); body != "" {
		msg += "\n\n" + body
	}
	msg += "\n\n" + generatedTrailer
	return msg
}

// buildBody lists the committed files.
func buildBody(files []string) string {
	if len(files) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("Generated files:\n")
	for _, f := range files {
		buf.WriteString(fmt.Sprintf("- %s\n", f))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
