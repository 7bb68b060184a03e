// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package index maintains the shared index.ts entry point that re-exports
// every generated binding module.
//
// The index is treated as an append-only log keyed by exact line text:
// existing lines, hand-written ones included, are never parsed, rewritten,
// reordered or removed. Two import paths that differ only textually (for
// example in their separators) are kept as two lines.
package index

import (
	"fmt"
	"regexp"
	"strings"
)

// BenchmarkHelper is appended once to every index.
const BenchmarkHelper = `export function Benchmark<T>(label: string, fn: () => T): T {
    console.time(label);
    const result = fn();
    console.timeEnd(label);
    return result;
}`

var benchmarkDecl = regexp.MustCompile(`\bfunction\s+Benchmark\b`)

// ExportLine returns the re-export statement for one binding module.
func ExportLine(importPath string) string {
	return fmt.Sprintf("export * from %q;", importPath)
}

// HasBenchmark reports whether any line already declares the helper.
func HasBenchmark(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if benchmarkDecl.MatchString(line) {
			return true
		}
	}
	return false
}

// Merge returns prior with a re-export line for each import path not already
// present, followed by the benchmark helper if no line declares it. New lines
// keep the order of importPaths and are separated from prior content by one
// blank line. When nothing is missing prior is returned unchanged.
func Merge(prior string, importPaths []string) string {
	present := make(map[string]bool)
	for _, line := range strings.Split(prior, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var added []string
	for _, p := range importPaths {
		line := ExportLine(p)
		if present[line] {
			continue
		}
		present[line] = true
		added = append(added, line)
	}
	if !HasBenchmark(prior) {
		if len(added) > 0 {
			added = append(added, "")
		}
		added = append(added, BenchmarkHelper)
	}

	if len(added) == 0 {
		return prior
	}

	var b strings.Builder
	if prior != "" {
		b.WriteString(prior)
		if !strings.HasSuffix(prior, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(added, "\n"))
	b.WriteString("\n")
	return b.String()
}
