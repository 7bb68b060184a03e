// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_EmptyPrior(t *testing.T) {
	got := Merge("", []string{"./mod/add"})

	want := "export * from \"./mod/add\";\n\n" + BenchmarkHelper + "\n"
	assert.Equal(t, want, got)
}

func TestMerge_NoPathsStillAddsBenchmark(t *testing.T) {
	got := Merge("", nil)

	assert.Equal(t, BenchmarkHelper+"\n", got)
	assert.True(t, HasBenchmark(got))
}

func TestMerge_Idempotent(t *testing.T) {
	priors := []string{
		"",
		"// hand written\nexport const VERSION = 1;\n",
		"export * from \"./mod/add\";",
	}
	paths := []string{"./mod/add", "./mod/math/mul"}
	for _, prior := range priors {
		once := Merge(prior, paths)
		twice := Merge(once, paths)
		assert.Equal(t, once, twice)
	}
}

func TestMerge_AppendOnly(t *testing.T) {
	prior := "import { x } from \"./x\";\nexport * from \"./mod/add\";\n// keep me\n"
	got := Merge(prior, []string{"./mod/add", "./mod/sub"})

	assert.True(t, strings.HasPrefix(got, prior))
	assert.Equal(t, 1, strings.Count(got, ExportLine("./mod/add")))
	assert.Equal(t, 1, strings.Count(got, ExportLine("./mod/sub")))
}

func TestMerge_PriorWithoutTrailingNewline(t *testing.T) {
	got := Merge("export const A = 1;", []string{"./mod/a"})

	assert.True(t, strings.HasPrefix(got, "export const A = 1;\n\nexport * from \"./mod/a\";\n"))
}

func TestMerge_BenchmarkSingleton(t *testing.T) {
	text := ""
	for _, paths := range [][]string{{"./mod/a"}, nil, {"./mod/b"}, {"./mod/a", "./mod/c"}} {
		text = Merge(text, paths)
	}

	assert.Equal(t, 1, strings.Count(text, "function Benchmark"))
}

func TestMerge_ExistingHandWrittenBenchmark(t *testing.T) {
	prior := "export function Benchmark(label, fn) { return fn(); }\n"
	got := Merge(prior, []string{"./mod/a"})

	assert.Equal(t, 1, strings.Count(got, "function Benchmark"))
	assert.Contains(t, got, ExportLine("./mod/a"))
}

func TestMerge_DeduplicatesNewPaths(t *testing.T) {
	got := Merge("", []string{"./mod/a", "./mod/a"})

	assert.Equal(t, 1, strings.Count(got, ExportLine("./mod/a")))
}

func TestMerge_SeparatorVariantsKeptDistinct(t *testing.T) {
	got := Merge("", []string{"./mod/x/y", `./mod\x\y`})

	assert.Equal(t, 2, strings.Count(got, "export * from"))
}

func TestMerge_DiscoveryOrder(t *testing.T) {
	got := Merge("", []string{"./mod/z", "./mod/a"})

	assert.Less(t, strings.Index(got, "./mod/z"), strings.Index(got, "./mod/a"))
}

func TestDiff(t *testing.T) {
	before := "a\nb\n"
	after := Merge(before, []string{"./mod/c"})

	d := Diff(before, after)
	assert.Contains(t, d, " a\n")
	assert.Contains(t, d, "+export * from \"./mod/c\";\n")
	assert.NotContains(t, d, "-")
	assert.Empty(t, Diff(after, after))
}
