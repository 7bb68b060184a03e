// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generate drives one generation pass: discover Rust modules,
// extract and emit a binding per module, then merge all import paths into
// the shared index in a single write.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/petar-djukic/bunbind/internal/emit"
	"github.com/petar-djukic/bunbind/internal/extract"
	"github.com/petar-djukic/bunbind/internal/index"
	"github.com/petar-djukic/bunbind/internal/logging"
	"github.com/petar-djukic/bunbind/internal/typemap"
	"github.com/petar-djukic/bunbind/pkg/types"
)

// ErrIndexWrite is returned when the shared index cannot be read or written.
// The index is left as it was.
var ErrIndexWrite = errors.New("shared index update failed")

// Layout names the directories and files under the library root.
type Layout struct {
	SourceDir  string // Rust sources (default "rs")
	OutputDir  string // Binding modules (default "mod")
	IndexFile  string // Shared entry point (default "index.ts")
	BinDir     string // Compiled libraries (default "bin")
	SourceExt  string // default ".rs"
	BindingExt string // default ".ts"
}

// DefaultLayout returns the conventional library layout.
func DefaultLayout() Layout {
	return Layout{
		SourceDir:  "rs",
		OutputDir:  "mod",
		IndexFile:  "index.ts",
		BinDir:     "bin",
		SourceExt:  ".rs",
		BindingExt: ".ts",
	}
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.SourceDir == "" {
		l.SourceDir = d.SourceDir
	}
	if l.OutputDir == "" {
		l.OutputDir = d.OutputDir
	}
	if l.IndexFile == "" {
		l.IndexFile = d.IndexFile
	}
	if l.BinDir == "" {
		l.BinDir = d.BinDir
	}
	if l.SourceExt == "" {
		l.SourceExt = d.SourceExt
	}
	if l.BindingExt == "" {
		l.BindingExt = d.BindingExt
	}
	return l
}

// Deps holds injected dependencies for the runner.
type Deps struct {
	Fs          afero.Fs          // Default afero.NewOsFs()
	Extractor   extract.Extractor // Default extract.Lexical
	Platform    emit.Platform     // Target platform; required
	Table       typemap.Table     // Default typemap.Default()
	Layout      Layout
	Concurrency int          // Worker count; <= 0 means runtime.NumCPU()
	DryRun      bool         // Compute everything, write nothing
	Logger      *slog.Logger // Default discards
}

// Report is the outcome of one run.
type Report struct {
	Modules      int                // Source modules discovered
	Entries      []types.IndexEntry // Exports recorded, in module order
	Written      []string           // Binding files written, relative to the root
	Diagnostics  []types.Diagnostic
	IndexPath    string
	IndexChanged bool
	IndexDiff    string // Populated on dry runs
	Status       types.Status
}

// Runner orchestrates a generation pass.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner, filling in defaults for unset dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.Lexical{}
	}
	if deps.Table.IsZero() {
		deps.Table = typemap.Default()
	}
	if deps.Concurrency <= 0 {
		deps.Concurrency = runtime.NumCPU()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	deps.Layout = deps.Layout.withDefaults()
	return &Runner{deps: deps}
}

// moduleResult is the per-module outcome collected from the worker pool.
type moduleResult struct {
	entry   *types.IndexEntry
	written string
	diags   []types.Diagnostic
	fatal   error
}

// Run generates bindings for every module under root and merges the index.
// Per-module failures are reported in the Report and do not fail the run;
// the returned error is non-nil only for an unsupported platform, a
// canceled context or a shared index failure.
func (r *Runner) Run(ctx context.Context, root string) (*Report, error) {
	log := r.deps.Logger
	layout := r.deps.Layout
	report := &Report{
		IndexPath: filepath.Join(root, layout.IndexFile),
		Status:    types.StatusFailed,
	}

	// Refuse to guess a naming convention before anything is written.
	if _, err := r.deps.Platform.LibraryFile("probe"); err != nil {
		return report, err
	}

	srcRoot := filepath.Join(root, layout.SourceDir)
	modules, err := extract.Discover(r.deps.Fs, srcRoot, layout.SourceExt)
	if err != nil {
		log.Warn("no source modules discovered", "path", srcRoot, "error", err)
		modules = nil
	}
	report.Modules = len(modules)
	log.Debug("discovered source modules", "count", len(modules), "root", srcRoot)

	results := make([]moduleResult, len(modules))
	p := pool.New().WithMaxGoroutines(r.deps.Concurrency)
	for i, m := range modules {
		p.Go(func() {
			results[i] = r.processModule(ctx, root, m)
		})
	}
	p.Wait()

	var importPaths []string
	for i, res := range results {
		if res.fatal != nil {
			return report, fmt.Errorf("%s: %w", modules[i].Path, res.fatal)
		}
		for _, d := range res.diags {
			report.Diagnostics = append(report.Diagnostics, d)
			switch d.Severity {
			case types.Warning:
				log.Warn(d.Message, "path", d.Path)
			default:
				log.Error(d.Message, "path", d.Path)
			}
		}
		if res.written != "" {
			report.Written = append(report.Written, res.written)
		}
		if res.entry != nil {
			report.Entries = append(report.Entries, *res.entry)
			importPaths = append(importPaths, res.entry.ImportPath)
		}
	}

	if err := r.updateIndex(report, importPaths); err != nil {
		log.Error("shared index not updated", "path", report.IndexPath, "error", err)
		return report, err
	}

	report.Status = types.StatusSuccess
	for _, d := range report.Diagnostics {
		if d.Severity == types.Error {
			report.Status = types.StatusPartial
			break
		}
	}
	log.Info("generation complete",
		"status", report.Status.String(),
		"modules", report.Modules,
		"bindings", len(report.Entries),
		"index_changed", report.IndexChanged)
	return report, nil
}

// processModule runs extract and emit for one module. It touches only the
// module's own output path.
func (r *Runner) processModule(ctx context.Context, root string, m types.SourceModule) moduleResult {
	var res moduleResult
	fail := func(sev types.Severity, format string, args ...any) moduleResult {
		res.diags = append(res.diags, types.Diagnostic{Severity: sev, Path: m.Path, Message: fmt.Sprintf(format, args...)})
		return res
	}

	if err := ctx.Err(); err != nil {
		res.fatal = err
		return res
	}

	layout := r.deps.Layout
	fs := r.deps.Fs
	outDir := filepath.Join(root, layout.OutputDir, m.RelDir)
	if !r.deps.DryRun {
		if err := fs.MkdirAll(outDir, 0o755); err != nil {
			return fail(types.Error, "creating output directory: %v", err)
		}
	}

	src, err := afero.ReadFile(fs, m.Path)
	if err != nil {
		return fail(types.Error, "reading source: %v", err)
	}

	extracted, err := r.deps.Extractor.Extract(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			res.fatal = ctx.Err()
			return res
		}
		return fail(types.Error, "parse failure: %v", err)
	}
	if len(extracted.Skipped) > 0 {
		fail(types.Warning, "generic functions and methods not bound: %s", strings.Join(extracted.Skipped, ", "))
	}
	if len(extracted.Functions) == 0 {
		return fail(types.Warning, "no exported functions found")
	}

	r.logFallbacks(m, extracted.Functions)

	text, err := emit.Emit(m.BaseName, extracted.Functions, emit.Options{
		Platform: r.deps.Platform,
		Depth:    m.Depth(layout.OutputDir),
		BinDir:   layout.BinDir,
		Table:    r.deps.Table,
	})
	if err != nil {
		if errors.Is(err, emit.ErrUnsupportedPlatform) {
			res.fatal = err
			return res
		}
		return fail(types.Error, "emitting binding: %v", err)
	}

	rel := m.OutputRelPath(layout.OutputDir, layout.BindingExt)
	if !r.deps.DryRun {
		if err := writeFileAtomic(fs, filepath.Join(root, rel), []byte(text)); err != nil {
			return fail(types.Error, "writing binding: %v", err)
		}
		res.written = rel
	}

	names := make([]string, len(extracted.Functions))
	for i, fn := range extracted.Functions {
		names[i] = fn.Name
	}
	res.entry = &types.IndexEntry{ImportPath: m.ImportPath(layout.OutputDir), Names: names}
	return res
}

// logFallbacks records each designator the table does not know, which
// binds as the fallback tag.
func (r *Runner) logFallbacks(m types.SourceModule, fns []types.ExportedFunction) {
	for _, fn := range fns {
		for _, d := range append(fn.ParamTypes(), fn.ReturnType) {
			if !r.deps.Table.Known(d) {
				r.deps.Logger.Debug("type mapped to fallback",
					"path", m.Path, "function", fn.Name, "type", d, "tag", r.deps.Table.Map(d).String())
			}
		}
	}
}

// updateIndex computes the full merged index and writes it once.
func (r *Runner) updateIndex(report *Report, importPaths []string) error {
	prior, err := readFileOrEmpty(r.deps.Fs, report.IndexPath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIndexWrite, report.IndexPath, err)
	}

	merged := index.Merge(prior, importPaths)
	report.IndexChanged = merged != prior
	if !report.IndexChanged {
		return nil
	}
	if r.deps.DryRun {
		report.IndexDiff = index.Diff(prior, merged)
		return nil
	}
	if err := writeFileAtomic(r.deps.Fs, report.IndexPath, []byte(merged)); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}
	return nil
}
