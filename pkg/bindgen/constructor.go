// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package bindgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petar-djukic/bunbind/internal/emit"
	"github.com/petar-djukic/bunbind/internal/extract"
	"github.com/petar-djukic/bunbind/internal/generate"
	"github.com/petar-djukic/bunbind/internal/typemap"
	"github.com/petar-djukic/bunbind/pkg/types"
)

// New validates the config and returns a ready-to-use Generator. An
// unsupported platform is rejected here, before anything is read or written.
func New(cfg Config) (Generator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	platform, err := emit.ParsePlatform(cfg.Platform)
	if err != nil {
		return nil, err
	}

	extractor, err := extract.New(extract.Kind(cfg.Parser))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	runner := generate.NewRunner(generate.Deps{
		Extractor: extractor,
		Platform:  platform,
		Table:     typemap.Default(),
		Layout: generate.Layout{
			SourceDir: cfg.SourceDir,
			OutputDir: cfg.OutputDir,
			IndexFile: cfg.IndexFile,
			BinDir:    cfg.BinDir,
		},
		Concurrency: cfg.Concurrency,
		DryRun:      cfg.DryRun,
		Logger:      cfg.Logger,
	})

	return &generatorAdapter{runner: runner, root: cfg.Root}, nil
}

// generatorAdapter adapts internal/generate.Runner to the public Generator interface.
type generatorAdapter struct {
	runner *generate.Runner
	root   string
}

func (a *generatorAdapter) Run(ctx context.Context) (*Result, error) {
	report, err := a.runner.Run(ctx, a.root)
	if report == nil {
		return &Result{Status: types.StatusFailed}, err
	}
	return &Result{
		Status:       report.Status,
		Modules:      report.Modules,
		Bindings:     report.Entries,
		Written:      report.Written,
		Diagnostics:  report.Diagnostics,
		IndexPath:    report.IndexPath,
		IndexChanged: report.IndexChanged,
		IndexDiff:    report.IndexDiff,
	}, err
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.Root == "" {
		return fmt.Errorf("Root is required")
	}
	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		return fmt.Errorf("Root %q does not exist or is not a directory", cfg.Root)
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative")
	}
	for _, f := range []struct{ name, value string }{
		{"SourceDir", cfg.SourceDir},
		{"OutputDir", cfg.OutputDir},
		{"IndexFile", cfg.IndexFile},
		{"BinDir", cfg.BinDir},
	} {
		if err := checkLayoutPath(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// checkLayoutPath requires a relative path without ".." segments, so that
// binding depth is the number of OutputDir segments.
func checkLayoutPath(name, value string) error {
	if value == "" {
		return nil
	}
	if filepath.IsAbs(value) || strings.HasPrefix(value, "/") {
		return fmt.Errorf("%s %q must be relative to Root", name, value)
	}
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%s %q must not contain ..", name, value)
		}
	}
	return nil
}
