// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package bindgen is the public interface for bunbind: it generates Bun FFI
// TypeScript bindings for the C-ABI functions exported by a tree of Rust
// source files.
package bindgen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/petar-djukic/bunbind/internal/emit"
	"github.com/petar-djukic/bunbind/internal/generate"
	"github.com/petar-djukic/bunbind/pkg/types"
)

// Error types for the bindgen API.
var (
	ErrInvalidConfig       = errors.New("invalid config")
	ErrUnsupportedPlatform = emit.ErrUnsupportedPlatform
	ErrIndexWrite          = generate.ErrIndexWrite
)

// Config configures a Generator.
type Config struct {
	Root        string       // Library root containing the source directory (required)
	SourceDir   string       // Rust sources under Root (default "rs")
	OutputDir   string       // Binding modules under Root (default "mod")
	IndexFile   string       // Shared entry point under Root (default "index.ts")
	BinDir      string       // Compiled libraries under Root (default "bin")
	Platform    string       // Target GOOS name (default: host)
	Parser      string       // "lexical" (default) or "tree-sitter"
	Concurrency int          // Parallel modules (default NumCPU)
	DryRun      bool         // Report changes without writing
	Logger      *slog.Logger // Optional
}

// Result holds the outcome of a Generator.Run invocation.
type Result struct {
	Status       types.Status       // success, partial or failed
	Modules      int                // Source modules discovered
	Bindings     []types.IndexEntry // Modules that produced a binding
	Written      []string           // Binding files written, relative to Root
	Diagnostics  []types.Diagnostic // Per-module warnings and errors
	IndexPath    string
	IndexChanged bool
	IndexDiff    string `json:",omitempty"` // Dry runs only
}

// Generator runs generation passes over one library root.
type Generator interface {
	// Run discovers the Rust modules, writes one binding per module with
	// exported functions, and merges the shared index. A non-nil error means
	// the run failed outright; per-module problems are in Result.Diagnostics.
	Run(ctx context.Context) (*Result, error)
}
