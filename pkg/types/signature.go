// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across bunbind packages.
package types

import (
	"path"
	"path/filepath"
	"strings"
)

// SourceModule identifies one Rust source file discovered under the source root.
type SourceModule struct {
	Path     string // Path to the source file
	RelDir   string // Directory relative to the source root ("." at the root)
	BaseName string // File name without extension; names the binding module
}

// OutputRelPath returns the binding module path relative to the library root,
// using the host path separator.
func (m SourceModule) OutputRelPath(outDir, ext string) string {
	return filepath.Join(outDir, m.RelDir, m.BaseName+ext)
}

// ImportPath returns the index import path for the module, e.g. "./mod/math/add".
// Separators are always forward slashes.
func (m SourceModule) ImportPath(outDir string) string {
	rel := filepath.ToSlash(m.RelDir)
	if rel == "." || rel == "" {
		return "./" + path.Join(filepath.ToSlash(outDir), m.BaseName)
	}
	return "./" + path.Join(filepath.ToSlash(outDir), rel, m.BaseName)
}

// Depth returns how many directories separate the binding module from the
// library root.
func (m SourceModule) Depth(outDir string) int {
	d := len(splitDir(outDir))
	return d + len(splitDir(m.RelDir))
}

func splitDir(dir string) []string {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(strings.Trim(dir, "/"), "/")
}

// Parameter is one positional argument of an exported function.
type Parameter struct {
	Name string // Binding pattern as written (may be "_")
	Type string // Type designator, whitespace collapsed
}

// ExportedFunction is a function exported over the C ABI.
type ExportedFunction struct {
	Name       string      // Symbol name; never renamed
	Params     []Parameter // Declaration order
	ReturnType string      // "void" when no return arrow is present
	Line       int         // Line of the fn keyword (1-based)
}

// ParamTypes returns the parameter designators in declaration order.
func (f ExportedFunction) ParamTypes() []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Type
	}
	return out
}

// IndexEntry records the exports a run contributed for one module.
type IndexEntry struct {
	ImportPath string
	Names      []string
}
