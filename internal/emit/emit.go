// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package emit renders bun:ffi TypeScript binding modules from extracted
// signatures. Emit is pure: it never touches the filesystem.
package emit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/petar-djukic/bunbind/internal/typemap"
	"github.com/petar-djukic/bunbind/pkg/types"
)

const defaultBinDir = "bin"

// Options configures rendering of one binding module.
type Options struct {
	Platform Platform
	Depth    int           // Directories between the binding file and the library root
	BinDir   string        // Library directory under the root (default "bin")
	Table    typemap.Table // Type mapping; zero value maps everything to u64
}

// Symbol is one dlopen symbol declaration after type mapping.
type Symbol struct {
	Name    string
	Args    []typemap.Tag
	Returns typemap.Tag
}

// Module is the structured form of a binding module, rendered by Lines.
type Module struct {
	BaseDir []string // path.join segments for BASE_DIR
	Library string   // template literal body of the library file name
	Symbols []Symbol
}

// Build maps signatures into a Module. It fails only for an unsupported
// platform or an empty function list.
func Build(baseName string, fns []types.ExportedFunction, opts Options) (*Module, error) {
	lib, err := opts.Platform.LibraryFile(baseName)
	if err != nil {
		return nil, err
	}
	if len(fns) == 0 {
		return nil, errors.New("no functions to bind in " + baseName)
	}

	binDir := opts.BinDir
	if binDir == "" {
		binDir = defaultBinDir
	}
	segs := []string{"import.meta.dir"}
	for i := 0; i < opts.Depth; i++ {
		segs = append(segs, strconv.Quote(".."))
	}
	for _, part := range strings.Split(strings.Trim(binDir, "/"), "/") {
		segs = append(segs, strconv.Quote(part))
	}

	m := &Module{BaseDir: segs, Library: lib}
	for _, fn := range fns {
		m.Symbols = append(m.Symbols, Symbol{
			Name:    strings.TrimPrefix(fn.Name, "r#"),
			Args:    opts.Table.MapAll(fn.ParamTypes()),
			Returns: opts.Table.Map(fn.ReturnType),
		})
	}
	return m, nil
}

// Lines renders the module as ordered output lines.
func (m *Module) Lines() []string {
	lines := []string{
		`import { dlopen, FFIType, suffix } from "bun:ffi";`,
		`import path from "path";`,
		"",
		fmt.Sprintf("const BASE_DIR = path.join(%s);", strings.Join(m.BaseDir, ", ")),
		"",
		fmt.Sprintf("const lib = dlopen(path.join(BASE_DIR, `%s`), {", m.Library),
	}
	for _, s := range m.Symbols {
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.Expr()
		}
		lines = append(lines,
			fmt.Sprintf("  %s: {", s.Name),
			fmt.Sprintf("    args: [%s],", strings.Join(args, ", ")),
			fmt.Sprintf("    returns: %s,", s.Returns.Expr()),
			"  },",
		)
	}
	lines = append(lines, "});", "")
	for _, s := range m.Symbols {
		lines = append(lines, exportLines(s.Name)...)
	}
	return lines
}

// reserved holds names that cannot be declared as a binding in an ES module.
var reserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// exportLines re-exports a symbol under its foreign name. Reserved words go
// through a local alias, since export names may be any identifier name.
func exportLines(name string) []string {
	if !reserved[name] {
		return []string{fmt.Sprintf("export const %s = lib.symbols.%s;", name, name)}
	}
	local := "ffi_" + name
	return []string{
		fmt.Sprintf("const %s = lib.symbols.%s;", local, name),
		fmt.Sprintf("export { %s as %s };", local, name),
	}
}

// Emit renders the binding module text for one source module.
func Emit(baseName string, fns []types.ExportedFunction, opts Options) (string, error) {
	m, err := Build(baseName, fns, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(m.Lines(), "\n") + "\n", nil
}
