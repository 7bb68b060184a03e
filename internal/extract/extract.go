// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract finds functions exported over the C ABI in Rust source
// and returns their signatures in declaration order.
//
// A function counts as exported when it is declared `pub` (unrestricted) and
// carries an `extern` qualifier, e.g.
//
//	#[no_mangle]
//	pub extern "C" fn add(a: i32, b: i32) -> i32 { a + b }
//
// Function bodies are never parsed.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/petar-djukic/bunbind/pkg/types"
)

// Kind names an extractor backend.
type Kind string

const (
	KindLexical    Kind = "lexical"
	KindTreeSitter Kind = "tree-sitter"
)

// ParseError reports malformed syntax in one source module.
type ParseError struct {
	Line int // 1-based, 0 if unknown
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Result holds the signatures found in one module.
type Result struct {
	Functions []types.ExportedFunction // Source order
	Skipped   []string                 // Exported names that could not be bound (generic or method)
}

// Extractor extracts exported signatures from one module's source text. An
// empty Result is not an error.
type Extractor interface {
	Extract(ctx context.Context, src []byte) (*Result, error)
}

// New returns the extractor for the given backend kind. An empty kind
// selects the lexical scanner.
func New(kind Kind) (Extractor, error) {
	switch kind {
	case "", KindLexical:
		return Lexical{}, nil
	case KindTreeSitter:
		return NewTreeSitter(), nil
	default:
		return nil, fmt.Errorf("unknown parser %q (want %q or %q)", kind, KindLexical, KindTreeSitter)
	}
}

// collapse normalises whitespace runs in a type designator to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// symbolName returns the exported symbol for a Rust identifier. A raw
// identifier such as r#type is exported as type.
func symbolName(ident string) string {
	return strings.TrimPrefix(ident, "r#")
}
