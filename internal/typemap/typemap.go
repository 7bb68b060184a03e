// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package typemap maps Rust type designators to bun:ffi FFIType tags.
package typemap

// Tag is a bun:ffi FFIType member name.
type Tag string

// Known tags.
const (
	U8      Tag = "u8"
	U16     Tag = "u16"
	U32     Tag = "u32"
	U64     Tag = "u64"
	I8      Tag = "i8"
	I16     Tag = "i16"
	I32     Tag = "i32"
	I64     Tag = "i64"
	F32     Tag = "f32"
	F64     Tag = "f64"
	Bool    Tag = "bool"
	Void    Tag = "void"
	Char    Tag = "char"
	Ptr     Tag = "ptr"
	CString Tag = "cstring"
)

// Fallback is the tag every unmapped designator resolves to.
const Fallback = U64

func (t Tag) String() string { return string(t) }

// Expr returns the TypeScript expression for the tag, e.g. "FFIType.i32".
func (t Tag) Expr() string { return "FFIType." + string(t) }

// Table is an immutable designator-to-tag lookup. The zero value maps
// everything to Fallback.
type Table struct {
	entries  map[string]Tag
	fallback Tag
}

var defaultEntries = map[string]Tag{
	"u8":      U8,
	"u16":     U16,
	"u32":     U32,
	"u64":     U64,
	"i8":      I8,
	"i16":     I16,
	"i32":     I32,
	"i64":     I64,
	"f32":     F32,
	"f64":     F64,
	"bool":    Bool,
	"void":    Void,
	"char":    Char,
	"ptr":     Ptr,
	"cstring": CString,
}

// Default returns the bun:ffi table.
func Default() Table {
	return New(defaultEntries)
}

// New builds a table from the given entries. The map is copied.
func New(entries map[string]Tag) Table {
	t := Table{entries: make(map[string]Tag, len(entries)), fallback: Fallback}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t
}

// Map returns the tag for a designator. It never fails: anything absent from
// the table, including the empty string, maps to the fallback.
func (t Table) Map(designator string) Tag {
	if tag, ok := t.entries[designator]; ok && tag != "" {
		return tag
	}
	if t.fallback == "" {
		return Fallback
	}
	return t.fallback
}

// MapAll maps designators in order.
func (t Table) MapAll(designators []string) []Tag {
	out := make([]Tag, len(designators))
	for i, d := range designators {
		out[i] = t.Map(d)
	}
	return out
}

// IsZero reports whether the table is the zero value.
func (t Table) IsZero() bool {
	return t.entries == nil
}

// Known reports whether the designator has an explicit entry.
func (t Table) Known(designator string) bool {
	_, ok := t.entries[designator]
	return ok
}
