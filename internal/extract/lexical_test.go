// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/bunbind/pkg/types"
)

const addSource = `use std::os::raw::c_char;

/// Adds two numbers.
#[no_mangle]
pub extern "C" fn add(a: i32, b: i32) -> i32 {
    helper(a) + b
}

fn helper(x: i32) -> i32 {
    x
}
`

func extractLexical(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Lexical{}.Extract(context.Background(), []byte(src))
	require.NoError(t, err)
	return res
}

func names(fns []types.ExportedFunction) []string {
	out := make([]string, len(fns))
	for i, f := range fns {
		out[i] = f.Name
	}
	return out
}

func TestLexical_AddExcludesPrivateHelper(t *testing.T) {
	res := extractLexical(t, addSource)

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"i32", "i32"}, fn.ParamTypes())
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "i32", fn.ReturnType)
	assert.Equal(t, 5, fn.Line)
}

func TestLexical_PreservesDeclarationOrder(t *testing.T) {
	src := `
#[no_mangle]
pub extern "C" fn zeta(c: f64, a: u8, b: bool) -> f64 { c }
#[no_mangle]
pub extern "C" fn alpha() {}
#[no_mangle]
pub unsafe extern "C" fn mid(p: *const u8, n: usize) -> u64 { 0 }
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(res.Functions))
	assert.Equal(t, []string{"f64", "u8", "bool"}, res.Functions[0].ParamTypes())
	assert.Equal(t, []string{"*const u8", "usize"}, res.Functions[2].ParamTypes())
}

func TestLexical_ZeroParamsAndNoArrow(t *testing.T) {
	res := extractLexical(t, `pub extern "C" fn tick() { do_it(); }`)

	require.Len(t, res.Functions, 1)
	assert.Empty(t, res.Functions[0].Params)
	assert.Equal(t, "void", res.Functions[0].ReturnType)
}

func TestLexical_DeclarationWithoutBody(t *testing.T) {
	res := extractLexical(t, `pub extern "C" fn declared(x: u16) -> u16;`)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, []string{"u16"}, res.Functions[0].ParamTypes())
}

func TestLexical_NestedGenericCommasDoNotSplit(t *testing.T) {
	src := `pub extern "C" fn f(m: *mut HashMap<String, Vec<(u8, u8)>>, arr: [u8; 4], last: i64) -> *const Option<Box<i32>> {
    let x = if a < b { 1 } else { 2 };
    x
}`
	res := extractLexical(t, src)

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, []string{"*mut HashMap<String, Vec<(u8, u8)>>", "[u8; 4]", "i64"}, fn.ParamTypes())
	assert.Equal(t, "*const Option<Box<i32>>", fn.ReturnType)
}

func TestLexical_WhitespaceInTypesCollapsed(t *testing.T) {
	res := extractLexical(t, "pub extern \"C\" fn f(p: *const\n      /* raw */   c_char) {}")

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "*const c_char", res.Functions[0].Params[0].Type)
}

func TestLexical_FunctionPointerParameter(t *testing.T) {
	res := extractLexical(t, `pub extern "C" fn register(cb: extern "C" fn(i32, i32) -> i32, tag: u8) {}`)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, []string{`extern "C" fn(i32, i32) -> i32`, "u8"}, res.Functions[0].ParamTypes())
}

func TestLexical_ExcludesNonExported(t *testing.T) {
	src := `
pub fn public_rust_only(a: i32) -> i32 { a }
extern "C" fn not_pub(a: i32) -> i32 { a }
pub(crate) extern "C" fn crate_only(a: i32) -> i32 { a }
pub const LIMIT: u32 = 10;
pub struct Point { pub x: i32, pub y: i32 }
pub type Callback = extern "C" fn(i32);
extern "C" {
    pub fn imported(x: i32) -> i32;
}
#[no_mangle]
pub extern "C" fn exported(a: i32) -> i32 { a }
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"exported"}, names(res.Functions))
}

func TestLexical_IgnoresBodiesCommentsAndStrings(t *testing.T) {
	src := `
// pub extern "C" fn in_comment() {}
/* pub extern "C" fn /* nested */ in_block() {} */
pub extern "C" fn real() -> u8 {
    let s = "pub extern \"C\" fn in_string() { }";
    let r = r#"}{ pub extern "C" fn raw() "#;
    let c = '{';
    'outer: loop { break 'outer; }
    0
}
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"real"}, names(res.Functions))
}

func TestLexical_FindsFunctionsInModules(t *testing.T) {
	src := `
pub mod ffi {
    #[no_mangle]
    pub extern "C" fn inner(x: f32) -> f32 { x }
}
macro_rules! export {
    ($name:ident) => { pub extern "C" fn $name() {} };
}
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"inner"}, names(res.Functions))
}

func TestLexical_GenericFunctionSkipped(t *testing.T) {
	src := `
pub extern "C" fn generic<T: Copy>(x: T) -> T { x }
pub extern "C" fn plain(x: u32) -> u32 { x }
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"plain"}, names(res.Functions))
	assert.Equal(t, []string{"generic"}, res.Skipped)
}

func TestLexical_RawIdentifierName(t *testing.T) {
	res := extractLexical(t, "pub extern \"C\" fn r#type(a: i32) -> i32 { a }\npub extern \"C\" fn r#gen<T>(x: T) {}\n")

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "type", res.Functions[0].Name)
	assert.Equal(t, []string{"i32"}, res.Functions[0].ParamTypes())
	assert.Equal(t, []string{"gen"}, res.Skipped)
}

func TestLexical_MethodWithReceiverSkipped(t *testing.T) {
	src := `
struct S;
impl S {
    pub extern "C" fn by_ref(&self) -> i32 { 1 }
    pub extern "C" fn by_mut(&'a mut self, n: u8) {}
    pub extern "C" fn boxed(self: Box<Self>) {}
    pub extern "C" fn assoc(n: u8) -> u8 { n }
}
pub extern "C" fn ok(a: i32) -> i32 { a }
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"assoc", "ok"}, names(res.Functions))
	assert.Equal(t, []string{"by_ref", "by_mut", "boxed"}, res.Skipped)
}

func TestLexical_MacroInvocationNotExpanded(t *testing.T) {
	src := `
foo! { pub extern "C" fn inmacro(a: i32) -> i32 { a } }
bar!(pub extern "C" fn inparens() {});
pub extern "C" fn outside() {}
`
	res := extractLexical(t, src)

	assert.Equal(t, []string{"outside"}, names(res.Functions))
}

func TestLexical_EmptyModule(t *testing.T) {
	res := extractLexical(t, "fn main() {}\n")

	assert.Empty(t, res.Functions)
}

func TestLexical_TrailingComma(t *testing.T) {
	res := extractLexical(t, "pub extern \"C\" fn f(\n    a: i8,\n    b: i16,\n) {}")

	require.Len(t, res.Functions, 1)
	assert.Equal(t, []string{"i8", "i16"}, res.Functions[0].ParamTypes())
}

func TestLexical_MalformedDeclarations(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unterminated params", "pub extern \"C\" fn f(a: i32, b: i32", 1},
		{"unterminated body", "pub extern \"C\" fn f(a: i32) {\n  if x {\n", 1},
		{"missing name", "pub extern \"C\" fn (a: i32) {}", 1},
		{"missing paren", "pub extern \"C\" fn f a: i32 {}", 1},
		{"untyped param", "\npub extern \"C\" fn f(a, b: i32) {}", 2},
		{"missing return type", "pub extern \"C\" fn f() -> {}", 1},
		{"unterminated comment", "/* never closed\npub extern \"C\" fn f() {}", 1},
		{"unterminated string", "pub extern \"C\" fn f() { let s = \"open; }", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lexical{}.Extract(context.Background(), []byte(tt.src))
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestLexical_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Lexical{}.Extract(ctx, []byte(addSource))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Kinds(t *testing.T) {
	ext, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Lexical{}, ext)

	ext, err = New(KindTreeSitter)
	require.NoError(t, err)
	assert.IsType(t, &TreeSitter{}, ext)

	_, err = New("regex")
	assert.Error(t, err)
}
