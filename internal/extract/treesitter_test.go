// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSitter_Add(t *testing.T) {
	res, err := NewTreeSitter().Extract(context.Background(), []byte(addSource))
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"i32", "i32"}, fn.ParamTypes())
	assert.Equal(t, "i32", fn.ReturnType)
}

func TestTreeSitter_MatchesLexical(t *testing.T) {
	src := `
#[no_mangle]
pub extern "C" fn zeta(c: f64, m: *mut HashMap<String, Vec<u8>>) -> f64 { c }
fn private_helper() {}
pub fn rust_only() {}
pub mod inner {
    #[no_mangle]
    pub unsafe extern "C" fn alpha() {}
}
pub extern "C" fn generic<T>(x: T) -> T { x }
`
	lex, err := Lexical{}.Extract(context.Background(), []byte(src))
	require.NoError(t, err)
	ts, err := NewTreeSitter().Extract(context.Background(), []byte(src))
	require.NoError(t, err)

	require.Equal(t, names(lex.Functions), names(ts.Functions))
	for i := range lex.Functions {
		assert.Equal(t, lex.Functions[i].ParamTypes(), ts.Functions[i].ParamTypes())
		assert.Equal(t, lex.Functions[i].ReturnType, ts.Functions[i].ReturnType)
	}
	assert.Equal(t, lex.Skipped, ts.Skipped)
}

func TestTreeSitter_MatchesLexicalOnMethodsMacrosAndRawNames(t *testing.T) {
	src := `
struct S;
impl S {
    pub extern "C" fn m(&self) -> i32 { 1 }
    pub extern "C" fn owned(mut self) {}
}
foo! { pub extern "C" fn inmacro(a: i32) -> i32 { a } }
pub extern "C" fn r#type(a: i32) -> i32 { a }
pub extern "C" fn ok(a: i32) {}
`
	lex, err := Lexical{}.Extract(context.Background(), []byte(src))
	require.NoError(t, err)
	ts, err := NewTreeSitter().Extract(context.Background(), []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"type", "ok"}, names(ts.Functions))
	assert.Equal(t, []string{"m", "owned"}, ts.Skipped)
	assert.Equal(t, names(lex.Functions), names(ts.Functions))
	assert.Equal(t, lex.Skipped, ts.Skipped)
}

func TestTreeSitter_SyntaxErrorFailsModule(t *testing.T) {
	_, err := NewTreeSitter().Extract(context.Background(), []byte("pub extern \"C\" fn f(a: i32, b: i32 {\n"))
	require.Error(t, err)

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestTreeSitter_EmptyModule(t *testing.T) {
	res, err := NewTreeSitter().Extract(context.Background(), []byte("fn main() {}\n"))
	require.NoError(t, err)
	assert.Empty(t, res.Functions)
}
