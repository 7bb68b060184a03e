// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the category of a lexical token.
type TokenKind int

const (
	Ident    TokenKind = iota // Identifier or keyword
	Punct                     // Punctuation; "->" and "::" are single tokens
	Literal                   // String, char, byte or numeric literal
	Lifetime                  // 'a
	EOF
)

func (k TokenKind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case Literal:
		return "literal"
	case Lifetime:
		return "lifetime"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is one lexical unit with its byte span in the source.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int // Byte offset of the first byte
	End   int // Byte offset one past the last byte
	Line  int // 1-based
}

// Is reports whether the token is the given identifier or punctuation text.
func (t Token) Is(text string) bool {
	return (t.Kind == Ident || t.Kind == Punct) && t.Text == text
}

// Lex splits Rust source into tokens, dropping whitespace and comments. The
// returned slice always ends with an EOF token.
func Lex(src []byte) ([]Token, error) {
	l := &lexer{src: src, line: 1}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

type lexer struct {
	src  []byte
	pos  int
	line int
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *lexer) token(kind TokenKind, start, line int) Token {
	return Token{Kind: kind, Text: string(l.src[start:l.pos]), Start: start, End: l.pos, Line: line}
}

func (l *lexer) next() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	start, line := l.pos, l.line
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Start: start, End: start, Line: line}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '"':
		if err := l.quoted('"'); err != nil {
			return Token{}, err
		}
		return l.token(Literal, start, line), nil
	case (c == 'r' || c == 'b') && l.rawOrByteString():
		if err := l.prefixedString(); err != nil {
			return Token{}, err
		}
		return l.token(Literal, start, line), nil
	case c == '\'':
		return l.quote(start, line)
	case c >= '0' && c <= '9':
		l.number()
		return l.token(Literal, start, line), nil
	case isIdentStart(l.runeAt(l.pos)):
		if c == 'r' && l.peek(1) == '#' && isIdentStart(l.runeAt(l.pos+2)) {
			l.advance(2)
		}
		l.ident()
		return l.token(Ident, start, line), nil
	case c == '-' && l.peek(1) == '>', c == ':' && l.peek(1) == ':', c == '=' && l.peek(1) == '>':
		l.advance(2)
		return l.token(Punct, start, line), nil
	default:
		_, size := utf8.DecodeRune(l.src[l.pos:])
		l.advance(size)
		return l.token(Punct, start, line), nil
	}
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance(1)
		case c == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance(1)
			}
		case c == '/' && l.peek(1) == '*':
			if err := l.blockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// blockComment consumes a possibly nested /* */ comment.
func (l *lexer) blockComment() error {
	line := l.line
	depth := 0
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '/' && l.peek(1) == '*':
			depth++
			l.advance(2)
		case l.src[l.pos] == '*' && l.peek(1) == '/':
			depth--
			l.advance(2)
			if depth == 0 {
				return nil
			}
		default:
			l.advance(1)
		}
	}
	return &ParseError{Line: line, Msg: "unterminated block comment"}
}

// quoted consumes a quoted literal with backslash escapes, starting at the
// opening delimiter.
func (l *lexer) quoted(delim byte) error {
	line := l.line
	l.advance(1)
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance(2)
		case delim:
			l.advance(1)
			return nil
		default:
			l.advance(1)
		}
	}
	return &ParseError{Line: line, Msg: "unterminated string literal"}
}

// rawOrByteString reports whether the r/b at pos starts a string literal
// rather than an identifier.
func (l *lexer) rawOrByteString() bool {
	i := l.pos
	if l.src[i] == 'b' {
		i++
		if i < len(l.src) && l.src[i] == '"' {
			return true
		}
	}
	if i < len(l.src) && l.src[i] == 'r' {
		i++
		for i < len(l.src) && l.src[i] == '#' {
			i++
		}
		return i < len(l.src) && l.src[i] == '"'
	}
	return false
}

func (l *lexer) prefixedString() error {
	if l.src[l.pos] == 'b' {
		l.advance(1)
		if l.src[l.pos] == '"' {
			return l.quoted('"')
		}
	}
	// Raw string: r#*"...."#*
	line := l.line
	l.advance(1)
	hashes := 0
	for l.src[l.pos] == '#' {
		hashes++
		l.advance(1)
	}
	l.advance(1)
	for l.pos < len(l.src) {
		if l.src[l.pos] == '"' {
			n := 0
			for n < hashes && l.peek(1+n) == '#' {
				n++
			}
			if n == hashes {
				l.advance(1 + hashes)
				return nil
			}
		}
		l.advance(1)
	}
	return &ParseError{Line: line, Msg: "unterminated raw string literal"}
}

// quote disambiguates char literals from lifetimes.
func (l *lexer) quote(start, line int) (Token, error) {
	if l.peek(1) == '\\' {
		if err := l.quoted('\''); err != nil {
			return Token{}, err
		}
		return l.token(Literal, start, line), nil
	}
	r, size := utf8.DecodeRune(l.src[l.pos+1:])
	if l.pos+1+size < len(l.src) && l.src[l.pos+1+size] == '\'' {
		l.advance(2 + size)
		return l.token(Literal, start, line), nil
	}
	if !isIdentStart(r) {
		return Token{}, &ParseError{Line: line, Msg: "malformed character literal"}
	}
	l.advance(1)
	l.ident()
	return l.token(Lifetime, start, line), nil
}

func (l *lexer) number() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '.' && l.peek(1) >= '0' && l.peek(1) <= '9' {
			l.advance(1)
			continue
		}
		if c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			l.advance(1)
			continue
		}
		return
	}
}

func (l *lexer) ident() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.advance(size)
	}
}

func (l *lexer) runeAt(i int) rune {
	if i >= len(l.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(l.src[i:])
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
