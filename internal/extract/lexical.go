// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"strings"

	"github.com/petar-djukic/bunbind/pkg/types"
)

// Lexical is the default extractor. It scans the token stream at item level
// with bracket-depth tracking, so commas nested inside generic or array
// types never split a parameter.
type Lexical struct{}

// Extract implements Extractor.
func (Lexical) Extract(ctx context.Context, src []byte) (*Result, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	s := &scanner{toks: toks}
	res := &Result{}

	for !s.at(EOF) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch {
		case s.cur().Is("macro_rules") && s.peek(1).Is("!"):
			// Macro templates are token soup; skip the whole definition.
			s.pos += 2
			if s.cur().Kind == Ident {
				s.pos++
			}
			if err := s.skipGroup(); err != nil {
				return nil, err
			}
		case s.cur().Kind == Ident && s.peek(1).Is("!") && isOpenDelim(s.peek(2)):
			// Macro invocation: its token tree is not expanded here.
			s.pos += 2
			if err := s.skipGroup(); err != nil {
				return nil, err
			}
		case s.cur().Is("pub"):
			fn, skipped, err := s.item()
			if err != nil {
				return nil, err
			}
			if fn != nil {
				res.Functions = append(res.Functions, *fn)
			}
			if skipped != "" {
				res.Skipped = append(res.Skipped, skipped)
			}
		case s.cur().Is("fn") && s.peek(1).Kind == Ident:
			// Private function: step over its signature and body.
			if err := s.skipFunction(); err != nil {
				return nil, err
			}
		default:
			s.pos++
		}
	}
	return res, nil
}

type scanner struct {
	toks []Token
	pos  int
}

func (s *scanner) cur() Token { return s.peek(0) }

func (s *scanner) peek(off int) Token {
	if s.pos+off < len(s.toks) {
		return s.toks[s.pos+off]
	}
	return s.toks[len(s.toks)-1]
}

func (s *scanner) at(kind TokenKind) bool { return s.cur().Kind == kind }

// item handles a `pub ...` item starting at the current token. It returns a
// function when the item is an exported fn, or the name of an exported fn
// that was skipped.
func (s *scanner) item() (*types.ExportedFunction, string, error) {
	s.pos++ // pub
	public := true
	if s.cur().Is("(") {
		// pub(crate), pub(super), pub(in path): not visible across the ABI.
		public = false
		if err := s.skipGroup(); err != nil {
			return nil, "", err
		}
	}

	isExtern := false
	for {
		t := s.cur()
		switch {
		case t.Is("const"), t.Is("async"), t.Is("unsafe"), t.Is("default"):
			s.pos++
			continue
		case t.Is("extern"):
			isExtern = true
			s.pos++
			if s.cur().Kind == Literal {
				s.pos++ // ABI string
			}
			continue
		}
		break
	}

	if !s.cur().Is("fn") {
		// Not a function (const, struct, extern crate, ...).
		return nil, "", nil
	}
	if !public || !isExtern {
		return nil, "", s.skipFunction()
	}
	return s.function()
}

// function parses `fn name(params) [-> ret] (; | {body})` from the fn keyword.
func (s *scanner) function() (*types.ExportedFunction, string, error) {
	fnTok := s.cur()
	s.pos++

	name := s.cur()
	if name.Kind != Ident {
		return nil, "", &ParseError{Line: fnTok.Line, Msg: "expected function name after fn"}
	}
	s.pos++

	if s.cur().Is("<") {
		if err := s.skipAngles(); err != nil {
			return nil, "", err
		}
		if err := s.skipRest(fnTok); err != nil {
			return nil, "", err
		}
		return nil, symbolName(name.Text), nil
	}

	if !s.cur().Is("(") {
		return nil, "", &ParseError{Line: name.Line, Msg: "expected ( after function name " + name.Text}
	}
	params, receiver, err := s.params(name)
	if err != nil {
		return nil, "", err
	}

	ret := "void"
	if s.cur().Is("->") {
		arrow := s.cur()
		s.pos++
		start := s.pos
		if err := s.scanTo(arrow, func(t Token, depth int) bool {
			return depth == 0 && (t.Is("{") || t.Is(";") || t.Is("where"))
		}); err != nil {
			return nil, "", err
		}
		if s.pos == start {
			return nil, "", &ParseError{Line: arrow.Line, Msg: "missing return type after -> in " + name.Text}
		}
		ret = s.text(start, s.pos)
	}

	if err := s.skipRest(fnTok); err != nil {
		return nil, "", err
	}
	if receiver {
		// Reported as skipped like generic functions.
		return nil, symbolName(name.Text), nil
	}

	return &types.ExportedFunction{
		Name:       symbolName(name.Text),
		Params:     params,
		ReturnType: ret,
		Line:       fnTok.Line,
	}, "", nil
}

// params parses the parenthesised parameter clause, leaving the scanner on
// the token after the closing paren. receiver is true when the clause
// declares a self parameter.
func (s *scanner) params(name Token) (params []types.Parameter, receiver bool, err error) {
	open := s.cur()
	s.pos++

	segStart := s.pos
	depth := 0
	for {
		t := s.cur()
		switch {
		case t.Kind == EOF:
			return nil, false, &ParseError{Line: open.Line, Msg: "unterminated parameter list in " + name.Text}
		case t.Is("(") || t.Is("[") || t.Is("{") || t.Is("<"):
			depth++
		case t.Is(">") || t.Is("]") || t.Is("}"):
			depth--
		case t.Is(")"):
			if depth == 0 {
				if s.pos > segStart {
					if s.isReceiver(segStart, s.pos) {
						receiver = true
					} else {
						p, err := s.param(segStart, s.pos, name)
						if err != nil {
							return nil, false, err
						}
						params = append(params, p)
					}
				}
				s.pos++
				return params, receiver, nil
			}
			depth--
		case t.Is(",") && depth == 0:
			if s.pos == segStart {
				return nil, false, &ParseError{Line: t.Line, Msg: "empty parameter in " + name.Text}
			}
			if s.isReceiver(segStart, s.pos) {
				receiver = true
			} else {
				p, err := s.param(segStart, s.pos, name)
				if err != nil {
					return nil, false, err
				}
				params = append(params, p)
			}
			segStart = s.pos + 1
		}
		if depth < 0 {
			return nil, false, &ParseError{Line: t.Line, Msg: "unbalanced brackets in parameters of " + name.Text}
		}
		s.pos++
	}
}

// isReceiver reports whether toks[start:end] is a self parameter: self,
// mut self, &self, &'a mut self or self: Type.
func (s *scanner) isReceiver(start, end int) bool {
	start = s.skipAttrs(start, end)
	last := end
	for i := start; i < end; i++ {
		if s.toks[i].Is(":") {
			last = i
			break
		}
	}
	return last > start && s.toks[last-1].Is("self")
}

// skipAttrs returns the index after any leading #[...] attributes.
func (s *scanner) skipAttrs(start, end int) int {
	for start+1 < end && s.toks[start].Is("#") && s.toks[start+1].Is("[") {
		depth := 0
		i := start + 1
		for ; i < end; i++ {
			if s.toks[i].Is("[") {
				depth++
			} else if s.toks[i].Is("]") {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		start = i + 1
	}
	return start
}

// param splits one `pattern: Type` segment at its first top-level colon.
func (s *scanner) param(start, end int, name Token) (types.Parameter, error) {
	start = s.skipAttrs(start, end)

	depth := 0
	for i := start; i < end; i++ {
		t := s.toks[i]
		switch {
		case t.Is("(") || t.Is("[") || t.Is("{") || t.Is("<"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}") || t.Is(">"):
			depth--
		case t.Is(":") && depth == 0:
			if i == start || i+1 >= end {
				break
			}
			return types.Parameter{
				Name: s.text(start, i),
				Type: s.text(i+1, end),
			}, nil
		}
	}
	line := name.Line
	if start < end {
		line = s.toks[start].Line
	}
	return types.Parameter{}, &ParseError{Line: line, Msg: "parameter without type in " + name.Text}
}

// scanTo advances until stop returns true at the current token, tracking
// bracket depth. EOF is an error.
func (s *scanner) scanTo(from Token, stop func(t Token, depth int) bool) error {
	depth := 0
	for {
		t := s.cur()
		if t.Kind == EOF {
			return &ParseError{Line: from.Line, Msg: "unexpected end of file in function signature"}
		}
		if stop(t, depth) {
			return nil
		}
		switch {
		case t.Is("(") || t.Is("[") || t.Is("<"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is(">"):
			depth--
		}
		s.pos++
	}
}

// skipRest steps over any where clause and the body or terminating semicolon.
func (s *scanner) skipRest(fnTok Token) error {
	if err := s.scanTo(fnTok, func(t Token, depth int) bool {
		return depth <= 0 && (t.Is("{") || t.Is(";"))
	}); err != nil {
		return err
	}
	if s.cur().Is(";") {
		s.pos++
		return nil
	}
	return s.skipGroup()
}

// skipFunction steps over a function this extractor does not bind.
func (s *scanner) skipFunction() error {
	fnTok := s.cur()
	s.pos++
	return s.skipRest(fnTok)
}

// skipGroup steps over a (), [] or {} group starting at the current token.
func (s *scanner) skipGroup() error {
	open := s.cur()
	closer := map[string]string{"(": ")", "[": "]", "{": "}"}[open.Text]
	if open.Kind != Punct || closer == "" {
		return &ParseError{Line: open.Line, Msg: "expected delimited group, found " + describe(open)}
	}
	depth := 0
	for {
		t := s.cur()
		switch {
		case t.Kind == EOF:
			if open.Is("{") {
				return &ParseError{Line: open.Line, Msg: "unterminated block"}
			}
			return &ParseError{Line: open.Line, Msg: "unterminated " + open.Text}
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
			if depth == 0 {
				s.pos++
				return nil
			}
		}
		s.pos++
	}
}

// skipAngles steps over a <...> generic parameter list.
func (s *scanner) skipAngles() error {
	open := s.cur()
	depth := 0
	for {
		t := s.cur()
		switch {
		case t.Kind == EOF:
			return &ParseError{Line: open.Line, Msg: "unterminated generic parameter list"}
		case t.Is("<"):
			depth++
		case t.Is(">"):
			depth--
			if depth == 0 {
				s.pos++
				return nil
			}
		}
		s.pos++
	}
}

// text rebuilds the source text of toks[start:end], keeping a single space
// wherever the source had whitespace or a comment between tokens.
func (s *scanner) text(start, end int) string {
	var b strings.Builder
	for i := start; i < end; i++ {
		t := s.toks[i]
		if i > start && t.Start > s.toks[i-1].End {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return collapse(b.String())
}

func isOpenDelim(t Token) bool {
	return t.Kind == Punct && (t.Is("(") || t.Is("[") || t.Is("{"))
}

func describe(t Token) string {
	if t.Kind == EOF {
		return "end of file"
	}
	return "\"" + t.Text + "\""
}
