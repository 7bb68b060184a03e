// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/petar-djukic/bunbind/pkg/types"
)

// errReceiver marks an exported method that takes self.
var errReceiver = errors.New("method receiver")

// TreeSitter extracts signatures from a full tree-sitter parse of the
// module. It is stricter than Lexical: any syntax error anywhere in the file,
// function bodies included, fails the module.
type TreeSitter struct {
	lang *sitter.Language
}

// NewTreeSitter returns a TreeSitter extractor for the Rust grammar.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{lang: rust.GetLanguage()}
}

// Extract implements Extractor.
func (ts *TreeSitter) Extract(ctx context.Context, src []byte) (*Result, error) {
	root, err := sitter.ParseCtx(ctx, src, ts.lang)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	if root == nil {
		return nil, &ParseError{Msg: "empty parse tree"}
	}
	if root.HasError() {
		line := 0
		if bad := firstErrorNode(root); bad != nil {
			line = int(bad.StartPoint().Row) + 1
		}
		return nil, &ParseError{Line: line, Msg: "syntax error"}
	}

	res := &Result{}
	if err := ts.walk(root, src, res); err != nil {
		return nil, err
	}
	return res, nil
}

// walk visits items in source order. Function bodies are not entered.
func (ts *TreeSitter) walk(n *sitter.Node, src []byte, res *Result) error {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() == "function_item" {
			if !isExported(child, src) {
				continue
			}
			if tp := child.ChildByFieldName("type_parameters"); tp != nil {
				res.Skipped = append(res.Skipped, symbolName(fieldContent(child, "name", src)))
				continue
			}
			fn, err := functionFromNode(child, src)
			if errors.Is(err, errReceiver) {
				res.Skipped = append(res.Skipped, fn.Name)
				continue
			}
			if err != nil {
				return err
			}
			res.Functions = append(res.Functions, fn)
			continue
		}
		if err := ts.walk(child, src, res); err != nil {
			return err
		}
	}
	return nil
}

// isExported reports whether a function_item is `pub` and `extern`.
func isExported(fn *sitter.Node, src []byte) bool {
	public, isExtern := false, false
	for i := 0; i < int(fn.NamedChildCount()); i++ {
		c := fn.NamedChild(i)
		switch c.Type() {
		case "visibility_modifier":
			public = strings.TrimSpace(c.Content(src)) == "pub"
		case "function_modifiers":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if c.NamedChild(j).Type() == "extern_modifier" {
					isExtern = true
				}
			}
			if strings.Contains(c.Content(src), "extern") {
				isExtern = true
			}
		}
	}
	return public && isExtern
}

func functionFromNode(n *sitter.Node, src []byte) (types.ExportedFunction, error) {
	line := int(n.StartPoint().Row) + 1
	name := symbolName(fieldContent(n, "name", src))
	if name == "" {
		return types.ExportedFunction{}, &ParseError{Line: line, Msg: "function without name"}
	}

	fn := types.ExportedFunction{Name: name, ReturnType: "void", Line: line}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "self_parameter":
				return types.ExportedFunction{Name: name}, errReceiver
			case "parameter":
				if pat := collapse(fieldContent(p, "pattern", src)); pat == "self" || pat == "mut self" {
					return types.ExportedFunction{Name: name}, errReceiver
				}
				typ := p.ChildByFieldName("type")
				if typ == nil {
					return types.ExportedFunction{}, &ParseError{Line: int(p.StartPoint().Row) + 1, Msg: "parameter without type in " + name}
				}
				fn.Params = append(fn.Params, types.Parameter{
					Name: collapse(fieldContent(p, "pattern", src)),
					Type: collapse(typ.Content(src)),
				})
			case "attribute_item", "line_comment", "block_comment":
			default:
				return types.ExportedFunction{}, &ParseError{
					Line: int(p.StartPoint().Row) + 1,
					Msg:  "unsupported parameter " + collapse(p.Content(src)) + " in " + name,
				}
			}
		}
	}

	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = collapse(ret.Content(src))
	}
	return fn, nil
}

func fieldContent(n *sitter.Node, field string, src []byte) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return c.Content(src)
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if bad := firstErrorNode(c); bad != nil {
			return bad
		}
	}
	return nil
}
