// Package parse defines the external parser façade contract every other
// package in this module depends on, plus the incremental parser built
// on top of it. The façade itself — lexing and grammar — lives in
// package gdscript. Above this layer, only diagnostics/syntax_rules.go
// imports gdscript directly, to read gdscript.ParseError positions.
package parse

import (
	"github.com/gdtoolkit/sema/gdscript"
	"github.com/gdtoolkit/sema/syntax"
)

// Parser is the opaque full parser the incremental parser, scope
// builder, type inference engine, flow analyzer and diagnostic engine
// all consume. A Parser never fails outright: it always returns a tree
// (or node, or expression), accumulating syntax errors alongside it.
type Parser interface {
	ParseFile(source string) (*syntax.Tree, []error)
	ParseMember(source string) (*syntax.Node, []error)
	ParseExpression(source string) (syntax.Element, []error)
}

// GDScriptParser adapts package gdscript's concrete lexer/parser to the
// Parser interface.
type GDScriptParser struct{}

func (GDScriptParser) ParseFile(source string) (*syntax.Tree, []error) {
	tree, errs := gdscript.Parse(source)
	return tree, toErrors(errs)
}

func (GDScriptParser) ParseMember(source string) (*syntax.Node, []error) {
	node, errs := gdscript.ParseMember(source)
	return node, toErrors(errs)
}

func (GDScriptParser) ParseExpression(source string) (syntax.Element, []error) {
	expr, errs := gdscript.ParseExpression(source)
	return expr, toErrors(errs)
}

func toErrors(errs []gdscript.ParseError) []error {
	if len(errs) == 0 {
		return nil
	}
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
