package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/syntax"
)

// ScopeDiagnostics implements the GD2xxx rules: every identifier
// reference is checked against the enclosing scope chain and, failing
// that, the runtime provider, and `self` is checked for use outside
// any method or lambda body.
func ScopeDiagnostics(tree *syntax.Tree, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	var out []Diagnostic
	if tree.Root == nil {
		return out
	}
	for _, n := range tree.Root.AllNodes() {
		if n.Kind != syntax.NodeIdentifierExpr {
			continue
		}
		out = append(out, checkIdentifierReference(n, graph, provider, fileID)...)
	}
	return out
}

func identifierRefText(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryKeyword {
			return t.Text
		}
	}
	return ""
}

// isCalleeOf reports whether n is the callee position (first child) of
// a NodeCallExpr parent, the sole context the missing-name is reported
// as an undefined function rather than an undefined variable.
func isCalleeOf(n *syntax.Node) bool {
	p := n.Parent()
	return p != nil && p.Kind == syntax.NodeCallExpr && len(p.Children) > 0 && p.Children[0] == syntax.Element(n)
}

// insideMethodOrLambda reports whether n sits inside a method or
// lambda body, the only contexts `self` refers to an actual instance.
func insideMethodOrLambda(n *syntax.Node, graph *scope.Graph) bool {
	for s := graph.ScopeFor(n); s != nil; s = s.Parent() {
		if s.Kind() == scope.ScopeMethod || s.Kind() == scope.ScopeLambda {
			return true
		}
	}
	return false
}

func checkIdentifierReference(n *syntax.Node, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	text := identifierRefText(n)
	if text == "" {
		return nil
	}
	// The bare-name key of a `{ key = value }` entry is not a reference.
	if p := n.Parent(); p != nil && scope.DictEntryKeyIsLiteralName(p) && len(p.Children) > 0 && p.Children[0] == syntax.Element(n) {
		return nil
	}
	switch text {
	case "null", "true", "false":
		return nil
	case "self":
		if !insideMethodOrLambda(n, graph) {
			return []Diagnostic{{
				Code:     "GD2004",
				Severity: SeverityError,
				Category: CategoryScope,
				Message:  "'self' has no meaning outside a method or lambda body",
				Range:    RangeOfNode(n),
				FileID:   fileID,
			}}
		}
		return nil
	}

	s := graph.ScopeFor(n)
	if _, _, ok := s.Lookup(text); ok {
		return nil
	}

	calling := isCalleeOf(n)
	if provider != nil {
		if calling {
			if _, ok := provider.GetGlobalFunction(text); ok {
				return nil
			}
			if provider.IsKnownType(text) {
				return nil // a type name used as a constructor call, e.g. Vector2(...)
			}
		} else {
			if _, ok := provider.GetGlobalConstant(text); ok {
				return nil
			}
			if provider.IsKnownType(text) {
				return nil
			}
			if _, ok := provider.GetGlobalFunction(text); ok {
				return nil // a funcref taken by bare name, e.g. `var f = my_func`
			}
		}
	}

	suggestion := suggestNearest(text, s, provider)
	if calling {
		return []Diagnostic{{
			Code:       "GD2002",
			Severity:   SeverityError,
			Category:   CategoryScope,
			Message:    fmt.Sprintf("undefined function %q", text),
			Range:      RangeOfNode(n),
			FileID:     fileID,
			Suggestion: suggestion,
		}}
	}
	return []Diagnostic{{
		Code:       "GD2001",
		Severity:   SeverityError,
		Category:   CategoryScope,
		Message:    fmt.Sprintf("undefined variable %q", text),
		Range:      RangeOfNode(n),
		FileID:     fileID,
		Suggestion: suggestion,
	}}
}
