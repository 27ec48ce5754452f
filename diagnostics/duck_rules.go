package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/syntax"
)

// DuckTypingDiagnostics implements the GD7xxx duck-typing half of the
// category: a property access or method call on a value with no
// usable declared type, lexically outside any `is`/`has_method` guard
// for that same name. Off by default; Options.DuckTypingSeverity
// controls the severity when enabled — this category is informative
// rather than an error by default.
func DuckTypingDiagnostics(method *syntax.Node, engine *infer.Engine, graph *scope.Graph, opts Options, fileID string) []Diagnostic {
	if !opts.EnableDuckTypingDiagnostics {
		return nil
	}
	var out []Diagnostic
	s := graph.ScopeFor(method)
	for _, n := range method.AllNodes() {
		if n.Kind != syntax.NodeMemberAccessExpr {
			continue
		}
		// A call's callee member access is reported once, at the call
		// site, not twice (once for the access and once for the call).
		if p := n.Parent(); p != nil && p.Kind == syntax.NodeCallExpr && len(p.Children) > 0 && p.Children[0] == syntax.Element(n) {
			continue
		}
		out = append(out, checkUnguardedAccess(n, engine, graph, s, opts, fileID, false)...)
	}
	for _, n := range method.AllNodes() {
		if n.Kind != syntax.NodeCallExpr || len(n.Children) == 0 {
			continue
		}
		if callee, ok := n.Children[0].(*syntax.Node); ok && callee.Kind == syntax.NodeMemberAccessExpr {
			out = append(out, checkUnguardedAccess(callee, engine, graph, s, opts, fileID, true)...)
		}
	}
	return out
}

func checkUnguardedAccess(access *syntax.Node, engine *infer.Engine, graph *scope.Graph, s *scope.Scope, opts Options, fileID string, isCall bool) []Diagnostic {
	base, ok := access.Children[0].(*syntax.Node)
	if !ok || base.Kind != syntax.NodeIdentifierExpr {
		return nil
	}
	baseName := identifierRefTextT(base)
	if baseName == "self" {
		return nil
	}
	baseType := engine.InferType(base, graph.ScopeFor(access), nil)
	if !baseType.IsVariant() {
		return nil
	}
	if isGuarded(access, baseName) {
		return nil
	}
	member, _ := lastIdentifierTextT(access)
	kind := "property"
	code := "GD7010"
	if isCall {
		kind = "method"
		code = "GD7011"
	}
	return []Diagnostic{{
		Code:     code,
		Severity: opts.DuckTypingSeverity,
		Category: CategorySignalsAndDuckTyping,
		Message:  fmt.Sprintf("unguarded %s access %q on %q, whose type is not statically known", kind, member, baseName),
		Range:    RangeOfNode(access),
		FileID:   fileID,
	}}
}

// isGuarded reports whether access sits inside the true branch of an
// enclosing `if`/`elif` whose condition is `base is <Type>` or
// `base.has_method(...)`.
func isGuarded(access *syntax.Node, base string) bool {
	for n := access; n != nil; n = n.Parent() {
		if n.Kind != syntax.NodeBlock {
			continue
		}
		parent := n.Parent()
		if parent == nil {
			continue
		}
		if parent.Kind != syntax.NodeIfStmt && parent.Kind != syntax.NodeElifClause {
			continue
		}
		// The then-block is the first Block child; guard against
		// matching a block that is actually an elif/else sibling's own
		// body by requiring n to be that first Block child exactly.
		if findChildOfKindT(parent, syntax.NodeBlock) != n {
			continue
		}
		cond := conditionOf(parent)
		if cond != nil && guardsName(cond, base) {
			return true
		}
	}
	return false
}

func conditionOf(clause *syntax.Node) *syntax.Node {
	for _, c := range clause.Children {
		if cn, ok := c.(*syntax.Node); ok && cn.Kind != syntax.NodeBlock {
			return cn
		}
	}
	return nil
}

func guardsName(cond *syntax.Node, base string) bool {
	switch cond.Kind {
	case syntax.NodeBinaryExpr:
		exprs := exprChildrenT(cond)
		if len(exprs) != 2 {
			return false
		}
		if operatorTextGuard(cond) != "is" {
			return false
		}
		return exprs[0].Kind == syntax.NodeIdentifierExpr && identifierRefTextT(exprs[0]) == base
	case syntax.NodeCallExpr:
		if callNameMember(cond) != "has_method" {
			return false
		}
		if len(cond.Children) == 0 {
			return false
		}
		callee, ok := cond.Children[0].(*syntax.Node)
		if !ok || callee.Kind != syntax.NodeMemberAccessExpr || len(callee.Children) == 0 {
			return false
		}
		recv, ok := callee.Children[0].(*syntax.Node)
		return ok && recv.Kind == syntax.NodeIdentifierExpr && identifierRefTextT(recv) == base
	default:
		return false
	}
}

func operatorTextGuard(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryKeyword {
			return t.Text
		}
	}
	return ""
}

func callNameMember(call *syntax.Node) string {
	if call.Kind != syntax.NodeCallExpr || len(call.Children) == 0 {
		return ""
	}
	callee, ok := call.Children[0].(*syntax.Node)
	if !ok || callee.Kind != syntax.NodeMemberAccessExpr {
		return ""
	}
	name, _ := lastIdentifierTextT(callee)
	return name
}
