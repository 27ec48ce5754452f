package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

// varargsExempt is the set of built-in functions that never produce a
// wrong-argument-count diagnostic, regardless of what the catalog's
// own IsVarargs flag says.
var varargsExempt = map[string]bool{
	"str": true, "print": true, "printerr": true, "push_error": true, "push_warning": true,
}

// CallDiagnostics implements the GD5xxx category: wrong argument
// count on a call whose callee resolves to a known signature, and the
// three control-flow placement rules (break/continue outside a loop,
// return outside a function, await outside a function).
func CallDiagnostics(method *syntax.Node, engine *infer.Engine, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	var out []Diagnostic
	for _, n := range method.AllNodes() {
		switch n.Kind {
		case syntax.NodeCallExpr:
			out = append(out, checkArgCount(n, engine, graph, provider, fileID)...)
		case syntax.NodeBreakStmt, syntax.NodeContinueStmt:
			out = append(out, checkInsideLoop(n, fileID)...)
		}
	}
	return out
}

// ClassControlFlowDiagnostics scans the whole class tree (not just one
// method body) for return/await statements that sit outside any
// method or lambda. A well-formed parse never actually produces one,
// since parseStatement is only reachable from a method or lambda
// suite, but the check costs nothing and guards against a malformed
// or hand-built tree.
func ClassControlFlowDiagnostics(class *syntax.Node, fileID string) []Diagnostic {
	var out []Diagnostic
	for _, n := range class.AllNodes() {
		switch n.Kind {
		case syntax.NodeReturnStmt:
			if !hasFunctionAncestor(n) {
				out = append(out, Diagnostic{
					Code: "GD5003", Severity: SeverityError, Category: CategoryCallAndControlFlow,
					Message: "'return' used outside a function", Range: RangeOfNode(n), FileID: fileID,
				})
			}
		case syntax.NodeAwaitExpr:
			if !hasFunctionAncestor(n) {
				out = append(out, Diagnostic{
					Code: "GD5004", Severity: SeverityError, Category: CategoryCallAndControlFlow,
					Message: "'await' used outside a function", Range: RangeOfNode(n), FileID: fileID,
				})
			}
		}
	}
	return out
}

func hasFunctionAncestor(n *syntax.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind == syntax.NodeMethodDecl || p.Kind == syntax.NodeLambdaExpr {
			return true
		}
	}
	return false
}

func checkInsideLoop(n *syntax.Node, fileID string) []Diagnostic {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind == syntax.NodeForStmt || p.Kind == syntax.NodeWhileStmt {
			return nil
		}
		if p.Kind == syntax.NodeMethodDecl || p.Kind == syntax.NodeLambdaExpr {
			break
		}
	}
	kind := "break"
	code := "GD5002"
	if n.Kind == syntax.NodeContinueStmt {
		kind = "continue"
	}
	return []Diagnostic{{
		Code: code, Severity: SeverityError, Category: CategoryCallAndControlFlow,
		Message: fmt.Sprintf("'%s' used outside a loop", kind), Range: RangeOfNode(n), FileID: fileID,
	}}
}

// checkArgCount resolves call's callee to a known signature (a global
// function, a user method, or a provider class member) and compares
// its non-varargs, non-exempt parameter count against the call's
// actual argument count.
func checkArgCount(call *syntax.Node, engine *infer.Engine, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	if len(call.Children) == 0 {
		return nil
	}
	callee, ok := call.Children[0].(*syntax.Node)
	if !ok {
		return nil
	}
	argc := 0
	if list := findChildOfKindT(call, syntax.NodeArgumentList); list != nil {
		argc = len(exprChildrenT(list))
	}
	s := graph.ScopeFor(call)

	switch callee.Kind {
	case syntax.NodeIdentifierExpr:
		name := identifierRefTextT(callee)
		if varargsExempt[name] {
			return nil
		}
		if provider != nil {
			if f, ok := provider.GetGlobalFunction(name); ok {
				if f.IsVarargs {
					return nil
				}
				return argCountDiag(name, len(f.Parameters), argc, call, fileID)
			}
		}
		if sym, _, ok := s.Lookup(name); ok && sym.Kind == scope.KindMethod {
			if callable := engine.InferType(callee, s, nil); callable.Kind == semtype.KindCallable {
				return argCountDiag(name, len(callable.Params), argc, call, fileID)
			}
		}
	case syntax.NodeMemberAccessExpr:
		if provider == nil || len(callee.Children) == 0 {
			return nil
		}
		base, ok := callee.Children[0].(*syntax.Node)
		if !ok {
			return nil
		}
		baseType := engine.InferType(base, s, nil)
		if baseType.Kind != semtype.KindNamed || baseType.Name == "" {
			return nil
		}
		member, ok := lastIdentifierTextT(callee)
		if !ok {
			return nil
		}
		info, ok := provider.GetMember(baseType.Name, member)
		if !ok || info.Signature == nil || info.Signature.Kind != semtype.KindCallable {
			return nil
		}
		return argCountDiag(member, len(info.Signature.Params), argc, call, fileID)
	}
	return nil
}

func argCountDiag(name string, want, got int, call *syntax.Node, fileID string) []Diagnostic {
	if want == got {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD5001",
		Severity: SeverityError,
		Category: CategoryCallAndControlFlow,
		Message:  fmt.Sprintf("%q expects %d argument(s), got %d", name, want, got),
		Range:    RangeOfNode(call),
		FileID:   fileID,
	}}
}
