package diagnostics

import (
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/syntax"
)

// AbstractDiagnostics implements the GD8xxx category: a class with at
// least one @abstract method that is not itself marked @abstract, an
// @abstract method that carries a real body, and a `super()` call
// reached from inside one.
//
// Class-level @abstract has no dedicated AST node — `@abstract` above
// a class and `@abstract` above its first method parse identically,
// as a NodeAnnotation sibling that scope/builder.go's flag-accumulation
// attaches to whatever declaration follows it. This package treats the
// class itself as declared @abstract when such an annotation is the
// first member-level node in the class body, before any other
// annotation or declaration: the common real-world placement, and one
// that never produces a false GD8001 even in the edge case where the
// class's first member happens to be its own abstract method.
func AbstractDiagnostics(class *syntax.Node, graph *scope.Graph, fileID string) []Diagnostic {
	var out []Diagnostic
	classIsAbstract := classDeclaredAbstract(class)
	for _, sym := range graph.Root.Symbols() {
		if sym.Kind != scope.KindMethod || !sym.HasFlag("abstract") {
			continue
		}
		if !classIsAbstract {
			out = append(out, Diagnostic{
				Code:     "GD8001",
				Severity: SeverityError,
				Category: CategoryAbstract,
				Message:  "class contains an @abstract method but is not itself @abstract",
				Range:    RangeOfNode(sym.Decl),
				FileID:   fileID,
			})
		}
		out = append(out, checkAbstractMethodBody(sym.Decl, fileID)...)
		out = append(out, checkNoSuperCall(sym.Decl, fileID)...)
	}
	return out
}

func classDeclaredAbstract(class *syntax.Node) bool {
	for _, c := range class.Children {
		n, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		return n.Kind == syntax.NodeAnnotation && annotationNameT(n) == "abstract"
	}
	return false
}

func annotationNameT(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	return ""
}

// checkAbstractMethodBody fires GD8002 when an @abstract method
// declares a real body: anything other than an empty block or a block
// containing only a single `pass` statement.
func checkAbstractMethodBody(method *syntax.Node, fileID string) []Diagnostic {
	body := findChildOfKindT(method, syntax.NodeBlock)
	if body == nil {
		return nil
	}
	stmts := 0
	onlyPass := true
	for _, c := range body.Children {
		n, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		stmts++
		if n.Kind != syntax.NodePassStmt {
			onlyPass = false
		}
	}
	if stmts == 0 || (stmts == 1 && onlyPass) {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD8002",
		Severity: SeverityError,
		Category: CategoryAbstract,
		Message:  "@abstract method must not declare a body",
		Range:    RangeOfNode(body),
		FileID:   fileID,
	}}
}

// checkNoSuperCall fires GD8003 on any `super(...)` call reached
// (without crossing into a nested lambda) from an @abstract method's
// body — there is no base implementation for it to call.
func checkNoSuperCall(method *syntax.Node, fileID string) []Diagnostic {
	body := findChildOfKindT(method, syntax.NodeBlock)
	if body == nil {
		return nil
	}
	var out []Diagnostic
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if n.Kind == syntax.NodeLambdaExpr {
			return
		}
		if n.Kind == syntax.NodeCallExpr && callNameT(n) == "super" {
			out = append(out, Diagnostic{
				Code:     "GD8003",
				Severity: SeverityError,
				Category: CategoryAbstract,
				Message:  "'super()' has no base implementation inside an @abstract method",
				Range:    RangeOfNode(n),
				FileID:   fileID,
			})
		}
		for _, c := range n.Children {
			if cn, ok := c.(*syntax.Node); ok {
				walk(cn)
			}
		}
	}
	walk(body)
	return out
}
