package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

// TypeDiagnostics implements the GD3xxx category against one method
// body at a time: unknown type annotations, invalid arithmetic
// operand types, accessing a member an otherwise-known class does not
// declare, incompatible return values, and assignments whose value
// cannot actually fit the target's declared type.
func TypeDiagnostics(method *syntax.Node, engine *infer.Engine, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	var out []Diagnostic
	methodScope := graph.ScopeFor(method)
	for _, n := range method.AllNodes() {
		switch n.Kind {
		case syntax.NodeTypeAnnotation:
			out = append(out, checkUnknownType(n, methodScope, graph, provider, fileID)...)
		case syntax.NodeBinaryExpr:
			out = append(out, checkOperandTypes(n, engine, graph, fileID)...)
		case syntax.NodeCallExpr:
			out = append(out, checkMethodExists(n, engine, graph, provider, fileID)...)
		case syntax.NodeAssignmentStmt:
			out = append(out, checkAssignment(n, engine, graph, fileID)...)
		}
	}
	out = append(out, checkReturnType(method, engine, graph, fileID)...)
	return out
}

func typeAnnotationName(ann *syntax.Node) string {
	for _, c := range ann.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	return ""
}

// checkUnknownType fires GD3001 when a type annotation names something
// neither the provider nor the current class graph recognizes. It
// skips the generic containers (Array, Dictionary) and their argument
// annotations are checked individually as this walk reaches them.
func checkUnknownType(ann *syntax.Node, enclosing *scope.Scope, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	name := typeAnnotationName(ann)
	switch name {
	case "", "Array", "Dictionary", semtype.Int, semtype.Float, semtype.Bool, semtype.String, semtype.Void, semtype.Variant:
		return nil
	}
	if provider != nil && provider.IsKnownType(name) {
		return nil
	}
	if _, _, ok := graph.Root.Lookup(name); ok {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD3001",
		Severity: SeverityWarning,
		Category: CategoryTypes,
		Message:  fmt.Sprintf("unknown type %q, treating as Variant", name),
		Range:    RangeOfNode(ann),
		FileID:   fileID,
	}}
}

var arithmeticOperators = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}

func isNumeric(t *semtype.Type) bool {
	return t.Kind == semtype.KindPrimitive && (t.Name == semtype.Int || t.Name == semtype.Float)
}

func isStringType(t *semtype.Type) bool {
	return t.Kind == semtype.KindPrimitive && t.Name == semtype.String
}

// checkOperandTypes fires GD3002 on an arithmetic binary expression
// whose operands cannot plausibly combine: neither both numeric, nor
// (for +) both String or both Array, and neither side is Variant
// (dynamic operands are never flagged, since their runtime type is
// unknown until execution).
func checkOperandTypes(n *syntax.Node, engine *infer.Engine, graph *scope.Graph, fileID string) []Diagnostic {
	op := operatorTextT(n)
	if !arithmeticOperators[op] {
		return nil
	}
	exprs := exprChildrenT(n)
	if len(exprs) != 2 {
		return nil
	}
	s := graph.ScopeFor(n)
	left := engine.InferType(exprs[0], s, nil)
	right := engine.InferType(exprs[1], s, nil)
	if left.IsVariant() || right.IsVariant() {
		return nil
	}
	if isNumeric(left) && isNumeric(right) {
		return nil
	}
	if op == "+" {
		if isStringType(left) && isStringType(right) {
			return nil
		}
		if left.Kind == semtype.KindArray && right.Kind == semtype.KindArray {
			return nil
		}
	}
	return []Diagnostic{{
		Code:     "GD3002",
		Severity: SeverityWarning,
		Category: CategoryTypes,
		Message:  fmt.Sprintf("operator %q is not defined between %s and %s", op, left, right),
		Range:    RangeOfNode(n),
		FileID:   fileID,
	}}
}

// checkMethodExists fires GD3003 when a call's callee is a member
// access on a value whose class the provider actually knows, but that
// class declares no such member.
func checkMethodExists(call *syntax.Node, engine *infer.Engine, graph *scope.Graph, provider runtimeinfo.Provider, fileID string) []Diagnostic {
	if provider == nil || len(call.Children) == 0 {
		return nil
	}
	callee, ok := call.Children[0].(*syntax.Node)
	if !ok || callee.Kind != syntax.NodeMemberAccessExpr || len(callee.Children) == 0 {
		return nil
	}
	base, ok := callee.Children[0].(*syntax.Node)
	if !ok {
		return nil
	}
	s := graph.ScopeFor(call)
	baseType := engine.InferType(base, s, nil)
	if baseType.Kind != semtype.KindNamed || baseType.Name == "" || !provider.IsKnownType(baseType.Name) {
		return nil
	}
	member, _ := lastIdentifierTextT(callee)
	if member == "" {
		return nil
	}
	if _, ok := provider.GetMember(baseType.Name, member); ok {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD3003",
		Severity: SeverityError,
		Category: CategoryTypes,
		Message:  fmt.Sprintf("%s has no method %q", baseType, member),
		Range:    RangeOfNode(callee),
		FileID:   fileID,
	}}
}

// checkReturnType fires GD3004 against a method carrying an explicit
// return type annotation: every `return <expr>` whose value cannot be
// assigned to it, and every bare `return` in a method declared to
// return something other than void.
func checkReturnType(method *syntax.Node, engine *infer.Engine, graph *scope.Graph, fileID string) []Diagnostic {
	annotation := findChildOfKindT(method, syntax.NodeTypeAnnotation)
	if annotation == nil {
		return nil
	}
	declared := resolveReturnAnnotation(annotation)
	if declared.IsVariant() || declared.Kind == semtype.KindPrimitive && declared.Name == semtype.Void {
		return nil
	}
	body := findChildOfKindT(method, syntax.NodeBlock)
	if body == nil {
		return nil
	}
	var out []Diagnostic
	s := graph.ScopeFor(method)
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if n.Kind == syntax.NodeLambdaExpr {
			return
		}
		if n.Kind == syntax.NodeReturnStmt {
			expr := firstExprChildT(n)
			if expr == nil {
				out = append(out, Diagnostic{
					Code:     "GD3004",
					Severity: SeverityWarning,
					Category: CategoryTypes,
					Message:  fmt.Sprintf("this method returns nothing here, but is declared to return %s", declared),
					Range:    RangeOfNode(n),
					FileID:   fileID,
				})
				return
			}
			actual := engine.InferType(expr, s, nil)
			if !actual.IsVariant() && !semtype.Assignable(actual, declared) {
				out = append(out, Diagnostic{
					Code:     "GD3004",
					Severity: SeverityWarning,
					Category: CategoryTypes,
					Message:  fmt.Sprintf("cannot return %s, method is declared to return %s", actual, declared),
					Range:    RangeOfNode(n),
					FileID:   fileID,
				})
			}
			return
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

// checkAssignment fires GD3005 when the left side of a plain `=`
// assignment names a symbol with an explicit declared type that the
// right side's inferred type cannot be assigned to.
func checkAssignment(stmt *syntax.Node, engine *infer.Engine, graph *scope.Graph, fileID string) []Diagnostic {
	exprs := exprChildrenT(stmt)
	if len(exprs) != 2 || operatorTextT(stmt) != "=" {
		return nil
	}
	lhs, rhs := exprs[0], exprs[1]
	if lhs.Kind != syntax.NodeIdentifierExpr {
		return nil
	}
	name := identifierRefTextT(lhs)
	s := graph.ScopeFor(stmt)
	sym, declScope, ok := s.Lookup(name)
	if !ok || sym.Kind == scope.KindConstant {
		return nil
	}
	info := engine.GetTypeInfo(sym.Decl, declScope, nil)
	if info.DeclaredType == nil || info.Confidence != infer.Certain {
		return nil // no explicit annotation: nothing to check against
	}
	rhsType := engine.InferType(rhs, s, nil)
	if rhsType.IsVariant() || semtype.Assignable(rhsType, info.DeclaredType) {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD3005",
		Severity: SeverityError,
		Category: CategoryTypes,
		Message:  fmt.Sprintf("cannot assign %s to %q of type %s", rhsType, name, info.DeclaredType),
		Range:    RangeOfNode(stmt),
		FileID:   fileID,
	}}
}

// resolveReturnAnnotation is checkReturnType's narrow copy of the
// infer package's own (unexported) type-annotation resolver: it only
// needs to tell Variant/void apart from everything else well enough
// to decide whether to run the check at all, and to render the
// declared return type in messages.
func resolveReturnAnnotation(ann *syntax.Node) *semtype.Type {
	name := typeAnnotationName(ann)
	switch name {
	case "", semtype.Variant:
		return semtype.Primitive(semtype.Variant)
	case semtype.Void:
		return semtype.Primitive(semtype.Void)
	case semtype.Int, semtype.Float, semtype.Bool, semtype.String:
		return semtype.Primitive(name)
	case "Array":
		return semtype.Array(semtype.Primitive(semtype.Variant))
	case "Dictionary":
		return semtype.Dictionary(semtype.Primitive(semtype.Variant), semtype.Primitive(semtype.Variant))
	default:
		return semtype.Named(name)
	}
}

func findChildOfKindT(n *syntax.Node, kind syntax.NodeKind) *syntax.Node {
	for _, c := range n.Children {
		if nd, ok := c.(*syntax.Node); ok && nd.Kind == kind {
			return nd
		}
	}
	return nil
}

func firstExprChildT(n *syntax.Node) *syntax.Node {
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			return cn
		}
	}
	return nil
}

func exprChildrenT(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			out = append(out, cn)
		}
	}
	return out
}

func operatorTextT(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryOperator {
			return t.Text
		}
	}
	return ""
}

func identifierRefTextT(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	return ""
}

func lastIdentifierTextT(n *syntax.Node) (string, bool) {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if t, ok := n.Children[i].(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text, true
		}
	}
	return "", false
}
