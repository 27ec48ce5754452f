package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/syntax"
)

// SignalDiagnostics implements the GD7xxx signal half of the category:
// emit_signal naming a signal the class does not declare, emitting
// one with the wrong argument count, and connect() wiring a callback
// whose required parameter count exceeds what the signal will ever
// supply. A dynamic signal name (anything but a string literal) skips
// both emit checks, since the name cannot be resolved statically.
func SignalDiagnostics(method *syntax.Node, graph *scope.Graph, fileID string) []Diagnostic {
	var out []Diagnostic
	for _, n := range method.AllNodes() {
		if n.Kind != syntax.NodeCallExpr {
			continue
		}
		switch callNameT(n) {
		case "emit_signal":
			out = append(out, checkEmit(n, graph, fileID)...)
		case "connect":
			out = append(out, checkConnect(n, graph, fileID)...)
		}
	}
	return out
}

func classSignal(graph *scope.Graph, name string) (*scope.Symbol, bool) {
	sym, _, ok := graph.Root.Lookup(name)
	if !ok || sym.Kind != scope.KindSignal {
		return nil, false
	}
	return sym, true
}

func signalParamCount(sym *scope.Symbol) int {
	list := findChildOfKindT(sym.Decl, syntax.NodeParameterList)
	if list == nil {
		return 0
	}
	count := 0
	for _, c := range list.Children {
		if n, ok := c.(*syntax.Node); ok && n.Kind == syntax.NodeParameter {
			count++
		}
	}
	return count
}

func checkEmit(call *syntax.Node, graph *scope.Graph, fileID string) []Diagnostic {
	list := findChildOfKindT(call, syntax.NodeArgumentList)
	if list == nil {
		return nil
	}
	args := exprChildrenT(list)
	if len(args) == 0 {
		return nil
	}
	name, ok := stringLiteralText(args[0])
	if !ok {
		return nil // dynamic signal name, not checkable statically
	}
	sym, ok := classSignal(graph, name)
	if !ok {
		return []Diagnostic{{
			Code:     "GD7001",
			Severity: SeverityError,
			Category: CategorySignalsAndDuckTyping,
			Message:  fmt.Sprintf("emit of undeclared signal %q", name),
			Range:    RangeOfNode(call),
			FileID:   fileID,
		}}
	}
	want, got := signalParamCount(sym), len(args)-1
	if want != got {
		return []Diagnostic{{
			Code:     "GD7002",
			Severity: SeverityWarning,
			Category: CategorySignalsAndDuckTyping,
			Message:  fmt.Sprintf("signal %q takes %d argument(s), emitted with %d", name, want, got),
			Range:    RangeOfNode(call),
			FileID:   fileID,
		}}
	}
	return nil
}

// checkConnect handles the `connect("signal_name", callable)` form: a
// bare-identifier callback is resolved as a method of the current
// class so its declared parameter count can be compared against the
// signal's own.
func checkConnect(call *syntax.Node, graph *scope.Graph, fileID string) []Diagnostic {
	list := findChildOfKindT(call, syntax.NodeArgumentList)
	if list == nil {
		return nil
	}
	args := exprChildrenT(list)
	if len(args) < 2 {
		return nil
	}
	signalName, ok := stringLiteralText(args[0])
	if !ok {
		return nil
	}
	sym, ok := classSignal(graph, signalName)
	if !ok {
		return nil // already reported, if at all, by the undeclared-signal check at the emit site
	}
	callbackName := callbackIdentifierName(args[1])
	if callbackName == "" {
		return nil
	}
	methodSym, _, ok := graph.Root.Lookup(callbackName)
	if !ok || methodSym.Kind != scope.KindMethod {
		return nil
	}
	required := requiredParamCount(methodSym.Decl)
	provided := signalParamCount(sym)
	if required > provided {
		return []Diagnostic{{
			Code:     "GD7003",
			Severity: SeverityWarning,
			Category: CategorySignalsAndDuckTyping,
			Message:  fmt.Sprintf("callback %q requires %d argument(s) but signal %q only provides %d", callbackName, required, signalName, provided),
			Range:    RangeOfNode(call),
			FileID:   fileID,
		}}
	}
	return nil
}

// callbackIdentifierName extracts a bare method name from either a
// plain identifier (`on_body_entered`) or a `Callable(self, "name")`
// constructor call, the two shapes a connect() callback commonly
// takes.
func callbackIdentifierName(n *syntax.Node) string {
	switch n.Kind {
	case syntax.NodeIdentifierExpr:
		return identifierRefTextT(n)
	case syntax.NodeCallExpr:
		if callNameT(n) != "Callable" {
			return ""
		}
		list := findChildOfKindT(n, syntax.NodeArgumentList)
		if list == nil {
			return ""
		}
		args := exprChildrenT(list)
		if len(args) < 2 {
			return ""
		}
		name, _ := stringLiteralText(args[1])
		return name
	default:
		return ""
	}
}

func requiredParamCount(method *syntax.Node) int {
	list := findChildOfKindT(method, syntax.NodeParameterList)
	if list == nil {
		return 0
	}
	count := 0
	for _, c := range list.Children {
		p, ok := c.(*syntax.Node)
		if !ok || p.Kind != syntax.NodeParameter {
			continue
		}
		if declInitializerT(p) != nil {
			continue // has a default value, so it is not "required"
		}
		count++
	}
	return count
}

func declInitializerT(n *syntax.Node) *syntax.Node {
	if len(n.Children) == 0 {
		return nil
	}
	last := n.Children[len(n.Children)-1]
	if ln, ok := last.(*syntax.Node); ok && ln.Kind != syntax.NodeTypeAnnotation {
		return ln
	}
	return nil
}
