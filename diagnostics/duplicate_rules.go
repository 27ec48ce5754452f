package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/syntax"
)

// DuplicateDiagnostics implements the GD2003 half of the GD2xxx
// category: a name declared twice directly in the same lexical scope.
// It walks the tree independently of package scope's own graph, since
// scope.Scope silently drops the second Declare call rather than
// reporting it; the traversal here mirrors scope/builder.go's own
// scope-opening structure so "same lexical scope" means the same
// thing in both places.
func DuplicateDiagnostics(tree *syntax.Tree, fileID string) []Diagnostic {
	var out []Diagnostic
	class := tree.ClassDecl()
	if class == nil {
		return out
	}
	walkClassDupes(class, fileID, &out)
	return out
}

func duplicateDiag(name string, kind string, dup *syntax.Node, fileID string) Diagnostic {
	return Diagnostic{
		Code:     "GD2003",
		Severity: SeverityError,
		Category: CategoryScope,
		Message:  fmt.Sprintf("%s %q is already declared in this scope", kind, name),
		Range:    RangeOfNode(dup),
		FileID:   fileID,
	}
}

func findChildOfKindD(n *syntax.Node, kind syntax.NodeKind) *syntax.Node {
	for _, c := range n.Children {
		if nd, ok := c.(*syntax.Node); ok && nd.Kind == kind {
			return nd
		}
	}
	return nil
}

func declaredNameD(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	return ""
}

// declare records name in seen, appending a duplicate diagnostic to
// out when it was already present.
func declareD(seen map[string]bool, name, kind string, node *syntax.Node, fileID string, out *[]Diagnostic) {
	if name == "" {
		return
	}
	if seen[name] {
		*out = append(*out, duplicateDiag(name, kind, node, fileID))
		return
	}
	seen[name] = true
}

func walkClassDupes(class *syntax.Node, fileID string, out *[]Diagnostic) {
	seen := map[string]bool{}
	for _, c := range class.Children {
		n, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		switch n.Kind {
		case syntax.NodeVariableDecl:
			declareD(seen, declaredNameD(n), "variable", n, fileID, out)
		case syntax.NodeConstantDecl:
			declareD(seen, declaredNameD(n), "constant", n, fileID, out)
		case syntax.NodeSignalDecl:
			declareD(seen, declaredNameD(n), "signal", n, fileID, out)
		case syntax.NodeMethodDecl:
			declareD(seen, declaredNameD(n), "method", n, fileID, out)
			walkMethodDupes(n, fileID, out)
		case syntax.NodeEnumDecl:
			if name := declaredNameD(n); name != "" {
				declareD(seen, name, "enum", n, fileID, out)
			}
			for _, m := range findChildrenOfKindD(n, syntax.NodeEnumMember) {
				declareD(seen, declaredNameD(m), "enum member", m, fileID, out)
			}
		case syntax.NodeInnerClassDecl:
			declareD(seen, declaredNameD(n), "inner class", n, fileID, out)
			if body := findChildOfKindD(n, syntax.NodeClassDecl); body != nil {
				walkClassDupes(body, fileID, out)
			}
		}
	}
}

func findChildrenOfKindD(n *syntax.Node, kind syntax.NodeKind) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.Children {
		if nd, ok := c.(*syntax.Node); ok && nd.Kind == kind {
			out = append(out, nd)
		}
	}
	return out
}

func walkMethodDupes(method *syntax.Node, fileID string, out *[]Diagnostic) {
	seen := map[string]bool{}
	if list := findChildOfKindD(method, syntax.NodeParameterList); list != nil {
		for _, p := range findChildrenOfKindD(list, syntax.NodeParameter) {
			declareD(seen, declaredNameD(p), "parameter", p, fileID, out)
		}
	}
	if body := findChildOfKindD(method, syntax.NodeBlock); body != nil {
		walkBlockDupes(body, seen, fileID, out)
	}
}

// walkBlockDupes checks a single block's own direct var/const
// declarations against seen (pre-seeded with the owning method or
// lambda's parameters, matching scope.Scope's flat per-method symbol
// table), and recurses into nested control-structure blocks with a
// fresh name set of their own.
func walkBlockDupes(block *syntax.Node, seen map[string]bool, fileID string, out *[]Diagnostic) {
	for _, c := range block.Children {
		stmt, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		switch stmt.Kind {
		case syntax.NodeVariableDecl:
			declareD(seen, declaredNameD(stmt), "variable", stmt, fileID, out)
		case syntax.NodeConstantDecl:
			declareD(seen, declaredNameD(stmt), "constant", stmt, fileID, out)
		case syntax.NodeIfStmt:
			if b := findChildOfKindD(stmt, syntax.NodeBlock); b != nil {
				walkBlockDupes(b, map[string]bool{}, fileID, out)
			}
			for _, elif := range findChildrenOfKindD(stmt, syntax.NodeElifClause) {
				if b := findChildOfKindD(elif, syntax.NodeBlock); b != nil {
					walkBlockDupes(b, map[string]bool{}, fileID, out)
				}
			}
			if elseClause := findChildOfKindD(stmt, syntax.NodeElseClause); elseClause != nil {
				if b := findChildOfKindD(elseClause, syntax.NodeBlock); b != nil {
					walkBlockDupes(b, map[string]bool{}, fileID, out)
				}
			}
		case syntax.NodeWhileStmt:
			if b := findChildOfKindD(stmt, syntax.NodeBlock); b != nil {
				walkBlockDupes(b, map[string]bool{}, fileID, out)
			}
		case syntax.NodeForStmt:
			if b := findChildOfKindD(stmt, syntax.NodeBlock); b != nil {
				loopSeen := map[string]bool{}
				loopSeen[declaredNameD(stmt)] = true
				walkBlockDupes(b, loopSeen, fileID, out)
			}
		case syntax.NodeMatchStmt:
			for _, mc := range findChildrenOfKindD(stmt, syntax.NodeMatchCase) {
				if b := findChildOfKindD(mc, syntax.NodeBlock); b != nil {
					walkBlockDupes(b, map[string]bool{}, fileID, out)
				}
			}
		}
	}
}
