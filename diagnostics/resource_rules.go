package diagnostics

import (
	"fmt"

	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/syntax"
)

// ResourceDiagnostics implements the GD6xxx category: a preload/load
// call whose path the project does not contain, and an `extends`
// header naming a base type the project and the built-in catalog both
// fail to recognize. Both checks require a provider that additionally
// implements runtimeinfo.ProjectExtension and Options.EnableResourceChecks
// — without a real project tree to check paths against, "not found"
// cannot be told apart from "not yet scanned".
func ResourceDiagnostics(class *syntax.Node, provider runtimeinfo.Provider, opts Options, fileID string) []Diagnostic {
	if !opts.EnableResourceChecks {
		return nil
	}
	proj, ok := provider.(runtimeinfo.ProjectExtension)
	if !ok {
		return nil
	}
	var out []Diagnostic
	out = append(out, checkBaseType(class, provider, proj, fileID)...)
	for _, n := range class.AllNodes() {
		if n.Kind == syntax.NodeCallExpr {
			out = append(out, checkResourcePath(n, proj, fileID)...)
		}
	}
	return out
}

// extendsBaseName returns the identifier following the class's leading
// `extends` keyword, or "" if the class has none.
func extendsBaseName(class *syntax.Node) string {
	sawExtends := false
	for _, c := range class.Children {
		t, ok := c.(*syntax.Token)
		if !ok || t.Category.IsTrivia() {
			continue
		}
		if t.Category == syntax.CategoryKeyword && t.Text == "extends" {
			sawExtends = true
			continue
		}
		if sawExtends && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
		if sawExtends {
			return ""
		}
	}
	return ""
}

func checkBaseType(class *syntax.Node, provider runtimeinfo.Provider, proj runtimeinfo.ProjectExtension, fileID string) []Diagnostic {
	name := extendsBaseName(class)
	if name == "" {
		return nil
	}
	if provider.IsKnownType(name) {
		return nil
	}
	if _, ok := proj.GetScript(name); ok {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD6002",
		Severity: SeverityError,
		Category: CategoryResources,
		Message:  fmt.Sprintf("unknown base type %q", name),
		Range:    RangeOfNode(class),
		FileID:   fileID,
	}}
}

func stringLiteralText(n *syntax.Node) (string, bool) {
	if n.Kind != syntax.NodeStringExpr {
		return "", false
	}
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryString {
			return t.Text, true
		}
	}
	return "", false
}

func checkResourcePath(call *syntax.Node, proj runtimeinfo.ProjectExtension, fileID string) []Diagnostic {
	name := callNameT(call)
	if name != "preload" && name != "load" {
		return nil
	}
	list := findChildOfKindT(call, syntax.NodeArgumentList)
	if list == nil {
		return nil
	}
	args := exprChildrenT(list)
	if len(args) == 0 {
		return nil
	}
	path, ok := stringLiteralText(args[0])
	if !ok {
		return nil
	}
	if _, ok := proj.GetResource(path); ok {
		return nil
	}
	return []Diagnostic{{
		Code:     "GD6001",
		Severity: SeverityError,
		Category: CategoryResources,
		Message:  fmt.Sprintf("resource not found: %q", path),
		Range:    RangeOfNode(call),
		FileID:   fileID,
	}}
}

func callNameT(call *syntax.Node) string {
	if call.Kind != syntax.NodeCallExpr || len(call.Children) == 0 {
		return ""
	}
	callee, ok := call.Children[0].(*syntax.Node)
	if !ok || callee.Kind != syntax.NodeIdentifierExpr {
		return ""
	}
	return identifierRefTextT(callee)
}
