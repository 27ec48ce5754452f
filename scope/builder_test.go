package scope

import (
	"testing"

	"github.com/gdtoolkit/sema/parse"
	"github.com/gdtoolkit/sema/syntax"
)

func mustParse(t *testing.T, src string) *Graph {
	t.Helper()
	tree, errs := parse.GDScriptParser{}.ParseFile(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return Build(tree)
}

func TestBuildDeclaresClassMembers(t *testing.T) {
	g := mustParse(t, "var health = 100\nconst MAX = 10\nsignal died\nfunc _ready():\n    pass\n")
	for _, name := range []string{"health", "MAX", "died", "_ready"} {
		if _, _, ok := g.Root.Lookup(name); !ok {
			t.Errorf("expected %q to be declared at the class root", name)
		}
	}
}

func TestExportAnnotationAttachesAsFlag(t *testing.T) {
	g := mustParse(t, "@export\nvar speed = 5\n")
	sym, _, ok := g.Root.Lookup("speed")
	if !ok {
		t.Fatalf("expected speed to be declared")
	}
	if !sym.HasFlag("export") {
		t.Errorf("expected speed to carry the export flag, got %v", sym.Flags)
	}
}

func TestMethodParametersScopeToMethodBody(t *testing.T) {
	g := mustParse(t, "func add(a, b):\n    return a + b\n")
	sym, _, ok := g.Root.Lookup("add")
	if !ok {
		t.Fatalf("expected add to be declared")
	}
	method := g.ScopeFor(sym.Decl)
	if method == g.Root {
		t.Fatalf("expected add's body to open its own scope")
	}
	if _, _, ok := method.Lookup("a"); !ok {
		t.Errorf("expected parameter a to resolve inside the method scope")
	}
	if _, _, ok := g.Root.Lookup("a"); ok {
		t.Errorf("parameter a must not leak into the class scope")
	}
}

func TestSiblingForLoopsReuseIteratorName(t *testing.T) {
	g := mustParse(t, "func run():\n    for i in range(3):\n        pass\n    for i in range(5):\n        pass\n")
	sym, _, ok := g.Root.Lookup("run")
	if !ok {
		t.Fatalf("expected run to be declared")
	}
	method := g.ScopeFor(sym.Decl)
	if len(method.children) != 2 {
		t.Fatalf("expected two sibling loop block scopes, got %d", len(method.children))
	}
	for _, loop := range method.children {
		if _, _, ok := loop.Lookup("i"); !ok {
			t.Errorf("expected i to resolve in each loop's own scope")
		}
	}
}

func TestDictionaryLiteralShorthandKeyIsNotAReference(t *testing.T) {
	g := mustParse(t, "var d = { speed = 5 }\n")
	if _, _, ok := g.Root.Lookup("speed"); ok {
		t.Fatalf("the dict shorthand key must not be declared as a variable")
	}

	tree, errs := parse.GDScriptParser{}.ParseFile("var d = { speed = 5, other: 1 }\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	var entries []*syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeDictionaryEntry {
			entries = append(entries, n)
		}
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 dict entries, got %d", len(entries))
	}
	if !DictEntryKeyIsLiteralName(entries[0]) {
		t.Errorf("expected the `speed = 5` entry to use the literal-name form")
	}
	if DictEntryKeyIsLiteralName(entries[1]) {
		t.Errorf("expected the `other: 1` entry to use the evaluated-key form")
	}
}

func TestLambdaAssignmentDoesNotPropagateDeclaration(t *testing.T) {
	g := mustParse(t, "func run():\n    var f = func():\n        var local_only = 1\n")
	sym, _, ok := g.Root.Lookup("run")
	if !ok {
		t.Fatalf("expected run to be declared")
	}
	method := g.ScopeFor(sym.Decl)
	if _, _, ok := method.Lookup("local_only"); ok {
		t.Errorf("a lambda-local declaration must not be visible in the enclosing method scope")
	}
}
