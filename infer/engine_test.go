package infer

import (
	"testing"

	"github.com/gdtoolkit/sema/parse"
	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

func mustEngine(t *testing.T, src string) (*Engine, *syntax.Tree, *scope.Graph) {
	t.Helper()
	tree, errs := parse.GDScriptParser{}.ParseFile(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	g := scope.Build(tree)
	provider, err := runtimeinfo.NewBuiltinProvider("v4.2.1")
	if err != nil {
		t.Fatalf("NewBuiltinProvider: %v", err)
	}
	return NewEngine(g, provider), tree, g
}

func firstVarDecl(tree *syntax.Tree) *syntax.Node {
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeVariableDecl {
			return n
		}
	}
	return nil
}

func TestInferNumberLiteralIntVsFloat(t *testing.T) {
	e, tree, g := mustEngine(t, "var a = 1\nvar b = 1.5\n")
	var decls []*syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeVariableDecl {
			decls = append(decls, n)
		}
	}
	if len(decls) != 2 {
		t.Fatalf("expected 2 var decls, got %d", len(decls))
	}
	info0 := e.GetTypeInfo(decls[0], g.Root, nil)
	if info0.EffectiveType.String() != "int" {
		t.Errorf("a: got %s, want int", info0.EffectiveType)
	}
	info1 := e.GetTypeInfo(decls[1], g.Root, nil)
	if info1.EffectiveType.String() != "float" {
		t.Errorf("b: got %s, want float", info1.EffectiveType)
	}
}

func TestInferStringAndBoolLiterals(t *testing.T) {
	e, tree, g := mustEngine(t, "var s = \"hi\"\nvar flag = true\n")
	decls := findAllVarDecls(tree)
	if got := e.GetTypeInfo(decls[0], g.Root, nil).EffectiveType.String(); got != "String" {
		t.Errorf("s: got %s, want String", got)
	}
	if got := e.GetTypeInfo(decls[1], g.Root, nil).EffectiveType.String(); got != "bool" {
		t.Errorf("flag: got %s, want bool", got)
	}
}

func findAllVarDecls(tree *syntax.Tree) []*syntax.Node {
	var decls []*syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeVariableDecl {
			decls = append(decls, n)
		}
	}
	return decls
}

func TestInferArrayLiteralUnionsElementTypes(t *testing.T) {
	e, tree, g := mustEngine(t, "var a = [1, 2.0, \"x\"]\n")
	decl := firstVarDecl(tree)
	info := e.GetTypeInfo(decl, g.Root, nil)
	if info.EffectiveType.Kind != semtype.KindArray {
		t.Fatalf("expected Array, got %s", info.EffectiveType)
	}
	if info.EffectiveType.Elem.Kind != semtype.KindUnion {
		t.Errorf("expected union element type, got %s", info.EffectiveType.Elem)
	}
}

func TestInferDictLiteralShorthandKeysAreString(t *testing.T) {
	e, tree, g := mustEngine(t, "var d = { speed = 5, jump = 10 }\n")
	decl := firstVarDecl(tree)
	info := e.GetTypeInfo(decl, g.Root, nil)
	if info.EffectiveType.Kind != semtype.KindDictionary {
		t.Fatalf("expected Dictionary, got %s", info.EffectiveType)
	}
	if info.EffectiveType.Key.String() != "String" {
		t.Errorf("expected String keys, got %s", info.EffectiveType.Key)
	}
}

func TestDeclaredAnnotationWinsOverInitializer(t *testing.T) {
	e, tree, g := mustEngine(t, "var a: float = 1\n")
	decl := firstVarDecl(tree)
	info := e.GetTypeInfo(decl, g.Root, nil)
	if info.Confidence != Certain {
		t.Errorf("expected Certain confidence, got %s", info.Confidence)
	}
	if info.EffectiveType.String() != "float" {
		t.Errorf("got %s, want float", info.EffectiveType)
	}
}

func TestUndeclaredUninitializedParameterIsVariantGuess(t *testing.T) {
	e, tree, g := mustEngine(t, "func f(x):\n    pass\n")
	var param *syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeParameter {
			param = n
		}
	}
	if param == nil {
		t.Fatalf("no parameter found")
	}
	method := g.ScopeFor(param)
	info := e.GetTypeInfo(param, method, nil)
	if info.Confidence != Guess {
		t.Errorf("expected Guess, got %s", info.Confidence)
	}
	if info.EffectiveType.String() != "variant" {
		t.Errorf("got %s, want variant", info.EffectiveType)
	}
}

func TestIdentifierReferenceResolvesThroughScope(t *testing.T) {
	e, tree, g := mustEngine(t, "var count = 1\nfunc bump():\n    var doubled = count\n")
	decls := findAllVarDecls(tree)
	localDecl := decls[1]
	method := g.ScopeFor(localDecl)
	info := e.GetTypeInfo(localDecl, method, nil)
	if info.EffectiveType.String() != "int" {
		t.Errorf("got %s, want int", info.EffectiveType)
	}
}

type fakeNarrowing map[string]*semtype.Type

func (f fakeNarrowing) TypeOf(name string) (*semtype.Type, bool) {
	t, ok := f[name]
	return t, ok
}

func TestNarrowedTypeWinsOverDeclared(t *testing.T) {
	e, tree, g := mustEngine(t, "func f(x):\n    var y = x\n")
	decls := findAllVarDecls(tree)
	method := g.ScopeFor(decls[0])
	vars := fakeNarrowing{"x": semtype.Primitive(semtype.String)}
	info := e.GetTypeInfo(decls[0], method, vars)
	if info.EffectiveType.String() != "String" {
		t.Errorf("got %s, want String (narrowed)", info.EffectiveType)
	}
}

func TestIndexerOnArrayReturnsElementType(t *testing.T) {
	e, tree, g := mustEngine(t, "var items = [1, 2, 3]\nvar first = items[0]\n")
	decls := findAllVarDecls(tree)
	info := e.GetTypeInfo(decls[1], g.Root, nil)
	if info.EffectiveType.String() != "int" {
		t.Errorf("got %s, want int", info.EffectiveType)
	}
}

func TestGlobalFunctionCallResolvesReturnType(t *testing.T) {
	e, tree, g := mustEngine(t, "var a = absi(-1)\n")
	decl := firstVarDecl(tree)
	info := e.GetTypeInfo(decl, g.Root, nil)
	if info.EffectiveType.String() != "int" {
		t.Errorf("got %s, want int", info.EffectiveType)
	}
}

func TestLambdaInfersReturnTypeFromBody(t *testing.T) {
	e, tree, g := mustEngine(t, "func run():\n    var f = func():\n        return 1\n")
	var lambda *syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeLambdaExpr {
			lambda = n
		}
	}
	if lambda == nil {
		t.Fatalf("no lambda found")
	}
	sig := e.InferLambdaReturnType(lambda, g.Root, nil)
	if sig.Kind != semtype.KindCallable {
		t.Fatalf("expected Callable, got %s", sig)
	}
	if sig.Elem.String() != "int" {
		t.Errorf("return type = %s, want int", sig.Elem)
	}
}

func TestLambdaWithNoReturnIsVoid(t *testing.T) {
	e, tree, g := mustEngine(t, "func run():\n    var f = func():\n        var local_only = 1\n")
	var lambda *syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeLambdaExpr {
			lambda = n
		}
	}
	sig := e.InferLambdaReturnType(lambda, g.Root, nil)
	if sig.Elem.String() != "void" {
		t.Errorf("return type = %s, want void", sig.Elem)
	}
}

func TestYieldProducesSignalType(t *testing.T) {
	e, tree, g := mustEngine(t, "func run():\n    yield()\n")
	var yieldExpr *syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeYieldExpr {
			yieldExpr = n
		}
	}
	if yieldExpr == nil {
		t.Fatalf("no yield expression found")
	}
	got := e.InferType(yieldExpr, g.Root, nil)
	if got.String() != "Signal" {
		t.Errorf("got %s, want Signal", got)
	}
}

func TestAwaitOnZeroParameterSignalIsVoid(t *testing.T) {
	e, tree, g := mustEngine(t, "signal done\nfunc run():\n    await done\n")
	var awaitExpr *syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeAwaitExpr {
			awaitExpr = n
		}
	}
	if awaitExpr == nil {
		t.Fatalf("no await expression found")
	}
	s := g.ScopeFor(awaitExpr)
	got := e.InferType(awaitExpr, s, nil)
	if got.String() != "void" {
		t.Errorf("got %s, want void", got)
	}
}

func TestAwaitOnSingleParameterSignalReturnsThatType(t *testing.T) {
	e, tree, g := mustEngine(t, "signal scored(points)\nfunc run():\n    await scored\n")
	var awaitExpr *syntax.Node
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeAwaitExpr {
			awaitExpr = n
		}
	}
	s := g.ScopeFor(awaitExpr)
	got := e.InferType(awaitExpr, s, nil)
	if got.String() != "variant" {
		t.Errorf("got %s, want variant (untyped signal parameter)", got)
	}
}
