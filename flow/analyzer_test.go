package flow

import (
	"testing"

	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/parse"
	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

func mustAnalyzer(t *testing.T, src string) (*Analyzer, *syntax.Tree, *scope.Graph) {
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
	e := infer.NewEngine(g, provider)
	return NewAnalyzer(e, g), tree, g
}

func firstMethod(tree *syntax.Tree) *syntax.Node {
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeMethodDecl {
			return n
		}
	}
	return nil
}

func firstOfKind(tree *syntax.Tree, kind syntax.NodeKind) *syntax.Node {
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

func TestIsGuardNarrowsInsideIfBody(t *testing.T) {
	a, tree, g := mustAnalyzer(t, "func test(data):\n    if data is Dictionary:\n        data.get(\"k\")\n")
	method := firstMethod(tree)
	methodScope := g.ScopeFor(method)

	state := NewFlowState()
	state.Declare("data", nil, semtype.Primitive(semtype.Variant))

	ifStmt := firstOfKind(tree, syntax.NodeIfStmt)
	cond := firstNode(ifStmt)
	trueE, _ := AnalyzeGuard(cond, a.Engine, methodScope)

	branch := state.CreateChild()
	applyAll(trueE, branch)

	got, ok := branch.TypeOf("data")
	if !ok {
		t.Fatalf("expected data to be declared")
	}
	if got.String() != "Dictionary" {
		t.Errorf("got %s, want Dictionary", got)
	}
}

func TestReassignmentClearsNarrowing(t *testing.T) {
	state := NewFlowState()
	state.Declare("data", nil, semtype.Primitive(semtype.Variant))
	state.NarrowType("data", semtype.Named("Dictionary"))

	got, _ := state.TypeOf("data")
	if got.String() != "Dictionary" {
		t.Fatalf("setup: got %s, want Dictionary", got)
	}

	state.SetType("data", semtype.Primitive(semtype.Variant))
	got, _ = state.TypeOf("data")
	if got.String() != "variant" {
		t.Errorf("got %s, want variant after reassignment clears narrowing", got)
	}
}

func TestIfElseMergeUnionsBranchTypes(t *testing.T) {
	a, tree, _ := mustAnalyzer(t, "func test():\n    var x = 1\n    if true:\n        x = \"a\"\n    else:\n        x = 2.0\n")
	method := firstMethod(tree)
	final := a.AnalyzeMethod(method)
	got, ok := final.TypeOf("x")
	if !ok {
		t.Fatalf("expected x to be declared")
	}
	if got.Kind != semtype.KindUnion {
		t.Fatalf("expected a union type, got %s", got)
	}
}

func TestReturnInOneBranchOnlyPropagatesOtherBranch(t *testing.T) {
	a, tree, _ := mustAnalyzer(t, "func test(flag):\n    var x = 1\n    if flag:\n        return\n    else:\n        x = \"a\"\n")
	method := firstMethod(tree)
	final := a.AnalyzeMethod(method)
	got, ok := final.TypeOf("x")
	if !ok {
		t.Fatalf("expected x to be declared")
	}
	if got.String() != "String" {
		t.Errorf("got %s, want String (the only surviving branch)", got)
	}
}

func TestForLoopDeducesElementTypeFromArray(t *testing.T) {
	a, tree, g := mustAnalyzer(t, "func test():\n    var items = [1, 2, 3]\n    for i in items:\n        var doubled = i\n")
	method := firstMethod(tree)
	forStmt := firstOfKind(tree, syntax.NodeForStmt)
	body := findChildOfKind(forStmt, syntax.NodeBlock)
	loopScope := g.ScopeFor(body)

	_ = a.AnalyzeMethod(method)

	innerDecl := firstOfKind(tree, syntax.NodeVariableDecl)
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeVariableDecl && declaredName(n) == "doubled" {
			innerDecl = n
		}
	}
	info := a.Engine.GetTypeInfo(innerDecl, loopScope, nil)
	if info.EffectiveType.String() != "int" {
		t.Errorf("got %s, want int", info.EffectiveType)
	}
}

func TestContainerUsageCollectsAppendCalls(t *testing.T) {
	a, tree, _ := mustAnalyzer(t, "func test():\n    var items = []\n    items.append(1)\n    items.append(2)\n")
	method := firstMethod(tree)
	a.AnalyzeMethod(method)
	if len(a.Observations) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(a.Observations))
	}
	elem, _ := ReduceContainerProfile(a.Observations)
	if elem.String() != "int" {
		t.Errorf("got %s, want int", elem)
	}
}

func TestOrGuardKeepsOnlyCommonNarrowing(t *testing.T) {
	// Both operands narrow x to int (even though the literals differ),
	// so that narrowing is common to both and survives the `or`; a
	// differently-typed right operand would not survive.
	a, tree, g := mustAnalyzer(t, "func test(x):\n    if x == 1 or x == 2:\n        pass\n")
	method := firstMethod(tree)
	methodScope := g.ScopeFor(method)
	ifStmt := firstOfKind(tree, syntax.NodeIfStmt)
	cond := firstNode(ifStmt)
	trueE, _ := AnalyzeGuard(cond, a.Engine, methodScope)
	if len(trueE) != 1 || trueE[0].Var != "x" || trueE[0].NarrowType.String() != "int" {
		t.Errorf("expected a single x->int narrowing common to both operands, got %v", trueE)
	}

	mixed, tree2, g2 := mustAnalyzer(t, "func test(x):\n    if x == 1 or x == \"a\":\n        pass\n")
	method2 := firstMethod(tree2)
	methodScope2 := g2.ScopeFor(method2)
	ifStmt2 := firstOfKind(tree2, syntax.NodeIfStmt)
	cond2 := firstNode(ifStmt2)
	trueE2, _ := AnalyzeGuard(cond2, mixed.Engine, methodScope2)
	if len(trueE2) != 0 {
		t.Errorf("expected no common narrowing between x==1 (int) and x==\"a\" (String), got %v", trueE2)
	}
}

func TestLoopWideningCapsUnionGrowth(t *testing.T) {
	a, tree, _ := mustAnalyzer(t, "func test():\n"+
		"    var x = 0\n"+
		"    for i in range(10):\n"+
		"        if i == 0:\n"+
		"            x = \"a\"\n"+
		"        elif i == 1:\n"+
		"            x = true\n"+
		"        elif i == 2:\n"+
		"            x = [1]\n"+
		"        elif i == 3:\n"+
		"            x = {\"a\": 1}\n"+
		"        elif i == 4:\n"+
		"            x = 2.5\n")
	method := firstMethod(tree)
	final := a.AnalyzeMethod(method)
	got, ok := final.TypeOf("x")
	if !ok {
		t.Fatalf("expected x to be declared")
	}
	if got.String() != "variant" {
		t.Errorf("got %s, want variant once the accumulated union exceeds the member cap", got)
	}
}

func TestIsSubsetOfEmptyStateIsSubsetOfAnything(t *testing.T) {
	empty := NewFlowState()
	other := NewFlowState()
	other.Declare("a", nil, semtype.Primitive(semtype.Int))
	if !empty.IsSubsetOf(other) {
		t.Errorf("expected the empty state to be a subset of any state")
	}
}
