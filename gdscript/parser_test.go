package gdscript

import (
	"testing"

	"github.com/gdtoolkit/sema/syntax"
)

func TestRoundTripSimpleVarDecls(t *testing.T) {
	src := "var x = 1\nvar y = 2\n"
	tree, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if got := tree.ToString(); got != src {
		t.Fatalf("round trip failed:\n got: %q\nwant: %q", got, src)
	}
}

func TestRoundTripExtendsAndFunc(t *testing.T) {
	src := "extends Node\n\nfunc _ready():\n    var x = 1\n    print(x)\n"
	tree, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if got := tree.ToString(); got != src {
		t.Fatalf("round trip failed:\n got: %q\nwant: %q", got, src)
	}
}

func TestRoundTripIfElifElse(t *testing.T) {
	src := "func test(data):\n    if data is Dictionary:\n        data.get(\"k\")\n    elif data == null:\n        pass\n    else:\n        pass\n"
	tree, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if got := tree.ToString(); got != src {
		t.Fatalf("round trip failed:\n got: %q\nwant: %q", got, src)
	}
}

func TestRoundTripForWhileMatch(t *testing.T) {
	src := "func test():\n    for i in range(10):\n        print(i)\n    while true:\n        break\n    match i:\n        1:\n            pass\n        _:\n            pass\n"
	tree, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if got := tree.ToString(); got != src {
		t.Fatalf("round trip failed:\n got: %q\nwant: %q", got, src)
	}
}

func TestValidatesStructurally(t *testing.T) {
	src := "var a = 1\nvar b = 2\n"
	tree, _ := Parse(src)
	res := syntax.Validate(tree, src)
	if !res.Valid {
		t.Fatalf("expected valid tree, got errors: %v", res.Errors)
	}
}

func TestNotInIsSingleOperator(t *testing.T) {
	src := "func test(x):\n    if x not in [1, 2]:\n        pass\n"
	tree, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if got := tree.ToString(); got != src {
		t.Fatalf("round trip failed:\n got: %q\nwant: %q", got, src)
	}
}

func TestParseMemberSingleVariable(t *testing.T) {
	node, errs := ParseMember("var x = 100\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if node.Kind != syntax.NodeVariableDecl {
		t.Fatalf("expected variable decl, got %v", node.Kind)
	}
	if node.String() != "var x = 100\n" {
		t.Fatalf("unexpected member text: %q", node.String())
	}
}
