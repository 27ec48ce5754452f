package parse

import (
	"testing"

	"github.com/gdtoolkit/sema/span"
)

func mustChangeSet(t *testing.T, changes ...span.Change) span.ChangeSet {
	t.Helper()
	cs, err := span.NewChangeSet(changes)
	if err != nil {
		t.Fatalf("NewChangeSet: %v", err)
	}
	return cs
}

func TestReparseNoChanges(t *testing.T) {
	facade := GDScriptParser{}
	src := "var x = 1\nvar y = 2\n"
	tree, errs := facade.ParseFile(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ip := NewIncrementalParser(facade)
	res, err := ip.Reparse(tree, span.ChangeSet{})
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	if res.Kind != IsNoChange {
		t.Fatalf("expected IsNoChange, got %v", res.Kind)
	}
	if res.Tree != tree {
		t.Fatalf("expected the same tree instance back")
	}
}

func TestReparseSingleMemberEdit(t *testing.T) {
	facade := GDScriptParser{}
	src := "var x = 1\nvar y = 2\n"
	tree, errs := facade.ParseFile(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ip := NewIncrementalParser(facade)

	cs := mustChangeSet(t, span.Replace(8, 1, "100"))
	res, err := ip.Reparse(tree, cs)
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	want := "var x = 100\nvar y = 2\n"
	if res.Kind != IsIncremental {
		t.Fatalf("expected IsIncremental, got %v", res.Kind)
	}
	if got := res.Tree.ToString(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(res.ChangedMembers) != 1 {
		t.Fatalf("expected 1 changed member, got %d", len(res.ChangedMembers))
	}
	if res.ChangedMembers[0].Index != 0 {
		t.Fatalf("expected changed member index 0, got %d", res.ChangedMembers[0].Index)
	}
}

func TestReparseCrossMemberEditFallsBackToFull(t *testing.T) {
	facade := GDScriptParser{}
	src := "var x = 1\nvar y = 2\n"
	tree, _ := facade.ParseFile(src)
	ip := NewIncrementalParser(facade)

	// Region spans the boundary between "var x = 1" and the newline plus
	// the start of "var y = 2".
	cs := mustChangeSet(t, span.Replace(6, 6, "9\nvar z"))
	res, err := ip.Reparse(tree, cs)
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	if res.Kind != IsFullReparse {
		t.Fatalf("expected IsFullReparse, got %v", res.Kind)
	}
}

func TestReparseHeaderEditFallsBackToFull(t *testing.T) {
	facade := GDScriptParser{}
	src := "extends Node\nvar x = 1\n"
	tree, errs := facade.ParseFile(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ip := NewIncrementalParser(facade)

	cs := mustChangeSet(t, span.Replace(8, 4, "Node2D"))
	res, err := ip.Reparse(tree, cs)
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	if res.Kind != IsFullReparse {
		t.Fatalf("expected IsFullReparse for a header edit, got %v", res.Kind)
	}
	if got, want := res.Tree.ToString(), "extends Node2D\nvar x = 1\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReparseAboveMemberCapFallsBackToFull(t *testing.T) {
	facade := GDScriptParser{}
	src := "var a = 1\nvar b = 2\nvar c = 3\nvar d = 4\n"
	tree, _ := facade.ParseFile(src)
	ip := NewIncrementalParser(facade)
	ip.Options.MaxAffectedMembers = 2

	cs := mustChangeSet(t,
		span.Replace(8, 1, "9"),
		span.Replace(18, 1, "9"),
		span.Replace(28, 1, "9"),
	)
	res, err := ip.Reparse(tree, cs)
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	if res.Kind != IsFullReparse {
		t.Fatalf("expected IsFullReparse above the member cap, got %v", res.Kind)
	}
}

func TestReparseRoundTripInvariantHolds(t *testing.T) {
	facade := GDScriptParser{}
	src := "func test():\n    var x = 1\n    print(x)\n"
	tree, errs := facade.ParseFile(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ip := NewIncrementalParser(facade)

	cs := mustChangeSet(t, span.Insert(30, "2"))
	res, err := ip.Reparse(tree, cs)
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	want, werr := cs.Apply(src)
	if werr != nil {
		t.Fatalf("Apply: %v", werr)
	}
	if got := res.Tree.ToString(); got != want {
		t.Fatalf("round trip violated: got %q, want %q", got, want)
	}
}

func TestGetChangedRangesDetectsEditedMember(t *testing.T) {
	facade := GDScriptParser{}
	src := "var x = 1\nvar y = 2\n"
	t0, _ := facade.ParseFile(src)
	ip := NewIncrementalParser(facade)
	cs := mustChangeSet(t, span.Replace(8, 1, "100"))
	res, err := ip.Reparse(t0, cs)
	if err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	ranges := GetChangedRanges(t0, res.Tree)
	if len(ranges) != 1 {
		t.Fatalf("expected 1 changed range, got %d: %v", len(ranges), ranges)
	}
}
