package syntax

import "testing"

func TestValidateNullTree(t *testing.T) {
	res := Validate(nil, "")
	if res.Valid || len(res.Errors) == 0 || res.Errors[0] != "null tree" {
		t.Fatalf("expected null tree error, got %+v", res)
	}
}

func TestValidateDetectsAliasedToken(t *testing.T) {
	shared := NewToken("x", CategoryIdentifier, pos(0, 0), pos(0, 1))
	a := NewNode(NodeExpressionStmt, shared)
	b := NewNode(NodeExpressionStmt, shared)
	root := NewNode(NodeSource, a, b)
	root.Children[1] = b
	b.setParent(root)
	tree := NewTree(root)

	res := Validate(tree, "")
	if res.Valid {
		t.Fatalf("expected aliasing violation to be detected")
	}
}

func TestValidateTextMismatch(t *testing.T) {
	tree := simpleTree("hello")
	res := Validate(tree, "goodbye")
	if res.Valid {
		t.Fatalf("expected text mismatch")
	}
}

func TestCompareStructureIgnoresCommentText(t *testing.T) {
	mk := func(comment string) *Tree {
		c := NewToken(comment, CategoryComment, pos(0, 0), pos(0, len(comment)))
		id := NewToken("x", CategoryIdentifier, pos(1, 0), pos(1, 1))
		return NewTree(NewNode(NodeSource, c, id))
	}
	a := mk("# hello")
	b := mk("# goodbye")
	if diffs := CompareStructure(a, b); len(diffs) != 0 {
		t.Fatalf("expected comment text to be ignored, got %v", diffs)
	}
}

func TestCompareStructureDetectsKindChange(t *testing.T) {
	a := NewTree(NewNode(NodeSource, NewToken("1", CategoryNumber, pos(0, 0), pos(0, 1))))
	b := NewTree(NewNode(NodeSource, NewToken("1", CategoryString, pos(0, 0), pos(0, 1))))
	if diffs := CompareStructure(a, b); len(diffs) == 0 {
		t.Fatalf("expected category mismatch to be reported")
	}
}
