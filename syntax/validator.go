package syntax

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// ValidationResult is the outcome of running the AST validator: a list of
// human-readable violations and whether the tree is free of them. The
// validator never panics or returns an error value — every failure mode
// it can detect is reported as an entry in Errors.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func invalid(errs ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// Validate checks every structural invariant from the data model: a
// non-nil root with no parent, correct parent/child back-references,
// token uniqueness, and (when expectedText is non-empty) an exact
// round-trip match.
func Validate(tree *Tree, expectedText string) ValidationResult {
	if tree == nil || tree.Root == nil {
		return invalid("null tree")
	}
	if tree.Root.Parent() != nil {
		return invalid("root node has a non-nil parent")
	}

	var errs []string
	seen := map[*Token]bool{}
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Parent() != n {
				errs = append(errs, fmt.Sprintf("child %v does not point back to its parent", c))
				continue
			}
			switch v := c.(type) {
			case *Token:
				if seen[v] {
					errs = append(errs, fmt.Sprintf("token %q aliased into the tree more than once", v.Text))
				}
				seen[v] = true
			case *Node:
				walk(v)
			}
		}
	}
	walk(tree.Root)

	if expectedText != "" {
		actual := tree.ToString()
		if actual != expectedText {
			errs = append(errs, fmt.Sprintf("text mismatch:\n%s", textDiff(expectedText, actual)))
		}
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return ValidationResult{Valid: true}
}

func textDiff(want, got string) string {
	return cmp.Diff(want, got)
}

// Difference describes one point of structural divergence found by
// CompareStructure.
type Difference struct {
	Path string
	Want string
	Got  string
}

// CompareStructure reports every point where a and b diverge, comparing
// their token sequences in order with whitespace and indentation tokens
// left out and token positions ignored. Node kinds are not compared.
// Newline and comment tokens match on category alone (a comment's text
// is ignored); every other token must carry the same (category, text)
// pair.
func CompareStructure(a, b *Tree) []Difference {
	aTokens := significantTokens(a)
	bTokens := significantTokens(b)

	var diffs []Difference
	n := len(aTokens)
	if len(bTokens) > n {
		n = len(bTokens)
	}
	for i := 0; i < n; i++ {
		switch {
		case i >= len(aTokens):
			diffs = append(diffs, Difference{
				Path: fmt.Sprintf("token[%d]", i),
				Want: "<missing>",
				Got:  describeToken(bTokens[i]),
			})
		case i >= len(bTokens):
			diffs = append(diffs, Difference{
				Path: fmt.Sprintf("token[%d]", i),
				Want: describeToken(aTokens[i]),
				Got:  "<missing>",
			})
		default:
			ta, tb := aTokens[i], bTokens[i]
			if ta.Category != tb.Category || (!ta.Category.IsTrivia() && ta.Text != tb.Text) {
				diffs = append(diffs, Difference{
					Path: fmt.Sprintf("token[%d]", i),
					Want: describeToken(ta),
					Got:  describeToken(tb),
				})
			}
		}
	}
	return diffs
}

func significantTokens(t *Tree) []*Token {
	var out []*Token
	for _, tok := range t.AllTokens() {
		if tok.Category == CategoryWhitespace || tok.Category == CategoryIndentation {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func describeToken(t *Token) string {
	if t.Category == CategoryComment {
		return fmt.Sprintf("%s(<comment>)", t.Category)
	}
	return fmt.Sprintf("%s(%q)", t.Category, t.Text)
}
