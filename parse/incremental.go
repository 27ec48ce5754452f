package parse

import (
	"sort"
	"unicode/utf8"

	"github.com/gdtoolkit/sema/span"
	"github.com/gdtoolkit/sema/syntax"
)

// Kind classifies the outcome of an incremental reparse.
type Kind int

const (
	IsNoChange Kind = iota
	IsIncremental
	IsFullReparse
)

func (k Kind) String() string {
	switch k {
	case IsNoChange:
		return "no-change"
	case IsIncremental:
		return "incremental"
	case IsFullReparse:
		return "full-reparse"
	default:
		return "unknown"
	}
}

// ChangedMember records one top-level member that was replaced during a
// member-level splice.
type ChangedMember struct {
	Index     int
	OldMember *syntax.Node
	NewMember *syntax.Node
}

// IncrementalResult is the outcome of Reparse.
type IncrementalResult struct {
	Tree           *syntax.Tree
	Kind           Kind
	ChangedMembers []ChangedMember
}

// Options tunes the thresholds past which the incremental parser
// abandons a member-level splice in favour of a full reparse.
type Options struct {
	// CrossMemberThresholdFraction bounds old_length+new_length of a
	// single change as a fraction of the whole file's size.
	CrossMemberThresholdFraction float64
	// MaxAffectedMembers bounds the number of distinct top-level
	// members a single batch of changes may touch.
	MaxAffectedMembers int
}

// DefaultOptions matches the documented defaults: a 50% size threshold
// and at most 3 affected members per batch.
func DefaultOptions() Options {
	return Options{CrossMemberThresholdFraction: 0.5, MaxAffectedMembers: 3}
}

// IncrementalParser reuses as much of a previous tree as it safely can
// when applying a batch of edits, falling back to a full reparse
// through Facade whenever the edit shape, a parse failure, or a broken
// invariant makes reuse unsafe.
type IncrementalParser struct {
	Facade  Parser
	Options Options
}

// NewIncrementalParser builds an IncrementalParser with default
// thresholds.
func NewIncrementalParser(facade Parser) *IncrementalParser {
	return &IncrementalParser{Facade: facade, Options: DefaultOptions()}
}

type memberSpan struct {
	index int
	node  *syntax.Node
	span  span.Span
}

// memberLayout walks root's direct children in source order, returning
// the span of each top-level member (in the tree's own text
// coordinates) and the offset at which the first member begins — the
// end of the class-level header region.
func memberLayout(tree *syntax.Tree) ([]memberSpan, int) {
	class := tree.ClassDecl()
	if class == nil {
		return nil, 0
	}
	var members []memberSpan
	offset := 0
	headerEnd := -1
	for _, c := range class.Children {
		length := utf8.RuneCountInString(elementText(c))
		if n, ok := c.(*syntax.Node); ok && syntax.IsMemberKind(n.Kind) {
			if headerEnd == -1 {
				headerEnd = offset
			}
			members = append(members, memberSpan{index: len(members), node: n, span: span.New(offset, length)})
		}
		offset += length
	}
	if headerEnd == -1 {
		headerEnd = offset
	}
	return members, headerEnd
}

func elementText(e syntax.Element) string {
	switch v := e.(type) {
	case *syntax.Token:
		return v.Text
	case *syntax.Node:
		return v.String()
	default:
		return ""
	}
}

// findEnclosingMember returns the member whose span fully contains
// region, or ok=false when region straddles a member boundary (spans
// more than one member, or falls in inter-member trivia).
func findEnclosingMember(members []memberSpan, region span.Span) (memberSpan, bool) {
	for _, m := range members {
		if m.span.ContainsSpan(region) {
			return m, true
		}
	}
	return memberSpan{}, false
}

// Reparse applies changes (expressed in prev.ToString()'s coordinates)
// and returns the most-reused tree it can produce safely.
func (ip *IncrementalParser) Reparse(prev *syntax.Tree, changes span.ChangeSet) (IncrementalResult, error) {
	if len(changes.Changes) == 0 {
		return IncrementalResult{Tree: prev, Kind: IsNoChange}, nil
	}

	s0 := prev.ToString()
	s1, err := changes.Apply(s0)
	if err != nil {
		return IncrementalResult{}, err
	}

	members, headerEnd := memberLayout(prev)
	s0Len := utf8.RuneCountInString(s0)

	affected := map[int]memberSpan{}
	for _, c := range changes.Changes {
		region := c.OldSpan()

		if region.Start < headerEnd {
			return ip.fullReparse(s1), nil
		}
		if float64(c.OldLength+c.NewLength()) > ip.Options.CrossMemberThresholdFraction*float64(s0Len) {
			return ip.fullReparse(s1), nil
		}
		m, ok := findEnclosingMember(members, region)
		if !ok {
			return ip.fullReparse(s1), nil
		}
		affected[m.index] = m
	}
	if len(affected) > ip.Options.MaxAffectedMembers {
		return ip.fullReparse(s1), nil
	}

	indices := make([]int, 0, len(affected))
	for idx := range affected {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	clone := prev.Clone()
	cloneMembers, _ := memberLayout(clone)

	var changedMembers []ChangedMember
	for _, idx := range indices {
		old := members[idx]
		cloneMember := cloneMembers[idx]

		newStart := changes.AdjustPosition(old.span.Start)
		newEnd := changes.AdjustPosition(old.span.End())
		newSpan, err := span.FromBounds(newStart, newEnd)
		if err != nil {
			return ip.fullReparse(s1), nil
		}
		newText, err := newSpan.GetText(s1)
		if err != nil {
			return ip.fullReparse(s1), nil
		}

		newMember, errs := ip.Facade.ParseMember(newText)
		if len(errs) != 0 {
			return ip.fullReparse(s1), nil
		}

		class := clone.ClassDecl()
		class.ReplaceChild(cloneMember.node, newMember)
		changedMembers = append(changedMembers, ChangedMember{Index: idx, OldMember: old.node, NewMember: newMember})
	}

	if clone.ToString() != s1 {
		return ip.fullReparse(s1), nil
	}
	if res := syntax.Validate(clone, s1); !res.Valid {
		return ip.fullReparse(s1), nil
	}

	return IncrementalResult{Tree: clone, Kind: IsIncremental, ChangedMembers: changedMembers}, nil
}

func (ip *IncrementalParser) fullReparse(source string) IncrementalResult {
	tree, _ := ip.Facade.ParseFile(source)
	return IncrementalResult{Tree: tree, Kind: IsFullReparse}
}

// GetChangedRanges compares the top-level members of two trees,
// positionally, and returns the spans in t1's own text coordinates of
// every member whose structure differs from the member at the same
// index in t0 (including members appended or removed at the tail).
func GetChangedRanges(t0, t1 *syntax.Tree) []span.Span {
	oldMembers, _ := memberLayout(t0)
	newMembers, _ := memberLayout(t1)

	var changed []span.Span
	for i, nm := range newMembers {
		if i >= len(oldMembers) {
			changed = append(changed, nm.span)
			continue
		}
		om := oldMembers[i]
		oldTree := syntax.NewTree(om.node.Clone())
		newTree := syntax.NewTree(nm.node.Clone())
		if diffs := syntax.CompareStructure(oldTree, newTree); len(diffs) != 0 {
			changed = append(changed, nm.span)
		}
	}
	return changed
}
