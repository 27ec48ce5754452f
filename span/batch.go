package span

import (
	"fmt"
	"sort"
)

// ChangeSet is an ordered batch of changes, all expressed in the
// original text's coordinates. Regions must be non-overlapping; they
// need not be pre-sorted.
type ChangeSet struct {
	Changes []Change
}

// NewChangeSet validates that no two changes' original regions overlap
// and returns a ChangeSet sorted by Start.
func NewChangeSet(changes []Change) (ChangeSet, error) {
	sorted := make([]Change, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i := 1; i < len(sorted); i++ {
		prevEnd := sorted[i-1].Start + sorted[i-1].OldLength
		if sorted[i].Start < prevEnd {
			return ChangeSet{}, fmt.Errorf("span: overlapping changes at [%d,%d) and [%d,%d)",
				sorted[i-1].Start, prevEnd, sorted[i].Start, sorted[i].Start+sorted[i].OldLength)
		}
	}
	return ChangeSet{Changes: sorted}, nil
}

// Apply applies every change in the set to original, left to right,
// tracking the cumulative offset so later changes (expressed in the
// original's coordinates) land at the right place in the text being
// built up.
func (cs ChangeSet) Apply(original string) (string, error) {
	runes := []rune(original)
	var out []rune
	cursor := 0
	for _, c := range cs.Changes {
		if c.Start < cursor || c.Start+c.OldLength > len(runes) {
			return "", fmt.Errorf("span: change [%d,%d) out of order or out of range", c.Start, c.Start+c.OldLength)
		}
		out = append(out, runes[cursor:c.Start]...)
		out = append(out, []rune(c.NewText)...)
		cursor = c.Start + c.OldLength
	}
	out = append(out, runes[cursor:]...)
	return string(out), nil
}

// AdjustPosition maps a position in the original text through every
// change in the set in order, composing their individual adjustments.
func (cs ChangeSet) AdjustPosition(p int) int {
	for _, c := range cs.Changes {
		p = c.AdjustPosition(p)
	}
	return p
}

// CumulativeDelta returns the net length delta introduced by every
// change up to and including the one covering originalPos, or the
// total delta of changes entirely before it.
func (cs ChangeSet) CumulativeDelta(originalPos int) int {
	delta := 0
	for _, c := range cs.Changes {
		if c.Start > originalPos {
			break
		}
		delta += c.Delta()
	}
	return delta
}
