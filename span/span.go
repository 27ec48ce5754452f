// Package span implements the text-span and text-change primitives that
// every other package in this module builds on: half-open code-point
// ranges over source text, and the edits that move between one text and
// the next.
package span

import (
	"fmt"
)

// Span is a half-open [Start, End) range over code-point offsets.
//
// Start and Length are non-negative by construction; End is always
// derived, never stored independently, so the two can never drift apart.
type Span struct {
	Start  int
	Length int
}

// New constructs a Span, panicking if either field is negative. This is a
// programmer error (a negative length can never arise from well-formed
// input) and is not reported as a diagnostic.
func New(start, length int) Span {
	if start < 0 {
		panic(fmt.Sprintf("span: negative start %d", start))
	}
	if length < 0 {
		panic(fmt.Sprintf("span: negative length %d", length))
	}
	return Span{Start: start, Length: length}
}

// FromBounds builds a span from [start, end). It returns an error instead
// of panicking because the bounds typically arrive from user-controlled
// edit coordinates, not from a hardcoded call site.
func FromBounds(start, end int) (Span, error) {
	if end < start {
		return Span{}, fmt.Errorf("span: end %d before start %d", end, start)
	}
	if start < 0 {
		return Span{}, fmt.Errorf("span: negative start %d", start)
	}
	return Span{Start: start, Length: end - start}, nil
}

// EmptyAt returns a zero-length span at pos.
func EmptyAt(pos int) Span {
	return New(pos, 0)
}

// End returns the exclusive upper bound Start+Length.
func (s Span) End() int { return s.Start + s.Length }

// IsEmpty reports whether the span has zero length.
func (s Span) IsEmpty() bool { return s.Length == 0 }

// Contains reports whether pos falls in the half-open range [Start, End).
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End()
}

// ContainsInclusive reports whether pos falls in the closed range
// [Start, End]. Useful for cursor positions, which may legitimately sit
// just past the last character of a span.
func (s Span) ContainsInclusive(pos int) bool {
	return pos >= s.Start && pos <= s.End()
}

// ContainsSpan reports whether other is fully nested within s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End() <= s.End()
}

// Overlaps reports whether s and other share at least one code point.
// Touching-but-not-sharing spans (adjacency) do not overlap.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End() && other.Start < s.End()
}

// OverlapsOrAdjacent reports whether s and other overlap, or touch at a
// boundary with no gap between them.
func (s Span) OverlapsOrAdjacent(other Span) bool {
	if s.Overlaps(other) {
		return true
	}
	return s.End() == other.Start || other.End() == s.Start
}

// Intersection returns the overlapping region of s and other. The second
// return value is false when the spans do not strictly overlap; as with
// Overlaps, two empty-but-equal-position spans never intersect.
func (s Span) Intersection(other Span) (Span, bool) {
	start := max(s.Start, other.Start)
	end := min(s.End(), other.End())
	if end <= start {
		return Span{}, false
	}
	sp, _ := FromBounds(start, end)
	return sp, true
}

// Union returns the smallest span that encloses both s and other, even
// when a gap separates them.
func (s Span) Union(other Span) Span {
	start := min(s.Start, other.Start)
	end := max(s.End(), other.End())
	sp, _ := FromBounds(start, end)
	return sp
}

// GetText returns the substring of source covered by s, as a slice of
// runes re-assembled to a string so the offsets stay code-point based
// rather than byte based.
func (s Span) GetText(source string) (string, error) {
	runes := []rune(source)
	if s.End() > len(runes) {
		return "", fmt.Errorf("span: [%d,%d) exceeds source length %d", s.Start, s.End(), len(runes))
	}
	return string(runes[s.Start:s.End()]), nil
}

// Less implements the total order used to sort spans: by Start ascending,
// then by Length ascending.
func (s Span) Less(other Span) bool {
	if s.Start != other.Start {
		return s.Start < other.Start
	}
	return s.Length < other.Length
}

// String renders the span as "[start,end)" for diagnostics and tests.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
