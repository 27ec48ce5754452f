package span

import "fmt"

// Kind classifies a Change by shape.
type Kind int

const (
	// Insertion replaces zero characters with one or more.
	Insertion Kind = iota
	// Deletion replaces one or more characters with zero.
	Deletion
	// Replacement replaces a non-empty range with non-empty text.
	Replacement
)

func (k Kind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	case Replacement:
		return "replacement"
	default:
		return "unknown"
	}
}

// Change is the triple (Start, OldLength, NewText): the atomic unit of
// an edit. NewLength and Delta are derived, never stored, to keep them
// from drifting relative to NewText.
type Change struct {
	Start     int
	OldLength int
	NewText   string
}

// Insert builds an insertion of text at position at.
func Insert(at int, text string) Change {
	return Change{Start: at, OldLength: 0, NewText: text}
}

// Delete builds a deletion of count code points starting at position at.
func Delete(at, count int) Change {
	return Change{Start: at, OldLength: count, NewText: ""}
}

// Replace builds a replacement of count code points starting at position
// at with text.
func Replace(at, count int, text string) Change {
	return Change{Start: at, OldLength: count, NewText: text}
}

// NewLength returns the code-point length of the replacement text.
func (c Change) NewLength() int { return len([]rune(c.NewText)) }

// Delta returns NewLength - OldLength, the net shift applied to every
// position after the change.
func (c Change) Delta() int { return c.NewLength() - c.OldLength }

// OldSpan returns the span replaced in the original text's coordinates.
func (c Change) OldSpan() Span { return New(c.Start, c.OldLength) }

// Kind classifies the change by shape.
func (c Change) Kind() Kind {
	switch {
	case c.OldLength == 0:
		return Insertion
	case c.NewText == "":
		return Deletion
	default:
		return Replacement
	}
}

// Apply applies c to original and returns the resulting text. It fails
// when the replaced region exceeds the bounds of original.
func (c Change) Apply(original string) (string, error) {
	runes := []rune(original)
	if c.Start < 0 || c.Start+c.OldLength > len(runes) {
		return "", fmt.Errorf("span: change [%d,%d) exceeds source length %d", c.Start, c.Start+c.OldLength, len(runes))
	}
	var out []rune
	out = append(out, runes[:c.Start]...)
	out = append(out, []rune(c.NewText)...)
	out = append(out, runes[c.Start+c.OldLength:]...)
	return string(out), nil
}

// CreateInverse returns the change that, applied to the result of
// c.Apply(original), reproduces original exactly.
func (c Change) CreateInverse(original string) (Change, error) {
	oldText, err := c.OldSpan().GetText(original)
	if err != nil {
		return Change{}, err
	}
	return Change{
		Start:     c.Start,
		OldLength: c.NewLength(),
		NewText:   oldText,
	}, nil
}

// AdjustPosition maps a position in the pre-change text to the
// corresponding position in the post-change text:
//   - positions before the change are untouched,
//   - positions inside the replaced region collapse to Start+NewLength,
//   - positions after the change shift by Delta.
func (c Change) AdjustPosition(p int) int {
	switch {
	case p < c.Start:
		return p
	case p < c.Start+c.OldLength:
		return c.Start + c.NewLength()
	default:
		return p + c.Delta()
	}
}

// AdjustSpan applies AdjustPosition pointwise to both bounds of s. A span
// fully contained in a deleted region collapses to a zero-length span at
// the change's start.
func (c Change) AdjustSpan(s Span) Span {
	if s.Start >= c.Start && s.End() <= c.Start+c.OldLength {
		return EmptyAt(c.Start + c.NewLength())
	}
	start := c.AdjustPosition(s.Start)
	end := c.AdjustPosition(s.End())
	if end < start {
		end = start
	}
	sp, _ := FromBounds(start, end)
	return sp
}
