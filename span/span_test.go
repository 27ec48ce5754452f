package span

import "testing"

func TestSpanContains(t *testing.T) {
	s := New(5, 3) // [5,8)
	if !s.Contains(5) || !s.Contains(7) {
		t.Fatalf("expected 5 and 7 to be contained in %v", s)
	}
	if s.Contains(8) {
		t.Fatalf("end should be exclusive for %v", s)
	}
	if !s.ContainsInclusive(8) {
		t.Fatalf("end should be inclusive under ContainsInclusive for %v", s)
	}
}

func TestSpanOverlapsVsAdjacent(t *testing.T) {
	a := New(0, 5)  // [0,5)
	b := New(5, 5)  // [5,10)
	if a.Overlaps(b) {
		t.Fatalf("touching spans must not overlap")
	}
	if !a.OverlapsOrAdjacent(b) {
		t.Fatalf("touching spans should be adjacent")
	}
	c := New(4, 5) // [4,9)
	if !a.Overlaps(c) {
		t.Fatalf("expected overlap between %v and %v", a, c)
	}
}

func TestSpanIntersectionAndUnion(t *testing.T) {
	a := New(0, 10) // [0,10)
	b := New(5, 10) // [5,15)
	inter, ok := a.Intersection(b)
	if !ok || inter != New(5, 5) {
		t.Fatalf("expected intersection [5,10), got %v ok=%v", inter, ok)
	}
	u := a.Union(b)
	if u != New(0, 15) {
		t.Fatalf("expected union [0,15), got %v", u)
	}

	// Union across a gap is still the smallest enclosing span.
	c := New(20, 5) // [20,25)
	gapped := a.Union(c)
	if gapped != New(0, 25) {
		t.Fatalf("expected gapped union [0,25), got %v", gapped)
	}
}

func TestSpanLaws(t *testing.T) {
	a := New(3, 4)
	b := New(10, 2)
	if a.Union(b) != b.Union(a) {
		t.Fatalf("union must be commutative")
	}
	if a.Union(a) != a {
		t.Fatalf("union must be idempotent")
	}
	if !a.Contains(a.Start) {
		t.Fatalf("contains must be reflexive at start")
	}
}

func TestFromBoundsRejectsInverted(t *testing.T) {
	if _, err := FromBounds(10, 5); err == nil {
		t.Fatalf("expected error for end < start")
	}
}

func TestGetTextOutOfRange(t *testing.T) {
	s := New(0, 100)
	if _, err := s.GetText("short"); err == nil {
		t.Fatalf("expected error for out-of-range span")
	}
}

func TestOrdering(t *testing.T) {
	spans := []Span{New(5, 1), New(1, 9), New(1, 2)}
	less := func(i, j int) bool { return spans[i].Less(spans[j]) }
	_ = less
	if !New(1, 2).Less(New(1, 9)) {
		t.Fatalf("expected shorter span to sort first at equal start")
	}
	if !New(1, 9).Less(New(5, 1)) {
		t.Fatalf("expected earlier start to sort first")
	}
}
