package span

import "testing"

func TestApplyInsertDeleteReplace(t *testing.T) {
	src := "hello world"

	ins := Insert(5, ",")
	got, err := ins.Apply(src)
	if err != nil || got != "hello, world" {
		t.Fatalf("insert: got %q err %v", got, err)
	}
	if ins.Kind() != Insertion {
		t.Fatalf("expected Insertion kind")
	}

	del := Delete(5, 6)
	got, err = del.Apply(src)
	if err != nil || got != "hello" {
		t.Fatalf("delete: got %q err %v", got, err)
	}
	if del.Kind() != Deletion {
		t.Fatalf("expected Deletion kind")
	}

	rep := Replace(0, 5, "goodbye")
	got, err = rep.Apply(src)
	if err != nil || got != "goodbye world" {
		t.Fatalf("replace: got %q err %v", got, err)
	}
	if rep.Kind() != Replacement {
		t.Fatalf("expected Replacement kind")
	}
}

func TestApplyOutOfRange(t *testing.T) {
	c := Replace(100, 1, "x")
	if _, err := c.Apply("short"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestCreateInverseRoundTrips(t *testing.T) {
	original := "var x = 1\nvar y = 2\n"
	c := Replace(8, 1, "100")

	applied, err := c.Apply(original)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	inv, err := c.CreateInverse(original)
	if err != nil {
		t.Fatalf("create inverse: %v", err)
	}

	back, err := inv.Apply(applied)
	if err != nil {
		t.Fatalf("apply inverse: %v", err)
	}
	if back != original {
		t.Fatalf("inverse did not round-trip: got %q want %q", back, original)
	}
}

func TestAdjustPositionMonotonic(t *testing.T) {
	c := Replace(5, 3, "longer-replacement")
	for p := 0; p < 20; p++ {
		if c.AdjustPosition(p) > c.AdjustPosition(p+1) {
			t.Fatalf("adjust_position not monotonic at p=%d", p)
		}
	}
}

func TestAdjustPositionRegions(t *testing.T) {
	c := Replace(5, 3, "xx") // [5,8) -> "xx", delta = -1
	if c.AdjustPosition(2) != 2 {
		t.Fatalf("position before change should be untouched")
	}
	if c.AdjustPosition(6) != 7 { // inside replaced region -> start+new_length
		t.Fatalf("position inside replaced region mapped wrong: got %d", c.AdjustPosition(6))
	}
	if c.AdjustPosition(10) != 9 { // after change, shifted by delta -1
		t.Fatalf("position after change mapped wrong: got %d", c.AdjustPosition(10))
	}
}

func TestAdjustSpanCollapsesInsideDeletion(t *testing.T) {
	c := Delete(5, 10) // [5,15) removed
	s := New(7, 2)     // fully inside deleted region
	adj := c.AdjustSpan(s)
	if !adj.IsEmpty() || adj.Start != 5 {
		t.Fatalf("expected collapse to empty span at 5, got %v", adj)
	}
}
