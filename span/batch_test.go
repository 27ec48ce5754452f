package span

import "testing"

func TestChangeSetApplyTwoChanges(t *testing.T) {
	original := "var a = 1\nvar b = 2\n"
	cs, err := NewChangeSet([]Change{
		Replace(8, 1, "100"),
		Replace(18, 1, "200"),
	})
	if err != nil {
		t.Fatalf("new change set: %v", err)
	}
	got, err := cs.Apply(original)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "var a = 100\nvar b = 200\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestChangeSetRejectsOverlap(t *testing.T) {
	_, err := NewChangeSet([]Change{
		Replace(0, 5, "aaaaa"),
		Replace(3, 5, "bbbbb"),
	})
	if err == nil {
		t.Fatalf("expected overlap error")
	}
}

func TestChangeSetSortsByStart(t *testing.T) {
	cs, err := NewChangeSet([]Change{
		Replace(10, 1, "b"),
		Replace(0, 1, "a"),
	})
	if err != nil {
		t.Fatalf("new change set: %v", err)
	}
	if cs.Changes[0].Start != 0 || cs.Changes[1].Start != 10 {
		t.Fatalf("expected changes sorted by start")
	}
}
