package cache

import (
	"testing"
)

type testEntry struct {
	Diagnostics []string
	ParseOK     bool
}

func TestStorePutThenGetRoundTrips(t *testing.T) {
	s, err := NewStore[testEntry](t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	fp, _ := New("a", "b", "c")
	want := testEntry{Diagnostics: []string{"GD2001"}, ParseOK: true}
	if err := s.Put(fp, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := s.Get(fp)
	if !ok {
		t.Fatalf("expected Get to find entry just Put")
	}
	if got.ParseOK != want.ParseOK || len(got.Diagnostics) != 1 || got.Diagnostics[0] != "GD2001" {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStoreGetMissReturnsFalse(t *testing.T) {
	s, err := NewStore[testEntry](t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	fp, _ := New("x", "y", "z")
	if _, ok := s.Get(fp); ok {
		t.Fatalf("expected miss on empty store")
	}
}

func TestStoreSurvivesReopenFromDisk(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewStore[testEntry](dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	fp, _ := New("a", "b", "c")
	want := testEntry{Diagnostics: []string{"GD3004"}, ParseOK: false}
	if err := s1.Put(fp, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s2, err := NewStore[testEntry](dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	got, ok := s2.Get(fp)
	if !ok {
		t.Fatalf("expected a fresh Store over the same dir to find the entry on disk")
	}
	if got.ParseOK != want.ParseOK || len(got.Diagnostics) != 1 || got.Diagnostics[0] != "GD3004" {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStoreInvalidateRemovesEntry(t *testing.T) {
	s, err := NewStore[testEntry](t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	fp, _ := New("a", "b", "c")
	if err := s.Put(fp, testEntry{ParseOK: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s.Invalidate(fp)
	if _, ok := s.Get(fp); ok {
		t.Fatalf("expected Get to miss after Invalidate")
	}
}
