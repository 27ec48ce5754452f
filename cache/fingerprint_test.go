package cache

import "testing"

func TestFingerprintIsDeterministic(t *testing.T) {
	a, err := New("src-digest", "opts-digest", "provider-v1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New("src-digest", "opts-digest", "provider-v1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical inputs to produce identical fingerprints, got %s and %s", a, b)
	}
}

func TestFingerprintChangesWithAnyInput(t *testing.T) {
	base, _ := New("src", "opts", "provider")
	cases := [][3]string{
		{"src2", "opts", "provider"},
		{"src", "opts2", "provider"},
		{"src", "opts", "provider2"},
	}
	for _, c := range cases {
		other, err := New(c[0], c[1], c[2])
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if base == other {
			t.Errorf("expected fingerprint to change for inputs %v, got identical to base", c)
		}
	}
}

func TestSourceDigestIsStableAndDiffersOnChange(t *testing.T) {
	a := SourceDigest([]byte("func test():\n    pass\n"))
	b := SourceDigest([]byte("func test():\n    pass\n"))
	if a != b {
		t.Fatalf("expected same source to produce same digest, got %s and %s", a, b)
	}
	c := SourceDigest([]byte("func test():\n    return 1\n"))
	if a == c {
		t.Fatalf("expected different source to produce different digest")
	}
}
