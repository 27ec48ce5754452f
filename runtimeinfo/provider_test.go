package runtimeinfo

import (
	"testing"

	"github.com/gdtoolkit/sema/semtype"
)

func mustProvider(t *testing.T) *BuiltinProvider {
	t.Helper()
	p, err := NewBuiltinProvider("v4.2.1")
	if err != nil {
		t.Fatalf("NewBuiltinProvider: %v", err)
	}
	return p
}

func TestRejectsEngineVersionBelowMinimum(t *testing.T) {
	if _, err := NewBuiltinProvider("v3.5.0"); err == nil {
		t.Fatalf("expected an error for an engine version below the minimum")
	}
}

func TestRejectsInvalidSemver(t *testing.T) {
	if _, err := NewBuiltinProvider("4.2.1"); err == nil {
		t.Fatalf("expected an error for a non-semver version string")
	}
}

func TestNumericFunctionReturnTypes(t *testing.T) {
	p := mustProvider(t)
	cases := []struct {
		name string
		want string
	}{
		{"abs", "float"}, {"absi", "int"},
		{"min", "float"}, {"max", "float"},
		{"mini", "int"}, {"maxi", "int"},
		{"clamp", "float"}, {"clampi", "int"},
		{"randi", "int"}, {"randf", "float"}, {"randi_range", "int"},
	}
	for _, c := range cases {
		f, ok := p.GetGlobalFunction(c.name)
		if !ok {
			t.Errorf("%s: not found", c.name)
			continue
		}
		if got := f.ReturnType.String(); got != c.want {
			t.Errorf("%s: return type = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestVariadicOutputFunctions(t *testing.T) {
	p := mustProvider(t)
	cases := map[string]string{
		"str": "String", "print": "void", "printerr": "void",
		"push_error": "void", "push_warning": "void",
	}
	for name, want := range cases {
		f, ok := p.GetGlobalFunction(name)
		if !ok {
			t.Fatalf("%s: not found", name)
		}
		if !f.IsVarargs {
			t.Errorf("%s: expected IsVarargs", name)
		}
		if got := f.ReturnType.String(); got != want {
			t.Errorf("%s: return type = %q, want %q", name, got, want)
		}
	}
}

func TestKeyConstantsResolveAsInt(t *testing.T) {
	p := mustProvider(t)
	for _, name := range []string{"KEY_A", "KEY_0", "KEY_SPACE", "KEY_ENTER"} {
		c, ok := p.GetGlobalConstant(name)
		if !ok {
			t.Fatalf("%s: not found", name)
		}
		if !semtype.Equal(c.Type, semtype.Primitive(semtype.Int)) {
			t.Errorf("%s: type = %s, want int", name, c.Type)
		}
		if c.Kind != ConstantKeyCode {
			t.Errorf("%s: expected ConstantKeyCode", name)
		}
	}
}

func TestEngineClassMembersAndSignals(t *testing.T) {
	p := mustProvider(t)
	if !p.IsKnownType("Sprite2D") {
		t.Fatalf("expected Sprite2D to be a known type")
	}
	if _, ok := p.GetMember("Sprite2D", "texture"); !ok {
		t.Errorf("expected Sprite2D to carry its own texture member")
	}
	if _, ok := p.GetMember("Sprite2D", "get_parent"); !ok {
		t.Errorf("expected Sprite2D to inherit Node's get_parent")
	}
	signals := p.SignalsOf("Area2D")
	found := false
	for _, s := range signals {
		if s.Name == "body_entered" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Area2D to declare body_entered, got %v", signals)
	}
}

func TestParseResourcePath(t *testing.T) {
	scheme, rest := ParseResourcePath("res://scenes/player.tscn")
	if scheme != "res" || rest != "scenes/player.tscn" {
		t.Errorf("got (%q, %q)", scheme, rest)
	}
	scheme, rest = ParseResourcePath("scenes/player.tscn")
	if scheme != "" || rest != "scenes/player.tscn" {
		t.Errorf("got (%q, %q)", scheme, rest)
	}
}
