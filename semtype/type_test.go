package semtype

import "testing"

func TestDisplayGrammar(t *testing.T) {
	cases := []struct {
		typ  *Type
		want string
	}{
		{Primitive(Int), "int"},
		{Array(Primitive(Int)), "Array[int]"},
		{Dictionary(Primitive(String), Primitive(Int)), "Dictionary[String, int]"},
		{Callable([]*Type{Primitive(Int), Primitive(String)}, Primitive(Bool)), "Callable[[int, String], bool]"},
		{Array(Dictionary(Primitive(String), Primitive(Int))), "Array[Dictionary[String, int]]"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestUnionCanonicalizesOrderAndDuplicates(t *testing.T) {
	a := Union(Primitive(Int), Primitive(String))
	b := Union(Primitive(String), Primitive(Int), Primitive(Int))
	if !Equal(a, b) {
		t.Errorf("expected %s and %s to be equal unions", a, b)
	}
}

func TestUnionOfOneMemberCollapses(t *testing.T) {
	u := Union(Primitive(Int), Primitive(Int))
	if u.Kind != KindPrimitive || u.Name != Int {
		t.Errorf("expected a collapsed union to equal the plain member, got %s", u)
	}
}

func TestUnionFlattensNestedUnions(t *testing.T) {
	inner := Union(Primitive(Int), Primitive(Float))
	outer := Union(inner, Primitive(String))
	if len(outer.Members) != 3 {
		t.Fatalf("expected a flattened 3-member union, got %d: %s", len(outer.Members), outer)
	}
}

func TestExtractCallableReturnType(t *testing.T) {
	ret, ok := ExtractCallableReturnType("Callable[[int, String], bool]")
	if !ok || ret != "bool" {
		t.Fatalf("got (%q, %v)", ret, ok)
	}
	if _, ok := ExtractCallableReturnType("Callable"); ok {
		t.Errorf("expected the plain Callable form to fail to parse")
	}
}

func TestExtractCallableParameterTypes(t *testing.T) {
	params, ok := ExtractCallableParameterTypes("Callable[[Array[int], String], bool]")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	want := []string{"Array[int]", "String"}
	if len(params) != len(want) {
		t.Fatalf("got %v, want %v", params, want)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("param %d: got %q, want %q", i, params[i], want[i])
		}
	}
}

func TestExtractCallableParameterTypesNoParams(t *testing.T) {
	params, ok := ExtractCallableParameterTypes("Callable[[], void]")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if len(params) != 0 {
		t.Errorf("expected no parameters, got %v", params)
	}
}
