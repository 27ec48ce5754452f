// Package semtype implements the semantic type sum type every inferred
// expression and declaration carries: primitives, named engine/user
// classes, typed and packed arrays, typed dictionaries, callables,
// unions, and the unknown/variant bottom types. Equality and display
// are both defined over a canonical form so two types built through
// different paths (e.g. a union assembled in a different order) still
// compare and print the same way.
package semtype

import (
	"sort"
	"strings"
)

// Kind tags which variant of the semantic type sum a Type holds.
type Kind int

const (
	KindPrimitive Kind = iota
	KindNamed
	KindArray
	KindPackedArray
	KindDictionary
	KindCallable
	KindUnion
	KindUnknown
)

// Primitive names. These are also valid Type.Name values for KindPrimitive.
const (
	Int      = "int"
	Float    = "float"
	Bool     = "bool"
	String   = "String"
	Void     = "void"
	Variant  = "variant"
	NullType = "null"
)

// Type is an immutable semantic type value. Only the fields relevant to
// Kind are meaningful; constructors below are the sanctioned way to
// build one.
type Type struct {
	Kind Kind

	// KindPrimitive, KindNamed, KindPackedArray: the type's own name
	// ("int", "Sprite2D", "PackedInt32Array", ...).
	Name string

	// KindArray: Elem is the element type.
	Elem *Type

	// KindDictionary: Key/Elem are the key and value types.
	Key *Type

	// KindCallable: Params are the parameter types in order, Elem is the
	// return type.
	Params []*Type

	// KindUnion: Members holds the union's branches, already
	// canonicalized (deduplicated and sorted by display name).
	Members []*Type
}

func Primitive(name string) *Type { return &Type{Kind: KindPrimitive, Name: name} }
func Named(className string) *Type { return &Type{Kind: KindNamed, Name: className} }
func PackedArray(name string) *Type { return &Type{Kind: KindPackedArray, Name: name} }
func Array(elem *Type) *Type       { return &Type{Kind: KindArray, Elem: elem} }
func Dictionary(key, value *Type) *Type {
	return &Type{Kind: KindDictionary, Key: key, Elem: value}
}
func Callable(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindCallable, Params: params, Elem: ret}
}
func Unknown() *Type { return &Type{Kind: KindUnknown} }

// Union builds a canonicalized union of members: nested unions are
// flattened, duplicates (by structural equality) are dropped, and a
// union of exactly one distinct member collapses to that member. The
// resulting Members slice is sorted by display name so two unions
// built from members in different orders are structurally equal.
func Union(members ...*Type) *Type {
	var flat []*Type
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.Kind == KindUnion {
			flat = append(flat, m.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	var deduped []*Type
	for _, m := range flat {
		dup := false
		for _, d := range deduped {
			if Equal(d, m) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, m)
		}
	}
	if len(deduped) == 0 {
		return Unknown()
	}
	if len(deduped) == 1 {
		return deduped[0]
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].String() < deduped[j].String() })
	return &Type{Kind: KindUnion, Members: deduped}
}

// IsNull reports whether t is exactly the null primitive.
func (t *Type) IsNull() bool { return t != nil && t.Kind == KindPrimitive && t.Name == NullType }

// IsVariant reports whether t is the variant bottom type.
func (t *Type) IsVariant() bool { return t != nil && t.Kind == KindPrimitive && t.Name == Variant }

// String renders t using the canonical display grammar:
// `Callable[[int, String], bool]`, `Array[Dictionary[String, int]]`,
// `T1 | T2`.
func (t *Type) String() string {
	if t == nil {
		return Variant
	}
	switch t.Kind {
	case KindPrimitive, KindNamed, KindPackedArray:
		return t.Name
	case KindArray:
		return "Array[" + t.Elem.String() + "]"
	case KindDictionary:
		return "Dictionary[" + t.Key.String() + ", " + t.Elem.String() + "]"
	case KindCallable:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "Callable[[" + strings.Join(parts, ", ") + "], " + t.Elem.String() + "]"
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	default:
		return "Unknown"
	}
}

// Equal reports whether a and b are structurally equal after
// canonicalization. Union member order never matters since Union
// always sorts its members before returning.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPrimitive, KindNamed, KindPackedArray:
		return a.Name == b.Name
	case KindArray:
		return Equal(a.Elem, b.Elem)
	case KindDictionary:
		return Equal(a.Key, b.Key) && Equal(a.Elem, b.Elem)
	case KindCallable:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return Equal(a.Elem, b.Elem)
	case KindUnion:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if !Equal(a.Members[i], b.Members[i]) {
				return false
			}
		}
		return true
	case KindUnknown:
		return true
	default:
		return false
	}
}

// Assignable reports whether a value of type from may be assigned to a
// symbol declared type to: identical types are always assignable;
// int is assignable to float (the diagnostic engine's one implicit
// numeric widening); null is assignable to any reference type (Named,
// Array, Dictionary, PackedArray, Callable — anything but a value
// primitive); and everything is assignable to Variant.
func Assignable(from, to *Type) bool {
	if from == nil || to == nil {
		return true
	}
	if to.IsVariant() || Equal(from, to) {
		return true
	}
	if from.Kind == KindPrimitive && from.Name == Int && to.Kind == KindPrimitive && to.Name == Float {
		return true
	}
	if from.IsNull() && isReferenceType(to) {
		return true
	}
	if from.Kind == KindUnion {
		for _, m := range from.Members {
			if !Assignable(m, to) {
				return false
			}
		}
		return true
	}
	return false
}

func isReferenceType(t *Type) bool {
	switch t.Kind {
	case KindNamed, KindArray, KindDictionary, KindPackedArray, KindCallable:
		return true
	default:
		return false
	}
}

// ExtractCallableReturnType parses a canonical Callable display string
// and returns its return type's name, e.g. "R" from
// "Callable[[int], R]". It returns "", false for the plain "Callable"
// or any string that does not parse as a bracketed callable signature.
func ExtractCallableReturnType(display string) (string, bool) {
	params, ret, ok := splitCallable(display)
	_ = params
	return ret, ok
}

// ExtractCallableParameterTypes parses a canonical Callable display
// string and returns its parameter type names in order. It returns
// nil, false for the plain "Callable" or any unparseable form.
func ExtractCallableParameterTypes(display string) ([]string, bool) {
	params, _, ok := splitCallable(display)
	return params, ok
}

// splitCallable parses "Callable[[P1, P2], R]" into (["P1","P2"], "R",
// true). Nesting inside P or R (e.g. a parameter itself being another
// Callable or a generic type) is respected by bracket-depth tracking,
// so commas inside a nested generic do not split the top-level list.
func splitCallable(display string) ([]string, string, bool) {
	const prefix = "Callable[["
	if !strings.HasPrefix(display, prefix) {
		return nil, "", false
	}
	rest := display[len(prefix):]
	end := matchingBracketEnd(rest)
	if end < 0 {
		return nil, "", false
	}
	paramsPart := rest[:end]
	remainder := rest[end+1:]
	remainder = strings.TrimPrefix(remainder, ", ")
	remainder = strings.TrimSuffix(remainder, "]")
	if remainder == "" {
		return nil, "", false
	}
	var params []string
	if strings.TrimSpace(paramsPart) != "" {
		params = splitTopLevel(paramsPart)
	}
	return params, remainder, true
}

// matchingBracketEnd finds the index of the ']' that closes the '['
// implicitly opened at depth 1 before s begins, or -1 if s never
// returns to depth 0.
func matchingBracketEnd(s string) int {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on ", " while respecting bracket nesting, so
// "Array[int], String" splits into ["Array[int]", "String"] rather
// than breaking inside the nested brackets.
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}
