package infer

import "github.com/gdtoolkit/sema/semtype"

// Confidence grades how sure a TypeInfo's effective type is.
type Confidence int

const (
	Certain Confidence = iota
	Likely
	Guess
	UnknownConfidence
)

func (c Confidence) String() string {
	switch c {
	case Certain:
		return "certain"
	case Likely:
		return "likely"
	case Guess:
		return "guess"
	default:
		return "unknown"
	}
}

// TypeInfo is the full picture of a declaration or expression's type:
// what was written, what was inferred, and what actually applies at
// this program point once narrowing (supplied by the flow analyzer
// through a VariableTypeLookup, never computed here) is folded in.
type TypeInfo struct {
	DeclaredType    *semtype.Type
	InferredType    *semtype.Type
	EffectiveType   *semtype.Type
	Confidence      Confidence
	Nullable        bool
	PotentiallyNull bool
	IsUnion         bool
	UnionMembers    []*semtype.Type

	ContainerElementType *semtype.Type
	ContainerKeyType     *semtype.Type
}

// effectiveType implements `effective_type = narrowed ?? declared ??
// inferred ?? variant`; narrowed is passed in since only a flow state
// knows it.
func effectiveType(narrowed, declared, inferred *semtype.Type) *semtype.Type {
	if narrowed != nil {
		return narrowed
	}
	if declared != nil {
		return declared
	}
	if inferred != nil {
		return inferred
	}
	return semtype.Primitive(semtype.Variant)
}

// TypeNode is a generics-preserving surface representation of a
// semtype.Type, used by InferTypeNode. It mirrors the semantic type's
// own shape rather than introducing a second type algebra.
type TypeNode struct {
	Name string
	Args []*TypeNode
}

func toTypeNode(t *semtype.Type) *TypeNode {
	if t == nil {
		return &TypeNode{Name: semtype.Variant}
	}
	switch t.Kind {
	case semtype.KindArray:
		return &TypeNode{Name: "Array", Args: []*TypeNode{toTypeNode(t.Elem)}}
	case semtype.KindDictionary:
		return &TypeNode{Name: "Dictionary", Args: []*TypeNode{toTypeNode(t.Key), toTypeNode(t.Elem)}}
	case semtype.KindCallable:
		args := make([]*TypeNode, 0, len(t.Params)+1)
		for _, p := range t.Params {
			args = append(args, toTypeNode(p))
		}
		args = append(args, toTypeNode(t.Elem))
		return &TypeNode{Name: "Callable", Args: args}
	case semtype.KindUnion:
		args := make([]*TypeNode, len(t.Members))
		for i, m := range t.Members {
			args[i] = toTypeNode(m)
		}
		return &TypeNode{Name: "Union", Args: args}
	default:
		return &TypeNode{Name: t.String()}
	}
}

// ContainerInfo answers GetContainerElementType for a container-typed
// symbol.
type ContainerInfo struct {
	ElementType *semtype.Type
	KeyType     *semtype.Type // only meaningful for Dictionary containers
}

// VariableTypeLookup is how the flow analyzer's per-point narrowing
// reaches identifier-reference inference, without infer depending on
// package flow. A nil VariableTypeLookup (or one that never matches)
// just means "no narrowing available" — InferType still falls back to
// the symbol's declared/inferred type.
type VariableTypeLookup interface {
	TypeOf(name string) (*semtype.Type, bool)
}
