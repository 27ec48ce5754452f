package flow

import (
	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

// NarrowEffect is the one concrete consequence a guard's true or false
// branch has on a single variable: narrow its type, remove a member
// from its union, and/or flag nullability. Modelling effects as data
// rather than closures lets `or`'s "narrowings common to both
// operands" rule compare them for equality.
type NarrowEffect struct {
	Var             string
	NarrowType      *semtype.Type
	RemoveFromUnion *semtype.Type
	NonNull         *bool // nil = untouched, else mark_non_null(true)/mark_potentially_null(false)
}

func (ne NarrowEffect) equal(other NarrowEffect) bool {
	if ne.Var != other.Var {
		return false
	}
	if (ne.NarrowType == nil) != (other.NarrowType == nil) {
		return false
	}
	if ne.NarrowType != nil && !semtype.Equal(ne.NarrowType, other.NarrowType) {
		return false
	}
	if (ne.RemoveFromUnion == nil) != (other.RemoveFromUnion == nil) {
		return false
	}
	if ne.RemoveFromUnion != nil && !semtype.Equal(ne.RemoveFromUnion, other.RemoveFromUnion) {
		return false
	}
	if (ne.NonNull == nil) != (other.NonNull == nil) {
		return false
	}
	if ne.NonNull != nil && *ne.NonNull != *other.NonNull {
		return false
	}
	return true
}

// Apply folds ne into state.
func (ne NarrowEffect) Apply(state *FlowState) {
	if ne.NarrowType != nil {
		state.NarrowType(ne.Var, ne.NarrowType)
	}
	if ne.RemoveFromUnion != nil {
		cur, ok := state.TypeOf(ne.Var)
		if ok && cur.Kind == semtype.KindUnion {
			var kept []*semtype.Type
			for _, m := range cur.Members {
				if !semtype.Equal(m, ne.RemoveFromUnion) {
					kept = append(kept, m)
				}
			}
			if len(kept) > 0 {
				state.NarrowType(ne.Var, semtype.Union(kept...))
			}
		}
	}
	if ne.NonNull != nil {
		if *ne.NonNull {
			state.MarkNonNull(ne.Var)
		} else {
			state.MarkPotentiallyNull(ne.Var)
		}
	}
}

func applyAll(effects []NarrowEffect, state *FlowState) {
	for _, e := range effects {
		e.Apply(state)
	}
}

func boolPtr(b bool) *bool { return &b }

// identifierName returns a bare identifier expression's name, or ""
// for anything else.
func identifierName(n *syntax.Node) string {
	if n == nil || n.Kind != syntax.NodeIdentifierExpr {
		return ""
	}
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	// `null` and `self` lex as keywords but still wrap as NodeIdentifierExpr.
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryKeyword {
			return t.Text
		}
	}
	return ""
}

func exprChildren(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			out = append(out, cn)
		}
	}
	return out
}

func operatorText(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && (t.Category == syntax.CategoryOperator || t.Category == syntax.CategoryKeyword) {
			return t.Text
		}
	}
	return ""
}

func callName(call *syntax.Node) string {
	if call.Kind != syntax.NodeCallExpr || len(call.Children) == 0 {
		return ""
	}
	callee, ok := call.Children[0].(*syntax.Node)
	if !ok {
		return ""
	}
	if callee.Kind == syntax.NodeIdentifierExpr {
		return identifierName(callee)
	}
	if callee.Kind == syntax.NodeMemberAccessExpr {
		for i := len(callee.Children) - 1; i >= 0; i-- {
			if t, ok := callee.Children[i].(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
				return t.Text
			}
		}
	}
	return ""
}

func callArgs(call *syntax.Node) []*syntax.Node {
	for _, c := range call.Children {
		if cn, ok := c.(*syntax.Node); ok && cn.Kind == syntax.NodeArgumentList {
			return exprChildren(cn)
		}
	}
	return nil
}

func callReceiver(call *syntax.Node) *syntax.Node {
	if len(call.Children) == 0 {
		return nil
	}
	callee, ok := call.Children[0].(*syntax.Node)
	if !ok || callee.Kind != syntax.NodeMemberAccessExpr || len(callee.Children) == 0 {
		return nil
	}
	recv, _ := callee.Children[0].(*syntax.Node)
	return recv
}

var typeConstantToName = map[string]string{
	"TYPE_NIL": semtype.NullType, "TYPE_BOOL": semtype.Bool,
	"TYPE_INT": semtype.Int, "TYPE_FLOAT": semtype.Float,
	"TYPE_STRING": semtype.String, "TYPE_ARRAY": "Array",
	"TYPE_DICTIONARY": "Dictionary", "TYPE_OBJECT": "Object",
	"TYPE_STRING_NAME": semtype.String, "TYPE_VECTOR2": "Vector2",
	"TYPE_VECTOR3": "Vector3", "TYPE_COLOR": "Color",
}

// AnalyzeGuard derives the narrowing effects implied by cond being
// true and by cond being false.
func AnalyzeGuard(cond *syntax.Node, e *infer.Engine, s *scope.Scope) (trueE, falseE []NarrowEffect) {
	if cond == nil {
		return nil, nil
	}
	switch cond.Kind {
	case syntax.NodeGroupExpr:
		if inner := firstNode(cond); inner != nil {
			return AnalyzeGuard(inner, e, s)
		}
	case syntax.NodeUnaryExpr:
		if operatorText(cond) == "not" {
			if inner := lastNode(cond); inner != nil {
				t, f := AnalyzeGuard(inner, e, s)
				return f, t
			}
		}
	case syntax.NodeBinaryExpr:
		return analyzeBinaryGuard(cond, e, s)
	case syntax.NodeCallExpr:
		return analyzeCallGuard(cond, e, s)
	case syntax.NodeIdentifierExpr:
		// bare truthy check `if x:`
		name := identifierName(cond)
		if name != "" {
			return []NarrowEffect{{Var: name, NonNull: boolPtr(true)}},
				[]NarrowEffect{{Var: name, NonNull: boolPtr(false)}}
		}
	}
	return nil, nil
}

func firstNode(n *syntax.Node) *syntax.Node {
	cs := exprChildren(n)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

func lastNode(n *syntax.Node) *syntax.Node {
	cs := exprChildren(n)
	if len(cs) == 0 {
		return nil
	}
	return cs[len(cs)-1]
}

func analyzeBinaryGuard(cond *syntax.Node, e *infer.Engine, s *scope.Scope) (trueE, falseE []NarrowEffect) {
	op := operatorText(cond)
	operands := exprChildren(cond)
	if len(operands) != 2 {
		return nil, nil
	}
	left, right := operands[0], operands[1]

	switch op {
	case "and":
		lt, _ := AnalyzeGuard(left, e, s)
		rt, _ := AnalyzeGuard(right, e, s)
		return append(append([]NarrowEffect{}, lt...), rt...), nil
	case "or":
		lt, lf := AnalyzeGuard(left, e, s)
		rt, rf := AnalyzeGuard(right, e, s)
		return intersectEffects(lt, rt), append(append([]NarrowEffect{}, lf...), rf...)
	case "is":
		name := identifierName(left)
		if name == "" {
			return nil, nil
		}
		typeName := identifierName(right)
		if typeName == "" {
			return nil, nil
		}
		target := semtype.Named(typeName)
		trueE = []NarrowEffect{{Var: name, NarrowType: target}}
		falseE = []NarrowEffect{{Var: name, RemoveFromUnion: target}}
		return trueE, falseE
	case "in":
		return nil, nil
	case "==", "!=":
		return analyzeEqualityGuard(op, left, right, e, s)
	}
	return nil, nil
}

func analyzeEqualityGuard(op string, left, right *syntax.Node, e *infer.Engine, s *scope.Scope) (trueE, falseE []NarrowEffect) {
	// typeof(x) == TYPE_*
	if left.Kind == syntax.NodeCallExpr && callName(left) == "typeof" {
		args := callArgs(left)
		if len(args) == 1 {
			name := identifierName(args[0])
			constName := identifierName(right)
			if name != "" && constName != "" {
				if mapped, ok := typeConstantToName[constName]; ok {
					target := semtype.Named(mapped)
					eff := []NarrowEffect{{Var: name, NarrowType: target}}
					if op == "==" {
						return eff, []NarrowEffect{{Var: name, RemoveFromUnion: target}}
					}
					return []NarrowEffect{{Var: name, RemoveFromUnion: target}}, eff
				}
			}
		}
		return nil, nil
	}

	name := identifierName(left)
	if name == "" {
		return nil, nil
	}

	// x == null / x != null
	if identifierName(right) == "null" || isNullLiteral(right) {
		nullEff := []NarrowEffect{{Var: name, NarrowType: semtype.Primitive(semtype.NullType), NonNull: boolPtr(false)}}
		nonNullEff := []NarrowEffect{{Var: name, NonNull: boolPtr(true)}}
		if op == "==" {
			return nullEff, nonNullEff
		}
		return nonNullEff, nullEff
	}

	// literal equality
	if lit, ok := literalType(right, e, s); ok {
		eff := []NarrowEffect{{Var: name, NarrowType: lit, NonNull: boolPtr(true)}}
		if op == "==" {
			return eff, nil
		}
		return nil, eff
	}
	return nil, nil
}

func isNullLiteral(n *syntax.Node) bool {
	return identifierName(n) == "null"
}

func literalType(n *syntax.Node, e *infer.Engine, s *scope.Scope) (*semtype.Type, bool) {
	switch n.Kind {
	case syntax.NodeNumberExpr, syntax.NodeStringExpr, syntax.NodeBooleanExpr:
		return e.InferType(n, s, nil), true
	default:
		return nil, false
	}
}

func analyzeCallGuard(call *syntax.Node, e *infer.Engine, s *scope.Scope) (trueE, falseE []NarrowEffect) {
	name := callName(call)
	switch name {
	case "is_instance_valid":
		args := callArgs(call)
		if len(args) == 1 {
			if v := identifierName(args[0]); v != "" {
				return []NarrowEffect{{Var: v, NonNull: boolPtr(true)}}, nil
			}
		}
	case "is_valid":
		if recv := callReceiver(call); recv != nil {
			if v := identifierName(recv); v != "" {
				return []NarrowEffect{{Var: v, NonNull: boolPtr(true)}},
					[]NarrowEffect{{Var: v, NonNull: boolPtr(false)}}
			}
		}
	case "is_null":
		if recv := callReceiver(call); recv != nil {
			if v := identifierName(recv); v != "" {
				return []NarrowEffect{{Var: v, NonNull: boolPtr(false)}},
					[]NarrowEffect{{Var: v, NonNull: boolPtr(true)}}
			}
		}
	}
	return nil, nil
}

// intersectEffects keeps only the effects that appear, equal, in both
// slices — `A or B`'s true branch: narrowings common to both operands.
func intersectEffects(a, b []NarrowEffect) []NarrowEffect {
	var out []NarrowEffect
	for _, ea := range a {
		for _, eb := range b {
			if ea.equal(eb) {
				out = append(out, ea)
				break
			}
		}
	}
	return out
}
