// Package flow implements a per-method flow analyzer: it walks a
// method body statement by statement, carrying a
// FlowState that assigns every in-scope variable a refined type,
// narrowed by the guards of any enclosing if/while/match branch.
package flow

import "github.com/gdtoolkit/sema/semtype"

// TerminationKind records why control flow stopped reaching the end of
// a FlowState's branch.
type TerminationKind int

const (
	TerminationNone TerminationKind = iota
	TerminationReturn
	TerminationBreak
	TerminationContinue
)

type varEntry struct {
	declaredType    *semtype.Type
	currentType     *semtype.Type
	narrowedType    *semtype.Type
	nonNull         bool
	potentiallyNull bool
}

func (e *varEntry) clone() *varEntry {
	cp := *e
	return &cp
}

func (e *varEntry) effective() *semtype.Type {
	if e.narrowedType != nil {
		return e.narrowedType
	}
	if e.currentType != nil {
		return e.currentType
	}
	if e.declaredType != nil {
		return e.declaredType
	}
	return semtype.Primitive(semtype.Variant)
}

// FlowState is the narrowed-type environment at one program point. The
// zero value is a valid empty state.
type FlowState struct {
	vars       map[string]*varEntry
	terminated TerminationKind
}

// NewFlowState returns an empty, non-terminated state.
func NewFlowState() *FlowState {
	return &FlowState{vars: map[string]*varEntry{}}
}

func (s *FlowState) ensure(name string) *varEntry {
	if s.vars == nil {
		s.vars = map[string]*varEntry{}
	}
	e, ok := s.vars[name]
	if !ok {
		e = &varEntry{}
		s.vars[name] = e
	}
	return e
}

// Declare introduces a new entry for name. Either type may be nil.
func (s *FlowState) Declare(name string, declaredType, initialType *semtype.Type) {
	if s.vars == nil {
		s.vars = map[string]*varEntry{}
	}
	s.vars[name] = &varEntry{declaredType: declaredType, currentType: initialType}
}

// SetType replaces name's current type and clears any narrowing —
// reassigning a variable invalidates whatever guard justified the
// prior narrowed type.
func (s *FlowState) SetType(name string, t *semtype.Type) {
	e := s.ensure(name)
	e.currentType = t
	e.narrowedType = nil
}

// NarrowType marks name as narrowed to t for the remainder of this
// state's branch.
func (s *FlowState) NarrowType(name string, t *semtype.Type) {
	s.ensure(name).narrowedType = t
}

// MarkNonNull and MarkPotentiallyNull are narrowing flags independent
// of the type narrowing above (a validity check narrows nullability,
// not necessarily the declared type).
func (s *FlowState) MarkNonNull(name string) {
	e := s.ensure(name)
	e.nonNull = true
	e.potentiallyNull = false
}

func (s *FlowState) MarkPotentiallyNull(name string) {
	e := s.ensure(name)
	e.potentiallyNull = true
	e.nonNull = false
}

func (s *FlowState) IsNonNull(name string) bool {
	e, ok := s.vars[name]
	return ok && e.nonNull
}

func (s *FlowState) IsPotentiallyNull(name string) bool {
	e, ok := s.vars[name]
	return ok && e.potentiallyNull
}

// CreateChild returns a copy-on-write snapshot usable as an
// independent sibling branch.
func (s *FlowState) CreateChild() *FlowState {
	child := &FlowState{vars: make(map[string]*varEntry, len(s.vars)), terminated: s.terminated}
	for k, v := range s.vars {
		child.vars[k] = v.clone()
	}
	return child
}

// MarkTerminated records that this branch stops reaching its natural
// end via return/break/continue.
func (s *FlowState) MarkTerminated(kind TerminationKind) {
	s.terminated = kind
}

func (s *FlowState) Terminated() TerminationKind {
	return s.terminated
}

// TypeOf implements infer.VariableTypeLookup: it is the seam the type
// inference engine uses to consult this state's narrowing without
// package infer importing package flow.
func (s *FlowState) TypeOf(name string) (*semtype.Type, bool) {
	e, ok := s.vars[name]
	if !ok {
		return nil, false
	}
	return e.effective(), true
}

func (s *FlowState) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// GetTypeSnapshot returns every variable's current effective type, for
// fixed-point convergence checks.
func (s *FlowState) GetTypeSnapshot() map[string]*semtype.Type {
	out := make(map[string]*semtype.Type, len(s.vars))
	for k, e := range s.vars {
		out[k] = e.effective()
	}
	return out
}

// MatchesSnapshot reports whether every variable in snap still has an
// equal effective type in s (and s declares nothing snap doesn't).
func (s *FlowState) MatchesSnapshot(snap map[string]*semtype.Type) bool {
	if len(snap) != len(s.vars) {
		return false
	}
	for k, t := range snap {
		e, ok := s.vars[k]
		if !ok || !semtype.Equal(e.effective(), t) {
			return false
		}
	}
	return true
}

func typeMembers(t *semtype.Type) []*semtype.Type {
	if t == nil {
		return nil
	}
	if t.Kind == semtype.KindUnion {
		return t.Members
	}
	return []*semtype.Type{t}
}

func isTypeSubset(a, b *semtype.Type) bool {
	for _, am := range typeMembers(a) {
		found := false
		for _, bm := range typeMembers(b) {
			if semtype.Equal(am, bm) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsSubsetOf holds when every variable in s has its current type set
// contained in other's. The empty state is a subset of any state; a
// terminated state is a subset only of a state terminated the same
// way.
func (s *FlowState) IsSubsetOf(other *FlowState) bool {
	if len(s.vars) == 0 {
		return true
	}
	if s.terminated != other.terminated {
		return false
	}
	for k, e := range s.vars {
		oe, ok := other.vars[k]
		if !ok {
			return false
		}
		if !isTypeSubset(e.effective(), oe.effective()) {
			return false
		}
	}
	return true
}

// maxLoopUnionMembers bounds how many distinct members a variable's
// type may accumulate across loop iterations before MergeInto widens
// it to Variant outright, on top of the hard iteration cap.
const maxLoopUnionMembers = 4

func widenIfOvergrown(t *semtype.Type) *semtype.Type {
	if t.Kind == semtype.KindUnion && len(t.Members) > maxLoopUnionMembers {
		return semtype.Primitive(semtype.Variant)
	}
	return t
}

// MergeInto folds s's variables into acc by union, the monotonic join
// the fixed-point loop iterates with. It reports whether acc changed.
// A variable whose union keeps growing past maxLoopUnionMembers widens
// to Variant rather than accumulating indefinitely.
func (s *FlowState) MergeInto(acc *FlowState) bool {
	changed := false
	for k, e := range s.vars {
		accEntry, ok := acc.vars[k]
		if !ok {
			acc.ensure(k)
			accEntry = acc.vars[k]
			accEntry.currentType = e.effective()
			changed = true
			continue
		}
		union := widenIfOvergrown(semtype.Union(accEntry.effective(), e.effective()))
		if !semtype.Equal(union, accEntry.effective()) {
			accEntry.currentType = union
			accEntry.narrowedType = nil
			changed = true
		}
	}
	return changed
}

// MergeBranches implements the §3 join: if exactly one side
// terminated, the merge is the other side; if both terminated, the
// merge stays terminated; otherwise every variable's type becomes the
// union of its type on each side (falling back to parent's type for a
// variable only one side touched).
func MergeBranches(a, b, parent *FlowState) *FlowState {
	if a.terminated != TerminationNone && b.terminated == TerminationNone {
		return b.CreateChild()
	}
	if b.terminated != TerminationNone && a.terminated == TerminationNone {
		return a.CreateChild()
	}
	if a.terminated != TerminationNone && b.terminated != TerminationNone {
		out := parent.CreateChild()
		out.terminated = a.terminated
		return out
	}

	out := &FlowState{vars: map[string]*varEntry{}}
	seen := map[string]bool{}
	for k := range a.vars {
		seen[k] = true
	}
	for k := range b.vars {
		seen[k] = true
	}
	for k := range parent.vars {
		seen[k] = true
	}
	for k := range seen {
		ea, inA := a.vars[k]
		eb, inB := b.vars[k]
		ep, inP := parent.vars[k]
		switch {
		case inA && inB:
			out.vars[k] = &varEntry{
				currentType:     semtype.Union(ea.effective(), eb.effective()),
				nonNull:         ea.nonNull && eb.nonNull,
				potentiallyNull: ea.potentiallyNull || eb.potentiallyNull,
			}
		case inA && !inB:
			base := ea.effective()
			if inP {
				base = semtype.Union(base, ep.effective())
			}
			out.vars[k] = &varEntry{currentType: base, nonNull: ea.nonNull && inP && ep.nonNull}
		case inB && !inA:
			base := eb.effective()
			if inP {
				base = semtype.Union(base, ep.effective())
			}
			out.vars[k] = &varEntry{currentType: base, nonNull: eb.nonNull && inP && ep.nonNull}
		default:
			out.vars[k] = ep.clone()
		}
	}
	return out
}
