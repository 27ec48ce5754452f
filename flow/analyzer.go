package flow

import (
	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

// Analyzer runs the flow pass over one method body at a time, against
// a shared read-only scope graph and type inference
// engine — separate Analyzers may run over different methods in
// parallel, since neither the graph nor the engine's runtime provider is
// mutated during analysis. One Analyzer is not safe for concurrent
// calls: AnalyzeMethod appends to its Observations and NarrowingEvents
// without locking.
type Analyzer struct {
	Engine            *infer.Engine
	Graph             *scope.Graph
	MaxLoopIterations int

	Observations []ContainerObservation

	// NarrowingEvents records every guard-driven narrowing applied
	// while analysing the current method, for the diagnostic engine's
	// flow-narrowing report.
	NarrowingEvents []NarrowingEvent
}

// NarrowingEvent is one recorded instance of a guard narrowing a
// variable's type inside the branch it guards.
type NarrowingEvent struct {
	Var          string
	NarrowedType *semtype.Type
	BaseType     *semtype.Type
	Pos          syntax.Position
}

// NewAnalyzer returns an Analyzer with the default fixed-point
// iteration cap.
func NewAnalyzer(e *infer.Engine, g *scope.Graph) *Analyzer {
	return &Analyzer{Engine: e, Graph: g, MaxLoopIterations: 10}
}

func findChildOfKind(n *syntax.Node, kind syntax.NodeKind) *syntax.Node {
	for _, c := range n.Children {
		if nd, ok := c.(*syntax.Node); ok && nd.Kind == kind {
			return nd
		}
	}
	return nil
}

func findChildrenOfKind(n *syntax.Node, kind syntax.NodeKind) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.Children {
		if nd, ok := c.(*syntax.Node); ok && nd.Kind == kind {
			out = append(out, nd)
		}
	}
	return out
}

func declaredName(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	return ""
}

// AnalyzeMethod runs the flow pass over a method declaration's body
// and returns the state at its end. The per-program-point states the
// engine consulted along the way are not kept; only the method's final
// state is returned, mirroring the other top-level operations' "whole
// result" shape.
func (a *Analyzer) AnalyzeMethod(method *syntax.Node) *FlowState {
	methodScope := a.Graph.ScopeFor(method)
	state := NewFlowState()
	if list := findChildOfKind(method, syntax.NodeParameterList); list != nil {
		for _, p := range findChildrenOfKind(list, syntax.NodeParameter) {
			name := declaredName(p)
			if name == "" {
				continue
			}
			info := a.Engine.GetTypeInfo(p, methodScope, state)
			state.Declare(name, info.DeclaredType, info.InferredType)
		}
	}
	body := findChildOfKind(method, syntax.NodeBlock)
	if body == nil {
		return state
	}
	return a.analyzeBlock(body, state)
}

// analyzeBlock looks up the scope the builder created for this exact
// block node and walks its statements in order.
func (a *Analyzer) analyzeBlock(block *syntax.Node, state *FlowState) *FlowState {
	blockScope := a.Graph.ScopeFor(block)
	for _, c := range block.Children {
		stmt, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		if state.Terminated() != TerminationNone {
			break
		}
		state = a.analyzeStatement(stmt, blockScope, state)
	}
	return state
}

func (a *Analyzer) analyzeStatement(stmt *syntax.Node, s *scope.Scope, state *FlowState) *FlowState {
	switch stmt.Kind {
	case syntax.NodeVariableDecl, syntax.NodeConstantDecl:
		name := declaredName(stmt)
		info := a.Engine.GetTypeInfo(stmt, s, state)
		if name != "" {
			state.Declare(name, info.DeclaredType, info.InferredType)
		}
	case syntax.NodeAssignmentStmt:
		a.analyzeAssignment(stmt, s, state)
	case syntax.NodeExpressionStmt:
		a.collectExpressionUsage(stmt, s, state)
	case syntax.NodeReturnStmt:
		state.MarkTerminated(TerminationReturn)
	case syntax.NodeBreakStmt:
		state.MarkTerminated(TerminationBreak)
	case syntax.NodeContinueStmt:
		state.MarkTerminated(TerminationContinue)
	case syntax.NodeIfStmt:
		return a.analyzeIf(stmt, s, state)
	case syntax.NodeWhileStmt:
		return a.analyzeWhile(stmt, s, state)
	case syntax.NodeForStmt:
		return a.analyzeFor(stmt, s, state)
	case syntax.NodeMatchStmt:
		return a.analyzeMatch(stmt, s, state)
	}
	return state
}

func combineArithmetic(a, b *semtype.Type) *semtype.Type {
	if semtype.Equal(a, b) {
		return a
	}
	numeric := func(t *semtype.Type) bool {
		return t.Kind == semtype.KindPrimitive && (t.Name == semtype.Int || t.Name == semtype.Float)
	}
	if numeric(a) && numeric(b) {
		if a.Name == semtype.Float || b.Name == semtype.Float {
			return semtype.Primitive(semtype.Float)
		}
		return semtype.Primitive(semtype.Int)
	}
	return semtype.Primitive(semtype.Variant)
}

func (a *Analyzer) analyzeAssignment(stmt *syntax.Node, s *scope.Scope, state *FlowState) {
	operands := exprChildren(stmt)
	if len(operands) != 2 {
		return
	}
	lhs, rhs := operands[0], operands[1]
	op := operatorText(stmt)

	if lhs.Kind == syntax.NodeIndexerExpr {
		a.recordIndexAssignment(lhs, rhs, s, state)
		return
	}

	name := identifierName(lhs)
	if name == "" {
		return
	}
	rhsType := a.Engine.InferType(rhs, s, state)
	if op != "=" && state.Has(name) {
		cur, _ := state.TypeOf(name)
		rhsType = combineArithmetic(cur, rhsType)
	}
	if !state.Has(name) {
		state.Declare(name, nil, rhsType)
		return
	}
	state.SetType(name, rhsType)
}

// ContainerObservation is one recorded use of a container symbol that
// constrains its inferred element (and, for dictionaries, key) type.
type ContainerObservation struct {
	Symbol    string
	ValueType *semtype.Type
	KeyType   *semtype.Type
}

func (a *Analyzer) collectExpressionUsage(stmt *syntax.Node, s *scope.Scope, state *FlowState) {
	inner := firstNode(stmt)
	if inner == nil || inner.Kind != syntax.NodeCallExpr {
		return
	}
	if callName(inner) != "append" {
		return
	}
	recv := callReceiver(inner)
	if recv == nil {
		return
	}
	name := identifierName(recv)
	if name == "" {
		return
	}
	args := callArgs(inner)
	if len(args) != 1 {
		return
	}
	a.Observations = append(a.Observations, ContainerObservation{
		Symbol:    name,
		ValueType: a.Engine.InferType(args[0], s, state),
	})
}

func (a *Analyzer) recordIndexAssignment(indexer, rhs *syntax.Node, s *scope.Scope, state *FlowState) {
	operands := exprChildren(indexer)
	if len(operands) != 2 {
		return
	}
	base, key := operands[0], operands[1]
	name := identifierName(base)
	if name == "" {
		return
	}
	a.Observations = append(a.Observations, ContainerObservation{
		Symbol:    name,
		KeyType:   a.Engine.InferType(key, s, state),
		ValueType: a.Engine.InferType(rhs, s, state),
	})
}

// recordNarrowing appends one NarrowingEvent per effect in effects
// that actually narrows a type, captured against before's type for
// that variable (its state prior to the guard taking effect) and
// cond's source position.
func (a *Analyzer) recordNarrowing(effects []NarrowEffect, before *FlowState, cond *syntax.Node) {
	if cond == nil {
		return
	}
	tok := cond.FirstToken()
	var pos syntax.Position
	if tok != nil {
		pos = tok.Start
	}
	for _, e := range effects {
		if e.NarrowType == nil {
			continue
		}
		base, _ := before.TypeOf(e.Var)
		a.NarrowingEvents = append(a.NarrowingEvents, NarrowingEvent{
			Var: e.Var, NarrowedType: e.NarrowType, BaseType: base, Pos: pos,
		})
	}
}

func (a *Analyzer) analyzeIf(stmt *syntax.Node, s *scope.Scope, state *FlowState) *FlowState {
	cond := firstNode(stmt)
	trueE, falseE := AnalyzeGuard(cond, a.Engine, s)

	ifBody := findChildOfKind(stmt, syntax.NodeBlock)
	trueState := state.CreateChild()
	a.recordNarrowing(trueE, state, cond)
	applyAll(trueE, trueState)
	if ifBody != nil {
		trueState = a.analyzeBlock(ifBody, trueState)
	}

	elifs := findChildrenOfKind(stmt, syntax.NodeElifClause)
	elseClause := findChildOfKind(stmt, syntax.NodeElseClause)

	elseState := a.analyzeElseChain(elifs, elseClause, s, state, falseE)

	return MergeBranches(trueState, elseState, state)
}

func (a *Analyzer) analyzeElseChain(elifs []*syntax.Node, elseClause *syntax.Node, s *scope.Scope, state *FlowState, priorFalse []NarrowEffect) *FlowState {
	base := state.CreateChild()
	applyAll(priorFalse, base)

	if len(elifs) > 0 {
		clause := elifs[0]
		cond := firstNode(clause)
		trueE, falseE := AnalyzeGuard(cond, a.Engine, s)
		body := findChildOfKind(clause, syntax.NodeBlock)

		trueState := base.CreateChild()
		a.recordNarrowing(trueE, base, cond)
		applyAll(trueE, trueState)
		if body != nil {
			trueState = a.analyzeBlock(body, trueState)
		}
		restState := a.analyzeElseChain(elifs[1:], elseClause, s, base, falseE)
		return MergeBranches(trueState, restState, base)
	}

	if elseClause != nil {
		if body := findChildOfKind(elseClause, syntax.NodeBlock); body != nil {
			return a.analyzeBlock(body, base)
		}
	}
	return base
}

// analyzeWhile/analyzeFor fixed-point iterate: run the body from the
// pre-loop state (narrowed by the guard, for while), merge the
// result into an accumulator, and keep going until the accumulator
// stops changing or MaxLoopIterations is hit. The post-loop state
// unions the pre-loop state with whatever the fixed point converged
// to, since the loop may have executed zero times.
func (a *Analyzer) analyzeWhile(stmt *syntax.Node, s *scope.Scope, state *FlowState) *FlowState {
	cond := firstNode(stmt)
	body := findChildOfKind(stmt, syntax.NodeBlock)
	trueE, _ := AnalyzeGuard(cond, a.Engine, s)

	acc := state.CreateChild()
	if body == nil {
		return acc
	}
	for i := 0; i < a.MaxLoopIterations; i++ {
		iter := acc.CreateChild()
		applyAll(trueE, iter)
		out := a.analyzeBlock(body, iter)
		if out.Terminated() == TerminationBreak || out.Terminated() == TerminationContinue {
			out = out.CreateChild()
			out.MarkTerminated(TerminationNone)
		}
		changed := out.MergeInto(acc)
		if !changed {
			break
		}
	}
	return MergeBranches(state.CreateChild(), acc, state)
}

// elementTypeOf deduces a for-loop variable's type from the
// collection's semantic type.
func elementTypeOf(collectionType *semtype.Type) *semtype.Type {
	switch collectionType.Kind {
	case semtype.KindArray:
		return collectionType.Elem
	case semtype.KindDictionary:
		return collectionType.Key
	case semtype.KindPackedArray:
		return packedElementType(collectionType.Name)
	case semtype.KindNamed:
		switch collectionType.Name {
		case "Range":
			return semtype.Primitive(semtype.Int)
		case semtype.String:
			return semtype.Primitive(semtype.String)
		}
	}
	return semtype.Primitive(semtype.Variant)
}

func packedElementType(name string) *semtype.Type {
	switch name {
	case "PackedByteArray", "PackedInt32Array", "PackedInt64Array":
		return semtype.Primitive(semtype.Int)
	case "PackedFloat32Array", "PackedFloat64Array":
		return semtype.Primitive(semtype.Float)
	case "PackedStringArray":
		return semtype.Primitive(semtype.String)
	default:
		return semtype.Primitive(semtype.Variant)
	}
}

func (a *Analyzer) analyzeFor(stmt *syntax.Node, s *scope.Scope, state *FlowState) *FlowState {
	body := findChildOfKind(stmt, syntax.NodeBlock)
	if body == nil {
		return state
	}
	iterName := declaredName(stmt)
	var collectionExpr *syntax.Node
	for _, c := range exprChildren(stmt) {
		if c.Kind != syntax.NodeBlock && c.Kind != syntax.NodeTypeAnnotation {
			collectionExpr = c
			break
		}
	}
	var elemType *semtype.Type
	if collectionExpr != nil {
		elemType = elementTypeOf(a.Engine.InferType(collectionExpr, s, state))
	} else {
		elemType = semtype.Primitive(semtype.Variant)
	}

	loopScope := a.Graph.ScopeFor(body)
	acc := state.CreateChild()
	for i := 0; i < a.MaxLoopIterations; i++ {
		iter := acc.CreateChild()
		if iterName != "" {
			iter.Declare(iterName, nil, elemType)
		}
		out := a.analyzeBlock(body, iter)
		_ = loopScope
		if out.Terminated() == TerminationBreak || out.Terminated() == TerminationContinue {
			out = out.CreateChild()
			out.MarkTerminated(TerminationNone)
		}
		changed := out.MergeInto(acc)
		if !changed {
			break
		}
	}
	return MergeBranches(state.CreateChild(), acc, state)
}

func (a *Analyzer) analyzeMatch(stmt *syntax.Node, s *scope.Scope, state *FlowState) *FlowState {
	subject := firstNode(stmt)
	var subjectType *semtype.Type
	if subject != nil {
		subjectType = a.Engine.InferType(subject, s, state)
	} else {
		subjectType = semtype.Primitive(semtype.Variant)
	}

	cases := findChildrenOfKind(stmt, syntax.NodeMatchCase)
	if len(cases) == 0 {
		return state
	}

	var results []*FlowState
	for _, c := range cases {
		caseState := state.CreateChild()
		a.bindMatchPattern(c, subjectType, caseState)
		if body := findChildOfKind(c, syntax.NodeBlock); body != nil {
			caseState = a.analyzeBlock(body, caseState)
		}
		results = append(results, caseState)
	}

	merged := results[0]
	for _, r := range results[1:] {
		merged = MergeBranches(merged, r, state)
	}
	return merged
}

// bindMatchPattern declares a case's binding variable(s), if any,
// with the type the pattern implies.
func (a *Analyzer) bindMatchPattern(matchCase *syntax.Node, subjectType *semtype.Type, state *FlowState) {
	pattern := findChildOfKind(matchCase, syntax.NodeMatchPattern)
	if pattern == nil {
		return
	}
	inner := firstNode(pattern)
	if inner == nil {
		return
	}
	if inner.Kind == syntax.NodeBinaryExpr && operatorText(inner) == "is" {
		operands := exprChildren(inner)
		if len(operands) == 2 {
			if name := identifierName(operands[0]); name != "" {
				state.Declare(name, nil, semtype.Named(identifierName(operands[1])))
				return
			}
		}
	}
	if inner.Kind == syntax.NodeArrayExpr {
		for _, elem := range exprChildren(inner) {
			if name := identifierName(elem); name != "" && name != "_" {
				state.Declare(name, nil, elementTypeOf(subjectType))
			}
		}
		return
	}
	if inner.Kind == syntax.NodeDictionaryExpr {
		for _, entry := range findChildrenOfKind(inner, syntax.NodeDictionaryEntry) {
			operands := exprChildren(entry)
			if len(operands) == 0 {
				continue
			}
			value := operands[len(operands)-1]
			if name := identifierName(value); name != "" && name != "_" {
				valueType := semtype.Primitive(semtype.Variant)
				if subjectType.Kind == semtype.KindDictionary {
					valueType = subjectType.Elem
				}
				state.Declare(name, nil, valueType)
			}
		}
		return
	}
	if name := identifierName(inner); name != "" && name != "_" {
		state.Declare(name, nil, subjectType)
	}
}
