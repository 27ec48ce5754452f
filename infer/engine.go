// Package infer implements a flow-insensitive type inference engine:
// it assigns a semantic type to every literal, declaration, reference,
// indexer, member access, call, lambda, await and yield expression,
// consulting the scope graph and the runtime provider wherever a name
// needs resolving.
package infer

import (
	"strings"

	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

// Engine infers types against one tree's scope graph and one runtime
// provider.
type Engine struct {
	Graph    *scope.Graph
	Provider runtimeinfo.Provider
}

// NewEngine builds an Engine.
func NewEngine(g *scope.Graph, provider runtimeinfo.Provider) *Engine {
	return &Engine{Graph: g, Provider: provider}
}

// InferType infers expr's semantic type at the given lexical scope.
// vars, when non-nil, supplies the flow analyzer's current narrowing
// for identifier references; pass nil outside a flow analysis pass.
func (e *Engine) InferType(expr syntax.Element, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	n, ok := expr.(*syntax.Node)
	if !ok || n == nil {
		return semtype.Primitive(semtype.Variant)
	}
	switch n.Kind {
	case syntax.NodeNumberExpr:
		return e.inferNumberLiteral(n)
	case syntax.NodeStringExpr, syntax.NodeStringNameExpr, syntax.NodeGetNodeExpr:
		return semtype.Primitive(semtype.String)
	case syntax.NodeBooleanExpr:
		return semtype.Primitive(semtype.Bool)
	case syntax.NodeArrayExpr:
		return e.inferArrayLiteral(n, s, vars)
	case syntax.NodeDictionaryExpr:
		return e.inferDictLiteral(n, s, vars)
	case syntax.NodeIdentifierExpr:
		return e.inferIdentifier(n, s, vars)
	case syntax.NodeGroupExpr:
		return e.InferType(firstExprChild(n), s, vars)
	case syntax.NodeIndexerExpr:
		return e.inferIndexer(n, s, vars)
	case syntax.NodeMemberAccessExpr:
		return e.inferMemberAccess(n, s, vars)
	case syntax.NodeCallExpr:
		return e.inferCall(n, s, vars)
	case syntax.NodeLambdaExpr:
		return e.InferLambdaReturnSignature(n, s, vars)
	case syntax.NodeTernaryExpr:
		return e.inferTernary(n, s, vars)
	case syntax.NodeUnaryExpr:
		return e.inferUnary(n, s, vars)
	case syntax.NodeBinaryExpr:
		return e.inferBinary(n, s, vars)
	case syntax.NodeAwaitExpr:
		return e.inferAwait(n, s, vars)
	case syntax.NodeYieldExpr:
		return semtype.Named("Signal")
	case syntax.NodeRestExpr:
		return semtype.Primitive(semtype.Variant)
	default:
		return semtype.Primitive(semtype.Variant)
	}
}

// InferTypeNode is InferType's generics-preserving counterpart.
func (e *Engine) InferTypeNode(expr syntax.Element, s *scope.Scope, vars VariableTypeLookup) *TypeNode {
	return toTypeNode(e.InferType(expr, s, vars))
}

// GetTypeInfo computes the full TypeInfo of a declaration
// (NodeVariableDecl/NodeConstantDecl/NodeParameter) or a plain
// expression.
func (e *Engine) GetTypeInfo(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) TypeInfo {
	switch n.Kind {
	case syntax.NodeVariableDecl, syntax.NodeConstantDecl:
		return e.declTypeInfo(n, s, vars)
	case syntax.NodeParameter:
		return e.parameterTypeInfo(n, s, vars)
	default:
		inferred := e.InferType(n, s, vars)
		info := TypeInfo{InferredType: inferred, Confidence: Likely}
		info.Nullable = inferred.IsNull()
		if inferred.Kind == semtype.KindUnion {
			info.IsUnion = true
			info.UnionMembers = inferred.Members
		}
		var narrowed *semtype.Type
		if vars != nil && n.Kind == syntax.NodeIdentifierExpr {
			if text, ok := firstTokenText(n, syntax.CategoryIdentifier); ok {
				narrowed, _ = vars.TypeOf(text)
			}
		}
		info.EffectiveType = effectiveType(narrowed, nil, inferred)
		return info
	}
}

func (e *Engine) declTypeInfo(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) TypeInfo {
	var declared *semtype.Type
	if ann := findChildOfKind(n, syntax.NodeTypeAnnotation); ann != nil {
		declared = resolveTypeAnnotation(ann)
	}
	var inferred *semtype.Type
	if init := declInitializer(n); init != nil {
		inferred = e.InferType(init, s, vars)
	}
	info := TypeInfo{DeclaredType: declared, InferredType: inferred}
	switch {
	case declared != nil:
		info.Confidence = Certain
	case inferred != nil:
		declared = inferred
		info.DeclaredType = inferred
		info.Confidence = Likely
	default:
		info.Confidence = Guess
		declared = semtype.Primitive(semtype.Variant)
		info.DeclaredType = declared
	}
	info.Nullable = declared.IsNull() || (inferred != nil && inferred.IsNull())
	info.EffectiveType = effectiveType(nil, declared, inferred)
	return info
}

func (e *Engine) parameterTypeInfo(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) TypeInfo {
	if ann := findChildOfKind(n, syntax.NodeTypeAnnotation); ann != nil {
		declared := resolveTypeAnnotation(ann)
		return TypeInfo{DeclaredType: declared, Confidence: Certain, EffectiveType: declared}
	}
	if def := declInitializer(n); def != nil {
		inferred := e.InferType(def, s, vars)
		return TypeInfo{InferredType: inferred, Confidence: Likely, EffectiveType: inferred}
	}
	variant := semtype.Primitive(semtype.Variant)
	return TypeInfo{DeclaredType: variant, Confidence: Guess, EffectiveType: variant}
}

// declInitializer returns a variable/constant/parameter declaration's
// initializer or default-value expression, the last child when it is
// not a type annotation or the declaration's own name token.
func declInitializer(n *syntax.Node) syntax.Element {
	if len(n.Children) == 0 {
		return nil
	}
	last := n.Children[len(n.Children)-1]
	if ln, ok := last.(*syntax.Node); ok && ln.Kind != syntax.NodeTypeAnnotation {
		return ln
	}
	return nil
}

func firstExprChild(n *syntax.Node) syntax.Element {
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			return cn
		}
	}
	return nil
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

// firstTokenText returns the text of the first direct token child of n
// matching category.
func firstTokenText(n *syntax.Node, category syntax.TokenCategory) (string, bool) {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == category {
			return t.Text, true
		}
	}
	return "", false
}

func (e *Engine) inferNumberLiteral(n *syntax.Node) *semtype.Type {
	text, _ := firstTokenText(n, syntax.CategoryNumber)
	if strings.Contains(text, ".") {
		return semtype.Primitive(semtype.Float)
	}
	return semtype.Primitive(semtype.Int)
}

func (e *Engine) inferArrayLiteral(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	var elems []*semtype.Type
	for _, c := range n.Children {
		cn, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		elems = append(elems, e.InferType(cn, s, vars))
	}
	if len(elems) == 0 {
		return semtype.Array(semtype.Primitive(semtype.Variant))
	}
	return semtype.Array(semtype.Union(elems...))
}

func (e *Engine) inferDictLiteral(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	var keys, values []*semtype.Type
	for _, entry := range findChildrenOfKind(n, syntax.NodeDictionaryEntry) {
		if len(entry.Children) < 2 {
			continue
		}
		keyExpr, _ := entry.Children[0].(*syntax.Node)
		valueExpr, _ := entry.Children[len(entry.Children)-1].(*syntax.Node)
		if scope.DictEntryKeyIsLiteralName(entry) {
			keys = append(keys, semtype.Primitive(semtype.String))
		} else if keyExpr != nil {
			keys = append(keys, e.InferType(keyExpr, s, vars))
		}
		if valueExpr != nil {
			values = append(values, e.InferType(valueExpr, s, vars))
		}
	}
	keyType := semtype.Primitive(semtype.Variant)
	if len(keys) > 0 {
		keyType = semtype.Union(keys...)
	}
	valueType := semtype.Primitive(semtype.Variant)
	if len(values) > 0 {
		valueType = semtype.Union(values...)
	}
	return semtype.Dictionary(keyType, valueType)
}

func builtinIdentifierType(name string) (*semtype.Type, bool) {
	switch name {
	case "self":
		return semtype.Primitive(semtype.Variant), true
	case "null":
		return semtype.Primitive(semtype.NullType), true
	case "true", "false":
		return semtype.Primitive(semtype.Bool), true
	}
	return nil, false
}

func (e *Engine) inferIdentifier(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	text, _ := firstTokenText(n, syntax.CategoryIdentifier)
	if text == "" {
		text, _ = firstTokenText(n, syntax.CategoryKeyword)
	}

	if vars != nil {
		if t, ok := vars.TypeOf(text); ok {
			return t
		}
	}
	if t, ok := builtinIdentifierType(text); ok {
		return t
	}
	if sym, declScope, ok := s.Lookup(text); ok {
		return e.symbolType(sym, declScope, vars)
	}
	if e.Provider != nil {
		if f, ok := e.Provider.GetGlobalFunction(text); ok {
			return functionSignature(f)
		}
		if c, ok := e.Provider.GetGlobalConstant(text); ok {
			return c.Type
		}
		if e.Provider.IsKnownType(text) {
			return semtype.Named(text)
		}
	}
	return semtype.Primitive(semtype.Variant)
}

func functionSignature(f runtimeinfo.FunctionInfo) *semtype.Type {
	params := make([]*semtype.Type, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Type
	}
	ret := f.ReturnType
	if ret == nil {
		ret = semtype.Primitive(semtype.Variant)
	}
	return semtype.Callable(params, ret)
}

// symbolType computes a declared symbol's own type: a method's is its
// Callable signature, an enum member's/constant's/variable's is its
// declaration's effective type, a signal's is a Callable returning
// void (signals are not directly callable, but this gives call/member
// inference something consistent to compose with).
func (e *Engine) symbolType(sym *scope.Symbol, declScope *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	switch sym.Kind {
	case scope.KindMethod:
		return e.methodSignature(sym.Decl, declScope)
	case scope.KindSignal:
		return semtype.Callable(signalParamTypes(sym.Decl), semtype.Primitive(semtype.Void))
	case scope.KindLoopIterator:
		return e.loopIteratorType(sym.Decl, declScope, vars)
	case scope.KindVariable, scope.KindConstant, scope.KindParameter, scope.KindEnumMember:
		info := e.GetTypeInfo(sym.Decl, declScope, vars)
		return info.EffectiveType
	case scope.KindEnum, scope.KindInnerClass:
		return semtype.Named(sym.Name)
	default:
		return semtype.Primitive(semtype.Variant)
	}
}

// loopIteratorType deduces a for-loop variable's type from its
// collection's semantic type, the same rule the flow analyzer applies
// per-iteration; this is the static fallback used when no flow state
// narrowing is available (e.g. resolving the symbol outside a flow
// pass).
func (e *Engine) loopIteratorType(forStmt *syntax.Node, declScope *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	var collectionExpr *syntax.Node
	for _, c := range forStmt.Children {
		cn, ok := c.(*syntax.Node)
		if !ok || cn.Kind == syntax.NodeBlock || cn.Kind == syntax.NodeTypeAnnotation {
			continue
		}
		collectionExpr = cn
		break
	}
	if collectionExpr == nil {
		return semtype.Primitive(semtype.Variant)
	}
	return elementTypeOfContainer(e.InferType(collectionExpr, declScope, vars))
}

func elementTypeOfContainer(t *semtype.Type) *semtype.Type {
	switch t.Kind {
	case semtype.KindArray:
		return t.Elem
	case semtype.KindDictionary:
		return t.Key
	case semtype.KindPackedArray:
		return packedElementType(t.Name)
	case semtype.KindNamed:
		switch t.Name {
		case "Range":
			return semtype.Primitive(semtype.Int)
		case semtype.String:
			return semtype.Primitive(semtype.String)
		}
	}
	return semtype.Primitive(semtype.Variant)
}

func (e *Engine) methodSignature(decl *syntax.Node, declScope *scope.Scope) *semtype.Type {
	var params []*semtype.Type
	if list := findChildOfKind(decl, syntax.NodeParameterList); list != nil {
		for _, p := range findChildrenOfKind(list, syntax.NodeParameter) {
			if ann := findChildOfKind(p, syntax.NodeTypeAnnotation); ann != nil {
				params = append(params, resolveTypeAnnotation(ann))
			} else {
				params = append(params, semtype.Primitive(semtype.Variant))
			}
		}
	}
	ret := semtype.Primitive(semtype.Void)
	if ann := findChildOfKind(decl, syntax.NodeTypeAnnotation); ann != nil {
		ret = resolveTypeAnnotation(ann)
	} else if body := findChildOfKind(decl, syntax.NodeBlock); body != nil {
		if rt, ok := unionOfReturnTypes(body, e, declScope); ok {
			ret = rt
		}
	}
	return semtype.Callable(params, ret)
}

func signalParamTypes(decl *syntax.Node) []*semtype.Type {
	list := findChildOfKind(decl, syntax.NodeParameterList)
	if list == nil {
		return nil
	}
	var out []*semtype.Type
	for _, p := range findChildrenOfKind(list, syntax.NodeParameter) {
		if ann := findChildOfKind(p, syntax.NodeTypeAnnotation); ann != nil {
			out = append(out, resolveTypeAnnotation(ann))
		} else {
			out = append(out, semtype.Primitive(semtype.Variant))
		}
	}
	return out
}

// resolveTypeAnnotation turns a NodeTypeAnnotation into a semtype.Type,
// recognising the handful of generic containers the grammar allows
// (Array[T], Dictionary[K,V]) and treating anything else as a named
// type, falling back to a primitive when the name matches one.
func resolveTypeAnnotation(ann *syntax.Node) *semtype.Type {
	name, _ := firstTokenText(ann, syntax.CategoryIdentifier)
	args := findChildrenOfKind(ann, syntax.NodeTypeAnnotation)
	switch name {
	case "Array":
		if len(args) == 1 {
			return semtype.Array(resolveTypeAnnotation(args[0]))
		}
		return semtype.Array(semtype.Primitive(semtype.Variant))
	case "Dictionary":
		if len(args) == 2 {
			return semtype.Dictionary(resolveTypeAnnotation(args[0]), resolveTypeAnnotation(args[1]))
		}
		return semtype.Dictionary(semtype.Primitive(semtype.Variant), semtype.Primitive(semtype.Variant))
	case semtype.Int, semtype.Float, semtype.Bool, semtype.String, semtype.Void, semtype.Variant:
		return semtype.Primitive(name)
	case "":
		return semtype.Primitive(semtype.Variant)
	default:
		if strings.HasPrefix(name, "Packed") && strings.HasSuffix(name, "Array") {
			return semtype.PackedArray(name)
		}
		return semtype.Named(name)
	}
}

func (e *Engine) inferIndexer(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	base, ok := n.Children[0].(*syntax.Node)
	if !ok {
		return semtype.Primitive(semtype.Variant)
	}
	baseType := e.InferType(base, s, vars)
	switch baseType.Kind {
	case semtype.KindArray:
		return baseType.Elem
	case semtype.KindDictionary:
		return baseType.Elem
	case semtype.KindPackedArray:
		return packedElementType(baseType.Name)
	default:
		return semtype.Primitive(semtype.Variant)
	}
}

func packedElementType(name string) *semtype.Type {
	switch name {
	case "PackedByteArray", "PackedInt32Array", "PackedInt64Array":
		return semtype.Primitive(semtype.Int)
	case "PackedFloat32Array", "PackedFloat64Array":
		return semtype.Primitive(semtype.Float)
	case "PackedStringArray":
		return semtype.Primitive(semtype.String)
	case "PackedVector2Array":
		return semtype.Named("Vector2")
	case "PackedVector3Array":
		return semtype.Named("Vector3")
	case "PackedColorArray":
		return semtype.Named("Color")
	default:
		return semtype.Primitive(semtype.Variant)
	}
}

func (e *Engine) inferMemberAccess(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	base, ok := n.Children[0].(*syntax.Node)
	if !ok {
		return semtype.Primitive(semtype.Variant)
	}
	memberName, _ := lastIdentifierText(n)
	baseType := e.InferType(base, s, vars)
	className := baseType.Name
	if baseType.Kind != semtype.KindNamed || className == "" || e.Provider == nil {
		return semtype.Primitive(semtype.Variant)
	}
	member, ok := e.Provider.GetMember(className, memberName)
	if !ok {
		return semtype.Primitive(semtype.Variant)
	}
	return member.Signature
}

func lastIdentifierText(memberAccess *syntax.Node) (string, bool) {
	for i := len(memberAccess.Children) - 1; i >= 0; i-- {
		if t, ok := memberAccess.Children[i].(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text, true
		}
	}
	return "", false
}

func (e *Engine) inferCall(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	callee, ok := n.Children[0].(*syntax.Node)
	if !ok {
		return semtype.Primitive(semtype.Variant)
	}
	calleeType := e.InferType(callee, s, vars)
	if calleeType.Kind == semtype.KindCallable {
		return calleeType.Elem
	}
	return semtype.Primitive(semtype.Variant)
}

func (e *Engine) inferTernary(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	var branches []*semtype.Type
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			branches = append(branches, e.InferType(cn, s, vars))
		}
	}
	if len(branches) == 0 {
		return semtype.Primitive(semtype.Variant)
	}
	return semtype.Union(branches...)
}

func (e *Engine) inferUnary(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	if operand := firstExprChild(n); operand != nil {
		return e.InferType(operand, s, vars)
	}
	return semtype.Primitive(semtype.Variant)
}

var comparisonOperators = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"is": true, "in": true, "and": true, "or": true, "not": true,
}

func (e *Engine) inferBinary(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	if op, ok := firstTokenText(n, syntax.CategoryOperator); ok && comparisonOperators[op] {
		return semtype.Primitive(semtype.Bool)
	}
	if op, ok := firstTokenText(n, syntax.CategoryKeyword); ok && comparisonOperators[op] {
		return semtype.Primitive(semtype.Bool)
	}
	var exprs []*syntax.Node
	for _, c := range n.Children {
		if cn, ok := c.(*syntax.Node); ok {
			exprs = append(exprs, cn)
		}
	}
	if len(exprs) == 0 {
		return semtype.Primitive(semtype.Variant)
	}
	left := e.InferType(exprs[0], s, vars)
	if len(exprs) == 1 {
		return left
	}
	right := e.InferType(exprs[len(exprs)-1], s, vars)
	if semtype.Equal(left, right) {
		return left
	}
	if left.Kind == semtype.KindPrimitive && right.Kind == semtype.KindPrimitive &&
		(left.Name == semtype.Float || right.Name == semtype.Float) &&
		(left.Name == semtype.Int || left.Name == semtype.Float) &&
		(right.Name == semtype.Int || right.Name == semtype.Float) {
		return semtype.Primitive(semtype.Float)
	}
	return semtype.Primitive(semtype.Variant)
}

func (e *Engine) inferAwait(n *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	inner := firstExprChild(n)
	if inner == nil {
		return semtype.Primitive(semtype.Variant)
	}
	innerNode, _ := inner.(*syntax.Node)
	if innerNode == nil {
		return semtype.Primitive(semtype.Variant)
	}
	if params, ok := e.resolveSignalParams(innerNode, s); ok {
		switch len(params) {
		case 0:
			return semtype.Primitive(semtype.Void)
		case 1:
			return params[0]
		default:
			return semtype.Named("Array")
		}
	}
	if innerNode.Kind == syntax.NodeCallExpr {
		return e.inferCall(innerNode, s, vars)
	}
	return semtype.Primitive(semtype.Variant)
}

// resolveSignalParams reports the parameter types of expr when it
// names a signal, either a locally declared one (a bare identifier) or
// an engine one reached through member access (`$node.some_signal`).
func (e *Engine) resolveSignalParams(expr *syntax.Node, s *scope.Scope) ([]*semtype.Type, bool) {
	switch expr.Kind {
	case syntax.NodeIdentifierExpr:
		text, _ := firstTokenText(expr, syntax.CategoryIdentifier)
		sym, _, ok := s.Lookup(text)
		if !ok || sym.Kind != scope.KindSignal {
			return nil, false
		}
		return signalParamTypes(sym.Decl), true
	case syntax.NodeMemberAccessExpr:
		base, ok := expr.Children[0].(*syntax.Node)
		if !ok || e.Provider == nil {
			return nil, false
		}
		baseType := e.InferType(base, s, nil)
		if baseType.Kind != semtype.KindNamed {
			return nil, false
		}
		memberName, _ := lastIdentifierText(expr)
		for _, sig := range e.Provider.SignalsOf(baseType.Name) {
			if sig.Name == memberName {
				types := make([]*semtype.Type, len(sig.Parameters))
				for i, p := range sig.Parameters {
					types[i] = p.Type
				}
				return types, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// InferLambdaReturnSignature returns a lambda expression's full
// Callable[[Ps], R] type.
func (e *Engine) InferLambdaReturnSignature(lambda *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	lambdaScope := e.Graph.ScopeFor(lambda)
	var params []*semtype.Type
	if list := findChildOfKind(lambda, syntax.NodeParameterList); list != nil {
		for _, p := range findChildrenOfKind(list, syntax.NodeParameter) {
			if ann := findChildOfKind(p, syntax.NodeTypeAnnotation); ann != nil {
				params = append(params, resolveTypeAnnotation(ann))
			} else {
				params = append(params, semtype.Primitive(semtype.Variant))
			}
		}
	}
	ret := semtype.Primitive(semtype.Void)
	if ann := findChildOfKind(lambda, syntax.NodeTypeAnnotation); ann != nil {
		ret = resolveTypeAnnotation(ann)
	} else if body := findChildOfKind(lambda, syntax.NodeBlock); body != nil {
		if rt, ok := unionOfReturnTypes(body, e, lambdaScope); ok {
			ret = rt
		}
	} else if exprStmt := findChildOfKind(lambda, syntax.NodeExpressionStmt); exprStmt != nil {
		if inner := firstExprChild(exprStmt); inner != nil {
			ret = e.InferType(inner, lambdaScope, vars)
		}
	}
	return semtype.Callable(params, ret)
}

// InferLambdaReturnType returns just the lambda's overall semantic
// type (the full Callable), the public-surface counterpart of
// InferLambdaReturnSignature.
func (e *Engine) InferLambdaReturnType(lambda *syntax.Node, s *scope.Scope, vars VariableTypeLookup) *semtype.Type {
	return e.InferLambdaReturnSignature(lambda, s, vars)
}

// unionOfReturnTypes walks block (and every nested if/while/for/match
// body, but never into a nested lambda) collecting the inferred type
// of every `return <expr>`'s expression, and unions them. ok is false
// when the body contains no return statement with a value anywhere.
func unionOfReturnTypes(block *syntax.Node, e *Engine, s *scope.Scope) (*semtype.Type, bool) {
	var types []*semtype.Type
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		switch n.Kind {
		case syntax.NodeLambdaExpr:
			return
		case syntax.NodeReturnStmt:
			if v := firstExprChild(n); v != nil {
				types = append(types, e.InferType(v, s, nil))
			}
			return
		}
		for _, c := range n.Children {
			if cn, ok := c.(*syntax.Node); ok {
				walk(cn)
			}
		}
	}
	walk(block)
	if len(types) == 0 {
		return nil, false
	}
	return semtype.Union(types...), true
}

// GetContainerElementType reports a declared container symbol's
// element (and, for dictionaries, key) type, derived from its
// TypeInfo's declared/inferred type. ok is false for a non-container
// symbol.
func (e *Engine) GetContainerElementType(sym *scope.Symbol, declScope *scope.Scope) (ContainerInfo, bool) {
	info := e.GetTypeInfo(sym.Decl, declScope, nil)
	t := info.EffectiveType
	switch t.Kind {
	case semtype.KindArray:
		return ContainerInfo{ElementType: t.Elem}, true
	case semtype.KindDictionary:
		return ContainerInfo{ElementType: t.Elem, KeyType: t.Key}, true
	case semtype.KindPackedArray:
		return ContainerInfo{ElementType: packedElementType(t.Name)}, true
	default:
		return ContainerInfo{}, false
	}
}
