package scope

import "github.com/gdtoolkit/sema/syntax"

// Graph is the result of Build: the class's scope tree plus a way to
// find the innermost scope enclosing any node in it.
type Graph struct {
	Root *Scope
	// owner maps a node that opens a scope (class, method, lambda, or a
	// block belonging to if/elif/else/while/for/match-case) to that
	// scope.
	owner map[*syntax.Node]*Scope
}

// ScopeFor returns the innermost scope that encloses n, walking up n's
// ancestors until one of them opened a scope. It returns the root scope
// if no ancestor did (n sits directly in the class body).
func (g *Graph) ScopeFor(n *syntax.Node) *Scope {
	for cur := n; cur != nil; cur = cur.Parent() {
		if s, ok := g.owner[cur]; ok {
			return s
		}
	}
	return g.Root
}

// Build walks tree once, constructing its scope and symbol graph.
func Build(tree *syntax.Tree) *Graph {
	g := &Graph{owner: map[*syntax.Node]*Scope{}}
	class := tree.ClassDecl()
	g.Root = newScope(ScopeClass, nil, class)
	if class != nil {
		g.owner[class] = g.Root
		g.buildClassBody(class, g.Root)
	}
	return g
}

// declaredName returns the text of the first direct identifier-category
// token among n's children, or "" if n declares no name (an anonymous
// enum). It deliberately does not recurse: a member's own name token
// always sits directly among its children, never nested inside a child
// node (a type annotation, default-value expression, or inner body).
func declaredName(n *syntax.Node) string {
	for _, c := range n.Children {
		if t, ok := c.(*syntax.Token); ok && t.Category == syntax.CategoryIdentifier {
			return t.Text
		}
	}
	return ""
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

// annotationName returns the name an @annotation token declares, e.g.
// "export" for `@export`.
func annotationName(n *syntax.Node) string {
	return declaredName(n)
}

// buildClassBody declares a symbol for every member of class (in
// source order, attaching any @annotations immediately preceding a
// member as that symbol's flags) and recurses into methods, lambdas
// and inner classes.
func (g *Graph) buildClassBody(class *syntax.Node, enclosing *Scope) {
	var pendingFlags []string
	for _, c := range class.Children {
		n, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		switch n.Kind {
		case syntax.NodeAnnotation:
			pendingFlags = append(pendingFlags, annotationName(n))
			continue
		case syntax.NodeVariableDecl:
			sym := &Symbol{Name: declaredName(n), Kind: KindVariable, Decl: n, Flags: pendingFlags}
			enclosing.Declare(sym)
			g.walkExpressionsIn(n, enclosing)
		case syntax.NodeConstantDecl:
			sym := &Symbol{Name: declaredName(n), Kind: KindConstant, Decl: n, Flags: pendingFlags}
			enclosing.Declare(sym)
			g.walkExpressionsIn(n, enclosing)
		case syntax.NodeSignalDecl:
			sym := &Symbol{Name: declaredName(n), Kind: KindSignal, Decl: n, Flags: pendingFlags}
			enclosing.Declare(sym)
		case syntax.NodeEnumDecl:
			g.buildEnum(n, enclosing, pendingFlags)
		case syntax.NodeMethodDecl:
			g.buildMethod(n, enclosing, pendingFlags)
		case syntax.NodeInnerClassDecl:
			g.buildInnerClass(n, enclosing, pendingFlags)
		default:
			continue
		}
		pendingFlags = nil
	}
}

// buildEnum declares the enum itself (named enums only) and also
// declares each of its members as a constant in the enclosing scope,
// matching GDScript's unqualified-access semantics for enum values.
func (g *Graph) buildEnum(n *syntax.Node, enclosing *Scope, flags []string) {
	if name := declaredName(n); name != "" {
		enclosing.Declare(&Symbol{Name: name, Kind: KindEnum, Decl: n, Flags: flags})
	}
	for _, member := range findChildrenOfKind(n, syntax.NodeEnumMember) {
		enclosing.Declare(&Symbol{Name: declaredName(member), Kind: KindEnumMember, Decl: member})
	}
}

func (g *Graph) buildInnerClass(n *syntax.Node, enclosing *Scope, flags []string) {
	enclosing.Declare(&Symbol{Name: declaredName(n), Kind: KindInnerClass, Decl: n, Flags: flags})
	body := findChildOfKind(n, syntax.NodeClassDecl)
	if body == nil {
		return
	}
	inner := newScope(ScopeClass, enclosing, body)
	g.owner[body] = inner
	g.buildClassBody(body, inner)
}

func (g *Graph) buildMethod(n *syntax.Node, enclosing *Scope, flags []string) {
	sym := &Symbol{Name: declaredName(n), Kind: KindMethod, Decl: n, Flags: flags}
	enclosing.Declare(sym)

	method := newScope(ScopeMethod, enclosing, n)
	g.owner[n] = method

	if params := findChildOfKind(n, syntax.NodeParameterList); params != nil {
		g.declareParameters(params, method)
	}
	if body := findChildOfKind(n, syntax.NodeBlock); body != nil {
		g.buildBlock(body, method)
	}
}

func (g *Graph) declareParameters(list *syntax.Node, s *Scope) {
	for _, p := range findChildrenOfKind(list, syntax.NodeParameter) {
		s.Declare(&Symbol{Name: declaredName(p), Kind: KindParameter, Decl: p})
		g.walkExpressionsIn(p, s)
	}
}

// buildBlock walks the statements of a block already associated with
// its own scope, declaring locals and descending into nested control
// structures and lambdas. block itself is not given a fresh scope here
// since callers that open one (method bodies, lambda bodies, loop and
// conditional bodies) already created it before calling in.
func (g *Graph) buildBlock(block *syntax.Node, s *Scope) {
	for _, c := range block.Children {
		stmt, ok := c.(*syntax.Node)
		if !ok {
			continue
		}
		g.buildStatement(stmt, s)
	}
}

func (g *Graph) buildStatement(stmt *syntax.Node, s *Scope) {
	switch stmt.Kind {
	case syntax.NodeVariableDecl:
		s.Declare(&Symbol{Name: declaredName(stmt), Kind: KindVariable, Decl: stmt})
		g.walkExpressionsIn(stmt, s)
	case syntax.NodeConstantDecl:
		s.Declare(&Symbol{Name: declaredName(stmt), Kind: KindConstant, Decl: stmt})
		g.walkExpressionsIn(stmt, s)
	case syntax.NodeAssignmentStmt, syntax.NodeExpressionStmt, syntax.NodeReturnStmt:
		g.walkExpressionsIn(stmt, s)
	case syntax.NodeIfStmt:
		g.buildIf(stmt, s)
	case syntax.NodeWhileStmt:
		g.walkExpressionsIn(childExprOnly(stmt), s)
		if body := findChildOfKind(stmt, syntax.NodeBlock); body != nil {
			g.buildBlock(body, newChildBlockScope(g, body, s))
		}
	case syntax.NodeForStmt:
		g.buildFor(stmt, s)
	case syntax.NodeMatchStmt:
		g.buildMatch(stmt, s)
	default:
		// Break/continue/pass carry no declarations or nested expressions.
	}
}

// childExprOnly returns stmt's first expression child, the loop/branch
// condition every while/if/elif uses as its second child.
func childExprOnly(stmt *syntax.Node) syntax.Element {
	for _, c := range stmt.Children {
		if n, ok := c.(*syntax.Node); ok && isExpressionKind(n.Kind) {
			return n
		}
	}
	return nil
}

func newChildBlockScope(g *Graph, block *syntax.Node, parent *Scope) *Scope {
	s := newScope(ScopeBlock, parent, block)
	g.owner[block] = s
	return s
}

func (g *Graph) buildIf(stmt *syntax.Node, s *Scope) {
	g.walkExpressionsIn(childExprOnly(stmt), s)
	if body := findChildOfKind(stmt, syntax.NodeBlock); body != nil {
		g.buildBlock(body, newChildBlockScope(g, body, s))
	}
	for _, elif := range findChildrenOfKind(stmt, syntax.NodeElifClause) {
		g.walkExpressionsIn(childExprOnly(elif), s)
		if body := findChildOfKind(elif, syntax.NodeBlock); body != nil {
			g.buildBlock(body, newChildBlockScope(g, body, s))
		}
	}
	if elseClause := findChildOfKind(stmt, syntax.NodeElseClause); elseClause != nil {
		if body := findChildOfKind(elseClause, syntax.NodeBlock); body != nil {
			g.buildBlock(body, newChildBlockScope(g, body, s))
		}
	}
}

// buildFor gives the loop a dedicated block scope so the iterator is
// visible only inside the loop body; a sibling loop builds its own
// fresh scope, so reusing the same iterator name never collides.
func (g *Graph) buildFor(stmt *syntax.Node, s *Scope) {
	body := findChildOfKind(stmt, syntax.NodeBlock)
	if body == nil {
		return
	}
	loopScope := newChildBlockScope(g, body, s)
	loopScope.Declare(&Symbol{Name: declaredName(stmt), Kind: KindLoopIterator, Decl: stmt})
	g.walkExpressionsIn(childExprOnly(stmt), s)
	g.buildBlock(body, loopScope)
}

func (g *Graph) buildMatch(stmt *syntax.Node, s *Scope) {
	g.walkExpressionsIn(childExprOnly(stmt), s)
	for _, c := range findChildrenOfKind(stmt, syntax.NodeMatchCase) {
		body := findChildOfKind(c, syntax.NodeBlock)
		if body == nil {
			continue
		}
		g.buildBlock(body, newChildBlockScope(g, body, s))
	}
}

func isExpressionKind(k syntax.NodeKind) bool {
	switch k {
	case syntax.NodeBlock, syntax.NodeElifClause, syntax.NodeElseClause,
		syntax.NodeMatchCase, syntax.NodeMatchPattern, syntax.NodeTypeAnnotation:
		return false
	default:
		return true
	}
}

// walkExpressionsIn finds every lambda nested anywhere inside e
// (statement or expression) and builds its scope, no matter how deep
// it sits — inside a dict literal value, a call argument, a binary
// operand, a default parameter value, and so on.
func (g *Graph) walkExpressionsIn(e syntax.Element, enclosing *Scope) {
	n, ok := e.(*syntax.Node)
	if !ok || n == nil {
		return
	}
	if n.Kind == syntax.NodeLambdaExpr {
		g.buildLambda(n, enclosing)
		return
	}
	for _, c := range n.Children {
		g.walkExpressionsIn(c, enclosing)
	}
}

func (g *Graph) buildLambda(n *syntax.Node, enclosing *Scope) {
	lambda := newScope(ScopeLambda, enclosing, n)
	g.owner[n] = lambda

	if params := findChildOfKind(n, syntax.NodeParameterList); params != nil {
		g.declareParameters(params, lambda)
	}
	if body := findChildOfKind(n, syntax.NodeBlock); body != nil {
		g.buildBlock(body, lambda)
		return
	}
	// Single-expression lambda body: `func(x): x + 1`.
	if exprStmt := findChildOfKind(n, syntax.NodeExpressionStmt); exprStmt != nil {
		g.walkExpressionsIn(exprStmt, lambda)
	}
}

// DictEntryKeyIsLiteralName reports whether entry uses the
// `{ key = value }` form, whose key is a bare name rather than an
// evaluated expression. Callers resolving identifier references must
// skip such a key instead of looking it up as a variable.
func DictEntryKeyIsLiteralName(entry *syntax.Node) bool {
	if entry.Kind != syntax.NodeDictionaryEntry {
		return false
	}
	// The key is always a wrapped expression node (never a bare leaf
	// token, see parsePrimary), so the first Token child of the entry
	// in source order is the "=" or ":" separator itself.
	for _, c := range entry.Children {
		t, ok := c.(*syntax.Token)
		if !ok || t.Category.IsTrivia() {
			continue
		}
		return t.Text == "="
	}
	return false
}
