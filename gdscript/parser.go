package gdscript

import (
	"fmt"

	"github.com/gdtoolkit/sema/syntax"
)

// ParseError is a single syntax-level failure discovered while parsing.
// It never aborts parsing; the parser always produces a tree.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser is a hand-written recursive-descent parser over the flat,
// trivia-preserving token stream produced by Lexer. Every token,
// significant or not, is attached to exactly one node's children in the
// order it is consumed, which is what makes the resulting tree's
// ToString exactly reproduce the input.
type Parser struct {
	toks   []Token
	pos    int
	errors []ParseError
}

// Parse tokenizes and parses source into a syntax.Tree rooted at a
// NodeClassDecl, plus any syntax errors encountered. Parsing never fails
// outright: unrecognized input at class level is kept as
// invalid-category tokens up to the end of its line and parsing resumes
// at the next line; an unexpected token inside an expression is kept as
// a one-token NodeIdentifierExpr.
func Parse(source string) (*syntax.Tree, []ParseError) {
	lx := NewLexer(source)
	p := &Parser{toks: lx.Tokenize()}
	root := p.parseClassBody(0, true)
	return syntax.NewTree(root), p.errors
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advanceRaw() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(format string, args ...any) {
	t := p.cur()
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Line: t.StartLine, Column: t.StartCol})
}

// takeTrivia consumes consecutive trivia tokens (whitespace, newlines,
// indentation, comments) from the cursor, appending each to dst in
// order.
func (p *Parser) takeTrivia(dst *[]syntax.Element) {
	for p.cur().isTrivia() {
		*dst = append(*dst, p.advanceRaw().toSyntaxToken())
	}
}

// take consumes the current token unconditionally (after first draining
// leading trivia into dst) and appends it to dst.
func (p *Parser) take(dst *[]syntax.Element) Token {
	p.takeTrivia(dst)
	t := p.advanceRaw()
	*dst = append(*dst, t.toSyntaxToken())
	return t
}

// expect consumes the current token if it matches tt; otherwise it
// records a syntax error and leaves the cursor untouched so the caller
// can attempt recovery.
func (p *Parser) expect(tt TokenType, dst *[]syntax.Element, what string) (Token, bool) {
	p.takeTrivia(dst)
	if p.cur().Type != tt {
		p.errorf("expected %s, got %q", what, p.cur().Text)
		return Token{}, false
	}
	t := p.advanceRaw()
	*dst = append(*dst, t.toSyntaxToken())
	return t, true
}

// peekSig looks past any pending trivia (without consuming it) and
// reports the type of the next significant token. It is the lookahead
// every decision point in the grammar uses instead of cur().Type, since
// operators and delimiters are routinely preceded by whitespace that
// hasn't been drained yet.
func (p *Parser) peekSig() TokenType {
	i := p.pos
	for i < len(p.toks) && p.toks[i].isTrivia() {
		i++
	}
	if i >= len(p.toks) {
		return TEOF
	}
	return p.toks[i].Type
}

// hasInlineOperand reports whether an operand follows on the same
// source line, skipping only intra-line whitespace. Used by `return`,
// where a bare `return` followed by a newline must not be confused with
// `return <expr>` once trailing whitespace is accounted for.
func (p *Parser) hasInlineOperand() bool {
	i := p.pos
	for i < len(p.toks) {
		switch p.toks[i].Type {
		case TWhitespace:
			i++
		case TNewline, TEOF, TComment:
			return false
		default:
			return true
		}
	}
	return false
}

// peekLineIndent returns the indentation width (in runes) of the next
// line that carries real content, without consuming anything. It
// returns -1 once only EOF remains.
func (p *Parser) peekLineIndent() int {
	i := p.pos
	indent := 0
	atHead := true
	for i < len(p.toks) {
		t := p.toks[i]
		switch t.Type {
		case TNewline:
			indent = 0
			atHead = true
			i++
		case TIndentation:
			if atHead {
				indent = len([]rune(t.Text))
			}
			atHead = false
			i++
		case TComment, TWhitespace:
			i++
		case TEOF:
			return -1
		default:
			return indent
		}
	}
	return -1
}

// peekTypeAt reports the token type of the next significant token whose
// line indent equals indent, or TEOF if the next content line is
// indented differently (including EOF).
func (p *Parser) peekTypeAt(indent int) TokenType {
	if p.peekLineIndent() != indent {
		return TEOF
	}
	i := p.pos
	for i < len(p.toks) && p.toks[i].isTrivia() {
		i++
	}
	if i >= len(p.toks) {
		return TEOF
	}
	return p.toks[i].Type
}

// ---- class-level members ----

// parseClassBody parses a sequence of class members (variables,
// constants, signals, enums, methods, inner classes, annotations) at the
// given indent level. isRoot controls whether a leading extends/
// class_name header is accepted.
func (p *Parser) parseClassBody(indent int, isRoot bool) *syntax.Node {
	var children []syntax.Element

	if isRoot {
		for p.peekTypeAt(indent) == TExtends || p.peekTypeAt(indent) == TClassName {
			p.takeTrivia(&children)
			switch p.cur().Type {
			case TExtends:
				p.take(&children)
				p.expect(TIdentifier, &children, "base class name")
			case TClassName:
				p.take(&children)
				p.expect(TIdentifier, &children, "class name")
			}
		}
	}

	for {
		tt := p.peekTypeAt(indent)
		switch tt {
		case TAt:
			p.takeTrivia(&children)
			children = append(children, p.parseAnnotation())
		case TVar:
			p.takeTrivia(&children)
			children = append(children, p.parseVariableDecl())
		case TConst:
			p.takeTrivia(&children)
			children = append(children, p.parseConstantDecl())
		case TSignal:
			p.takeTrivia(&children)
			children = append(children, p.parseSignalDecl())
		case TEnum:
			p.takeTrivia(&children)
			children = append(children, p.parseEnumDecl())
		case TFunc:
			p.takeTrivia(&children)
			children = append(children, p.parseMethodDecl())
		case TClass:
			p.takeTrivia(&children)
			children = append(children, p.parseInnerClassDecl(indent))
		default:
			p.takeTrivia(&children)
			if !isRoot || p.cur().Type == TEOF {
				return syntax.NewNode(syntax.NodeClassDecl, children...)
			}
			p.errorf("unexpected token %q at class level", p.cur().Text)
			for p.cur().Type != TNewline && p.cur().Type != TEOF {
				t := p.advanceRaw()
				t.Type = TInvalid
				children = append(children, t.toSyntaxToken())
			}
		}
	}
}

func (p *Parser) parseAnnotation() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // @
	p.expect(TIdentifier, &children, "annotation name")
	if p.peekSig() == TLParen {
		p.take(&children)
		for p.peekSig() != TRParen && p.peekSig() != TEOF {
			children = append(children, p.parseExpression())
			if p.peekSig() == TComma {
				p.take(&children)
			}
		}
		p.expect(TRParen, &children, "')'")
	}
	return syntax.NewNode(syntax.NodeAnnotation, children...)
}

func (p *Parser) parseVariableDecl() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // var
	p.expect(TIdentifier, &children, "variable name")
	if p.peekSig() == TColon {
		p.take(&children)
		if p.peekSig() != TAssign {
			children = append(children, p.parseTypeAnnotation())
		}
	}
	if p.peekSig() == TAssign {
		p.take(&children)
		children = append(children, p.parseExpression())
	}
	return syntax.NewNode(syntax.NodeVariableDecl, children...)
}

func (p *Parser) parseConstantDecl() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // const
	p.expect(TIdentifier, &children, "constant name")
	if p.peekSig() == TColon {
		p.take(&children)
		children = append(children, p.parseTypeAnnotation())
	}
	p.expect(TAssign, &children, "'='")
	children = append(children, p.parseExpression())
	return syntax.NewNode(syntax.NodeConstantDecl, children...)
}

func (p *Parser) parseSignalDecl() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // signal
	p.expect(TIdentifier, &children, "signal name")
	if p.peekSig() == TLParen {
		children = append(children, p.parseParameterList())
	}
	return syntax.NewNode(syntax.NodeSignalDecl, children...)
}

func (p *Parser) parseEnumDecl() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // enum
	if p.peekSig() == TIdentifier {
		p.take(&children)
	}
	p.expect(TLBrace, &children, "'{'")
	for p.peekSig() != TRBrace && p.peekSig() != TEOF {
		var member []syntax.Element
		p.expect(TIdentifier, &member, "enum member name")
		if p.peekSig() == TAssign {
			p.take(&member)
			member = append(member, p.parseExpression())
		}
		children = append(children, syntax.NewNode(syntax.NodeEnumMember, member...))
		if p.peekSig() == TComma {
			p.take(&children)
		}
	}
	p.expect(TRBrace, &children, "'}'")
	return syntax.NewNode(syntax.NodeEnumDecl, children...)
}

func (p *Parser) parseInnerClassDecl(outerIndent int) *syntax.Node {
	var children []syntax.Element
	p.take(&children) // class
	p.expect(TIdentifier, &children, "inner class name")
	if p.peekSig() == TExtends {
		p.take(&children)
		p.expect(TIdentifier, &children, "base class name")
	}
	p.expect(TColon, &children, "':'")
	bodyIndent := p.peekLineIndent()
	if bodyIndent <= outerIndent {
		children = append(children, syntax.NewNode(syntax.NodeBlock))
		return syntax.NewNode(syntax.NodeInnerClassDecl, children...)
	}
	body := p.parseClassBody(bodyIndent, false)
	children = append(children, body)
	return syntax.NewNode(syntax.NodeInnerClassDecl, children...)
}

func (p *Parser) parseTypeAnnotation() *syntax.Node {
	var children []syntax.Element
	p.expect(TIdentifier, &children, "type name")
	if p.peekSig() == TLBracket {
		p.take(&children)
		children = append(children, p.parseTypeAnnotation())
		for p.peekSig() == TComma {
			p.take(&children)
			children = append(children, p.parseTypeAnnotation())
		}
		p.expect(TRBracket, &children, "']'")
	}
	return syntax.NewNode(syntax.NodeTypeAnnotation, children...)
}

func (p *Parser) parseParameterList() *syntax.Node {
	var children []syntax.Element
	p.expect(TLParen, &children, "'('")
	for p.peekSig() != TRParen && p.peekSig() != TEOF {
		start := p.pos
		var param []syntax.Element
		p.expect(TIdentifier, &param, "parameter name")
		if p.peekSig() == TColon {
			p.take(&param)
			param = append(param, p.parseTypeAnnotation())
		}
		if p.peekSig() == TAssign {
			p.take(&param)
			param = append(param, p.parseExpression())
		}
		if p.pos == start {
			break
		}
		children = append(children, syntax.NewNode(syntax.NodeParameter, param...))
		if p.peekSig() == TComma {
			p.take(&children)
		}
	}
	p.expect(TRParen, &children, "')'")
	return syntax.NewNode(syntax.NodeParameterList, children...)
}

func (p *Parser) parseMethodDecl() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // func
	p.expect(TIdentifier, &children, "method name")
	children = append(children, p.parseParameterList())
	if p.peekSig() == TArrow {
		p.take(&children)
		children = append(children, p.parseTypeAnnotation())
	}
	p.expect(TColon, &children, "':'")
	bodyIndent := p.peekLineIndent()
	if bodyIndent <= 0 {
		children = append(children, syntax.NewNode(syntax.NodeBlock))
		return syntax.NewNode(syntax.NodeMethodDecl, children...)
	}
	children = append(children, p.parseSuite(bodyIndent))
	return syntax.NewNode(syntax.NodeMethodDecl, children...)
}

// ---- statements ----

func (p *Parser) parseSuite(indent int) *syntax.Node {
	var children []syntax.Element
	for p.peekLineIndent() == indent {
		p.takeTrivia(&children)
		stmt := p.parseStatement(indent)
		if stmt != nil {
			children = append(children, stmt)
		} else {
			break
		}
	}
	return syntax.NewNode(syntax.NodeBlock, children...)
}

func (p *Parser) parseStatement(indent int) *syntax.Node {
	switch p.cur().Type {
	case TVar:
		return p.parseVariableDecl()
	case TConst:
		return p.parseConstantDecl()
	case TIf:
		return p.parseIfStatement(indent)
	case TWhile:
		return p.parseWhileStatement()
	case TFor:
		return p.parseForStatement()
	case TMatch:
		return p.parseMatchStatement()
	case TReturn:
		var children []syntax.Element
		p.take(&children)
		if p.hasInlineOperand() {
			children = append(children, p.parseExpression())
		}
		return syntax.NewNode(syntax.NodeReturnStmt, children...)
	case TBreak:
		var children []syntax.Element
		p.take(&children)
		return syntax.NewNode(syntax.NodeBreakStmt, children...)
	case TContinue:
		var children []syntax.Element
		p.take(&children)
		return syntax.NewNode(syntax.NodeContinueStmt, children...)
	case TPass:
		var children []syntax.Element
		p.take(&children)
		return syntax.NewNode(syntax.NodePassStmt, children...)
	case TEOF:
		return nil
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseIfStatement(indent int) *syntax.Node {
	var children []syntax.Element
	p.take(&children) // if
	children = append(children, p.parseExpression())
	p.expect(TColon, &children, "':'")
	bodyIndent := p.peekLineIndent()
	if bodyIndent > indent {
		children = append(children, p.parseSuite(bodyIndent))
	} else {
		children = append(children, syntax.NewNode(syntax.NodeBlock))
	}

	for p.peekTypeAt(indent) == TElif {
		var clause []syntax.Element
		p.takeTrivia(&clause)
		p.take(&clause) // elif
		clause = append(clause, p.parseExpression())
		p.expect(TColon, &clause, "':'")
		ci := p.peekLineIndent()
		if ci > indent {
			clause = append(clause, p.parseSuite(ci))
		} else {
			clause = append(clause, syntax.NewNode(syntax.NodeBlock))
		}
		children = append(children, syntax.NewNode(syntax.NodeElifClause, clause...))
	}

	if p.peekTypeAt(indent) == TElse {
		var clause []syntax.Element
		p.takeTrivia(&clause)
		p.take(&clause) // else
		p.expect(TColon, &clause, "':'")
		ci := p.peekLineIndent()
		if ci > indent {
			clause = append(clause, p.parseSuite(ci))
		} else {
			clause = append(clause, syntax.NewNode(syntax.NodeBlock))
		}
		children = append(children, syntax.NewNode(syntax.NodeElseClause, clause...))
	}

	return syntax.NewNode(syntax.NodeIfStmt, children...)
}

func (p *Parser) parseWhileStatement() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // while
	children = append(children, p.parseExpression())
	p.expect(TColon, &children, "':'")
	bodyIndent := p.peekLineIndent()
	if bodyIndent > 0 {
		children = append(children, p.parseSuite(bodyIndent))
	} else {
		children = append(children, syntax.NewNode(syntax.NodeBlock))
	}
	return syntax.NewNode(syntax.NodeWhileStmt, children...)
}

func (p *Parser) parseForStatement() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // for
	p.expect(TIdentifier, &children, "loop variable")
	if p.peekSig() == TColon {
		p.take(&children)
		children = append(children, p.parseTypeAnnotation())
	}
	p.expect(TIn, &children, "'in'")
	children = append(children, p.parseExpression())
	p.expect(TColon, &children, "':'")
	bodyIndent := p.peekLineIndent()
	if bodyIndent > 0 {
		children = append(children, p.parseSuite(bodyIndent))
	} else {
		children = append(children, syntax.NewNode(syntax.NodeBlock))
	}
	return syntax.NewNode(syntax.NodeForStmt, children...)
}

func (p *Parser) parseMatchStatement() *syntax.Node {
	var children []syntax.Element
	p.take(&children) // match
	children = append(children, p.parseExpression())
	p.expect(TColon, &children, "':'")
	caseIndent := p.peekLineIndent()
	for p.peekLineIndent() == caseIndent {
		p.takeTrivia(&children)
		var caseChildren []syntax.Element
		caseChildren = append(caseChildren, p.parseMatchPattern())
		p.expect(TColon, &caseChildren, "':'")
		bodyIndent := p.peekLineIndent()
		if bodyIndent > caseIndent {
			caseChildren = append(caseChildren, p.parseSuite(bodyIndent))
		} else {
			caseChildren = append(caseChildren, syntax.NewNode(syntax.NodeBlock))
		}
		children = append(children, syntax.NewNode(syntax.NodeMatchCase, caseChildren...))
	}
	return syntax.NewNode(syntax.NodeMatchStmt, children...)
}

func (p *Parser) parseMatchPattern() *syntax.Node {
	var children []syntax.Element
	if p.cur().Type == TIdentifier && p.cur().Text == "_" {
		p.take(&children)
		return syntax.NewNode(syntax.NodeMatchPattern, children...)
	}
	children = append(children, p.parseExpression())
	return syntax.NewNode(syntax.NodeMatchPattern, children...)
}

// parseSimpleStatement handles assignment and expression statements,
// including a bare `await expr` used as a statement.
func (p *Parser) parseSimpleStatement() *syntax.Node {
	expr := p.parseExpression()
	switch p.peekSig() {
	case TAssign, TPlusAssign, TMinusAssign, TStarAssign, TSlashAssign:
		var children []syntax.Element
		children = append(children, expr)
		p.take(&children)
		children = append(children, p.parseExpression())
		return syntax.NewNode(syntax.NodeAssignmentStmt, children...)
	default:
		return syntax.NewNode(syntax.NodeExpressionStmt, expr)
	}
}

// ---- expressions ----
// Precedence, low to high: ternary > or > and > not > comparison/is/in >
// additive > multiplicative > unary > postfix > primary.

func (p *Parser) parseExpression() syntax.Element {
	return p.parseTernary()
}

func (p *Parser) parseTernary() syntax.Element {
	value := p.parseOr()
	if p.peekSig() == TIf {
		var children []syntax.Element
		children = append(children, value)
		p.take(&children) // if
		children = append(children, p.parseOr())
		p.expect(TElse, &children, "'else'")
		children = append(children, p.parseTernary())
		return syntax.NewNode(syntax.NodeTernaryExpr, children...)
	}
	return value
}

func (p *Parser) parseOr() syntax.Element {
	left := p.parseAnd()
	for p.peekSig() == TOr {
		var children []syntax.Element
		children = append(children, left)
		p.take(&children)
		children = append(children, p.parseAnd())
		left = syntax.NewNode(syntax.NodeBinaryExpr, children...)
	}
	return left
}

func (p *Parser) parseAnd() syntax.Element {
	left := p.parseNot()
	for p.peekSig() == TAnd {
		var children []syntax.Element
		children = append(children, left)
		p.take(&children)
		children = append(children, p.parseNot())
		left = syntax.NewNode(syntax.NodeBinaryExpr, children...)
	}
	return left
}

func (p *Parser) parseNot() syntax.Element {
	if p.peekSig() == TNot {
		var children []syntax.Element
		p.take(&children)
		children = append(children, p.parseNot())
		return syntax.NewNode(syntax.NodeUnaryExpr, children...)
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() syntax.Element {
	left := p.parseAdditive()
	for {
		switch p.peekSig() {
		case TEqEq, TNotEq, TLt, TGt, TLe, TGe, TIs, TIn:
			var children []syntax.Element
			children = append(children, left)
			p.take(&children)
			children = append(children, p.parseAdditive())
			left = syntax.NewNode(syntax.NodeBinaryExpr, children...)
		case TNot:
			// "not in": the lexer produces two keyword tokens, TNot then
			// TIn, which the parser folds into one NodeBinaryExpr so scope
			// analysis sees a single operator rather than misreporting
			// "not" as a dangling identifier-less token.
			save := p.pos
			var lead []syntax.Element
			p.take(&lead)
			if p.peekSig() != TIn {
				p.pos = save
				return left
			}
			var children []syntax.Element
			children = append(children, left)
			children = append(children, lead...)
			p.take(&children) // in
			children = append(children, p.parseAdditive())
			left = syntax.NewNode(syntax.NodeBinaryExpr, children...)
		default:
			return left
		}
	}
}

func (p *Parser) parseAdditive() syntax.Element {
	left := p.parseMultiplicative()
	for p.peekSig() == TPlus || p.peekSig() == TMinus {
		var children []syntax.Element
		children = append(children, left)
		p.take(&children)
		children = append(children, p.parseMultiplicative())
		left = syntax.NewNode(syntax.NodeBinaryExpr, children...)
	}
	return left
}

func (p *Parser) parseMultiplicative() syntax.Element {
	left := p.parseUnary()
	for p.peekSig() == TStar || p.peekSig() == TSlash || p.peekSig() == TPercent {
		var children []syntax.Element
		children = append(children, left)
		p.take(&children)
		children = append(children, p.parseUnary())
		left = syntax.NewNode(syntax.NodeBinaryExpr, children...)
	}
	return left
}

func (p *Parser) parseUnary() syntax.Element {
	if p.peekSig() == TMinus || p.peekSig() == TPlus {
		var children []syntax.Element
		p.take(&children)
		children = append(children, p.parseUnary())
		return syntax.NewNode(syntax.NodeUnaryExpr, children...)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() syntax.Element {
	expr := p.parsePrimary()
	for {
		switch p.peekSig() {
		case TDot:
			var children []syntax.Element
			children = append(children, expr)
			p.take(&children)
			p.expect(TIdentifier, &children, "member name")
			expr = syntax.NewNode(syntax.NodeMemberAccessExpr, children...)
		case TLBracket:
			var children []syntax.Element
			children = append(children, expr)
			p.take(&children)
			children = append(children, p.parseExpression())
			p.expect(TRBracket, &children, "']'")
			expr = syntax.NewNode(syntax.NodeIndexerExpr, children...)
		case TLParen:
			var children []syntax.Element
			children = append(children, expr)
			children = append(children, p.parseArgumentList())
			expr = syntax.NewNode(syntax.NodeCallExpr, children...)
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgumentList() *syntax.Node {
	var children []syntax.Element
	p.expect(TLParen, &children, "'('")
	for p.peekSig() != TRParen && p.peekSig() != TEOF {
		children = append(children, p.parseExpression())
		if p.peekSig() == TComma {
			p.take(&children)
		}
	}
	p.expect(TRParen, &children, "')'")
	return syntax.NewNode(syntax.NodeArgumentList, children...)
}

// parsePrimary drains any leading trivia itself before inspecting the
// current token, since every caller reaches it without having drained
// the trivia that precedes an operand.
func (p *Parser) parsePrimary() syntax.Element {
	var children []syntax.Element
	p.takeTrivia(&children)

	switch p.cur().Type {
	case TNumber:
		p.take(&children)
		return syntax.NewNode(syntax.NodeNumberExpr, children...)
	case TString:
		p.take(&children)
		return syntax.NewNode(syntax.NodeStringExpr, children...)
	case TTrue, TFalse:
		p.take(&children)
		return syntax.NewNode(syntax.NodeBooleanExpr, children...)
	case TNull:
		p.take(&children)
		return syntax.NewNode(syntax.NodeIdentifierExpr, children...)
	case TSelf:
		p.take(&children)
		return syntax.NewNode(syntax.NodeIdentifierExpr, children...)
	case TIdentifier:
		p.take(&children)
		return syntax.NewNode(syntax.NodeIdentifierExpr, children...)
	case TLParen:
		p.take(&children)
		children = append(children, p.parseExpression())
		p.expect(TRParen, &children, "')'")
		return syntax.NewNode(syntax.NodeGroupExpr, children...)
	case TLBracket:
		return p.parseArrayLiteral(children)
	case TLBrace:
		return p.parseDictLiteral(children)
	case TAwait:
		p.take(&children)
		children = append(children, p.parseExpression())
		return syntax.NewNode(syntax.NodeAwaitExpr, children...)
	case TYield:
		p.take(&children)
		if p.peekSig() == TLParen {
			children = append(children, p.parseArgumentList())
		}
		return syntax.NewNode(syntax.NodeYieldExpr, children...)
	case TFunc:
		return p.parseLambda(children)
	case TDollar:
		p.take(&children)
		p.expect(TString, &children, "node path")
		return syntax.NewNode(syntax.NodeGetNodeExpr, children...)
	case TAmp:
		p.take(&children)
		p.expect(TString, &children, "string-name literal")
		return syntax.NewNode(syntax.NodeStringNameExpr, children...)
	case TDotDotDot:
		p.take(&children)
		return syntax.NewNode(syntax.NodeRestExpr, children...)
	default:
		p.errorf("unexpected token %q in expression", p.cur().Text)
		if p.cur().Type != TEOF {
			p.take(&children)
		}
		return syntax.NewNode(syntax.NodeIdentifierExpr, children...)
	}
}

func (p *Parser) parseArrayLiteral(children []syntax.Element) *syntax.Node {
	p.expect(TLBracket, &children, "'['")
	for p.peekSig() != TRBracket && p.peekSig() != TEOF {
		children = append(children, p.parseExpression())
		if p.peekSig() == TComma {
			p.take(&children)
		}
	}
	p.expect(TRBracket, &children, "']'")
	return syntax.NewNode(syntax.NodeArrayExpr, children...)
}

func (p *Parser) parseDictLiteral(children []syntax.Element) *syntax.Node {
	p.expect(TLBrace, &children, "'{'")
	for p.peekSig() != TRBrace && p.peekSig() != TEOF {
		var entry []syntax.Element
		key := p.parseExpression()
		entry = append(entry, key)
		if p.peekSig() == TColon {
			p.take(&entry)
		} else {
			p.expect(TAssign, &entry, "'=' or ':'")
		}
		entry = append(entry, p.parseExpression())
		children = append(children, syntax.NewNode(syntax.NodeDictionaryEntry, entry...))
		if p.peekSig() == TComma {
			p.take(&children)
		}
	}
	p.expect(TRBrace, &children, "'}'")
	return syntax.NewNode(syntax.NodeDictionaryExpr, children...)
}

func (p *Parser) parseLambda(children []syntax.Element) *syntax.Node {
	p.take(&children) // func
	if p.peekSig() == TIdentifier {
		p.take(&children)
	}
	children = append(children, p.parseParameterList())
	if p.peekSig() == TArrow {
		p.take(&children)
		children = append(children, p.parseTypeAnnotation())
	}
	p.expect(TColon, &children, "':'")
	bodyIndent := p.peekLineIndent()
	if bodyIndent > 0 {
		children = append(children, p.parseSuite(bodyIndent))
	} else {
		children = append(children, syntax.NewNode(syntax.NodeExpressionStmt, p.parseExpression()))
	}
	return syntax.NewNode(syntax.NodeLambdaExpr, children...)
}

// ParseMember parses source as a single top-level class member, used by
// the incremental parser's member-level splice path.
func ParseMember(source string) (*syntax.Node, []ParseError) {
	lx := NewLexer(source)
	p := &Parser{toks: lx.Tokenize()}
	var children []syntax.Element
	switch p.peekTypeAt(0) {
	case TAt:
		return p.parseAnnotation(), p.errors
	case TVar:
		return p.parseVariableDecl(), p.errors
	case TConst:
		return p.parseConstantDecl(), p.errors
	case TSignal:
		return p.parseSignalDecl(), p.errors
	case TEnum:
		return p.parseEnumDecl(), p.errors
	case TFunc:
		return p.parseMethodDecl(), p.errors
	case TClass:
		return p.parseInnerClassDecl(0), p.errors
	default:
		p.errorf("expected a class member")
		p.takeTrivia(&children)
		return syntax.NewNode(syntax.NodeVariableDecl, children...), p.errors
	}
}

// ParseExpression parses source as a single expression; the parse
// package's GDScriptParser.ParseExpression exposes it through the façade.
func ParseExpression(source string) (syntax.Element, []ParseError) {
	lx := NewLexer(source)
	p := &Parser{toks: lx.Tokenize()}
	expr := p.parseExpression()
	return expr, p.errors
}
