// Package parser implements the syntax analysis for fnlang.
// It is a backtracking recursive-descent parser: every grammar alternative
// saves a checkpoint of the cursor and restores it when it does not match,
// so a failed alternative never consumes input.
package parser

import (
	"fnlang/internal/ast"
	"fnlang/internal/diag"
	"fnlang/internal/span"
	"fnlang/internal/token"
)

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	far    int              // furthest position ever reached, for error reporting
	err    *diag.Diagnostic // first committed error; stops all further matching
}

// New creates a new parser from a token slice. The slice normally ends with
// an EOF token; a missing EOF is tolerated.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseExpression parses a single expression that must span the whole input.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	expr, ok := p.parseExpr()
	if p.err != nil {
		return nil, p.err
	}
	if !ok {
		return nil, p.unknownSyntax()
	}
	if !p.isAtEnd() {
		tok := p.peek()
		return nil, diag.Errorf(diag.CodeTrailingTokens, tok.Span, "unexpected '%s' after expression", describe(tok)).
			WithSubject(tok.Lexeme)
	}
	return expr, nil
}

// ParseStatements parses statements until the input is exhausted.
func (p *Parser) ParseStatements() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt, ok := p.parseStmt()
		if p.err != nil {
			return nil, p.err
		}
		if !ok {
			return nil, p.unknownSyntax()
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseModule parses zero or more function declarations until the input is
// exhausted. Two functions with the same name are rejected.
func (p *Parser) ParseModule() (*ast.Module, error) {
	var decls []*ast.FuncDecl
	seen := make(map[string]*ast.FuncDecl)
	for !p.isAtEnd() {
		if !p.check(token.KW_FN) {
			tok := p.peek()
			return nil, diag.Errorf(diag.CodeUnknownSyntax, tok.Span, "expected 'fn', got '%s'", describe(tok)).
				WithSubject(tok.Lexeme)
		}
		decl, ok := p.parseFuncDecl()
		if p.err != nil {
			return nil, p.err
		}
		if !ok {
			return nil, p.unknownSyntax()
		}
		if prev, dup := seen[decl.Name]; dup {
			return nil, diag.Errorf(diag.CodeDuplicateFunction, decl.Span,
				"function '%s' already declared at %s", decl.Name, prev.Span.Start).WithSubject(decl.Name)
		}
		seen[decl.Name] = decl
		decls = append(decls, decl)
	}
	return ast.NewModule(decls), nil
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		var end span.Span
		if n := len(p.tokens); n > 0 {
			end = span.Span{Start: p.tokens[n-1].Span.End, End: p.tokens[n-1].Span.End}
		}
		return token.Token{Kind: token.EOF, Span: end}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) peekNextKind() token.Kind {
	if p.pos+1 >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[p.pos+1].Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
		if p.pos > p.far {
			p.far = p.pos
		}
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	return p.peek(), false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

func (p *Parser) checkpoint() int { return p.pos }

func (p *Parser) restore(cp int) { p.pos = cp }

// fail records a committed error. Only the first one is kept.
func (p *Parser) fail(d *diag.Diagnostic) {
	if p.err == nil {
		p.err = d
	}
}

// unknownSyntax reports the token at the furthest position any alternative reached.
func (p *Parser) unknownSyntax() *diag.Diagnostic {
	at := p.far
	if at < p.pos {
		at = p.pos
	}
	var tok token.Token
	if at < len(p.tokens) {
		tok = p.tokens[at]
	} else {
		saved := p.pos
		p.pos = at
		tok = p.peek()
		p.pos = saved
	}
	return diag.Errorf(diag.CodeUnknownSyntax, tok.Span, "unexpected '%s'", describe(tok)).WithSubject(tok.Lexeme)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.IDENT, token.INT:
		return tok.Lexeme
	case token.STRING:
		return `"` + tok.Lexeme + `"`
	case token.EOF:
		return "end of input"
	default:
		return tok.Kind.String()
	}
}

// ============================================================
// Declarations
// ============================================================

// parseFuncDecl parses: fn IDENT ( [IDENT {, IDENT}] ) block
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, bool) {
	cp := p.checkpoint()
	start, ok := p.accept(token.KW_FN)
	if !ok {
		return nil, false
	}
	nameTok, ok := p.accept(token.IDENT)
	if !ok {
		p.restore(cp)
		return nil, false
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil, false
	}
	if !p.check(token.LBRACE) {
		tok := p.peek()
		p.fail(diag.Errorf(diag.CodeMissingBody, tok.Span, "function '%s' has no body, got '%s'", nameTok.Lexeme, describe(tok)).
			WithSubject(nameTok.Lexeme).WithHint("a function body is a { ... } block"))
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.FuncDecl{
		NodeBase: ast.NodeBase{Span: p.makeSpan(start.Span.Start)},
		Name:     nameTok.Lexeme,
		Params:   params,
		Body:     body,
	}, true
}

// parseParamList parses: ( ident, ident, ... ). Once the opening
// parenthesis is seen any deviation is a committed error.
func (p *Parser) parseParamList() ([]string, bool) {
	open, ok := p.accept(token.LPAREN)
	if !ok {
		p.fail(diag.Errorf(diag.CodeBadParams, open.Span, "expected '(' to start parameter list, got '%s'", describe(open)).
			WithSubject(open.Lexeme))
		return nil, false
	}
	params := []string{}
	if _, ok := p.accept(token.RPAREN); ok {
		return params, true
	}
	for {
		nameTok, ok := p.accept(token.IDENT)
		if !ok {
			p.fail(diag.Errorf(diag.CodeBadParams, nameTok.Span, "expected parameter name, got '%s'", describe(nameTok)).
				WithSubject(nameTok.Lexeme))
			return nil, false
		}
		params = append(params, nameTok.Lexeme)
		if _, ok := p.accept(token.COMMA); ok {
			continue
		}
		if _, ok := p.accept(token.RPAREN); ok {
			return params, true
		}
		tok := p.peek()
		p.fail(diag.Errorf(diag.CodeBadParams, tok.Span, "expected ',' or ')' in parameter list, got '%s'", describe(tok)).
			WithSubject(tok.Lexeme))
		return nil, false
	}
}

// ============================================================
// Statements
// ============================================================

// parseStmt tries, in order: if, return, loop, break, expression
// statement, block.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	if p.err != nil {
		return nil, false
	}
	switch p.peekKind() {
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.KW_LOOP:
		return p.parseLoopStmt()
	case token.KW_BREAK:
		return p.parseBreakStmt()
	}
	if stmt, ok := p.parseExprStmt(); ok {
		return stmt, true
	}
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	return nil, false
}

// parseIfStmt parses: if ( expr ) block [ else stmt ]
func (p *Parser) parseIfStmt() (ast.Stmt, bool) {
	cp := p.checkpoint()
	start := p.advance() // 'if'
	if _, ok := p.accept(token.LPAREN); !ok {
		p.restore(cp)
		return nil, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	if _, ok := p.accept(token.RPAREN); !ok {
		p.restore(cp)
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if _, ok := p.accept(token.KW_ELSE); ok {
		els, ok := p.parseStmt()
		if !ok {
			p.restore(cp)
			return nil, false
		}
		stmt.Else = els
	}
	stmt.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return stmt, true
}

// parseReturnStmt parses: return expr [;]
func (p *Parser) parseReturnStmt() (ast.Stmt, bool) {
	cp := p.checkpoint()
	start := p.advance() // 'return'
	value, ok := p.parseExpr()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	p.accept(token.SEMICOLON)
	return &ast.ReturnStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Value:    value,
	}, true
}

// parseLoopStmt parses: loop block
func (p *Parser) parseLoopStmt() (ast.Stmt, bool) {
	cp := p.checkpoint()
	start := p.advance() // 'loop'
	body, ok := p.parseBlock()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.LoopStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Body:     body,
	}, true
}

// parseBreakStmt parses: break [;]
func (p *Parser) parseBreakStmt() (ast.Stmt, bool) {
	start := p.advance() // 'break'
	p.accept(token.SEMICOLON)
	return &ast.BreakStmt{StmtBase: makeStmtBase(start.Span.Start, p.prevEnd())}, true
}

// parseExprStmt parses: expr ;
func (p *Parser) parseExprStmt() (ast.Stmt, bool) {
	cp := p.checkpoint()
	expr, ok := p.parseExpr()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	if _, ok := p.accept(token.SEMICOLON); !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.ExprStmt{
		StmtBase: makeStmtBase(expr.GetSpan().Start, p.prevEnd()),
		Expr:     expr,
	}, true
}

// parseBlock parses: { stmt* }
func (p *Parser) parseBlock() (*ast.BlockStmt, bool) {
	cp := p.checkpoint()
	start, ok := p.accept(token.LBRACE)
	if !ok {
		return nil, false
	}
	block := &ast.BlockStmt{}
	for !p.check(token.RBRACE) {
		stmt, ok := p.parseStmt()
		if !ok {
			p.restore(cp)
			return nil, false
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.advance() // '}'
	block.StmtBase = makeStmtBase(start.Span.Start, p.prevEnd())
	return block, true
}

// ============================================================
// Expressions
// ============================================================

// parseExpr tries assignment first, then a comparison or plain additive
// expression.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	if p.err != nil {
		return nil, false
	}
	if expr, ok := p.parseAssignment(); ok {
		return expr, true
	}
	if p.err != nil {
		return nil, false
	}
	return p.parseComparison()
}

// parseAssignment parses: IDENT = expr
func (p *Parser) parseAssignment() (ast.Expr, bool) {
	cp := p.checkpoint()
	if !p.check(token.IDENT) || p.peekNextKind() != token.ASSIGN {
		return nil, false
	}
	nameTok := p.advance()
	p.advance() // '='
	value, ok := p.parseExpr()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.AssignExpr{
		ExprBase: makeExprBase(nameTok.Span.Start, p.prevEnd()),
		Name:     nameTok.Lexeme,
		Value:    value,
	}, true
}

// parseComparison parses: additive [ CMP additive ]. Comparisons do not
// chain; a second operator is left for the caller to reject.
func (p *Parser) parseComparison() (ast.Expr, bool) {
	cp := p.checkpoint()
	left, ok := p.parseAdditive()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	if !p.peekKind().IsComparison() {
		return left, true
	}
	op := p.advance()
	right, ok := p.parseAdditive()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.CompareExpr{
		ExprBase: joinExprBase(left, right),
		Op:       op.Kind,
		Left:     left,
		Right:    right,
	}, true
}

// parseAdditive parses a left-associative chain of + and -.
func (p *Parser) parseAdditive() (ast.Expr, bool) {
	return p.parseChain(p.parseMultiplicative, token.PLUS, token.MINUS)
}

// parseMultiplicative parses a left-associative chain of * and /.
func (p *Parser) parseMultiplicative() (ast.Expr, bool) {
	return p.parseChain(p.parsePrimary, token.STAR, token.SLASH)
}

// parseChain folds operand (op operand)* to the left, so a - b - c is
// (a - b) - c. An operator without a right operand is left unconsumed.
func (p *Parser) parseChain(operand func() (ast.Expr, bool), ops ...token.Kind) (ast.Expr, bool) {
	left, ok := operand()
	if !ok {
		return nil, false
	}
	for isOneOf(p.peekKind(), ops) {
		cp := p.checkpoint()
		op := p.advance()
		right, ok := operand()
		if !ok {
			p.restore(cp)
			break
		}
		left = &ast.BinaryExpr{
			ExprBase: joinExprBase(left, right),
			Op:       op.Kind,
			Left:     left,
			Right:    right,
		}
	}
	return left, true
}

// parsePrimary parses literals, identifiers, calls, index access,
// parenthesized expressions, list literals and unary negation.
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	if p.err != nil {
		return nil, false
	}
	tok := p.peek()

	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Int(),
		}, true

	case token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Kind == token.KW_TRUE,
		}, true

	case token.IDENT:
		switch p.peekNextKind() {
		case token.LPAREN:
			return p.parseCall()
		case token.LBRACKET:
			if expr, ok := p.parseIndex(); ok {
				return expr, true
			}
			if p.err != nil {
				return nil, false
			}
		}
		p.advance()
		return &ast.IdentExpr{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok.Lexeme,
		}, true

	case token.LPAREN:
		return p.parseParen()

	case token.LBRACKET:
		return p.parseListLiteral()

	case token.MINUS:
		cp := p.checkpoint()
		p.advance()
		operand, ok := p.parsePrimary()
		if !ok {
			p.restore(cp)
			return nil, false
		}
		return &ast.NegExpr{
			ExprBase: makeExprBase(tok.Span.Start, p.prevEnd()),
			Operand:  operand,
		}, true

	default:
		return nil, false
	}
}

// parseParen parses: ( expr )
func (p *Parser) parseParen() (ast.Expr, bool) {
	cp := p.checkpoint()
	start := p.advance() // '('
	inner, ok := p.parseExpr()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	if _, ok := p.accept(token.RPAREN); !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.ParenExpr{
		ExprBase: makeExprBase(start.Span.Start, p.prevEnd()),
		Inner:    inner,
	}, true
}

// parseIndex parses: IDENT [ expr ]
func (p *Parser) parseIndex() (ast.Expr, bool) {
	cp := p.checkpoint()
	nameTok := p.advance()
	p.advance() // '['
	index, ok := p.parseExpr()
	if !ok {
		p.restore(cp)
		return nil, false
	}
	if _, ok := p.accept(token.RBRACKET); !ok {
		p.restore(cp)
		return nil, false
	}
	return &ast.IndexExpr{
		ExprBase: makeExprBase(nameTok.Span.Start, p.prevEnd()),
		Name:     nameTok.Lexeme,
		Index:    index,
	}, true
}

// parseCall parses: IDENT ( [expr {, expr}] ). An identifier directly
// followed by '(' can only be a call, so a malformed argument list is a
// committed error rather than a failed alternative.
func (p *Parser) parseCall() (ast.Expr, bool) {
	nameTok := p.advance()
	p.advance() // '('
	call := &ast.CallExpr{Name: nameTok.Lexeme, Args: []ast.Expr{}}

	if _, ok := p.accept(token.RPAREN); !ok {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				if p.err == nil {
					tok := p.peek()
					p.fail(diag.Errorf(diag.CodeBadArgs, tok.Span, "expected argument to '%s', got '%s'", nameTok.Lexeme, describe(tok)).
						WithSubject(nameTok.Lexeme))
				}
				return nil, false
			}
			call.Args = append(call.Args, arg)
			if _, ok := p.accept(token.COMMA); ok {
				continue
			}
			if _, ok := p.accept(token.RPAREN); ok {
				break
			}
			tok := p.peek()
			p.fail(diag.Errorf(diag.CodeBadArgs, tok.Span, "expected ',' or ')' in call to '%s', got '%s'", nameTok.Lexeme, describe(tok)).
				WithSubject(nameTok.Lexeme))
			return nil, false
		}
	}
	call.ExprBase = makeExprBase(nameTok.Span.Start, p.prevEnd())
	return call, true
}

// parseListLiteral parses: [ ] or [ expr {, expr} ]
func (p *Parser) parseListLiteral() (ast.Expr, bool) {
	cp := p.checkpoint()
	start := p.advance() // '['
	list := &ast.ListLiteral{Elements: []ast.Expr{}}

	if _, ok := p.accept(token.RBRACKET); !ok {
		for {
			elem, ok := p.parseExpr()
			if !ok {
				p.restore(cp)
				return nil, false
			}
			list.Elements = append(list.Elements, elem)
			if _, ok := p.accept(token.COMMA); ok {
				continue
			}
			if _, ok := p.accept(token.RBRACKET); ok {
				break
			}
			p.restore(cp)
			return nil, false
		}
	}
	list.ExprBase = makeExprBase(start.Span.Start, p.prevEnd())
	return list, true
}

func isOneOf(kind token.Kind, kinds []token.Kind) bool {
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

// joinExprBase spans from the start of left to the end of right.
func joinExprBase(left, right ast.Expr) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: left.GetSpan().Join(right.GetSpan())}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
