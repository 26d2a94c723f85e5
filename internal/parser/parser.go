// Package parser implements the Brewin parser using Pratt parsing for
// expressions and straightforward recursive descent for statements.
package parser

import (
	"fmt"

	"github.com/brewlang/brewin/internal/lexer"
	"github.com/brewlang/brewin/pkg/ast"
	"github.com/brewlang/brewin/pkg/token"
)

// Precedence levels for operators, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x, !x
)

var precedences = map[token.TokenType]int{
	token.OR:         OR,
	token.AND:        AND,
	token.EQ:         EQUALS,
	token.NOT_EQ:     EQUALS,
	token.LESS:       LESSGREATER,
	token.GREATER:    LESSGREATER,
	token.LESS_EQ:    LESSGREATER,
	token.GREATER_EQ: LESSGREATER,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token stream from the lexer into a Brewin AST, collecting
// syntax errors rather than stopping at the first one.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a Parser over the tokens produced by l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:  p.parseIdentifierOrCall,
		token.INT:    p.parseIntegerLiteral,
		token.STRING: p.parseStringLiteral,
		token.TRUE:   p.parseBooleanLiteral,
		token.FALSE:  p.parseBooleanLiteral,
		token.NIL:    p.parseNilLiteral,
		token.AT:     p.parseObjectLiteral,
		token.NOT:    p.parsePrefixExpression,
		token.MINUS:  p.parsePrefixExpression,
		token.LPAREN: p.parseGroupedExpression,
		token.LAMBDA: p.parseLambdaExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:       p.parseInfixExpression,
		token.MINUS:      p.parseInfixExpression,
		token.ASTERISK:   p.parseInfixExpression,
		token.SLASH:      p.parseInfixExpression,
		token.EQ:         p.parseInfixExpression,
		token.NOT_EQ:     p.parseInfixExpression,
		token.LESS:       p.parseInfixExpression,
		token.LESS_EQ:    p.parseInfixExpression,
		token.GREATER:    p.parseInfixExpression,
		token.GREATER_EQ: p.parseInfixExpression,
		token.AND:        p.parseInfixExpression,
		token.OR:         p.parseInfixExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the syntax errors accumulated while parsing.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf(
		"expected next token to be %s, got %s instead at %s",
		t, p.peekToken.Type, p.peekToken.Pos))
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...)+fmt.Sprintf(" at %s", pos))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the full token stream into a Program of top-level
// function declarations.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.FUNC) {
			p.errorf(p.curToken.Pos, "expected function declaration, got %s", p.curToken.Type)
			p.nextToken()
			continue
		}
		fn := p.parseFunctionDecl()
		if fn != nil {
			program.Functions = append(program.Functions, fn)
		}
		p.nextToken() // step past the declaration's closing "}"
	}

	return program
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParamList()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Statements = p.parseBlockStatements()

	return fn
}

// parseParamList parses a "(" ... ")" formal parameter list; curToken is
// LPAREN on entry and RPAREN on exit.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	params = append(params, p.parseParam())

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParam())
	}

	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseParam() *ast.Param {
	if p.curTokenIs(token.REF) {
		tok := p.curToken
		p.nextToken()
		return &ast.Param{Token: tok, Name: p.curToken.Literal, ByRef: true}
	}
	return &ast.Param{Token: p.curToken, Name: p.curToken.Literal, ByRef: false}
}

// parseBlockStatements parses statements up to and including the closing
// "}"; curToken is LBRACE on entry and RBRACE on exit.
func (p *Parser) parseBlockStatements() []ast.Statement {
	var statements []ast.Statement

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.nextToken()
	}

	return statements
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) || p.peekTokenIs(token.DOT) {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{Token: p.curToken}
	name := p.curToken.Literal

	if p.peekTokenIs(token.DOT) {
		p.nextToken() // consume DOT
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		if p.peekTokenIs(token.LPAREN) {
			// "name.method(...);" is a method-call statement, not an assignment.
			method := p.curToken.Literal
			p.nextToken()
			exprStmt := &ast.ExpressionStatement{Token: stmt.Token}
			exprStmt.Expression = p.parseMethodCallExpression(stmt.Token, name, method)
			if !p.expectPeek(token.SEMI) {
				return nil
			}
			return exprStmt
		}
		stmt.DottedTarget = name + "." + p.curToken.Literal
	} else {
		stmt.Target = name
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	if !p.expectPeek(token.SEMI) {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatements()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Alternative = p.parseBlockStatements()
		stmt.HasAlternative = true
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatements()

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)

	if !p.expectPeek(token.SEMI) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)

	if !p.expectPeek(token.SEMI) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Pos, "no prefix parse function for %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMI) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.curToken
	name := p.curToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		return p.parseCallExpression(tok, name)
	}

	if p.peekTokenIs(token.DOT) {
		p.nextToken() // consume DOT
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		method := p.curToken.Literal
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		return p.parseMethodCallExpression(tok, name, method)
	}

	return &ast.Identifier{Token: tok, Name: name}
}

// parseCallExpression parses the "(args)" suffix of an fcall; curToken is
// LPAREN on entry.
func (p *Parser) parseCallExpression(tok token.Token, name string) ast.Expression {
	call := &ast.CallExpression{Token: tok, Function: name}
	call.Arguments = p.parseExpressionList(token.RPAREN)
	return call
}

func (p *Parser) parseMethodCallExpression(tok token.Token, object, method string) ast.Expression {
	call := &ast.MethodCallExpression{Token: tok, Object: object, Method: method}
	call.Arguments = p.parseExpressionList(token.RPAREN)
	return call
}

// parseExpressionList parses a comma-separated expression list ending in
// end; curToken is the opening delimiter on entry and end on exit.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return list
	}
	return list
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	var value int64
	if _, err := fmt.Sscanf(p.curToken.Literal, "%d", &value); err != nil {
		p.errorf(p.curToken.Pos, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	return &ast.ObjectLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	if p.curTokenIs(token.MINUS) {
		expr.Operator = "neg"
	}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseLambdaExpression() ast.Expression {
	lambda := &ast.LambdaExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	lambda.Params = p.parseParamList()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lambda.Statements = p.parseBlockStatements()

	return lambda
}
