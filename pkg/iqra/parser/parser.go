// Package parser turns tokens into an AST.
//
// It is a Pratt parser: prefix and infix parse functions are registered
// per token type, and binding power comes from a fixed precedence table.
// The parser fails fast — the first structural error aborts the parse and
// is returned as a bilingual error, so no partial tree ever reaches the
// evaluator.
package parser

import (
	"strconv"

	"github.com/iqra-lang/iqra/pkg/iqra/ast"
	"github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/lexer"
)

// Operator precedence levels, lowest to highest
const (
	_ int = iota
	LOWEST
	LOGIC_OR    // or
	LOGIC_AND   // and
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x, not x
	INDEX       // x[i]
	CALL        // f(x)
)

// precedences maps token types to binding power. NEWLINE and SEMICOLON
// are deliberately absent so they terminate any expression.
var precedences = map[lexer.TokenType]int{
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALS,
	lexer.NOT_EQ:   EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LTE:      LESSGREATER,
	lexer.GTE:      LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.SLASH:    PRODUCT,
	lexer.ASTERISK: PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.LBRACKET: INDEX,
	lexer.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser holds the state of the parsing process
type Parser struct {
	l   *lexer.Lexer
	err *errors.IqraError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a parser over the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.NUMBER:   p.parseNumberLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBooleanLiteral,
		lexer.FALSE:    p.parseBooleanLiteral,
		lexer.NIL:      p.parseNilLiteral,
		lexer.MINUS:    p.parsePrefixExpression,
		lexer.NOT:      p.parsePrefixExpression,
		lexer.LPAREN:   p.parseGroupedExpression,
		lexer.LBRACKET: p.parseListLiteral,
		lexer.LBRACE:   p.parseMapLiteral,
	}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseInfixExpression,
		lexer.MINUS:    p.parseInfixExpression,
		lexer.ASTERISK: p.parseInfixExpression,
		lexer.SLASH:    p.parseInfixExpression,
		lexer.PERCENT:  p.parseInfixExpression,
		lexer.EQ:       p.parseInfixExpression,
		lexer.NOT_EQ:   p.parseInfixExpression,
		lexer.LT:       p.parseInfixExpression,
		lexer.GT:       p.parseInfixExpression,
		lexer.LTE:      p.parseInfixExpression,
		lexer.GTE:      p.parseInfixExpression,
		lexer.AND:      p.parseInfixExpression,
		lexer.OR:       p.parseInfixExpression,
		lexer.LPAREN:   p.parseCallExpression,
		lexer.LBRACKET: p.parseIndexExpression,
	}

	// Read two tokens so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse is the convenience entry point: source text in, program or first
// structured error out.
func Parse(input string) (*ast.Program, *errors.IqraError) {
	return New(lexer.New(input)).ParseProgram()
}

// ParseProgram parses the whole token stream into a Program
func (p *Parser) ParseProgram() (*ast.Program, *errors.IqraError) {
	program := &ast.Program{}

	for !p.curTokenIs(lexer.EOF) {
		if p.err != nil {
			return nil, p.err
		}
		if p.curTokenIs(lexer.NEWLINE) || p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	if p.err != nil {
		return nil, p.err
	}

	return program, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == lexer.ILLEGAL && p.err == nil {
		if errs := p.l.Errors(); len(errs) > 0 {
			p.err = errs[len(errs)-1]
		}
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances when the next token matches, otherwise records a
// structured error and returns false.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(expected lexer.TokenType) {
	if p.err != nil {
		return
	}
	got := p.peekToken.Literal
	if p.peekToken.Type == lexer.EOF {
		got = "EOF"
	} else if p.peekToken.Type == lexer.NEWLINE {
		got = "\\n"
	}
	p.err = errors.NewWithPosition("PARSE-0001", p.peekToken.Line, p.peekToken.Column,
		map[string]any{"Expected": "'" + expected.String() + "'", "Got": got})
}

func (p *Parser) noPrefixParseFnError() {
	if p.err != nil {
		return
	}
	got := p.curToken.Literal
	if p.curToken.Type == lexer.EOF {
		got = "EOF"
	} else if p.curToken.Type == lexer.NEWLINE {
		got = "\\n"
	}
	p.err = errors.NewWithPosition("PARSE-0002", p.curToken.Line, p.curToken.Column,
		map[string]any{"Token": got})
}

// skipPeekNewlines discards newline tokens ahead of the cursor. Used where
// the grammar allows a line break, such as before '{' and before else or
// catch.
func (p *Parser) skipPeekNewlines() {
	for p.peekTokenIs(lexer.NEWLINE) {
		p.nextToken()
	}
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

// --- statements ---

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.IDENT:
		if p.peekTokenIs(lexer.ASSIGN) {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FUNCTION:
		return p.parseFunctionStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.TRY:
		return p.parseTryCatchStatement()
	case lexer.LBRACE:
		// A '{' opening a statement is a block; map literals only occur
		// in expression position.
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseAssignStatement() *ast.AssignStatement {
	stmt := &ast.AssignStatement{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}

	p.nextToken() // '='
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.err != nil {
			return nil
		}
		if p.curTokenIs(lexer.EOF) {
			p.err = errors.NewWithPosition("PARSE-0003", block.Token.Line, block.Token.Column, nil)
			return nil
		}
		if p.curTokenIs(lexer.NEWLINE) || p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()
	if p.err != nil {
		return nil
	}

	// else may sit on the next line
	p.skipPeekNewlines()
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else {
			p.skipPeekNewlines()
			if !p.expectPeek(lexer.LBRACE) {
				return nil
			}
			stmt.Alternative = p.parseBlockStatement()
		}
		if p.err != nil {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	stmt.Params = p.parseFunctionParams()
	if p.err != nil {
		return nil
	}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	return stmt
}

func (p *Parser) parseFunctionParams() []*ast.Identifier {
	params := []*ast.Identifier{}

	p.skipPeekNewlines()
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.skipPeekNewlines()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return params
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	// Bare return: nothing before the statement boundary
	if p.peekTokenIs(lexer.NEWLINE) || p.peekTokenIs(lexer.SEMICOLON) ||
		p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseTryCatchStatement() *ast.TryCatchStatement {
	stmt := &ast.TryCatchStatement{Token: p.curToken}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Try = p.parseBlockStatement()
	if p.err != nil {
		return nil
	}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.CATCH) {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.ErrName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Catch = p.parseBlockStatement()

	return stmt
}

// --- expressions ---

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError()
		return nil
	}
	left := prefix()

	for p.err == nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		if p.err == nil {
			p.err = errors.NewWithPosition("PARSE-0002", p.curToken.Line, p.curToken.Column,
				map[string]any{"Token": p.curToken.Literal})
		}
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	// Type.String() canonicalizes the operator, so ليس and not build the
	// same node.
	expr := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Type.String(),
	}

	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Type.String(),
	}

	precedence := p.curPrecedence()
	p.nextToken()
	p.skipCurNewlines()
	expr.Right = p.parseExpression(precedence)
	return expr
}

// skipCurNewlines lets a binary expression continue on the next line after
// its operator.
func (p *Parser) skipCurNewlines() {
	for p.curTokenIs(lexer.NEWLINE) {
		p.nextToken()
	}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	p.skipCurNewlines()

	expr := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	p.skipPeekNewlines()
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	list.Elements = p.parseExpressionList(lexer.RBRACKET)
	return list
}

// parseExpressionList parses comma-separated expressions up to the given
// closing token. Newlines are allowed after the opener, around commas, and
// before the closer.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	list := []ast.Expression{}

	p.skipPeekNewlines()
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	if p.err != nil {
		return nil
	}

	p.skipPeekNewlines()
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.skipPeekNewlines()
		if p.peekTokenIs(end) { // trailing comma
			break
		}
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
		if p.err != nil {
			return nil
		}
		p.skipPeekNewlines()
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}

func (p *Parser) parseMapLiteral() ast.Expression {
	m := &ast.MapLiteral{Token: p.curToken}

	p.skipPeekNewlines()
	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return m
	}

	for {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}

		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		p.skipCurNewlines()

		value := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}

		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, value)

		p.skipPeekNewlines()
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.skipPeekNewlines()
		if p.peekTokenIs(lexer.RBRACE) { // trailing comma
			break
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	return m
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}
	call.Arguments = p.parseExpressionList(lexer.RPAREN)
	return call
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}

	return expr
}
