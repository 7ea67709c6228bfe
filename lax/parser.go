package lax

import "errors"

// DefaultMaxDepth bounds how deeply unary operators and parentheses may nest
// before the parser gives up.
const DefaultMaxDepth = 512

// Parser is a recursive-descent parser over a scanned token slice.
type Parser struct {
	tokens  []Token
	current int

	depth    int
	maxDepth int
}

// NewParser prepares a parser for tokens. A missing EOF terminator is added.
// maxDepth <= 0 selects DefaultMaxDepth.
func NewParser(tokens []Token, maxDepth int) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: EOF, Line: line})
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{tokens: tokens, maxDepth: maxDepth}
}

// Parse parses a statement sequence and stops at the first error.
func Parse(tokens []Token) ([]Statement, error) {
	return NewParser(tokens, 0).Parse()
}

// ParseExpression parses tokens as a single expression and returns nil if
// they do not form one.
func ParseExpression(tokens []Token) Expression {
	expr, err := NewParser(tokens, 0).ParseExpression()
	if err != nil {
		return nil
	}
	return expr
}

func (p *Parser) Parse() ([]Statement, error) {
	var stmts []Statement
	for !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ParseWithRecovery keeps going after a syntax error by skipping to the next
// statement boundary. It returns the statements that parsed cleanly and
// every error encountered.
func (p *Parser) ParseWithRecovery() ([]Statement, ErrorList) {
	var (
		stmts []Statement
		errs  ErrorList
	)
	for !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			var perr *Error
			if errors.As(err, &perr) {
				errs = append(errs, perr)
			}
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, errs
}

// ParseExpression parses one expression, optionally followed by a
// semicolon, that must span the remaining tokens.
func (p *Parser) ParseExpression() (Expression, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(Semicolon)
	if !p.isAtEnd() {
		return nil, p.errorAt(p.peek(), "expect end of expression")
	}
	return expr, nil
}

func (p *Parser) statement() (Statement, error) {
	if p.match(Print) {
		return p.printStatement()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() (Statement, error) {
	keyword := p.previous()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semicolon, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: expr, position: keyword.Line}, nil
}

func (p *Parser) expressionStatement() (Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semicolon, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expression: expr}, nil
}

func (p *Parser) expression() (Expression, error) {
	return p.equality()
}

func (p *Parser) equality() (Expression, error) {
	return p.binary(p.comparison, EqualEqual, BangEqual)
}

func (p *Parser) comparison() (Expression, error) {
	return p.binary(p.term, Greater, GreaterEqual, Less, LessEqual, In, BangIn)
}

func (p *Parser) term() (Expression, error) {
	return p.binary(p.factor, Minus, Plus)
}

func (p *Parser) factor() (Expression, error) {
	return p.binary(p.unary, Star, Slash)
}

// binary parses one left-associative precedence tier whose operands come
// from the next tier up.
func (p *Parser) binary(operand func() (Expression, error), operators ...TokenType) (Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: operator, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (Expression, error) {
	if !p.match(Bang, Minus, Not, Plus) {
		return p.primary()
	}
	operator := p.previous()
	if err := p.descend(operator); err != nil {
		return nil, err
	}
	defer p.ascend()

	right, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Operator: operator, Right: right}, nil
}

func (p *Parser) primary() (Expression, error) {
	switch {
	case p.match(False):
		return NewLiteral(NewBool(false), p.previous().Line), nil
	case p.match(True):
		return NewLiteral(NewBool(true), p.previous().Line), nil
	case p.match(Nil):
		return NewLiteral(NewNil(), p.previous().Line), nil
	case p.match(Number, String):
		tok := p.previous()
		if tok.Literal == nil {
			return nil, p.errorAt(tok, "malformed literal")
		}
		return NewLiteral(*tok.Literal, tok.Line), nil
	case p.match(LeftParen):
		if err := p.descend(p.previous()); err != nil {
			return nil, err
		}
		defer p.ascend()

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RightParen, "expect ')' after expression"); err != nil {
			return nil, err
		}
		return &GroupingExpr{Expression: expr}, nil
	}
	return nil, p.errorAt(p.peek(), "expected expression")
}

// synchronize discards tokens until just after a semicolon or right before
// a token that starts a new statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == Semicolon {
			return
		}
		switch p.peek().Type {
		case Class, Fun, Var, Val, For, If, While, Loop, Print, Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) descend(tok Token) error {
	if p.depth >= p.maxDepth {
		return p.errorAt(tok, "expression nests too deeply")
	}
	p.depth++
	return nil
}

func (p *Parser) ascend() {
	p.depth--
}

func (p *Parser) consume(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), "%s", message)
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Is(tt)
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok Token, format string, args ...any) error {
	return newTokenError(SyntaxError, tok, format, args...)
}
