package expr

import (
	"fmt"
	"strconv"
)

// Precedence levels for operators.
const (
	_ int = iota
	LOWEST
	OR          // OR
	AND         // AND
	EQUALS      // = <>
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	POWER       // ^ (right-associative)
	PREFIX      // -x NOT x
	CALL        // name(args)
)

var precedences = map[TokenType]int{
	TOKEN_OR:     OR,
	TOKEN_AND:    AND,
	TOKEN_EQ:     EQUALS,
	TOKEN_NEQ:    EQUALS,
	TOKEN_LT:     LESSGREATER,
	TOKEN_LTE:    LESSGREATER,
	TOKEN_GT:     LESSGREATER,
	TOKEN_GTE:    LESSGREATER,
	TOKEN_PLUS:   SUM,
	TOKEN_MINUS:  SUM,
	TOKEN_MULT:   PRODUCT,
	TOKEN_DIV:    PRODUCT,
	TOKEN_MOD:    PRODUCT,
	TOKEN_POW:    POWER,
	TOKEN_LPAREN: CALL,
}

// ParseError reports a malformed expression.
type ParseError struct {
	Expr    string // offending expression, truncated for display
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Expr, e.Message)
}

// Parser parses one expression into an AST.
type Parser struct {
	l      *Lexer
	source string

	curToken  Token
	peekToken Token

	errors []string
}

// NewParser creates a parser over the given expression text. The text must
// already have passed CheckSafe.
func NewParser(text string) *Parser {
	p := &Parser{l: NewLexer(text), source: text}
	// Read two tokens to initialize curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse screens, lexes and parses expression text into an AST. This is the
// only entry point the rest of the system uses.
func Parse(text string) (Node, error) {
	if err := CheckSafe(text); err != nil {
		return nil, err
	}
	p := NewParser(text)
	node := p.parseExpression(LOWEST)
	if p.curToken.Type != TOKEN_EOF && len(p.errors) == 0 {
		p.nextToken()
		if p.curToken.Type != TOKEN_EOF {
			p.addError("unexpected %q after expression", p.curToken.Literal)
		}
	}
	if len(p.errors) > 0 {
		return nil, &ParseError{Expr: Truncate(text), Message: p.errors[0]}
	}
	if node == nil {
		return nil, &ParseError{Expr: Truncate(text), Message: "empty expression"}
	}
	return node, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) addError(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression is a conventional Pratt loop over the current token.
func (p *Parser) parseExpression(precedence int) Node {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != TOKEN_EOF && precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() Node {
	switch p.curToken.Type {
	case TOKEN_NUMBER:
		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError("invalid number %q", p.curToken.Literal)
			return nil
		}
		return &NumberLiteral{Value: value}

	case TOKEN_STRING:
		return &StringLiteral{Value: p.curToken.Literal}

	case TOKEN_IDENT:
		if p.peekToken.Type == TOKEN_LPAREN {
			return p.parseCall(p.curToken.Literal)
		}
		return &Identifier{Name: p.curToken.Literal}

	case TOKEN_MINUS, TOKEN_NOT:
		op := p.curToken.Type
		p.nextToken()
		right := p.parsePrefix()
		if right == nil {
			return nil
		}
		return &UnaryExpression{Operator: op, Right: right}

	case TOKEN_PLUS:
		// Unary plus is a no-op.
		p.nextToken()
		return p.parsePrefix()

	case TOKEN_LPAREN:
		p.nextToken()
		inner := p.parseExpression(LOWEST)
		if inner == nil {
			return nil
		}
		if !p.expectPeek(TOKEN_RPAREN) {
			return nil
		}
		return inner

	case TOKEN_LBRACKET:
		// Brackets group like parentheses in plot-script notation.
		p.nextToken()
		inner := p.parseExpression(LOWEST)
		if inner == nil {
			return nil
		}
		if !p.expectPeek(TOKEN_RBRACKET) {
			return nil
		}
		return inner

	case TOKEN_EOF:
		p.addError("unexpected end of expression")
		return nil

	default:
		p.addError("unexpected token %q", p.curToken.Literal)
		return nil
	}
}

func (p *Parser) parseInfix(left Node) Node {
	op := p.curToken.Type
	precedence := p.curPrecedence()
	// ^ binds right-to-left: 2^3^2 is 2^(3^2).
	if op == TOKEN_POW {
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// parseCall parses NAME(arg1, arg2, ...) with the callee already current.
func (p *Parser) parseCall(name string) Node {
	call := &CallExpression{Name: name}

	p.nextToken() // now on (
	if p.peekToken.Type == TOKEN_RPAREN {
		p.nextToken()
		return call
	}

	for {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)

		switch p.peekToken.Type {
		case TOKEN_COMMA:
			p.nextToken()
		case TOKEN_RPAREN:
			p.nextToken()
			return call
		default:
			p.addError("expected , or ) in call to %s", name)
			return nil
		}
	}
}

func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.addError("expected %s, got %q", t, p.peekToken.Literal)
	return false
}
