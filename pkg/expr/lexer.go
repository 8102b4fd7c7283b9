package expr

import "strings"

// Lexer tokenizes a single plot-script expression.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
}

// NewLexer creates a new Lexer over the given expression text.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position

	var tok Token
	switch l.ch {
	case '+':
		tok = l.newToken(TOKEN_PLUS, pos)
	case '-':
		tok = l.newToken(TOKEN_MINUS, pos)
	case '*':
		tok = l.newToken(TOKEN_MULT, pos)
	case '/':
		tok = l.newToken(TOKEN_DIV, pos)
	case '%':
		tok = l.newToken(TOKEN_MOD, pos)
	case '^':
		tok = l.newToken(TOKEN_POW, pos)
	case '=':
		// Bare = is equality; == is tolerated as the same thing.
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_EQ, Literal: "==", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_EQ, pos)
		}
	case '<':
		switch l.peekChar() {
		case '>':
			l.readChar()
			tok = Token{Type: TOKEN_NEQ, Literal: "<>", Pos: pos}
		case '=':
			l.readChar()
			tok = Token{Type: TOKEN_LTE, Literal: "<=", Pos: pos}
		default:
			tok = l.newToken(TOKEN_LT, pos)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_GTE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_GT, pos)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TOKEN_NEQ, Literal: "!=", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_NOT, pos)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = Token{Type: TOKEN_AND, Literal: "&&", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, pos)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = Token{Type: TOKEN_OR, Literal: "||", Pos: pos}
		} else {
			tok = l.newToken(TOKEN_ILLEGAL, pos)
		}
	case '(':
		tok = l.newToken(TOKEN_LPAREN, pos)
	case ')':
		tok = l.newToken(TOKEN_RPAREN, pos)
	case '[':
		tok = l.newToken(TOKEN_LBRACKET, pos)
	case ']':
		tok = l.newToken(TOKEN_RBRACKET, pos)
	case ',':
		tok = l.newToken(TOKEN_COMMA, pos)
	case '"', '\'':
		tok = Token{Type: TOKEN_STRING, Literal: l.readString(l.ch), Pos: pos}
	case 0:
		tok = Token{Type: TOKEN_EOF, Literal: "", Pos: pos}
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			typ := LookupIdent(lit)
			if typ == TOKEN_IDENT {
				lit = strings.ToUpper(lit)
			}
			return Token{Type: typ, Literal: lit, Pos: pos}
		}
		if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			return Token{Type: TOKEN_NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = l.newToken(TOKEN_ILLEGAL, pos)
	}

	l.readChar()
	return tok
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a numeric literal (integer or decimal).
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readString reads a string literal delimited by the given quote.
func (l *Lexer) readString(quote byte) string {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == quote || l.ch == 0 {
			break
		}
	}
	return l.input[position:l.position]
}

// skipWhitespace skips whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) newToken(tokenType TokenType, pos int) Token {
	return Token{Type: tokenType, Literal: string(l.ch), Pos: pos}
}

// isLetter checks if a character can start or continue an identifier.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if a character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
