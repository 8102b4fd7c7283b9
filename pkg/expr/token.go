// Package expr provides the safe expression engine for plot scripts.
// An expression is screened against an allow-list/deny-list, lexed, parsed
// once into a small AST, then interpreted against an explicitly supplied
// environment. No host code-construction capability is involved anywhere.
package expr

import "strings"

// TokenType represents the type of a token.
type TokenType int

// Token types.
const (
	TOKEN_ILLEGAL TokenType = iota
	TOKEN_EOF

	// Literals
	TOKEN_IDENT  // identifier (case-normalized to uppercase)
	TOKEN_NUMBER // numeric literal
	TOKEN_STRING // string literal

	// Operators
	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_MULT    // *
	TOKEN_DIV     // /
	TOKEN_MOD     // %
	TOKEN_POW     // ^
	TOKEN_EQ      // = (bare equals is equality in plot scripts)
	TOKEN_NEQ     // <>
	TOKEN_LT      // <
	TOKEN_GT      // >
	TOKEN_LTE     // <=
	TOKEN_GTE     // >=
	TOKEN_AND     // AND or &&
	TOKEN_OR      // OR or ||
	TOKEN_NOT     // NOT or !

	// Delimiters
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_COMMA    // ,
)

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the expression text
}

var tokenTypeNames = map[TokenType]string{
	TOKEN_ILLEGAL:  "ILLEGAL",
	TOKEN_EOF:      "EOF",
	TOKEN_IDENT:    "IDENT",
	TOKEN_NUMBER:   "NUMBER",
	TOKEN_STRING:   "STRING",
	TOKEN_PLUS:     "+",
	TOKEN_MINUS:    "-",
	TOKEN_MULT:     "*",
	TOKEN_DIV:      "/",
	TOKEN_MOD:      "%",
	TOKEN_POW:      "^",
	TOKEN_EQ:       "=",
	TOKEN_NEQ:      "<>",
	TOKEN_LT:       "<",
	TOKEN_GT:       ">",
	TOKEN_LTE:      "<=",
	TOKEN_GTE:      ">=",
	TOKEN_AND:      "AND",
	TOKEN_OR:       "OR",
	TOKEN_NOT:      "NOT",
	TOKEN_LPAREN:   "(",
	TOKEN_RPAREN:   ")",
	TOKEN_LBRACKET: "[",
	TOKEN_RBRACKET: "]",
	TOKEN_COMMA:    ",",
}

// String returns a string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// wordOperators maps the textual operators of the plot-script notation
// (case-insensitive) to their token types.
var wordOperators = map[string]TokenType{
	"and": TOKEN_AND,
	"or":  TOKEN_OR,
	"not": TOKEN_NOT,
}

// LookupIdent checks whether an identifier is a word operator (AND, OR,
// NOT in any letter case). Anything else is a plain identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := wordOperators[strings.ToLower(ident)]; ok {
		return tok
	}
	return TOKEN_IDENT
}
