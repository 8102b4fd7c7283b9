package expr

import (
	"fmt"
	"strings"
)

// The safety screen runs before any lexing or parsing. It is deliberately
// redundant with the constrained grammar: even though the AST interpreter
// has no way to reach host capabilities, expression text containing
// capability-access tokens is rejected outright and never evaluated.

// MaxDisplayLen bounds how much of an expression is echoed in error text.
const MaxDisplayLen = 60

// deniedTokens are lowercased substrings that reject an expression no
// matter what else it contains: ambient globals, statement separators,
// block delimiters, function-construction syntax and string-template
// syntax.
var deniedTokens = []string{
	// ambient globals
	"window",
	"document",
	"globalthis",
	"global",
	"process",
	"this",
	"self",
	// statement separators and block delimiters
	";",
	"{",
	"}",
	// function construction
	"function",
	"=>",
	"eval",
	"exec",
	"constructor",
	"prototype",
	"__proto__",
	"import",
	"require",
	"new ",
	// string templates
	"`",
	"${",
}

// UnsafeError reports an expression rejected by the safety screen.
type UnsafeError struct {
	Expr   string // offending expression, truncated for display
	Reason string
}

func (e *UnsafeError) Error() string {
	return fmt.Sprintf("unsafe expression %q: %s", e.Expr, e.Reason)
}

// CheckSafe screens expression text against the character allow-list and
// the capability deny-list. It returns an *UnsafeError on rejection.
func CheckSafe(text string) error {
	for i := 0; i < len(text); i++ {
		if !isAllowedChar(text[i]) {
			return &UnsafeError{
				Expr:   Truncate(text),
				Reason: fmt.Sprintf("character %q is not allowed", text[i]),
			}
		}
	}

	lowered := strings.ToLower(text)
	for _, tok := range deniedTokens {
		if strings.Contains(lowered, tok) {
			return &UnsafeError{
				Expr:   Truncate(text),
				Reason: fmt.Sprintf("token %q is not allowed", tok),
			}
		}
	}
	return nil
}

// isAllowedChar is the character allow-list: letters, digits, whitespace,
// arithmetic/comparison/logical operators, parentheses, brackets, quotes
// and a small set of punctuation. Everything else rejects the expression.
func isAllowedChar(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		return true
	}
	switch ch {
	case '+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!', '&', '|',
		'(', ')', '[', ']',
		',', '.', '_', '"', '\'':
		return true
	}
	return false
}

// Truncate bounds expression text for display in error messages.
func Truncate(text string) string {
	if len(text) <= MaxDisplayLen {
		return text
	}
	return text[:MaxDisplayLen] + "..."
}
