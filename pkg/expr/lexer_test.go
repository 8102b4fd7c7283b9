package expr

import "testing"

func TestNextToken(t *testing.T) {
	input := `SIN(X) * 2.5 + Y ^ 2 <> z AND 1 <= 2 OR NOT 0 = "hi"`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TOKEN_IDENT, "SIN"},
		{TOKEN_LPAREN, "("},
		{TOKEN_IDENT, "X"},
		{TOKEN_RPAREN, ")"},
		{TOKEN_MULT, "*"},
		{TOKEN_NUMBER, "2.5"},
		{TOKEN_PLUS, "+"},
		{TOKEN_IDENT, "Y"},
		{TOKEN_POW, "^"},
		{TOKEN_NUMBER, "2"},
		{TOKEN_NEQ, "<>"},
		{TOKEN_IDENT, "Z"},
		{TOKEN_AND, "AND"},
		{TOKEN_NUMBER, "1"},
		{TOKEN_LTE, "<="},
		{TOKEN_NUMBER, "2"},
		{TOKEN_OR, "OR"},
		{TOKEN_NOT, "NOT"},
		{TOKEN_NUMBER, "0"},
		{TOKEN_EQ, "="},
		{TOKEN_STRING, "hi"},
		{TOKEN_EOF, ""},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken_CaseInsensitiveWordOperators(t *testing.T) {
	for _, input := range []string{"and", "And", "AND", "aNd"} {
		l := NewLexer(input)
		tok := l.NextToken()
		if tok.Type != TOKEN_AND {
			t.Errorf("expected %q to lex as AND, got %s", input, tok.Type)
		}
	}
}

func TestNextToken_IdentifiersAreUppercased(t *testing.T) {
	l := NewLexer("radius_1")
	tok := l.NextToken()
	if tok.Type != TOKEN_IDENT {
		t.Fatalf("expected IDENT, got %s", tok.Type)
	}
	if tok.Literal != "RADIUS_1" {
		t.Errorf("expected uppercased identifier RADIUS_1, got %q", tok.Literal)
	}
}

func TestNextToken_EqualsVariants(t *testing.T) {
	// Bare = and == both mean equality.
	for _, input := range []string{"=", "=="} {
		l := NewLexer(input)
		tok := l.NextToken()
		if tok.Type != TOKEN_EQ {
			t.Errorf("expected %q to lex as =, got %s", input, tok.Type)
		}
	}
}

func TestNextToken_SymbolicLogicOperators(t *testing.T) {
	l := NewLexer("1 && 0 || 1 != 2")
	expected := []TokenType{
		TOKEN_NUMBER, TOKEN_AND, TOKEN_NUMBER, TOKEN_OR,
		TOKEN_NUMBER, TOKEN_NEQ, TOKEN_NUMBER, TOKEN_EOF,
	}
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token[%d]: expected %s, got %s", i, want, tok.Type)
		}
	}
}

func TestNextToken_LeadingDecimalPoint(t *testing.T) {
	l := NewLexer(".5")
	tok := l.NextToken()
	if tok.Type != TOKEN_NUMBER || tok.Literal != ".5" {
		t.Errorf("expected NUMBER .5, got %s %q", tok.Type, tok.Literal)
	}
}

func TestNextToken_SingleQuotedString(t *testing.T) {
	l := NewLexer("'abc'")
	tok := l.NextToken()
	if tok.Type != TOKEN_STRING || tok.Literal != "abc" {
		t.Errorf("expected STRING abc, got %s %q", tok.Type, tok.Literal)
	}
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	l := NewLexer("1 @ 2")
	l.NextToken() // 1
	tok := l.NextToken()
	if tok.Type != TOKEN_ILLEGAL {
		t.Errorf("expected ILLEGAL for @, got %s", tok.Type)
	}
}
