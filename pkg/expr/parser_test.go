package expr

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_OperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "((-2) ^ 2)"},
		{"1 + 2 < 4", "((1 + 2) < 4)"},
		{"1 < 2 AND 3 > 2", "((1 < 2) AND (3 > 2))"},
		{"1 AND 0 OR 1", "((1 AND 0) OR 1)"},
		{"NOT 1 AND 0", "((NOT1) AND 0)"},
		{"a * -b", "(A * (-B))"},
		{"10 % 3 - 1", "((10 % 3) - 1)"},
		{"x <> y = 0", "((X <> Y) = 0)"},
		{"[1 + 2] * 3", "((1 + 2) * 3)"},
		{"sin(x) + cos(y)", "(SIN(X) + COS(Y))"},
		{"atan2(1, x * 2)", "ATAN2(1, (X * 2))"},
		{"f()", "F()"},
		{`"T=" + t`, `("T=" + T)`},
	}

	for _, tt := range tests {
		node, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.input, err)
			continue
		}
		if got := node.String(); got != tt.expected {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"1 +",
		"* 2",
		"(1 + 2",
		"[1 + 2",
		"sin(1, ",
		"sin(1 2)",
		"1 2",
		"1 + + ",
	}

	for _, input := range tests {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should have failed", input)
		} else {
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("Parse(%q) error = %T, want *ParseError", input, err)
			}
		}
	}
}

func TestParse_UnsafeTextRejectedBeforeParsing(t *testing.T) {
	_, err := Parse("window + 1")
	var uerr *UnsafeError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnsafeError, got %T (%v)", err, err)
	}
}

func TestParse_TrailingGarbage(t *testing.T) {
	_, err := Parse("1 + 2 3")
	if err == nil {
		t.Fatal("expected error for trailing token")
	}
	if !strings.Contains(err.Error(), "unexpected") {
		t.Errorf("error should mention the unexpected token: %v", err)
	}
}

func TestParse_DeepNesting(t *testing.T) {
	input := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	node, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if node.String() != "1" {
		t.Errorf("expected grouping to collapse to the literal, got %s", node.String())
	}
}
