package preprocessor

import (
	"errors"
	"strings"
	"testing"
)

func TestProcess_LineNumbersAndFiltering(t *testing.T) {
	source := "SET GRID ON\n\nREM a comment\n10 PLOT3D F\n  ; only a comment\nSET AXES OFF"

	lines, err := Process(source)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	expected := []Line{
		{Num: 1, Text: "SET GRID ON"},
		{Num: 4, Text: "PLOT3D F"},
		{Num: 6, Text: "SET AXES OFF"},
	}
	if len(lines) != len(expected) {
		t.Fatalf("got %d lines, want %d: %v", len(lines), len(expected), lines)
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("lines[%d] = %+v, want %+v", i, lines[i], want)
		}
	}
}

func TestProcess_InlineComments(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SET GRID ON ; trailing note", "SET GRID ON"},
		{"SET GRID ON;note", "SET GRID ON"},
		{`TEXT "a;b" AT 1, 2, 3`, `TEXT "a;b" AT 1, 2, 3`},
		{`TEXT 'x;y' AT 0, 0, 0 ; real comment`, `TEXT 'x;y' AT 0, 0, 0`},
	}
	for _, tt := range tests {
		lines, err := Process(tt.input)
		if err != nil {
			t.Fatalf("Process(%q) failed: %v", tt.input, err)
		}
		if len(lines) != 1 || lines[0].Text != tt.expected {
			t.Errorf("Process(%q) = %v, want one line %q", tt.input, lines, tt.expected)
		}
	}
}

func TestProcess_LineLabels(t *testing.T) {
	tests := []struct {
		input    string
		expected string // "" means the line is dropped
	}{
		{"10 SET GRID ON", "SET GRID ON"},
		{"10\tSET GRID ON", "SET GRID ON"},
		{"10", ""},
		{"3DPLOT F", "3DPLOT F"}, // digits glued to letters are not a label
		{"007 DEF F(X) = X", "DEF F(X) = X"},
	}
	for _, tt := range tests {
		lines, err := Process(tt.input)
		if err != nil {
			t.Fatalf("Process(%q) failed: %v", tt.input, err)
		}
		if tt.expected == "" {
			if len(lines) != 0 {
				t.Errorf("Process(%q) = %v, want no lines", tt.input, lines)
			}
			continue
		}
		if len(lines) != 1 || lines[0].Text != tt.expected {
			t.Errorf("Process(%q) = %v, want one line %q", tt.input, lines, tt.expected)
		}
	}
}

func TestProcess_CommentLines(t *testing.T) {
	dropped := []string{
		"REM anything at all",
		"rem lowercase too",
		"ReM mixed",
		"REM",
		"10 REM labeled comment",
	}
	for _, input := range dropped {
		lines, err := Process(input)
		if err != nil {
			t.Fatalf("Process(%q) failed: %v", input, err)
		}
		if len(lines) != 0 {
			t.Errorf("Process(%q) = %v, want no lines", input, lines)
		}
	}

	// REM must be a whole word, not a prefix of an identifier.
	lines, err := Process("REMOVED = 1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Errorf("REMOVED should not be treated as a comment, got %v", lines)
	}
}

func TestProcess_SizeCap(t *testing.T) {
	atCap := strings.Repeat("a", MaxScriptSize)
	if _, err := Process(atCap); err != nil {
		t.Errorf("script exactly at the cap should pass, got %v", err)
	}

	overCap := strings.Repeat("a", MaxScriptSize+1)
	_, err := Process(overCap)
	if err == nil {
		t.Fatal("script one byte over the cap should fail")
	}
	var serr *SizeError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SizeError, got %T", err)
	}
	if serr.Size != MaxScriptSize+1 {
		t.Errorf("SizeError.Size = %d, want %d", serr.Size, MaxScriptSize+1)
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n\n", "   \n\t\n"} {
		lines, err := Process(input)
		if err != nil {
			t.Fatalf("Process(%q) failed: %v", input, err)
		}
		if len(lines) != 0 {
			t.Errorf("Process(%q) = %v, want no lines", input, lines)
		}
	}
}

func TestProcess_CarriageReturns(t *testing.T) {
	lines, err := Process("SET GRID ON\r\nSET AXES ON\r\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "SET GRID ON" || lines[1].Text != "SET AXES ON" {
		t.Errorf("carriage returns should be trimmed: %v", lines)
	}
}
