package parser

import "strings"

// Helpers for slicing statement operand text. Splitting has to respect
// quoted strings and parenthesized call arguments: the comma in
// "ATAN2(1,2), 0, 0" separates call arguments, not operands.

// firstWord splits a statement into its leading keyword and the rest.
func firstWord(text string) (word, rest string) {
	text = strings.TrimSpace(text)
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' || text[i] == '\t' {
			return text[:i], strings.TrimSpace(text[i+1:])
		}
	}
	return text, ""
}

// splitTopLevel splits on a separator byte at nesting depth zero, outside
// quoted strings. Fields are whitespace-trimmed.
func splitTopLevel(s string, sep byte) []string {
	var fields []string
	var quote byte
	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case ch == sep && depth == 0:
			fields = append(fields, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	fields = append(fields, strings.TrimSpace(s[start:]))
	return fields
}

// indexWordTopLevel finds the first occurrence of a whole word
// (case-insensitive) at nesting depth zero outside quotes. It returns -1
// if the word does not occur.
func indexWordTopLevel(s, word string) int {
	var quote byte
	depth := 0

	for i := 0; i+len(word) <= len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			continue
		case ch == '"' || ch == '\'':
			quote = ch
			continue
		case ch == '(' || ch == '[':
			depth++
			continue
		case ch == ')' || ch == ']':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if !strings.EqualFold(s[i:i+len(word)], word) {
			continue
		}
		beforeOK := i == 0 || s[i-1] == ' ' || s[i-1] == '\t'
		afterIdx := i + len(word)
		afterOK := afterIdx == len(s) || s[afterIdx] == ' ' || s[afterIdx] == '\t'
		if beforeOK && afterOK {
			return i
		}
	}
	return -1
}

// indexQuoteTopLevel finds the first quote character at nesting depth
// zero, or -1.
func indexQuoteTopLevel(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"', '\'':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
