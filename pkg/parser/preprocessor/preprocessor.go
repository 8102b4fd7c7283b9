// Package preprocessor normalizes raw plot-script text into numbered
// statement lines ready for dispatch. It enforces the script size cap,
// strips inline comments and leading numeric labels, and drops blank and
// full-line comment lines while preserving original line numbers.
package preprocessor

import (
	"fmt"
	"strings"
)

// MaxScriptSize is the script size cap in bytes. Scripts over the cap are
// rejected outright so a parse call stays bounded on the interactive path.
const MaxScriptSize = 10000

// CommentMarker starts an inline comment.
const CommentMarker = ';'

// CommentKeyword starts a full-line comment.
const CommentKeyword = "REM"

// Line is one surviving statement line: its original 1-based source line
// number and its normalized content.
type Line struct {
	Num  int
	Text string
}

// SizeError reports a script over the size cap. It is the only fatal
// preprocessing outcome.
type SizeError struct {
	Size int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("script is %d bytes, exceeding the %d byte limit", e.Size, MaxScriptSize)
}

// Process normalizes the script into statement lines. On a SizeError the
// entire parse must abort; there are no other failure modes.
func Process(source string) ([]Line, error) {
	if len(source) > MaxScriptSize {
		return nil, &SizeError{Size: len(source)}
	}

	var lines []Line
	for i, raw := range strings.Split(source, "\n") {
		text := normalize(raw)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Num: i + 1, Text: text})
	}
	return lines, nil
}

// normalize strips one raw line down to its statement content, returning
// "" for lines that carry no statement.
func normalize(raw string) string {
	text := stripInlineComment(raw)
	text = strings.TrimSpace(text)
	text = stripLineLabel(text)

	if text == "" {
		return ""
	}
	if isCommentLine(text) {
		return ""
	}
	return text
}

// stripInlineComment drops content from the first comment marker that sits
// outside a quoted string.
func stripInlineComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == CommentMarker:
			return line[:i]
		}
	}
	return line
}

// stripLineLabel drops a leading numeric line label ("10 PLOT3D ..."). A
// line consisting only of a label carries no statement.
func stripLineLabel(text string) string {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 {
		return text
	}
	if i == len(text) {
		return ""
	}
	if text[i] != ' ' && text[i] != '\t' {
		// Not a label (e.g. "3DPLOT"); leave the line alone.
		return text
	}
	return strings.TrimSpace(text[i:])
}

// isCommentLine reports whether the line is a full-line REM comment.
func isCommentLine(text string) bool {
	if len(text) < len(CommentKeyword) {
		return false
	}
	head := text[:len(CommentKeyword)]
	if !strings.EqualFold(head, CommentKeyword) {
		return false
	}
	return len(text) == len(CommentKeyword) ||
		text[len(CommentKeyword)] == ' ' || text[len(CommentKeyword)] == '\t'
}
