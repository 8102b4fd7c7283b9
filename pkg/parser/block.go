package parser

import (
	"regexp"
	"strings"

	"github.com/Tnsr-Q/GraphCCC/pkg/command"
	"github.com/Tnsr-Q/GraphCCC/pkg/expr"
	"github.com/Tnsr-Q/GraphCCC/pkg/parser/preprocessor"
)

// MaxLoopIterations caps loop unrolling so a parse call stays bounded on
// the interactive path.
const MaxLoopIterations = 10000

// The flat statement list is resolved into a block tree before execution:
// loop nodes own their body, matched by a NEXT with the same loop
// variable. Interpreting the tree replaces the source design's forward
// index scanning and makes nested loops work without special cases.

type blockNode interface {
	blockNode()
}

// stmtNode is a single dispatchable statement line.
type stmtNode struct {
	line preprocessor.Line
}

// loopNode is a FOR/NEXT block with its raw bound expressions; bounds are
// evaluated at loop entry against the enclosing scope.
type loopNode struct {
	line      preprocessor.Line // the FOR line
	varName   string            // uppercased loop variable
	startText string
	endText   string
	stepText  string // "" means step 1
	body      []blockNode
}

func (stmtNode) blockNode() {}
func (*loopNode) blockNode() {}

var (
	forRe  = regexp.MustCompile(`(?i)^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+?)\s+TO\s+(.+?)(?:\s+STEP\s+(.+))?$`)
	nextRe = regexp.MustCompile(`(?i)^NEXT\s+([A-Za-z_][A-Za-z0-9_]*)$`)
)

// buildBlocks structures the statement lines into a block tree. Structural
// errors (stray NEXT, mismatched NEXT, FOR without terminator) are
// collected on the result; an unterminated FOR discards its entire body.
func buildBlocks(lines []preprocessor.Line, res *command.Result) []blockNode {
	var root []blockNode
	var stack []*loopNode

	appendNode := func(n blockNode) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.body = append(top.body, n)
			return
		}
		root = append(root, n)
	}

	for _, ln := range lines {
		word, rest := firstWord(ln.Text)

		switch strings.ToUpper(word) {
		case "FOR":
			m := forRe.FindStringSubmatch(rest)
			if m == nil {
				res.AddError(ln.Num, command.SyntaxError,
					"malformed FOR; expected: FOR var = start TO end STEP step")
				continue
			}
			stack = append(stack, &loopNode{
				line:      ln,
				varName:   strings.ToUpper(m[1]),
				startText: m[2],
				endText:   m[3],
				stepText:  m[4],
			})

		case "NEXT":
			m := nextRe.FindStringSubmatch(ln.Text)
			if m == nil {
				res.AddError(ln.Num, command.SyntaxError, "malformed NEXT; expected: NEXT var")
				continue
			}
			varName := strings.ToUpper(m[1])

			// Find the matching open loop; inner loops left open by a
			// NEXT for an outer variable are unterminated.
			matched := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].varName == varName {
					matched = i
					break
				}
			}
			if matched < 0 {
				res.AddError(ln.Num, command.SyntaxError, "NEXT %s without a matching FOR", varName)
				continue
			}
			for i := len(stack) - 1; i > matched; i-- {
				res.AddError(stack[i].line.Num, command.MissingTerminator,
					"FOR %s has no matching NEXT %s; block skipped", stack[i].varName, stack[i].varName)
			}
			loop := stack[matched]
			stack = stack[:matched]
			appendNode(loop)

		default:
			appendNode(stmtNode{line: ln})
		}
	}

	// Whatever is still open at end of script never found its NEXT. The
	// whole block is dropped, producing zero commands.
	for i := len(stack) - 1; i >= 0; i-- {
		res.AddError(stack[i].line.Num, command.MissingTerminator,
			"FOR %s has no matching NEXT %s; block skipped", stack[i].varName, stack[i].varName)
	}

	return root
}

// execBlock interprets a block tree against the given scope.
func (st *state) execBlock(nodes []blockNode, scope *expr.Scope) {
	for _, n := range nodes {
		switch node := n.(type) {
		case stmtNode:
			st.dispatch(node.line, scope)
		case *loopNode:
			st.execLoop(node, scope)
		}
	}
}

// execLoop unrolls one FOR/NEXT block. Each iteration layers a scope
// binding the loop variable under the outer scope and re-dispatches every
// body statement. Ascending loops run while var <= end; a negative step
// runs while var >= end; a zero step runs into the iteration cap.
func (st *state) execLoop(n *loopNode, scope *expr.Scope) {
	start, ok := st.evalLoopBound(n, n.startText, scope)
	if !ok {
		return
	}
	end, ok := st.evalLoopBound(n, n.endText, scope)
	if !ok {
		return
	}
	step := 1.0
	if n.stepText != "" {
		if step, ok = st.evalLoopBound(n, n.stepText, scope); !ok {
			return
		}
	}

	continues := func(v float64) bool {
		if step < 0 {
			return v >= end
		}
		return v <= end
	}

	iterations := 0
	for v := start; continues(v); v += step {
		iterations++
		if iterations > MaxLoopIterations {
			st.res.AddError(n.line.Num, command.LoopOverflow,
				"loop exceeded %d iterations at %s=%g (FOR %s = %s TO %s STEP %g)",
				MaxLoopIterations, n.varName, v, n.varName, n.startText, n.endText, step)
			return
		}

		iterScope := expr.NewScope(scope)
		iterScope.Set(n.varName, v)
		st.execBlock(n.body, iterScope)
	}
}

// evalLoopBound evaluates one FOR bound expression at loop entry.
func (st *state) evalLoopBound(n *loopNode, text string, scope *expr.Scope) (float64, bool) {
	value, err := st.evalNumber(text, scope)
	if err != nil {
		st.addEvalError(n.line.Num, text, err)
		return 0, false
	}
	return value, true
}
