// Package parser turns plot-script source text into an ordered list of
// scene commands plus line-tagged errors. One Parse call consumes the
// whole script and returns once; all state is constructed fresh per call,
// so identical input always yields an identical result.
//
// The pipeline is: preprocessor (size cap, line normalization) → block
// structurer (FOR/NEXT resolution into a tree) → tree execution through a
// keyword-indexed statement dispatch, with all expression work delegated
// to the safe evaluator in pkg/expr.
package parser

import (
	"errors"

	"github.com/Tnsr-Q/GraphCCC/pkg/command"
	"github.com/Tnsr-Q/GraphCCC/pkg/expr"
	"github.com/Tnsr-Q/GraphCCC/pkg/parser/preprocessor"
)

// Options configures one parse call.
type Options struct {
	// Morph is the externally driven scalar injected into every
	// expression context under the name MORPH.
	Morph float64

	// Builtins overrides the builtin function table. Nil selects
	// expr.DefaultBuiltins().
	Builtins *expr.Builtins
}

// state carries everything one parse call mutates: the accumulating
// result, the function registry and the root evaluation environment.
// Nothing survives the call.
type state struct {
	res      *command.Result
	funcs    *registry
	builtins *expr.Builtins
	root     *expr.Scope
}

// Parse parses a script with default options.
func Parse(source string) *command.Result {
	return ParseWithOptions(source, Options{})
}

// ParseWithOptions parses a script. It always returns a Result: a script
// over the size cap yields zero commands and a single SizeLimitExceeded
// error; every other failure is collected per line while parsing
// continues.
func ParseWithOptions(source string, opts Options) *command.Result {
	res := &command.Result{}

	lines, err := preprocessor.Process(source)
	if err != nil {
		res.AddError(0, command.SizeLimitExceeded, "%s", err)
		return res
	}

	builtins := opts.Builtins
	if builtins == nil {
		builtins = expr.DefaultBuiltins()
	}

	st := &state{
		res:      res,
		funcs:    newRegistry(builtins, opts.Morph),
		builtins: builtins,
		root:     expr.NewScope(nil),
	}
	st.root.Set(MorphVar, opts.Morph)

	blocks := buildBlocks(lines, res)
	st.execBlock(blocks, st.root)

	return res
}

// env builds the evaluation environment for the given scope.
func (st *state) env(scope *expr.Scope) *expr.Env {
	return &expr.Env{Scope: scope, Builtins: st.builtins, Funcs: st.funcs}
}

// eval evaluates expression text against a scope.
func (st *state) eval(text string, scope *expr.Scope) (any, error) {
	return expr.Evaluate(text, st.env(scope))
}

// evalNumber evaluates expression text and requires a numeric result.
func (st *state) evalNumber(text string, scope *expr.Scope) (float64, error) {
	node, err := expr.Parse(text)
	if err != nil {
		return 0, err
	}
	return expr.EvalNumber(node, st.env(scope))
}

// addEvalError classifies an expression failure into the error taxonomy
// and records it. Messages stay bounded: the offending expression is
// truncated to a fixed display length, and unknown-identifier failures
// name just the missing identifier.
func (st *state) addEvalError(line int, text string, err error) {
	var unsafeErr *expr.UnsafeError
	var parseErr *expr.ParseError
	var undefFn *expr.UndefinedFuncError
	var undefIdent *expr.UndefinedIdentError

	switch {
	case errors.As(err, &unsafeErr):
		st.res.AddError(line, command.UnsafeExpression, "%s", unsafeErr)
	case errors.As(err, &parseErr):
		st.res.AddError(line, command.SyntaxError, "%s", parseErr)
	case errors.As(err, &undefFn):
		st.res.AddError(line, command.UndefinedFunction, "%s", undefFn)
	case errors.As(err, &undefIdent):
		st.res.AddError(line, command.EvaluationError, "%s", undefIdent)
	default:
		st.res.AddError(line, command.EvaluationError,
			"cannot evaluate %q: %s", expr.Truncate(text), err)
	}
}
