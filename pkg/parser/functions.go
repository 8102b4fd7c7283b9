package parser

import (
	"fmt"
	"strings"

	"github.com/Tnsr-Q/GraphCCC/pkg/expr"
)

// MorphVar is the scope name under which the externally driven morph
// parameter is injected into every evaluation context.
const MorphVar = "MORPH"

// Function is one user-defined script function. Body text is screened and
// parsed to an AST when the definition is registered, so a later
// invocation only re-interprets the tree. Values are immutable; a
// redefinition or continuation installs a fresh Function, which makes a
// command-held reference a true snapshot.
type Function struct {
	Name   string   // uppercased
	Params []string // uppercased, in declaration order
	Body   string   // body source text as it stood at registration

	ast   expr.Node
	morph float64
}

// Call implements expr.Callable. Argument bindings and the morph
// parameter are merged into a fresh scope layered over nothing but the
// builtin table; the caller's variables are not visible.
func (f *Function) Call(env *expr.Env, args []any) (any, error) {
	if len(args) != len(f.Params) {
		return nil, fmt.Errorf("%s requires %d argument(s), got %d", f.Name, len(f.Params), len(args))
	}

	scope := expr.NewScope(nil)
	scope.Set(MorphVar, f.morph)
	for i, name := range f.Params {
		scope.Set(name, args[i])
	}

	callEnv := &expr.Env{
		Scope:    scope,
		Builtins: env.Builtins,
		Funcs:    env.Funcs,
		Depth:    env.Depth + 1,
	}
	return expr.EvalNode(f.ast, callEnv)
}

// registry stores user-defined functions for one parse call, keyed by
// uppercased name. It implements expr.FuncResolver.
type registry struct {
	funcs    map[string]*Function
	builtins *expr.Builtins
	morph    float64
}

func newRegistry(builtins *expr.Builtins, morph float64) *registry {
	return &registry{
		funcs:    make(map[string]*Function),
		builtins: builtins,
		morph:    morph,
	}
}

// Resolve implements expr.FuncResolver.
func (r *registry) Resolve(name string) (expr.Callable, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// lookup returns the current definition of a function, if any.
func (r *registry) lookup(name string) (*Function, bool) {
	fn, ok := r.funcs[strings.ToUpper(name)]
	return fn, ok
}

// define registers a function, replacing any previous definition of the
// same (case-normalized) name. The body must already have passed the
// safety screen; it is parsed here so malformed bodies fail at the
// definition site.
func (r *registry) define(name string, params []string, body string) (*Function, error) {
	ast, err := expr.Parse(body)
	if err != nil {
		return nil, err
	}

	upper := make([]string, len(params))
	for i, p := range params {
		upper[i] = strings.ToUpper(strings.TrimSpace(p))
	}

	fn := &Function{
		Name:   strings.ToUpper(name),
		Params: upper,
		Body:   body,
		ast:    ast,
		morph:  r.morph,
	}
	r.funcs[fn.Name] = fn
	return fn, nil
}

// extend implements a continuation: the stored body becomes
// "(old) + (extra)" and the callable is rebound. The base definition must
// already exist.
func (r *registry) extend(name string, extra string) (*Function, error) {
	base, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("no prior definition of %s to continue", strings.ToUpper(name))
	}
	body := "(" + base.Body + ") + (" + extra + ")"
	return r.define(name, base.Params, body)
}

// surface builds the pure sampling closure attached to a Plot3D command.
// The captured Function value is the definition snapshot at emission time;
// calls to other user functions inside the body still resolve through the
// live registry, matching per-call re-evaluation semantics.
func (r *registry) surface(fn *Function) func(x, y float64) (float64, error) {
	return func(x, y float64) (float64, error) {
		env := &expr.Env{Builtins: r.builtins, Funcs: r, Scope: expr.NewScope(nil)}
		result, err := fn.Call(env, []any{x, y})
		if err != nil {
			return 0, err
		}
		f, ok := result.(float64)
		if !ok {
			return 0, fmt.Errorf("%s did not produce a number", fn.Name)
		}
		return f, nil
	}
}
