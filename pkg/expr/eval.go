package expr

import (
	"fmt"
	"math"
	"strconv"
)

// MaxCallDepth bounds user-function call nesting. The source design let
// runaway recursion exhaust the host stack; here it fails as a normal
// evaluation error instead.
const MaxCallDepth = 64

// Callable is a user-defined function resolvable during evaluation.
type Callable interface {
	// Call invokes the function. The supplied environment carries the
	// builtin table and the current call depth; implementations must
	// evaluate their body through Eval with a fresh scope.
	Call(env *Env, args []any) (any, error)
}

// FuncResolver resolves user-defined function names (uppercased) to
// callables. A nil resolver means no user functions exist.
type FuncResolver interface {
	Resolve(name string) (Callable, bool)
}

// Env is the complete evaluation environment: a nested variable scope, the
// immutable builtin table, an optional user-function resolver and the
// current call depth. Evaluation reads nothing outside the Env.
type Env struct {
	Scope    *Scope
	Builtins *Builtins
	Funcs    FuncResolver
	Depth    int
}

// UndefinedIdentError reports an identifier with no binding. Its message
// names just the missing identifier.
type UndefinedIdentError struct {
	Name string
}

func (e *UndefinedIdentError) Error() string {
	return fmt.Sprintf("%s is not defined", e.Name)
}

// UndefinedFuncError reports a call to a function that was never
// registered.
type UndefinedFuncError struct {
	Name string
}

func (e *UndefinedFuncError) Error() string {
	return fmt.Sprintf("function %s is not defined", e.Name)
}

// Evaluate parses and evaluates expression text in one step, applying the
// numeric hygiene rule to the final result: a non-finite number (NaN or
// ±Inf, from overflow or division by zero) is coerced to 0.
func Evaluate(text string, env *Env) (any, error) {
	node, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return EvalNode(node, env)
}

// EvalNode evaluates an already-parsed AST, applying final numeric
// hygiene.
func EvalNode(node Node, env *Env) (any, error) {
	value, err := eval(node, env)
	if err != nil {
		return nil, err
	}
	if f, ok := value.(float64); ok && !isFinite(f) {
		return float64(0), nil
	}
	return value, nil
}

// EvalNumber evaluates an AST and requires a numeric result.
func EvalNumber(node Node, env *Env) (float64, error) {
	value, err := EvalNode(node, env)
	if err != nil {
		return 0, err
	}
	f, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %v", value)
	}
	return f, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// eval is the AST interpreter. It is pure over (node, env).
func eval(node Node, env *Env) (any, error) {
	switch n := node.(type) {
	case *NumberLiteral:
		return n.Value, nil

	case *StringLiteral:
		return n.Value, nil

	case *Identifier:
		if value, ok := env.Scope.Get(n.Name); ok {
			return value, nil
		}
		if env.Builtins != nil {
			if value, ok := env.Builtins.Constant(n.Name); ok {
				return value, nil
			}
		}
		return nil, &UndefinedIdentError{Name: n.Name}

	case *UnaryExpression:
		return evalUnary(n, env)

	case *BinaryExpression:
		return evalBinary(n, env)

	case *CallExpression:
		return evalCall(n, env)

	default:
		return nil, fmt.Errorf("unsupported expression node %T", node)
	}
}

func evalUnary(n *UnaryExpression, env *Env) (any, error) {
	right, err := eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	f, ok := right.(float64)
	if !ok {
		return nil, fmt.Errorf("operator %s requires a number", n.Operator)
	}
	switch n.Operator {
	case TOKEN_MINUS:
		return -f, nil
	case TOKEN_NOT:
		return boolValue(f == 0), nil
	}
	return nil, fmt.Errorf("unsupported unary operator %s", n.Operator)
}

func evalBinary(n *BinaryExpression, env *Env) (any, error) {
	left, err := eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	// String concatenation and string comparison.
	ls, leftIsStr := left.(string)
	rs, rightIsStr := right.(string)
	if leftIsStr || rightIsStr {
		switch n.Operator {
		case TOKEN_PLUS:
			return stringify(left) + stringify(right), nil
		case TOKEN_EQ:
			return boolValue(leftIsStr && rightIsStr && ls == rs), nil
		case TOKEN_NEQ:
			return boolValue(!(leftIsStr && rightIsStr && ls == rs)), nil
		}
		return nil, fmt.Errorf("operator %s is not defined for strings", n.Operator)
	}

	lf := left.(float64)
	rf := right.(float64)

	switch n.Operator {
	case TOKEN_PLUS:
		return lf + rf, nil
	case TOKEN_MINUS:
		return lf - rf, nil
	case TOKEN_MULT:
		return lf * rf, nil
	case TOKEN_DIV:
		// Division by zero yields a non-finite value; the hygiene pass
		// coerces it to 0 at the result boundary.
		return lf / rf, nil
	case TOKEN_MOD:
		return math.Mod(lf, rf), nil
	case TOKEN_POW:
		return math.Pow(lf, rf), nil
	case TOKEN_EQ:
		return boolValue(lf == rf), nil
	case TOKEN_NEQ:
		return boolValue(lf != rf), nil
	case TOKEN_LT:
		return boolValue(lf < rf), nil
	case TOKEN_LTE:
		return boolValue(lf <= rf), nil
	case TOKEN_GT:
		return boolValue(lf > rf), nil
	case TOKEN_GTE:
		return boolValue(lf >= rf), nil
	case TOKEN_AND:
		return boolValue(lf != 0 && rf != 0), nil
	case TOKEN_OR:
		return boolValue(lf != 0 || rf != 0), nil
	}
	return nil, fmt.Errorf("unsupported operator %s", n.Operator)
}

func evalCall(n *CallExpression, env *Env) (any, error) {
	args := make([]any, len(n.Arguments))
	for i, argNode := range n.Arguments {
		arg, err := eval(argNode, env)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	// User-defined functions shadow builtins of the same name.
	if env.Funcs != nil {
		if fn, ok := env.Funcs.Resolve(n.Name); ok {
			if env.Depth >= MaxCallDepth {
				return nil, fmt.Errorf("call depth limit (%d) exceeded in %s", MaxCallDepth, n.Name)
			}
			return fn.Call(env, args)
		}
	}

	if env.Builtins != nil {
		if fn, ok := env.Builtins.Func(n.Name); ok {
			floats := make([]float64, len(args))
			for i, a := range args {
				f, ok := a.(float64)
				if !ok {
					return nil, fmt.Errorf("%s requires numeric arguments", n.Name)
				}
				floats[i] = f
			}
			return fn(floats)
		}
	}

	return nil, &UndefinedFuncError{Name: n.Name}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
