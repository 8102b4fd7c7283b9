package expr

import (
	"fmt"
	"math"
)

// BuiltinFunc is the signature of a built-in math function. Builtins are
// pure: they read nothing but their arguments.
type BuiltinFunc func(args []float64) (float64, error)

// Builtins is an immutable table of built-in functions and constants,
// injected explicitly into every evaluation environment. It is never
// mutated after construction.
type Builtins struct {
	funcs     map[string]BuiltinFunc
	constants map[string]float64
}

// Func looks up a built-in function by uppercased name.
func (b *Builtins) Func(name string) (BuiltinFunc, bool) {
	fn, ok := b.funcs[name]
	return fn, ok
}

// Constant looks up a built-in constant by uppercased name.
func (b *Builtins) Constant(name string) (float64, bool) {
	v, ok := b.constants[name]
	return v, ok
}

// Names returns the number of registered functions. Used by tests.
func (b *Builtins) Len() int {
	return len(b.funcs)
}

func fixed(arity int, name string, fn func(args []float64) float64) BuiltinFunc {
	return func(args []float64) (float64, error) {
		if len(args) != arity {
			return 0, fmt.Errorf("%s requires %d argument(s), got %d", name, arity, len(args))
		}
		return fn(args), nil
	}
}

// DefaultBuiltins constructs the standard table of plot-script math
// builtins. Every function is total over the reals; domain violations
// produce NaN or Inf, which the evaluator's hygiene pass coerces to 0.
func DefaultBuiltins() *Builtins {
	b := &Builtins{
		funcs:     make(map[string]BuiltinFunc),
		constants: make(map[string]float64),
	}

	b.funcs["SIN"] = fixed(1, "SIN", func(a []float64) float64 { return math.Sin(a[0]) })
	b.funcs["COS"] = fixed(1, "COS", func(a []float64) float64 { return math.Cos(a[0]) })
	b.funcs["TAN"] = fixed(1, "TAN", func(a []float64) float64 { return math.Tan(a[0]) })
	b.funcs["ASIN"] = fixed(1, "ASIN", func(a []float64) float64 { return math.Asin(a[0]) })
	b.funcs["ACOS"] = fixed(1, "ACOS", func(a []float64) float64 { return math.Acos(a[0]) })
	b.funcs["ATAN"] = fixed(1, "ATAN", func(a []float64) float64 { return math.Atan(a[0]) })
	b.funcs["ATAN2"] = fixed(2, "ATAN2", func(a []float64) float64 { return math.Atan2(a[0], a[1]) })
	b.funcs["SQRT"] = fixed(1, "SQRT", func(a []float64) float64 { return math.Sqrt(a[0]) })
	// SQR is the BASIC-style spelling of square root.
	b.funcs["SQR"] = b.funcs["SQRT"]
	b.funcs["ABS"] = fixed(1, "ABS", func(a []float64) float64 { return math.Abs(a[0]) })
	b.funcs["EXP"] = fixed(1, "EXP", func(a []float64) float64 { return math.Exp(a[0]) })
	b.funcs["LOG"] = fixed(1, "LOG", func(a []float64) float64 { return math.Log(a[0]) })
	b.funcs["POW"] = fixed(2, "POW", func(a []float64) float64 { return math.Pow(a[0], a[1]) })
	b.funcs["SGN"] = fixed(1, "SGN", func(a []float64) float64 {
		switch {
		case a[0] > 0:
			return 1
		case a[0] < 0:
			return -1
		}
		return 0
	})
	// INT truncates toward negative infinity, as in classic BASICs.
	b.funcs["INT"] = fixed(1, "INT", func(a []float64) float64 { return math.Floor(a[0]) })
	b.funcs["ROUND"] = fixed(1, "ROUND", func(a []float64) float64 { return math.Round(a[0]) })
	b.funcs["MIN"] = fixed(2, "MIN", func(a []float64) float64 { return math.Min(a[0], a[1]) })
	b.funcs["MAX"] = fixed(2, "MAX", func(a []float64) float64 { return math.Max(a[0], a[1]) })

	b.constants["PI"] = math.Pi
	b.constants["E"] = math.E

	return b
}
