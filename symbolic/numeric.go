package symbolic

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Numeric evaluation (evalf / lambdify)
// ============================================================

var (
	// ErrFreeSymbol is returned when an expression depends on a symbol
	// that has no numeric value.
	ErrFreeSymbol = errors.New("expression has a free symbol")
	// ErrUnknownFunction is returned for functions without a numeric form.
	ErrUnknownFunction = errors.New("function has no numeric form")
)

// Lambda is a compiled single-variable expression.
type Lambda func(x float64) float64

// Map evaluates l at every point of xs.
func (l Lambda) Map(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = l(x)
	}
	return ys
}

// Lambdify compiles e into a float64 closure of varName. Any other free
// symbol is an error.
func Lambdify(e Expr, varName string) (Lambda, error) {
	fn, err := compile(e, varName)
	if err != nil {
		return nil, err
	}
	return Lambda(fn), nil
}

// Evalf evaluates a closed expression in float64. The result may be ±Inf
// or NaN; callers decide what that means.
func Evalf(e Expr) (float64, error) {
	if n, ok := e.(*Num); ok {
		return n.Float64(), nil
	}
	fn, err := compile(e, "")
	if err != nil {
		return 0, err
	}
	return fn(0), nil
}

func compile(e Expr, varName string) (func(float64) float64, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }, nil
	case *Const:
		c := v.float()
		return func(float64) float64 { return c }, nil
	case *Sym:
		if varName == "" || v.name != varName {
			return nil, fmt.Errorf("%w: %s", ErrFreeSymbol, v.name)
		}
		return func(x float64) float64 { return x }, nil
	case *Add:
		fs, err := compileAll(v.terms, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			s := 0.0
			for _, f := range fs {
				s += f(x)
			}
			return s
		}, nil
	case *Mul:
		fs, err := compileAll(v.factors, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			p := 1.0
			for _, f := range fs {
				p *= f(x)
			}
			return p
		}, nil
	case *Pow:
		base, err := compile(v.base, varName)
		if err != nil {
			return nil, err
		}
		if v.isSqrt() {
			return func(x float64) float64 { return math.Sqrt(base(x)) }, nil
		}
		if en, ok := v.exp.(*Num); ok && en.IsInteger() {
			k := en.Float64()
			return func(x float64) float64 { return math.Pow(base(x), k) }, nil
		}
		exp, err := compile(v.exp, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
	case *Func:
		arg, err := compile(v.arg, varName)
		if err != nil {
			return nil, err
		}
		op, ok := floatFuncs[v.name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, v.name)
		}
		return func(x float64) float64 { return op(arg(x)) }, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, e.exprType())
}

func compileAll(es []Expr, varName string) ([]func(float64) float64, error) {
	fs := make([]func(float64) float64, len(es))
	for i, e := range es {
		f, err := compile(e, varName)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

var floatFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"abs":  math.Abs,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	},
}
