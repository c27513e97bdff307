package symbolic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// ============================================================
// Definite integration
// ============================================================

var (
	// ErrNoClosedForm means no integration rule produced an antiderivative.
	ErrNoClosedForm = errors.New("no closed-form antiderivative")
	// ErrNotNumeric means a limit of integration is not a real number.
	ErrNotNumeric = errors.New("limit of integration is not a real number")
	// ErrSingular means the integrand is undefined inside the interval.
	ErrSingular = errors.New("integrand is singular on the interval")
	// ErrDivergent means the improper integral does not converge.
	ErrDivergent = errors.New("integral does not converge")
)

const (
	// domainSamples is the number of points used to scan the interval for
	// singularities.
	domainSamples = 4001
	// scanLimit replaces an infinite limit while scanning.
	scanLimit = 1e6
	// crossCheckTolerance is the relative disagreement tolerated between the
	// antiderivative and Gauss-Legendre quadrature.
	crossCheckTolerance = 1e-3
	quadPoints          = 64
)

// DefiniteResult is the outcome of DefiniteIntegral.
type DefiniteResult struct {
	Antiderivative Expr
	// Exact is F(b) - F(a) in closed form when both limits are finite and
	// the antiderivative is defined at them; nil otherwise.
	Exact Expr
	Value float64
}

// DefiniteIntegral evaluates the integral of f over [a, b] as F(b) - F(a).
// Limits may be oo or -oo. Endpoints where F is undefined are approached
// one-sidedly; an integrand that is singular strictly inside the interval
// is an error, as is a non-finite value.
func DefiniteIntegral(f Expr, varName string, a, b Expr) (*DefiniteResult, error) {
	if err := checkConstantDenominators(f); err != nil {
		return nil, err
	}
	F, ok := Integrate(f, varName)
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoClosedForm, f.String())
	}
	af, err := limitValue(a)
	if err != nil {
		return nil, err
	}
	bf, err := limitValue(b)
	if err != nil {
		return nil, err
	}
	res := &DefiniteResult{Antiderivative: F}
	if af == bf {
		res.Exact = N(0)
		return res, nil
	}

	integrand, err := Lambdify(f, varName)
	if err != nil {
		return nil, err
	}
	anti, err := Lambdify(F, varName)
	if err != nil {
		return nil, err
	}
	lo, hi := math.Min(af, bf), math.Max(af, bf)
	if err := checkInterior(f, integrand, varName, lo, hi); err != nil {
		return nil, err
	}

	fb, err := boundaryValue(anti, bf, af)
	if err != nil {
		return nil, err
	}
	fa, err := boundaryValue(anti, af, bf)
	if err != nil {
		return nil, err
	}
	res.Value = fb - fa
	if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
		return nil, fmt.Errorf("%w: value is %v", ErrDivergent, res.Value)
	}
	if err := crossCheck(integrand, lo, hi, af > bf, res.Value); err != nil {
		return nil, err
	}
	if !math.IsInf(af, 0) && !math.IsInf(bf, 0) && isFinite(anti(af)) && isFinite(anti(bf)) {
		res.Exact = AddOf(F.Sub(varName, b), MulOf(N(-1), F.Sub(varName, a)))
	}
	return res, nil
}

func limitValue(e Expr) (float64, error) {
	if s := InfinitySign(e); s != 0 {
		return math.Inf(s), nil
	}
	v, err := Evalf(e)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrNotNumeric, e.String(), err)
	}
	if !isFinite(v) {
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, e.String())
	}
	return v, nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// checkInterior scans the open interval (lo, hi) for points where the
// integrand is undefined and for sign changes of its denominators.
func checkInterior(f Expr, integrand Lambda, varName string, lo, hi float64) error {
	slo, shi := math.Max(lo, -scanLimit), math.Min(hi, scanLimit)
	if slo >= shi {
		return nil
	}
	xs := floats.Span(make([]float64, domainSamples), slo, shi)
	inner := xs[1 : len(xs)-1]
	for _, x := range inner {
		if y := integrand(x); !isFinite(y) {
			return fmt.Errorf("%w: not defined at x = %g", ErrSingular, x)
		}
	}
	for _, d := range denominators(f) {
		dl, err := Lambdify(d, varName)
		if err != nil {
			continue
		}
		ys := dl.Map(inner)
		for i := 1; i < len(ys); i++ {
			if ys[i-1]*ys[i] < 0 {
				return fmt.Errorf("%w: %s changes sign between %g and %g", ErrSingular, d.String(), inner[i-1], inner[i])
			}
		}
	}
	return nil
}

// checkConstantDenominators rejects f when it divides by the constant
// zero, which makes it undefined everywhere.
func checkConstantDenominators(f Expr) error {
	if dividesByZero(f) {
		return fmt.Errorf("%w: division by zero in %s", ErrSingular, f.String())
	}
	return nil
}

func dividesByZero(e Expr) bool {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if dividesByZero(t) {
				return true
			}
		}
	case *Mul:
		for _, t := range v.factors {
			if dividesByZero(t) {
				return true
			}
		}
	case *Pow:
		if isZeroPower(v) && v.hasNegativeExp() {
			return true
		}
		return dividesByZero(v.base) || dividesByZero(v.exp)
	case *Func:
		return dividesByZero(v.arg)
	}
	return false
}

// denominators collects sub-expressions whose zeros make f undefined.
func denominators(e Expr) []Expr {
	var out []Expr
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Add:
			for _, t := range v.terms {
				walk(t)
			}
		case *Mul:
			for _, t := range v.factors {
				walk(t)
			}
		case *Pow:
			if v.hasNegativeExp() {
				out = append(out, v.base)
			}
			walk(v.base)
			walk(v.exp)
		case *Func:
			switch v.name {
			case "tan":
				out = append(out, CosOf(v.arg))
			case "ln":
				out = append(out, v.arg)
			}
			walk(v.arg)
		}
	}
	walk(e)
	return out
}

// boundaryValue evaluates F at x. Infinite x and points where F is not
// finite are approached from the side of toward.
func boundaryValue(F Lambda, x, toward float64) (float64, error) {
	if math.IsInf(x, 0) {
		if v := F(x); isFinite(v) {
			return v, nil
		}
		return converge(func(k float64) float64 { return F(math.Copysign(k, x)) }, 1e1, 10)
	}
	if v := F(x); isFinite(v) {
		return v, nil
	}
	dir := 1.0
	if toward < x {
		dir = -1
	}
	return converge(func(h float64) float64 { return F(x + dir*h) }, 1e-4, 0.1)
}

// converge evaluates g along the sequence start, start*step, ... and
// accepts the limit once successive values agree.
func converge(g func(float64) float64, start, step float64) (float64, error) {
	prev := math.NaN()
	p := start
	for i := 0; i < 9; i++ {
		v := g(p)
		if isFinite(v) && isFinite(prev) && math.Abs(v-prev) <= 1e-9*math.Max(1, math.Abs(v)) {
			return v, nil
		}
		prev = v
		p *= step
	}
	return 0, fmt.Errorf("%w at the limit of integration", ErrDivergent)
}

// crossCheck compares the closed-form value with quadrature on finite
// intervals whose integrand is finite at both ends. A mismatch means the
// antiderivative is discontinuous inside the interval.
func crossCheck(integrand Lambda, lo, hi float64, reversed bool, value float64) error {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || !isFinite(integrand(lo)) || !isFinite(integrand(hi)) {
		return nil
	}
	q := NumericIntegral(integrand, lo, hi)
	if reversed {
		q = -q
	}
	if math.Abs(q-value) > crossCheckTolerance*math.Max(1, math.Abs(q)) {
		return fmt.Errorf("%w: antiderivative is discontinuous (closed form %g, quadrature %g)", ErrSingular, value, q)
	}
	return nil
}

// NumericIntegral approximates the integral of fn over [a, b] with
// fixed-order Gauss-Legendre quadrature.
func NumericIntegral(fn Lambda, a, b float64) float64 {
	return quad.Fixed(fn, a, b, quadPoints, quad.Legendre{}, 0)
}
