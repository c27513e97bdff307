package symbolic_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/integralcalc/symbolic"
)

var x = symbolic.S("x")

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(2, 6)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := symbolic.F(-2, 5)
	if n.LaTeX() != `-\frac{2}{5}` {
		t.Errorf("want -\\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNRat_Decimal(t *testing.T) {
	cases := map[string]string{"2.5": "5/2", "1e-3": "1/1000", "0.75": "3/4", "12": "12"}
	for in, want := range cases {
		n, ok := symbolic.NRat(in)
		if !ok || n.String() != want {
			t.Errorf("NRat(%q): want %s, got %v", in, want, n)
		}
	}
	if _, ok := symbolic.NRat("1..2"); ok {
		t.Error("NRat should reject malformed literals")
	}
}

// ============================================================
// Add / Mul canonical form
// ============================================================

func TestAdd_LikeTerms(t *testing.T) {
	r := symbolic.AddOf(x, x, x, symbolic.N(2))
	if r.String() != "3*x + 2" {
		t.Errorf("want 3*x + 2, got %s", r)
	}
}

func TestAdd_CancelToZero(t *testing.T) {
	r := symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), x))
	if r.String() != "0" {
		t.Errorf("want 0, got %s", r)
	}
}

func TestAdd_LikePowers(t *testing.T) {
	x2 := symbolic.PowOf(x, symbolic.N(2))
	r := symbolic.AddOf(x2, symbolic.MulOf(symbolic.N(2), x2))
	if r.String() != "3*x**2" {
		t.Errorf("want 3*x**2, got %s", r)
	}
}

func TestAdd_DegreeOrder(t *testing.T) {
	r := symbolic.AddOf(symbolic.N(1), x, symbolic.PowOf(x, symbolic.N(2)))
	if r.String() != "x**2 + x + 1" {
		t.Errorf("want x**2 + x + 1, got %s", r)
	}
}

func TestAdd_NegativeTermPrintsMinus(t *testing.T) {
	r := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(-1), x))
	if r.String() != "x**2 - x" {
		t.Errorf("want x**2 - x, got %s", r)
	}
}

func TestMul_MergesBases(t *testing.T) {
	if r := symbolic.MulOf(x, x); r.String() != "x**2" {
		t.Errorf("want x**2, got %s", r)
	}
	if r := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))); r.String() != "1" {
		t.Errorf("want 1, got %s", r)
	}
}

func TestMul_Printing(t *testing.T) {
	cases := []struct {
		e    symbolic.Expr
		want string
	}{
		{symbolic.MulOf(symbolic.F(1, 3), symbolic.PowOf(x, symbolic.N(3))), "x**3/3"},
		{symbolic.MulOf(symbolic.N(2), symbolic.PowOf(x, symbolic.N(-1))), "2/x"},
		{symbolic.MulOf(symbolic.N(-1), symbolic.SinOf(x)), "-sin(x)"},
		{symbolic.MulOf(symbolic.SinOf(x), x), "x*sin(x)"},
		{symbolic.MulOf(symbolic.N(2), symbolic.AddOf(x, symbolic.N(1))), "2*x + 2"},
		{symbolic.MulOf(x, symbolic.AddOf(x, symbolic.N(1))), "x*(x + 1)"},
	}
	for _, c := range cases {
		if c.e.String() != c.want {
			t.Errorf("want %s, got %s", c.want, c.e)
		}
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_ExactRoots(t *testing.T) {
	if r := symbolic.PowOf(symbolic.N(4), symbolic.F(1, 2)); r.String() != "2" {
		t.Errorf("want 2, got %s", r)
	}
	if r := symbolic.PowOf(symbolic.F(8, 27), symbolic.F(2, 3)); r.String() != "4/9" {
		t.Errorf("want 4/9, got %s", r)
	}
	if r := symbolic.PowOf(symbolic.N(2), symbolic.F(1, 2)); r.String() != "sqrt(2)" {
		t.Errorf("want sqrt(2), got %s", r)
	}
}

func TestPow_Nested(t *testing.T) {
	r := symbolic.PowOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(3))
	if r.String() != "x**6" {
		t.Errorf("want x**6, got %s", r)
	}
}

func TestPow_DistributesIntegerExponent(t *testing.T) {
	r := symbolic.PowOf(symbolic.MulOf(symbolic.N(2), x), symbolic.N(2))
	if r.String() != "4*x**2" {
		t.Errorf("want 4*x**2, got %s", r)
	}
}

func TestPow_NegativeExponentPrintsQuotient(t *testing.T) {
	if r := symbolic.PowOf(x, symbolic.N(-1)); r.String() != "1/x" {
		t.Errorf("want 1/x, got %s", r)
	}
	r := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(-1))
	if r.String() != "1/(x + 1)" {
		t.Errorf("want 1/(x + 1), got %s", r)
	}
}

func TestPow_EulerBase(t *testing.T) {
	if r := symbolic.PowOf(symbolic.E, x); r.String() != "exp(x)" {
		t.Errorf("want exp(x), got %s", r)
	}
}

func TestPow_ZeroToNegativeStaysUnevaluated(t *testing.T) {
	r := symbolic.PowOf(symbolic.N(0), symbolic.N(-1))
	if _, ok := r.Eval(); ok {
		t.Errorf("0**-1 must not evaluate, got %s", r)
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_SpecialValues(t *testing.T) {
	cases := []struct {
		e    symbolic.Expr
		want string
	}{
		{symbolic.SinOf(symbolic.N(0)), "0"},
		{symbolic.CosOf(symbolic.Pi), "-1"},
		{symbolic.LnOf(symbolic.ExpOf(x)), "x"},
		{symbolic.ExpOf(symbolic.LnOf(x)), "x"},
		{symbolic.LnOf(symbolic.E), "1"},
		{symbolic.AbsOf(symbolic.N(-3)), "3"},
		{symbolic.SinOf(symbolic.N(1)), "sin(1)"},
	}
	for _, c := range cases {
		if c.e.String() != c.want {
			t.Errorf("want %s, got %s", c.want, c.e)
		}
	}
}

func TestApply_Unknown(t *testing.T) {
	if _, ok := symbolic.Apply("gamma", x); ok {
		t.Error("gamma is not a supported function")
	}
}

// ============================================================
// Differentiation
// ============================================================

func TestDiff(t *testing.T) {
	cases := []struct {
		e    symbolic.Expr
		want string
	}{
		{symbolic.PowOf(x, symbolic.N(3)), "3*x**2"},
		{symbolic.SinOf(x), "cos(x)"},
		{symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x)), "2*exp(2*x)"},
		{symbolic.LnOf(x), "1/x"},
		{symbolic.MulOf(x, symbolic.SinOf(x)), "x*cos(x) + sin(x)"},
		{symbolic.N(7), "0"},
	}
	for _, c := range cases {
		if got := symbolic.Diff(c.e, "x"); got.String() != c.want {
			t.Errorf("d/dx %s: want %s, got %s", c.e, c.want, got)
		}
	}
}

func TestDiffN(t *testing.T) {
	r := symbolic.DiffN(symbolic.PowOf(x, symbolic.N(4)), "x", 2)
	if r.String() != "12*x**2" {
		t.Errorf("want 12*x**2, got %s", r)
	}
}

// ============================================================
// Integration
// ============================================================

func TestIntegrate(t *testing.T) {
	cases := []struct {
		name string
		e    symbolic.Expr
		want string
	}{
		{"square", symbolic.PowOf(x, symbolic.N(2)), "x**3/3"},
		{"identity", x, "x**2/2"},
		{"constant", symbolic.N(5), "5*x"},
		{"reciprocal", symbolic.PowOf(x, symbolic.N(-1)), "ln(abs(x))"},
		{"sine", symbolic.SinOf(x), "-cos(x)"},
		{"scaled cosine", symbolic.CosOf(symbolic.MulOf(symbolic.N(2), x)), "sin(2*x)/2"},
		{"decay", symbolic.ExpOf(symbolic.MulOf(symbolic.N(-1), x)), "-exp(-x)"},
		{"arctangent", symbolic.PowOf(symbolic.AddOf(symbolic.N(1), symbolic.PowOf(x, symbolic.N(2))), symbolic.N(-1)), "atan(x)"},
		{"by parts", symbolic.MulOf(x, symbolic.ExpOf(x)), "x*exp(x) - exp(x)"},
		{"substitution", symbolic.MulOf(x, symbolic.ExpOf(symbolic.PowOf(x, symbolic.N(2)))), "exp(x**2)/2"},
		{"linear", symbolic.AddOf(symbolic.MulOf(symbolic.N(2), x), symbolic.N(3)), "x**2 + 3*x"},
		{"shifted power", symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2)), "(x + 1)**3/3"},
		{"root", symbolic.SqrtOf(x), "2*x**(3/2)/3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, ok := symbolic.Integrate(c.e, "x")
			if !ok {
				t.Fatalf("integrate %s: no antiderivative", c.e)
			}
			if r.String() != c.want {
				t.Errorf("integrate %s: want %s, got %s", c.e, c.want, r)
			}
		})
	}
}

func TestIntegrate_DiffRoundTrip(t *testing.T) {
	fs := []symbolic.Expr{
		symbolic.PowOf(x, symbolic.N(2)),
		symbolic.AddOf(symbolic.PowOf(x, symbolic.N(3)), symbolic.MulOf(symbolic.N(-4), x), symbolic.N(7)),
		symbolic.CosOf(symbolic.MulOf(symbolic.N(2), x)),
		symbolic.MulOf(x, symbolic.ExpOf(x)),
		symbolic.MulOf(symbolic.SinOf(x), symbolic.CosOf(x)),
		symbolic.MulOf(x, symbolic.LnOf(x)),
		symbolic.PowOf(symbolic.AddOf(symbolic.N(1), symbolic.PowOf(x, symbolic.N(2))), symbolic.N(-1)),
	}
	for _, f := range fs {
		F, ok := symbolic.Integrate(f, "x")
		if !ok {
			t.Errorf("integrate %s failed", f)
			continue
		}
		back := symbolic.DeepSimplify(symbolic.Diff(F, "x"))
		if !back.Equal(f.Simplify()) {
			t.Errorf("d/dx ∫%s = %s, want %s", f, back, f)
		}
	}
}

func TestIntegrate_NoRule(t *testing.T) {
	if _, ok := symbolic.Integrate(symbolic.SinOf(symbolic.PowOf(x, symbolic.N(2))), "x"); ok {
		t.Error("sin(x**2) has no elementary antiderivative")
	}
}

// ============================================================
// Definite integration
// ============================================================

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9*math.Max(1, math.Abs(b)) }

func TestDefinite_Polynomial(t *testing.T) {
	r, err := symbolic.DefiniteIntegral(symbolic.PowOf(x, symbolic.N(2)), "x", symbolic.N(0), symbolic.N(2))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.Value, 8.0/3) {
		t.Errorf("want 8/3, got %v", r.Value)
	}
	if r.Exact == nil || r.Exact.String() != "8/3" {
		t.Errorf("want exact 8/3, got %v", r.Exact)
	}
}

func TestDefinite_SineOverPi(t *testing.T) {
	r, err := symbolic.DefiniteIntegral(symbolic.SinOf(x), "x", symbolic.N(0), symbolic.Pi)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.Value, 2) || r.Exact.String() != "2" {
		t.Errorf("want 2, got %v (%v)", r.Value, r.Exact)
	}
}

func TestDefinite_ReversedLimits(t *testing.T) {
	r, err := symbolic.DefiniteIntegral(x, "x", symbolic.N(2), symbolic.N(0))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.Value, -2) {
		t.Errorf("want -2, got %v", r.Value)
	}
}

func TestDefinite_InfiniteUpper(t *testing.T) {
	f := symbolic.ExpOf(symbolic.MulOf(symbolic.N(-1), x))
	r, err := symbolic.DefiniteIntegral(f, "x", symbolic.N(0), symbolic.Infinity)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.Value, 1) {
		t.Errorf("want 1, got %v", r.Value)
	}
	if r.Exact != nil {
		t.Errorf("improper integral should have no exact form, got %s", r.Exact)
	}
}

func TestDefinite_WholeLine(t *testing.T) {
	f := symbolic.PowOf(symbolic.AddOf(symbolic.N(1), symbolic.PowOf(x, symbolic.N(2))), symbolic.N(-1))
	r, err := symbolic.DefiniteIntegral(f, "x", symbolic.NegInfinity(), symbolic.Infinity)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.Value, math.Pi) {
		t.Errorf("want pi, got %v", r.Value)
	}
}

func TestDefinite_EndpointLimit(t *testing.T) {
	r, err := symbolic.DefiniteIntegral(symbolic.LnOf(x), "x", symbolic.N(0), symbolic.N(1))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Value+1) > 1e-6 {
		t.Errorf("want -1, got %v", r.Value)
	}
	r, err = symbolic.DefiniteIntegral(symbolic.PowOf(x, symbolic.F(-1, 2)), "x", symbolic.N(0), symbolic.N(1))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(r.Value, 2) {
		t.Errorf("want 2, got %v", r.Value)
	}
}

func TestDefinite_InteriorSingularity(t *testing.T) {
	_, err := symbolic.DefiniteIntegral(symbolic.PowOf(x, symbolic.N(-1)), "x", symbolic.N(-1), symbolic.N(1))
	if !errors.Is(err, symbolic.ErrSingular) {
		t.Errorf("want ErrSingular, got %v", err)
	}
}

func TestDefinite_Divergent(t *testing.T) {
	_, err := symbolic.DefiniteIntegral(symbolic.PowOf(x, symbolic.N(-1)), "x", symbolic.N(1), symbolic.Infinity)
	if !errors.Is(err, symbolic.ErrDivergent) {
		t.Errorf("want ErrDivergent, got %v", err)
	}
}

func TestDefinite_DivisionByZero(t *testing.T) {
	zero := symbolic.N(0)
	tests := []struct {
		name string
		f    symbolic.Expr
	}{
		{"x/0", symbolic.MulOf(x, symbolic.PowOf(zero, symbolic.N(-1)))},
		{"1/0", symbolic.PowOf(zero, symbolic.N(-1))},
		{"0/0", symbolic.MulOf(zero, symbolic.PowOf(zero, symbolic.N(-1)))},
		{"x + 0/0", symbolic.AddOf(x, symbolic.MulOf(zero, symbolic.PowOf(zero, symbolic.N(-1))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := symbolic.DefiniteIntegral(tt.f, "x", symbolic.N(0), symbolic.N(1))
			if !errors.Is(err, symbolic.ErrSingular) {
				t.Fatalf("want ErrSingular, got %v", err)
			}
			if !strings.Contains(err.Error(), "division by zero") {
				t.Errorf("want a division by zero message, got %q", err.Error())
			}
		})
	}
}

func TestZeroTimesUndefinedStaysUnevaluated(t *testing.T) {
	zero := symbolic.N(0)
	undef := symbolic.MulOf(zero, symbolic.PowOf(zero, symbolic.N(-1)))
	if got := undef.String(); got != "0/0" {
		t.Errorf("0*0**-1: want 0/0, got %s", got)
	}
	if got := symbolic.MulOf(zero, x).String(); got != "0" {
		t.Errorf("0*x: want 0, got %s", got)
	}
	if got := symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), x)).String(); got != "0" {
		t.Errorf("x - x: want 0, got %s", got)
	}
}

func TestDefinite_SymbolicLimit(t *testing.T) {
	_, err := symbolic.DefiniteIntegral(x, "x", symbolic.N(0), symbolic.S("b"))
	if !errors.Is(err, symbolic.ErrNotNumeric) {
		t.Errorf("want ErrNotNumeric, got %v", err)
	}
}

func TestDefinite_NoClosedForm(t *testing.T) {
	_, err := symbolic.DefiniteIntegral(symbolic.SinOf(symbolic.PowOf(x, symbolic.N(2))), "x", symbolic.N(0), symbolic.N(1))
	if !errors.Is(err, symbolic.ErrNoClosedForm) {
		t.Errorf("want ErrNoClosedForm, got %v", err)
	}
}

func TestNumericIntegral(t *testing.T) {
	got := symbolic.NumericIntegral(math.Sin, 0, math.Pi)
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("want 2, got %v", got)
	}
}

// ============================================================
// Numeric evaluation
// ============================================================

func TestLambdify_Map(t *testing.T) {
	f, err := symbolic.Lambdify(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(1)), "x")
	if err != nil {
		t.Fatal(err)
	}
	ys := f.Map([]float64{0, 1, 2})
	if ys[0] != 1 || ys[1] != 2 || ys[2] != 5 {
		t.Errorf("want [1 2 5], got %v", ys)
	}
}

func TestLambdify_FreeSymbol(t *testing.T) {
	_, err := symbolic.Lambdify(symbolic.MulOf(x, symbolic.S("y")), "x")
	if !errors.Is(err, symbolic.ErrFreeSymbol) {
		t.Errorf("want ErrFreeSymbol, got %v", err)
	}
}

func TestEvalf_Constants(t *testing.T) {
	v, err := symbolic.Evalf(symbolic.MulOf(symbolic.N(2), symbolic.Pi))
	if err != nil || !approx(v, 2*math.Pi) {
		t.Errorf("want 2pi, got %v (%v)", v, err)
	}
	v, err = symbolic.Evalf(symbolic.NegInfinity())
	if err != nil || !math.IsInf(v, -1) {
		t.Errorf("want -Inf, got %v (%v)", v, err)
	}
}

func TestInfinitySign(t *testing.T) {
	if symbolic.InfinitySign(symbolic.Infinity) != 1 {
		t.Error("oo should be +1")
	}
	if symbolic.InfinitySign(symbolic.NegInfinity()) != -1 {
		t.Error("-oo should be -1")
	}
	div := symbolic.MulOf(symbolic.N(1), symbolic.PowOf(symbolic.N(0), symbolic.N(-1)))
	if symbolic.InfinitySign(div) != 0 {
		t.Error("1/0 is not an infinite limit")
	}
}

// ============================================================
// Simplification
// ============================================================

func TestDeepSimplify_Pythagorean(t *testing.T) {
	e := symbolic.AddOf(symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)), symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2)))
	if r := symbolic.DeepSimplify(e); r.String() != "1" {
		t.Errorf("want 1, got %s", r)
	}
}

func TestDeepSimplify_PrefersExpanded(t *testing.T) {
	e := symbolic.AddOf(
		symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2)),
		symbolic.MulOf(symbolic.N(-1), symbolic.PowOf(x, symbolic.N(2))),
	)
	if r := symbolic.DeepSimplify(e); r.String() != "2*x + 1" {
		t.Errorf("want 2*x + 1, got %s", r)
	}
}

func TestExpand(t *testing.T) {
	e := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2))
	if r := symbolic.Expand(e); r.String() != "x**2 + 2*x + 1" {
		t.Errorf("want x**2 + 2*x + 1, got %s", r)
	}
}

// ============================================================
// LaTeX and serialization
// ============================================================

func TestLaTeX(t *testing.T) {
	cases := []struct {
		e    symbolic.Expr
		want string
	}{
		{symbolic.MulOf(symbolic.F(1, 3), symbolic.PowOf(x, symbolic.N(3))), `\frac{x^{3}}{3}`},
		{symbolic.SqrtOf(x), `\sqrt{x}`},
		{symbolic.Pi, `\pi`},
		{symbolic.ExpOf(x), `e^{x}`},
	}
	for _, c := range cases {
		if c.e.LaTeX() != c.want {
			t.Errorf("want %s, got %s", c.want, c.e.LaTeX())
		}
	}
}

func TestMapRoundTrip(t *testing.T) {
	e := symbolic.AddOf(
		symbolic.MulOf(symbolic.F(1, 3), symbolic.PowOf(x, symbolic.N(3))),
		symbolic.SinOf(symbolic.MulOf(symbolic.Pi, x)),
	)
	back, err := symbolic.FromMap(symbolic.ToMap(e))
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("want %s, got %s", e, back)
	}
	js, err := symbolic.ToJSON(e)
	if err != nil || !strings.Contains(js, `"type":"add"`) {
		t.Errorf("unexpected JSON %s (%v)", js, err)
	}
}

func TestFromMap_Errors(t *testing.T) {
	bad := []map[string]interface{}{
		nil,
		{"type": "num"},
		{"type": "func", "name": "gamma", "arg": map[string]interface{}{"type": "sym", "name": "x"}},
		{"type": "const", "name": "tau"},
		{"type": "matrix"},
	}
	for _, b := range bad {
		if _, err := symbolic.FromMap(b); err == nil {
			t.Errorf("FromMap(%v) should fail", b)
		}
	}
}
