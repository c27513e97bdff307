package symbolic

import (
	"fmt"
	"math"
	"math/big"
)

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

// NRat parses a decimal ("2.5", "1e-3") or fraction ("3/4") literal exactly.
func NRat(s string) (*Num, bool) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, false
	}
	return &Num{val: r}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toMap() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

var bigOne = big.NewInt(1)

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numAbs(a *Num) *Num { return &Num{val: new(big.Rat).Abs(a.val)} }

// numPow raises b to an integer power; b must be non-zero when e < 0.
func numPow(b *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	num := new(big.Int).Exp(b.val.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(b.val.Denom(), big.NewInt(e), nil)
	r := &Num{val: new(big.Rat).SetFrac(num, den)}
	if neg {
		return numRecip(r)
	}
	return r
}

// numRoot returns the exact k-th root of a non-negative rational, if it has one.
func numRoot(a *Num, k int64) (*Num, bool) {
	if a.IsNegative() || k < 1 {
		return nil, false
	}
	num, ok1 := intRoot(a.val.Num(), k)
	den, ok2 := intRoot(a.val.Denom(), k)
	if !ok1 || !ok2 {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}

func intRoot(n *big.Int, k int64) (*big.Int, bool) {
	if n.Sign() == 0 {
		return new(big.Int), true
	}
	if k == 2 {
		r := new(big.Int).Sqrt(n)
		return r, new(big.Int).Mul(r, r).Cmp(n) == 0
	}
	lo := big.NewInt(1)
	hi := new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()/int(k)+1))
	bk := big.NewInt(k)
	for lo.Cmp(hi) <= 0 {
		mid := new(big.Int).Rsh(new(big.Int).Add(lo, hi), 1)
		p := new(big.Int).Exp(mid, bk, nil)
		switch p.Cmp(n) {
		case 0:
			return mid, true
		case -1:
			lo = mid.Add(mid, big.NewInt(1))
		default:
			hi = mid.Sub(mid, big.NewInt(1))
		}
	}
	return nil, false
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toMap() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const — named real constants
// ============================================================

// Const is one of pi, E (Euler's number) or oo (positive infinity).
type Const struct{ name string }

var (
	Pi       = &Const{name: "pi"}
	E        = &Const{name: "E"}
	Infinity = &Const{name: "oo"}
)

// NegInfinity is -oo.
func NegInfinity() Expr { return MulOf(N(-1), Infinity) }

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return nil, false }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) Name() string          { return c.name }
func (c *Const) toMap() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

func (c *Const) LaTeX() string {
	switch c.name {
	case "pi":
		return "\\pi"
	case "E":
		return "e"
	case "oo":
		return "\\infty"
	}
	return c.name
}

func (c *Const) float() float64 {
	switch c.name {
	case "pi":
		return math.Pi
	case "E":
		return math.E
	case "oo":
		return math.Inf(1)
	}
	return math.NaN()
}

func constByName(name string) (*Const, bool) {
	switch name {
	case "pi":
		return Pi, true
	case "E":
		return E, true
	case "oo":
		return Infinity, true
	}
	return nil, false
}

func containsInfinity(e Expr) bool {
	switch v := e.(type) {
	case *Const:
		return v.name == "oo"
	case *Add:
		for _, t := range v.terms {
			if containsInfinity(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if containsInfinity(f) {
				return true
			}
		}
	case *Pow:
		return containsInfinity(v.base) || containsInfinity(v.exp)
	case *Func:
		return containsInfinity(v.arg)
	}
	return false
}

// InfinitySign is +1 for expressions that evaluate to +oo, -1 for -oo and 0
// otherwise. Only expressions built from oo count; 1/0 is not infinite.
func InfinitySign(e Expr) int {
	if !containsInfinity(e) {
		return 0
	}
	v, err := Evalf(e)
	if err != nil || !math.IsInf(v, 0) {
		return 0
	}
	if v > 0 {
		return 1
	}
	return -1
}
