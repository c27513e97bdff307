package symbolic

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// maxExactExponent bounds the integer powers folded into exact rationals.
const maxExactExponent = 256

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	en, expIsNum := exp.(*Num)

	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		// 0^0 is indeterminate; 0^negative is division by zero.
		if expIsNum && en.IsPositive() {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}

	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if r, ok2 := exactPow(bn, en); ok2 {
				return r
			}
		}
	}
	if c, ok := base.(*Const); ok && c.name == "E" {
		return ExpOf(exp)
	}
	if f, ok := base.(*Func); ok && f.name == "exp" {
		return ExpOf(MulOf(f.arg, exp))
	}
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	if m, ok := base.(*Mul); ok && expIsNum && en.IsInteger() {
		fs := make([]Expr, len(m.factors))
		for i, f := range m.factors {
			fs[i] = PowOf(f, exp)
		}
		return MulOf(fs...)
	}
	return &Pow{base: base, exp: exp}
}

// exactPow folds b^e when the result is rational: integer exponents, and
// rational exponents of positive perfect powers (4^(1/2) = 2).
func exactPow(b, e *Num) (*Num, bool) {
	if e.IsInteger() {
		if !e.val.Num().IsInt64() {
			return nil, false
		}
		k := e.val.Num().Int64()
		if k > maxExactExponent || k < -maxExactExponent {
			return nil, false
		}
		return numPow(b, k), true
	}
	if b.IsNegative() || !e.val.Denom().IsInt64() || !e.val.Num().IsInt64() {
		return nil, false
	}
	q := e.val.Denom().Int64()
	if q > 64 {
		return nil, false
	}
	root, ok := numRoot(b, q)
	if !ok {
		return nil, false
	}
	k := e.val.Num().Int64()
	if k > maxExactExponent || k < -maxExactExponent {
		return nil, false
	}
	return numPow(root, k), true
}

func (p *Pow) isSqrt() bool {
	en, ok := p.exp.(*Num)
	return ok && en.Equal(F(1, 2))
}

func (p *Pow) hasNegativeExp() bool {
	en, ok := p.exp.(*Num)
	return ok && en.IsNegative()
}

func (p *Pow) String() string {
	if p.hasNegativeExp() {
		return (&Mul{factors: []Expr{p}}).String()
	}
	if p.isSqrt() {
		return "sqrt(" + p.base.String() + ")"
	}
	baseStr := p.base.String()
	if needsParens(p.base) {
		baseStr = "(" + baseStr + ")"
	}
	expStr := p.exp.String()
	if !simpleExponent(p.exp) {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "**" + expStr
}

func (p *Pow) LaTeX() string {
	if p.hasNegativeExp() {
		return (&Mul{factors: []Expr{p}}).LaTeX()
	}
	if p.isSqrt() {
		return "\\sqrt{" + p.base.LaTeX() + "}"
	}
	baseStr := p.base.LaTeX()
	if _, isFunc := p.base.(*Func); isFunc || needsParens(p.base) {
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func needsParens(base Expr) bool {
	switch v := base.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.IsNegative() || !v.IsInteger()
	}
	return false
}

func simpleExponent(exp Expr) bool {
	switch v := exp.(type) {
	case *Sym, *Const:
		return true
	case *Num:
		return v.IsInteger() && !v.IsNegative()
	}
	return false
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if FreeOf(p.exp, varName) {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if FreeOf(p.base, varName) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 || (b.IsZero() && !e.IsPositive()) {
		return nil, false
	}
	if b.IsZero() {
		return N(0), true
	}
	return exactPow(b, e)
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toMap() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toMap(), "exp": p.exp.toMap()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }
