package symbolic

// ============================================================
// Integration (rule-based)
// ============================================================

// maxIntegrateDepth bounds nested substitution and integration by parts.
const maxIntegrateDepth = 8

// substVar is the placeholder used while integrating by substitution.
const substVar = "_u"

// Integrate returns an antiderivative of expr with respect to varName,
// without the constant of integration. ok is false when no rule applies.
func Integrate(expr Expr, varName string) (Expr, bool) {
	r, ok := integrate(expr.Simplify(), varName, 0)
	if !ok {
		return nil, false
	}
	return r.Simplify(), true
}

func integrate(expr Expr, v string, depth int) (Expr, bool) {
	if depth > maxIntegrateDepth {
		return nil, false
	}
	if FreeOf(expr, v) {
		return MulOf(expr, S(v)), true
	}
	if r, ok := integrateRules(expr, v, depth); ok {
		return r, true
	}
	if ex := Expand(expr); !ex.Equal(expr) {
		return integrateRules(ex, v, depth)
	}
	return nil, false
}

func integrateRules(expr Expr, v string, depth int) (Expr, bool) {
	switch e := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(e, N(2))), true
	case *Add:
		terms := make([]Expr, len(e.terms))
		for i, t := range e.terms {
			r, ok := integrate(t, v, depth)
			if !ok {
				return nil, false
			}
			terms[i] = r
		}
		return AddOf(terms...), true
	case *Mul:
		consts := []Expr{}
		deps := []Expr{}
		for _, f := range e.factors {
			if FreeOf(f, v) {
				consts = append(consts, f)
			} else {
				deps = append(deps, f)
			}
		}
		c := MulOf(consts...)
		if len(deps) == 1 {
			r, ok := integrate(deps[0], v, depth)
			if !ok {
				return nil, false
			}
			return MulOf(c, r), true
		}
		r, ok := integrateProduct(deps, v, depth)
		if !ok {
			return nil, false
		}
		return MulOf(c, r), true
	case *Pow:
		return integratePow(e, v)
	case *Func:
		return integrateFunc(e, v)
	}
	return nil, false
}

func integratePow(p *Pow, v string) (Expr, bool) {
	x := S(v)
	if FreeOf(p.exp, v) {
		if a, _, ok := linear(p.base, v); ok {
			if isNumEqual(p.exp, -1) {
				return MulOf(PowOf(a, N(-1)), LnOf(AbsOf(p.base))), true
			}
			n1 := AddOf(p.exp, N(1))
			return MulOf(PowOf(MulOf(a, n1), N(-1)), PowOf(p.base, n1)), true
		}
		if c0, c1, c2, ok := quadratic(p.base, v); ok && c1.IsZero() {
			switch {
			case isNumEqual(p.exp, -1) && c0.IsPositive() && c2.IsPositive():
				// 1/(c0 + c2 x²) = atan(x sqrt(c2/c0)) / sqrt(c0 c2)
				scale := SqrtOf(numMul(c2, numRecip(c0)))
				return MulOf(PowOf(numMul(c0, c2), F(-1, 2)), AtanOf(MulOf(scale, x))), true
			case p.exp.Equal(F(-1, 2)) && c0.IsPositive() && c2.IsNegative():
				// 1/sqrt(c0 - k x²) = asin(x sqrt(k/c0)) / sqrt(k)
				k := numNeg(c2)
				scale := SqrtOf(numMul(k, numRecip(c0)))
				return MulOf(PowOf(k, F(-1, 2)), AsinOf(MulOf(scale, x))), true
			}
		}
		if fn, ok := p.base.(*Func); ok {
			if a, _, ok2 := linear(fn.arg, v); ok2 {
				if r, ok3 := integrateTrigPower(fn, a, p.exp, v); ok3 {
					return r, true
				}
			}
		}
		return nil, false
	}
	if FreeOf(p.base, v) {
		if a, _, ok := linear(p.exp, v); ok {
			return MulOf(p, PowOf(MulOf(a, LnOf(p.base)), N(-1))), true
		}
	}
	return nil, false
}

// integrateTrigPower covers squares and inverse squares of trig functions
// of a linear argument u = a*x + b.
func integrateTrigPower(fn *Func, a, exp Expr, v string) (Expr, bool) {
	x := S(v)
	u := fn.arg
	inv := PowOf(a, N(-1))
	switch {
	case isNumEqual(exp, 2):
		switch fn.name {
		case "sin":
			return AddOf(MulOf(F(1, 2), x), MulOf(F(-1, 4), inv, SinOf(MulOf(N(2), u)))), true
		case "cos":
			return AddOf(MulOf(F(1, 2), x), MulOf(F(1, 4), inv, SinOf(MulOf(N(2), u)))), true
		case "tan":
			return AddOf(MulOf(inv, TanOf(u)), MulOf(N(-1), x)), true
		}
	case isNumEqual(exp, -2):
		switch fn.name {
		case "cos":
			return MulOf(inv, TanOf(u)), true
		case "sin":
			return MulOf(N(-1), inv, CosOf(u), PowOf(SinOf(u), N(-1))), true
		}
	}
	return nil, false
}

func integrateFunc(f *Func, v string) (Expr, bool) {
	a, _, ok := linear(f.arg, v)
	if !ok {
		return nil, false
	}
	inv := PowOf(a, N(-1))
	u := f.arg
	var r Expr
	switch f.name {
	case "sin":
		r = MulOf(N(-1), CosOf(u))
	case "cos":
		r = SinOf(u)
	case "tan":
		r = MulOf(N(-1), LnOf(AbsOf(CosOf(u))))
	case "exp":
		r = ExpOf(u)
	case "ln":
		r = AddOf(MulOf(u, LnOf(u)), MulOf(N(-1), u))
	case "sinh":
		r = CoshOf(u)
	case "cosh":
		r = SinhOf(u)
	case "tanh":
		r = LnOf(CoshOf(u))
	case "asin":
		r = AddOf(MulOf(u, AsinOf(u)), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))))
	case "acos":
		r = AddOf(MulOf(u, AcosOf(u)), MulOf(N(-1), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))))))
	case "atan":
		r = AddOf(MulOf(u, AtanOf(u)), MulOf(F(-1, 2), LnOf(AddOf(N(1), PowOf(u, N(2))))))
	case "abs":
		r = MulOf(F(1, 2), u, AbsOf(u))
	case "sign":
		r = AbsOf(u)
	default:
		return nil, false
	}
	return MulOf(inv, r), true
}

// integrateProduct handles products of two or more factors that all depend
// on v: first by substitution, then by parts.
func integrateProduct(deps []Expr, v string, depth int) (Expr, bool) {
	if r, ok := integrateBySubstitution(deps, v, depth); ok {
		return r, true
	}
	if len(deps) == 2 {
		return integrateByParts(deps[0], deps[1], v, depth)
	}
	return nil, false
}

// integrateBySubstitution looks for a factor f(g(x)) whose companions are a
// constant multiple of g'(x).
func integrateBySubstitution(deps []Expr, v string, depth int) (Expr, bool) {
	u := S(substVar)
	for i, f := range deps {
		others := make([]Expr, 0, len(deps)-1)
		for j, o := range deps {
			if j != i {
				others = append(others, o)
			}
		}
		type candidate struct{ inner, outer Expr }
		cands := []candidate{{inner: f, outer: u}}
		switch fv := f.(type) {
		case *Func:
			cands = append(cands, candidate{inner: fv.arg, outer: funcOf(fv.name, u)})
		case *Pow:
			if FreeOf(fv.exp, v) {
				cands = append(cands, candidate{inner: fv.base, outer: PowOf(u, fv.exp)})
			}
		}
		for _, c := range cands {
			gp := Diff(c.inner, v)
			if isNumEqual(gp, 0) {
				continue
			}
			ratio := MulOf(append(append([]Expr{}, others...), PowOf(gp, N(-1)))...)
			if !FreeOf(ratio, v) {
				continue
			}
			outer, ok := integrate(c.outer, substVar, depth+1)
			if !ok {
				continue
			}
			return MulOf(ratio, outer.Sub(substVar, c.inner)), true
		}
	}
	return nil, false
}

// liateRank orders candidates for u in integration by parts:
// logarithmic, inverse trig, algebraic, trigonometric, exponential.
func liateRank(e Expr, v string) int {
	switch f := e.(type) {
	case *Func:
		switch f.name {
		case "ln":
			return 0
		case "asin", "acos", "atan":
			return 1
		case "sin", "cos", "sinh", "cosh":
			return 3
		case "exp":
			return 4
		}
	case *Sym:
		return 2
	case *Pow:
		if s, ok := f.base.(*Sym); ok && s.name == v {
			if n, ok2 := f.exp.(*Num); ok2 && n.IsInteger() && n.IsPositive() {
				return 2
			}
		}
		if fn, ok := f.base.(*Func); ok && fn.name == "ln" {
			return 0
		}
		if FreeOf(f.base, v) {
			return 4
		}
	}
	return -1
}

func integrateByParts(f, g Expr, v string, depth int) (Expr, bool) {
	rf, rg := liateRank(f, v), liateRank(g, v)
	if rf < 0 || rg < 0 {
		return nil, false
	}
	u, dv := f, g
	if rg < rf {
		u, dv = g, f
	}
	V, ok := integrate(dv, v, depth+1)
	if !ok {
		return nil, false
	}
	R, ok := integrate(MulOf(Diff(u, v), V).Simplify(), v, depth+1)
	if !ok {
		return nil, false
	}
	return AddOf(MulOf(u, V), MulOf(N(-1), R)), true
}

// linear matches e = a*x + b with a, b free of x and a non-zero.
func linear(e Expr, v string) (a, b Expr, ok bool) {
	e = Expand(e)
	terms := []Expr{e}
	if add, isAdd := e.(*Add); isAdd {
		terms = add.terms
	}
	as, bs := []Expr{}, []Expr{}
	for _, t := range terms {
		if FreeOf(t, v) {
			bs = append(bs, t)
			continue
		}
		c, ok2 := linearCoefficient(t, v)
		if !ok2 {
			return nil, nil, false
		}
		as = append(as, c)
	}
	a = AddOf(as...)
	if isNumEqual(a, 0) {
		return nil, nil, false
	}
	return a, AddOf(bs...), true
}

func linearCoefficient(t Expr, v string) (Expr, bool) {
	if s, ok := t.(*Sym); ok && s.name == v {
		return N(1), true
	}
	m, ok := t.(*Mul)
	if !ok {
		return nil, false
	}
	rest := []Expr{}
	found := false
	for _, f := range m.factors {
		if s, ok2 := f.(*Sym); ok2 && s.name == v && !found {
			found = true
			continue
		}
		if !FreeOf(f, v) {
			return nil, false
		}
		rest = append(rest, f)
	}
	if !found {
		return nil, false
	}
	return MulOf(rest...), true
}

// quadratic matches e = c0 + c1*x + c2*x² with rational coefficients, c2 ≠ 0.
func quadratic(e Expr, v string) (c0, c1, c2 *Num, ok bool) {
	e = Expand(e)
	terms := []Expr{e}
	if add, isAdd := e.(*Add); isAdd {
		terms = add.terms
	}
	c0, c1, c2 = N(0), N(0), N(0)
	for _, t := range terms {
		coeff, rest := extractCoefficient(t)
		switch {
		case isNumEqual(rest, 1):
			c0 = numAdd(c0, coeff)
		case rest.Equal(S(v)):
			c1 = numAdd(c1, coeff)
		case rest.Equal(&Pow{base: S(v), exp: N(2)}):
			c2 = numAdd(c2, coeff)
		default:
			return nil, nil, nil, false
		}
	}
	if c2.IsZero() {
		return nil, nil, nil, false
	}
	return c0, c1, c2, true
}
