package symbolic

import (
	"sort"
	"strings"
)

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the rational coefficient to the
// front and merges like bases by adding their exponents.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	type group struct {
		base Expr
		exps []Expr
	}
	groups := map[string]*group{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := Expr(f), Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		g, seen := groups[key]
		if !seen {
			g = &group{base: base}
			groups[key] = g
			order = append(order, key)
		}
		g.exps = append(g.exps, exp)
	}
	if coeff.IsZero() {
		return zeroProduct(flat)
	}

	others := make([]Expr, 0, len(order))
	regroup := false
	for _, key := range order {
		g := groups[key]
		var f Expr
		if len(g.exps) == 1 {
			f = PowOf(g.base, g.exps[0])
		} else {
			f = PowOf(g.base, AddOf(g.exps...))
		}
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			regroup = true
			others = append(others, v)
		default:
			others = append(others, f)
		}
	}
	if regroup {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if coeff.IsZero() {
		return zeroProduct(flat)
	}
	if len(others) == 0 {
		return coeff
	}
	if add, ok := others[0].(*Add); ok && len(others) == 1 && !coeff.IsOne() {
		terms := make([]Expr, len(add.terms))
		for i, t := range add.terms {
			terms[i] = MulOf(coeff, t)
		}
		return AddOf(terms...)
	}
	sortFactors(others)
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// zeroProduct is a product whose coefficient folded to zero. It is 0
// unless a factor is a power of zero such as 0**-1, in which case the
// product is undefined and stays unevaluated.
func zeroProduct(factors []Expr) Expr {
	var zs []Expr
	for _, f := range factors {
		if isZeroPower(f) {
			zs = append(zs, f)
		}
	}
	if len(zs) == 0 {
		return N(0)
	}
	return &Mul{factors: append([]Expr{N(0)}, zs...)}
}

func isZeroPower(e Expr) bool {
	p, ok := e.(*Pow)
	if !ok {
		return false
	}
	bn, ok := p.base.(*Num)
	return ok && bn.IsZero()
}

func factorRank(e Expr) int {
	switch v := e.(type) {
	case *Const:
		return 0
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			return 1
		}
		return 3
	case *Func:
		return 2
	}
	return 4
}

func sortFactors(fs []Expr) {
	type keyed struct {
		e    Expr
		rank int
		key  string
	}
	ks := make([]keyed, len(fs))
	for i, e := range fs {
		ks[i] = keyed{e: e, rank: factorRank(e), key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].rank != ks[j].rank {
			return ks[i].rank < ks[j].rank
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		fs[i] = ks[i].e
	}
}

// split separates the printed numerator and denominator of a product.
// Factors with a negative rational exponent move to the denominator.
func (m *Mul) split() (coeff *Num, num, den []Expr) {
	coeff = N(1)
	for _, f := range m.factors {
		if n, ok := f.(*Num); ok {
			coeff = numMul(coeff, n)
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok2 := p.exp.(*Num); ok2 && e.IsNegative() {
				den = append(den, PowOf(p.base, numNeg(e)))
				continue
			}
		}
		num = append(num, f)
	}
	return coeff, num, den
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	coeff, num, den := m.split()
	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numAbs(coeff)
	}
	numParts := []string{}
	if p := coeff.val.Num(); p.Cmp(bigOne) != 0 || len(num) == 0 {
		numParts = append(numParts, p.String())
	}
	for _, f := range num {
		numParts = append(numParts, factorString(f))
	}
	out := sign + strings.Join(numParts, "*")
	denParts := []string{}
	if q := coeff.val.Denom(); q.Cmp(bigOne) != 0 {
		denParts = append(denParts, q.String())
	}
	for _, f := range den {
		denParts = append(denParts, factorString(f))
	}
	switch len(denParts) {
	case 0:
		return out
	case 1:
		return out + "/" + denParts[0]
	}
	return out + "/(" + strings.Join(denParts, "*") + ")"
}

func factorString(f Expr) string {
	if _, isAdd := f.(*Add); isAdd {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func factorLaTeX(f Expr) string {
	if _, isAdd := f.(*Add); isAdd {
		return "\\left(" + f.LaTeX() + "\\right)"
	}
	return f.LaTeX()
}

func (m *Mul) LaTeX() string {
	coeff, num, den := m.split()
	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numAbs(coeff)
	}
	numParts := []string{}
	if p := coeff.val.Num(); p.Cmp(bigOne) != 0 || len(num) == 0 {
		numParts = append(numParts, p.String())
	}
	for _, f := range num {
		numParts = append(numParts, factorLaTeX(f))
	}
	denParts := []string{}
	if q := coeff.val.Denom(); q.Cmp(bigOne) != 0 {
		denParts = append(denParts, q.String())
	}
	for _, f := range den {
		denParts = append(denParts, f.LaTeX())
	}
	if len(denParts) == 0 {
		return sign + strings.Join(numParts, " ")
	}
	return sign + "\\frac{" + strings.Join(numParts, " ") + "}{" + strings.Join(denParts, " ") + "}"
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toMap() map[string]interface{} {
	fs := make([]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toMap()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }
