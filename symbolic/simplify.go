package symbolic

// ============================================================
// Expansion
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return expandExpr(AddOf(terms...))
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if exp >= 0 && exp <= 10 {
				result := Expr(N(1))
				base := expandExpr(v.base)
				for i := int64(0); i < exp; i++ {
					result = expandProduct(result, base)
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// expandProduct multiplies two expanded expressions term by term. Going
// through MulOf directly would merge equal sums back into a power.
func expandProduct(a, b Expr) Expr {
	ta, tb := addTerms(a), addTerms(b)
	terms := make([]Expr, 0, len(ta)*len(tb))
	for _, s := range ta {
		for _, t := range tb {
			terms = append(terms, expandExpr(MulOf(s, t)))
		}
	}
	return AddOf(terms...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Deep Simplification and Trig Identities
// ============================================================

// TrigSimplify applies sin²+cos²=1 and cosh²-sinh²=1 to every sum.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigSimplifyExpr(f)
		}
		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

// pythagoreanPairs lists f² and g² that sum (with the given sign on g²) to 1.
var pythagoreanPairs = []struct {
	f, g string
	sign int
}{
	{"sin", "cos", 1},
	{"cosh", "sinh", -1},
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		funcName string
		argStr   string
		coeff    *Num
		idx      int
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		coeff, inner := extractCoefficient(t)
		if p, ok2 := inner.(*Pow); ok2 {
			if fn, ok3 := p.base.(*Func); ok3 && isNumEqual(p.exp, 2) {
				trigTerms = append(trigTerms, trigTerm{fn.name, fn.arg.String(), coeff, idx})
			}
		}
	}
	for _, pair := range pythagoreanPairs {
		for i := 0; i < len(trigTerms); i++ {
			for j := 0; j < len(trigTerms); j++ {
				ti, tj := trigTerms[i], trigTerms[j]
				if ti.funcName != pair.f || tj.funcName != pair.g || ti.argStr != tj.argStr {
					continue
				}
				want := ti.coeff
				if pair.sign < 0 {
					want = numNeg(ti.coeff)
				}
				if tj.coeff.val.Cmp(want.val) != 0 {
					continue
				}
				newTerms := []Expr{}
				for idx, t := range add.terms {
					if idx != ti.idx && idx != tj.idx {
						newTerms = append(newTerms, t)
					}
				}
				newTerms = append(newTerms, ti.coeff)
				return AddOf(newTerms...)
			}
		}
	}
	return e
}

// DeepSimplify tries expanded and trig-reduced forms and keeps the smallest
// tree, repeating until the result is stable.
func DeepSimplify(e Expr) Expr {
	curr := e.Simplify()
	for i := 0; i < 10; i++ {
		best := curr
		for _, cand := range []Expr{Expand(curr), TrigSimplify(curr), TrigSimplify(Expand(curr))} {
			if nodeCount(cand) < nodeCount(best) {
				best = cand
			}
		}
		if best.Equal(curr) {
			break
		}
		curr = best
	}
	return curr
}
