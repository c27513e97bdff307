// Package symbolic is a deterministic symbolic kernel for single-variable
// calculus.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Canonical, deterministic simplification and stable output
//   - Rule-based differentiation and integration
//   - Definite integration through the fundamental theorem, with limits at
//     infinity and at singular endpoints
//   - Compilation to plain float64 closures for plotting
package symbolic

import (
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toMap() map[string]interface{}
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SortedSymbols returns the names of the free symbols of e in ascending order.
func SortedSymbols(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FreeOf reports whether e does not depend on varName.
func FreeOf(e Expr, varName string) bool {
	_, found := FreeSymbols(e)[varName]
	return !found
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// nodeCount is the size of the tree; DeepSimplify prefers smaller forms.
func nodeCount(e Expr) int {
	switch v := e.(type) {
	case *Add:
		n := 1
		for _, t := range v.terms {
			n += nodeCount(t)
		}
		return n
	case *Mul:
		n := 1
		for _, f := range v.factors {
			n += nodeCount(f)
		}
		return n
	case *Pow:
		return 1 + nodeCount(v.base) + nodeCount(v.exp)
	case *Func:
		return 1 + nodeCount(v.arg)
	}
	return 1
}
