// Package translate turns function text typed by the user into a symbolic
// expression. Names are resolved through a read-only symbol table; names the
// table does not know become free symbols.
package translate

import "github.com/njchilds90/integralcalc/symbolic"

// Entry is what a name resolves to: a value, or a one-argument function.
type Entry struct {
	Value symbolic.Expr
	Func  func(symbolic.Expr) symbolic.Expr
}

// IsFunc reports whether the entry must be called.
func (e Entry) IsFunc() bool { return e.Func != nil }

// Table maps names and glyphs to entries. It is never mutated after
// construction.
type Table map[string]Entry

// DefaultTable is the vocabulary of the calculator.
func DefaultTable() Table {
	fn := func(f func(symbolic.Expr) symbolic.Expr) Entry { return Entry{Func: f} }
	val := func(e symbolic.Expr) Entry { return Entry{Value: e} }
	return Table{
		"x":    val(symbolic.S("x")),
		"pi":   val(symbolic.Pi),
		"π":    val(symbolic.Pi),
		"E":    val(symbolic.E),
		"oo":   val(symbolic.Infinity),
		"∞":    val(symbolic.Infinity),
		"exp":  fn(symbolic.ExpOf),
		"sqrt": fn(symbolic.SqrtOf),
		"sin":  fn(symbolic.SinOf),
		"cos":  fn(symbolic.CosOf),
		"tan":  fn(symbolic.TanOf),
		"log":  fn(symbolic.LnOf),
		"ln":   fn(symbolic.LnOf),
		"asin": fn(symbolic.AsinOf),
		"acos": fn(symbolic.AcosOf),
		"atan": fn(symbolic.AtanOf),
		"sinh": fn(symbolic.SinhOf),
		"cosh": fn(symbolic.CoshOf),
		"tanh": fn(symbolic.TanhOf),
		"abs":  fn(symbolic.AbsOf),
	}
}

// Translator parses text against a fixed table.
type Translator struct {
	table Table
}

// New returns a Translator over table. A nil table means DefaultTable.
func New(table Table) *Translator {
	if table == nil {
		table = DefaultTable()
	}
	return &Translator{table: table}
}

var defaultTranslator = New(nil)

// Parse translates text with the default table.
func Parse(text string) (symbolic.Expr, error) { return defaultTranslator.Parse(text) }
