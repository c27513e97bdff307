// Package calc is the UI-agnostic core of the calculator. It validates and
// translates user text, runs the symbolic kernel, formats the results,
// records successful calculations in the history and keeps the application
// state that front ends render.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/internal/history"
	"github.com/njchilds90/integralcalc/internal/translate"
	"github.com/njchilds90/integralcalc/symbolic"
)

// Variable is the integration variable.
const Variable = "x"

// Result is a successful definite-integral calculation.
type Result struct {
	Function symbolic.Expr
	Lower    symbolic.Expr
	Upper    symbolic.Expr
	// Indefinite is the antiderivative, without the constant.
	Indefinite symbolic.Expr
	// Definite is the exact value when the kernel found one.
	Definite symbolic.Expr
	Value    float64
	Record   history.Record
}

// StatusFunc observes status messages.
type StatusFunc func(msg string)

// Option configures a Calculator.
type Option func(*Calculator)

// WithTranslator replaces the default translator.
func WithTranslator(t *translate.Translator) Option {
	return func(c *Calculator) {
		if t != nil {
			c.tr = t
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStatus registers an observer for status messages.
func WithStatus(fn StatusFunc) Option {
	return func(c *Calculator) { c.status = fn }
}

// Calculator owns the application state. It is safe for concurrent use.
type Calculator struct {
	store  *history.Store
	tr     *translate.Translator
	log    *zap.Logger
	status StatusFunc

	mu    sync.Mutex
	state State
}

// New returns a Calculator that appends to store. A nil store disables
// history.
func New(store *history.Store, opts ...Option) *Calculator {
	c := &Calculator{
		store: store,
		tr:    translate.New(nil),
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.state = initialState()
	return c
}

// History is the store records are appended to; it may be nil.
func (c *Calculator) History() *history.Store { return c.store }

// ComputeDefinite integrates function from lower to upper and appends the
// calculation to the history.
func (c *Calculator) ComputeDefinite(function, lower, upper string) (res *Result, err error) {
	const op = "compute_definite"
	defer c.recoverPanic(op, function, &err)
	defer func() { c.finish(op, err) }()

	function, lower, upper = strings.TrimSpace(function), strings.TrimSpace(lower), strings.TrimSpace(upper)
	c.setInputs(function, lower, upper)
	if function == "" {
		return nil, calcerr.Validationf(op, "the function field cannot be empty")
	}
	if lower == "" || upper == "" {
		return nil, calcerr.Validationf(op, "both limits are required for a definite integral")
	}
	f, err := c.parse(op, function)
	if err != nil {
		return nil, err
	}
	a, err := c.parse(op, lower)
	if err != nil {
		return nil, err
	}
	b, err := c.parse(op, upper)
	if err != nil {
		return nil, err
	}
	c.SetStatus("Calculating...")

	dr, err := symbolic.DefiniteIntegral(f, Variable, a, b)
	if err != nil {
		return nil, calcerr.ComputationError(op, function, err)
	}
	if math.IsNaN(dr.Value) || math.IsInf(dr.Value, 0) {
		return nil, calcerr.ComputationError(op, function, symbolic.ErrDivergent)
	}

	res = &Result{
		Function:   f,
		Lower:      a,
		Upper:      b,
		Indefinite: dr.Antiderivative,
		Definite:   dr.Exact,
		Value:      dr.Value,
		Record: history.Record{
			Function:       oneLine(function),
			Lower:          a.String(),
			Upper:          b.String(),
			Indefinite:     dr.Antiderivative.String(),
			Definite:       history.FormatValue(dr.Value),
			Antiderivative: dr.Antiderivative,
			Exact:          dr.Exact,
			Value:          dr.Value,
		},
	}
	if c.store != nil {
		rec, err := c.store.Append(res.Record)
		if err != nil {
			return nil, err
		}
		res.Record = rec
	}

	c.mu.Lock()
	c.state.Indefinite = IndefiniteDisplay(dr.Antiderivative)
	c.state.IndefiniteText = IndefiniteText(dr.Antiderivative)
	c.state.Definite = DefiniteDisplay(dr.Value)
	c.state.Derivative = Placeholder
	c.state.DerivativeText = Placeholder
	c.state.Last = res
	c.mu.Unlock()

	c.log.Info("definite integral computed",
		zap.String("function", function), zap.String("lower", lower), zap.String("upper", upper),
		zap.String("antiderivative", dr.Antiderivative.String()), zap.Float64("value", dr.Value))
	c.SetStatus("Calculation complete.")
	return res, nil
}

// Integrate returns the antiderivative of function without touching the
// history or the state.
func (c *Calculator) Integrate(function string) (F symbolic.Expr, err error) {
	const op = "integrate"
	defer c.recoverPanic(op, function, &err)
	f, err := c.parse(op, function)
	if err != nil {
		return nil, err
	}
	F, ok := symbolic.Integrate(f, Variable)
	if !ok {
		return nil, calcerr.ComputationError(op, function, fmt.Errorf("%w for %s", symbolic.ErrNoClosedForm, f))
	}
	return F, nil
}

// ComputeDerivative differentiates function once.
func (c *Calculator) ComputeDerivative(function string) (d symbolic.Expr, err error) {
	const op = "compute_derivative"
	defer c.recoverPanic(op, function, &err)
	defer func() { c.finish(op, err) }()

	f, err := c.parse(op, function)
	if err != nil {
		return nil, err
	}
	d = symbolic.DeepSimplify(symbolic.Diff(f, Variable))

	c.mu.Lock()
	c.state.Function = strings.TrimSpace(function)
	c.state.Derivative = DerivativeDisplay(d)
	c.state.DerivativeText = DerivativeText(d)
	c.mu.Unlock()
	c.log.Info("derivative computed", zap.String("function", function), zap.String("derivative", d.String()))
	c.SetStatus("Derivative computed.")
	return d, nil
}

// Simplify returns the simplified text of function, ready to replace the
// input.
func (c *Calculator) Simplify(function string) (out string, err error) {
	const op = "simplify"
	defer c.recoverPanic(op, function, &err)
	defer func() { c.finish(op, err) }()

	f, err := c.parse(op, function)
	if err != nil {
		return "", err
	}
	out = symbolic.DeepSimplify(f).String()

	c.mu.Lock()
	c.state.Function = out
	c.mu.Unlock()
	c.log.Debug("function simplified", zap.String("in", function), zap.String("out", out))
	c.SetStatus("Function simplified.")
	return out, nil
}

// Latex translates function and renders it as LaTeX.
func (c *Calculator) Latex(function string) (string, error) {
	f, err := c.parse("latex", function)
	if err != nil {
		return "", err
	}
	return f.LaTeX(), nil
}

// oneLine collapses runs of whitespace, line breaks included, to one space.
func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }

func (c *Calculator) parse(op, text string) (symbolic.Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, calcerr.Validationf(op, "the function field cannot be empty")
	}
	e, err := c.tr.Parse(text)
	if err != nil {
		var ce *calcerr.Error
		if errors.As(err, &ce) {
			ce.Op = op
		}
		return nil, err
	}
	return e, nil
}

// recoverPanic turns a kernel panic, such as an exact division by zero,
// into a computation error.
func (c *Calculator) recoverPanic(op, text string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	c.log.Error("kernel panic", zap.String("op", op), zap.String("input", text), zap.Any("panic", r))
	*err = calcerr.ComputationError(op, text, fmt.Errorf("%v", r))
	c.finish(op, *err)
}

// finish reports a failed operation on the status line.
func (c *Calculator) finish(op string, err error) {
	if err == nil {
		return
	}
	c.log.Warn("operation failed", zap.String("op", op),
		zap.Stringer("kind", calcerr.KindOf(err)), zap.Error(err))
	c.SetStatus(fmt.Sprintf("%s: %s", calcerr.Title(err), calcerr.Message(err)))
}
