package calc

import (
	"fmt"

	"github.com/njchilds90/integralcalc/symbolic"
)

// Placeholder is shown for a result that has not been computed.
const Placeholder = "..."

// State is what a front end renders. Front ends never own it; they read a
// copy after each operation.
type State struct {
	Function string
	Lower    string
	Upper    string

	// Indefinite and Derivative are LaTeX display forms; the Text fields
	// are the plain ones.
	Indefinite     string
	IndefiniteText string
	Definite       string
	Derivative     string
	DerivativeText string

	Last   *Result
	Status string
}

func initialState() State {
	return State{
		Indefinite:     Placeholder,
		IndefiniteText: Placeholder,
		Definite:       Placeholder,
		Derivative:     Placeholder,
		DerivativeText: Placeholder,
		Status:         "Ready.",
	}
}

// IndefiniteDisplay is the result label for an antiderivative.
func IndefiniteDisplay(F symbolic.Expr) string {
	return fmt.Sprintf(`\int f(x)\,dx = %s + C`, F.LaTeX())
}

// IndefiniteText is the plain-text label for an antiderivative.
func IndefiniteText(F symbolic.Expr) string {
	return fmt.Sprintf("∫ f(x) dx = %s + C", F.String())
}

// DefiniteDisplay is the result label for a definite value.
func DefiniteDisplay(v float64) string { return fmt.Sprintf("≈ %.6f", v) }

// DerivativeDisplay is the result label for a derivative.
func DerivativeDisplay(d symbolic.Expr) string { return fmt.Sprintf("f'(x) = %s", d.LaTeX()) }

// DerivativeText is the plain-text label for a derivative.
func DerivativeText(d symbolic.Expr) string { return fmt.Sprintf("f'(x) = %s", d.String()) }

// State returns a copy of the current state.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetStatus records msg and forwards it to the observer.
func (c *Calculator) SetStatus(msg string) {
	c.mu.Lock()
	c.state.Status = msg
	fn := c.status
	c.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// Reset clears inputs and results, keeping the history.
func (c *Calculator) Reset() {
	c.mu.Lock()
	c.state = initialState()
	c.mu.Unlock()
	c.SetStatus("Inputs cleared.")
}

func (c *Calculator) setInputs(function, lower, upper string) {
	c.mu.Lock()
	c.state.Function, c.state.Lower, c.state.Upper = function, lower, upper
	c.mu.Unlock()
}
