// Package history keeps the ordered list of calculations made in a session
// and mirrors it to a file, a PDF report or a spreadsheet on request.
package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/integralcalc/symbolic"
)

// Record is one successful definite-integral calculation. The five text
// fields are what the user saw; the typed fields are kept when the record
// was computed in this session or loaded from the strict format.
type Record struct {
	ID         string
	Function   string
	Lower      string
	Upper      string
	Indefinite string
	Definite   string

	Antiderivative symbolic.Expr
	Exact          symbolic.Expr
	Value          float64
}

// Validate checks that every text field is present and fits on one line.
func (r Record) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"function", r.Function},
		{"lower limit", r.Lower},
		{"upper limit", r.Upper},
		{"indefinite integral", r.Indefinite},
		{"definite result", r.Definite},
	} {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("record has an empty %s", f.name)
		}
		if strings.ContainsAny(f.val, "\r\n") {
			return fmt.Errorf("record has a line break in its %s", f.name)
		}
	}
	return nil
}

// Number parses the definite result text.
func (r Record) Number() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Definite), 64)
	return v, err == nil
}

// FormatValue renders a definite value the way records store it.
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'g', 15, 64) }
