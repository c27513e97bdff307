package translate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/symbolic"
)

// maxExponent bounds the decimal exponent of a numeric literal.
const maxExponent = 1000

// SyntaxError is a translation failure at a byte offset of the source.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Message)
}

// Show renders src with a caret under the offending position.
func (e *SyntaxError) Show(src string) string {
	pos := e.Pos
	if pos > len(src) {
		pos = len(src)
	}
	col := utf8.RuneCountInString(src[:pos])
	return src + "\n" + strings.Repeat(" ", col) + "^ " + e.Message
}

// Parse translates text into an expression. Blank text is a validation
// error; anything the grammar rejects is a parse error carrying text.
func (t *Translator) Parse(text string) (symbolic.Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, calcerr.Validationf("translate", "expression is empty")
	}
	ps := &parser{table: t.table, src: text}
	e, err := ps.parse()
	if err != nil {
		return nil, calcerr.ParseError("translate", text, err)
	}
	return e, nil
}

// parser is a recursive-descent parser over the runes of src:
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := ('+'|'-') unary | power
//	power   := primary (('**'|'^') unary)?
//	primary := number | name | name '(' expr ')' | '(' expr ')'
type parser struct {
	table Table
	src   string
	pos   int
}

const eof rune = -1

func (ps *parser) peek() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
	return r
}

func (ps *parser) next() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, s := utf8.DecodeRuneInString(ps.src[ps.pos:])
	ps.pos += s
	return r
}

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:], prefix)
}

func (ps *parser) skipSpace() {
	for unicode.IsSpace(ps.peek()) {
		ps.next()
	}
}

func (ps *parser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (ps *parser) parse() (symbolic.Expr, error) {
	e, err := ps.expr()
	if err != nil {
		return nil, err
	}
	ps.skipSpace()
	switch r := ps.peek(); {
	case r == eof:
		return e, nil
	case r == ')':
		return nil, ps.errorf(ps.pos, "unbalanced parenthesis")
	case r == '(' || isNameStart(r) || isDigit(r) || r == '.':
		return nil, ps.errorf(ps.pos, "missing operator before %q (write 2*x, not 2x)", r)
	default:
		return nil, ps.errorf(ps.pos, "unexpected token %q", r)
	}
}

func (ps *parser) expr() (symbolic.Expr, error) {
	first, err := ps.term()
	if err != nil {
		return nil, err
	}
	terms := []symbolic.Expr{first}
	for {
		ps.skipSpace()
		op := ps.peek()
		if op != '+' && op != '-' {
			break
		}
		ps.next()
		t, err := ps.term()
		if err != nil {
			return nil, err
		}
		if op == '-' {
			t = symbolic.MulOf(symbolic.N(-1), t)
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return symbolic.AddOf(terms...), nil
}

func (ps *parser) term() (symbolic.Expr, error) {
	first, err := ps.unary()
	if err != nil {
		return nil, err
	}
	factors := []symbolic.Expr{first}
	for {
		ps.skipSpace()
		op := ps.peek()
		if op != '*' && op != '/' {
			break
		}
		ps.next()
		f, err := ps.unary()
		if err != nil {
			return nil, err
		}
		if op == '/' {
			f = symbolic.PowOf(f, symbolic.N(-1))
		}
		factors = append(factors, f)
	}
	if len(factors) == 1 {
		return first, nil
	}
	return symbolic.MulOf(factors...), nil
}

func (ps *parser) unary() (symbolic.Expr, error) {
	ps.skipSpace()
	switch ps.peek() {
	case '+':
		ps.next()
		return ps.unary()
	case '-':
		ps.next()
		u, err := ps.unary()
		if err != nil {
			return nil, err
		}
		return symbolic.MulOf(symbolic.N(-1), u), nil
	}
	return ps.power()
}

func (ps *parser) power() (symbolic.Expr, error) {
	base, err := ps.primary()
	if err != nil {
		return nil, err
	}
	ps.skipSpace()
	switch {
	case ps.hasPrefix("**"):
		ps.pos += 2
	case ps.peek() == '^':
		ps.next()
	default:
		return base, nil
	}
	exp, err := ps.unary()
	if err != nil {
		return nil, err
	}
	return symbolic.PowOf(base, exp), nil
}

func (ps *parser) primary() (symbolic.Expr, error) {
	ps.skipSpace()
	start := ps.pos
	switch r := ps.peek(); {
	case r == eof:
		return nil, ps.errorf(start, "unexpected end of expression, should be a number, a name or '('")
	case isDigit(r) || r == '.':
		return ps.number()
	case r == '(':
		ps.next()
		e, err := ps.expr()
		if err != nil {
			return nil, err
		}
		if err := ps.closeParen(start); err != nil {
			return nil, err
		}
		return e, nil
	case r == ')':
		return nil, ps.errorf(start, "unbalanced parenthesis")
	case isNameStart(r):
		return ps.name()
	default:
		return nil, ps.errorf(start, "unexpected token %q", r)
	}
}

func (ps *parser) closeParen(open int) error {
	ps.skipSpace()
	if ps.peek() != ')' {
		return ps.errorf(open, "unbalanced parenthesis")
	}
	ps.next()
	return nil
}

func (ps *parser) number() (symbolic.Expr, error) {
	start := ps.pos
	digits := ps.digits()
	if ps.peek() == '.' {
		ps.next()
		digits += ps.digits()
	}
	if digits == 0 {
		return nil, ps.errorf(start, "malformed number")
	}
	if r := ps.peek(); r == 'e' || r == 'E' {
		save := ps.pos
		ps.next()
		expStart := ps.pos
		if r := ps.peek(); r == '+' || r == '-' {
			ps.next()
		}
		if ps.digits() == 0 {
			// Not an exponent: leave "e" for the caller to reject.
			ps.pos = save
		} else if n, err := strconv.Atoi(ps.src[expStart:ps.pos]); err != nil || n > maxExponent || n < -maxExponent {
			return nil, ps.errorf(start, "number out of range")
		}
	}
	lit := ps.src[start:ps.pos]
	n, ok := symbolic.NRat(lit)
	if !ok {
		return nil, ps.errorf(start, "malformed number %q", lit)
	}
	return n, nil
}

func (ps *parser) digits() int {
	n := 0
	for isDigit(ps.peek()) {
		ps.next()
		n++
	}
	return n
}

func (ps *parser) name() (symbolic.Expr, error) {
	start := ps.pos
	if ps.next() != '∞' {
		for isNameRune(ps.peek()) {
			ps.next()
		}
	}
	name := ps.src[start:ps.pos]
	entry, known := ps.table[name]

	ps.skipSpace()
	if ps.peek() == '(' {
		if !entry.IsFunc() {
			return nil, ps.errorf(start, "unknown function %q", name)
		}
		open := ps.pos
		ps.next()
		arg, err := ps.expr()
		if err != nil {
			return nil, err
		}
		if err := ps.closeParen(open); err != nil {
			return nil, err
		}
		return entry.Func(arg), nil
	}
	if entry.IsFunc() {
		return nil, ps.errorf(start, "function %q needs an argument in parentheses", name)
	}
	if known {
		return entry.Value, nil
	}
	return symbolic.S(name), nil
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isNameStart(r rune) bool { return r == '_' || r == '∞' || unicode.IsLetter(r) }

func isNameRune(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
