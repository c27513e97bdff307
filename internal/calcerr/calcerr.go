// Package calcerr defines the error kinds surfaced to the user: bad input,
// unparseable expressions, failed mathematics and file-system failures.
package calcerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind uint8

const (
	Other Kind = iota
	// Validation: a required field is empty.
	Validation
	// Parse: text could not be translated into an expression.
	Parse
	// Computation: integration, differentiation or evaluation failed.
	Computation
	// IO: a file could not be read or written.
	IO
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation error"
	case Parse:
		return "parse error"
	case Computation:
		return "computation error"
	case IO:
		return "I/O error"
	}
	return "error"
}

// Error is the single error type returned across package boundaries.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "compute_definite".
	Op string
	// Text is the offending user input, if any.
	Text string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Text != "" {
		fmt.Fprintf(&b, " in %q", e.Text)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the part of the error meant for a dialog body.
func (e *Error) Message() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func newError(kind Kind, op, text string, err error) *Error {
	return &Error{Kind: kind, Op: op, Text: text, Err: err}
}

// Validationf reports an empty or missing field.
func Validationf(op, format string, args ...interface{}) *Error {
	return newError(Validation, op, "", fmt.Errorf(format, args...))
}

// ParseError wraps a translation failure of text.
func ParseError(op, text string, err error) *Error { return newError(Parse, op, text, err) }

// ComputationError wraps a failure of the symbolic kernel.
func ComputationError(op, text string, err error) *Error {
	return newError(Computation, op, text, err)
}

// IOError wraps a file-system failure on path.
func IOError(op, path string, err error) *Error { return newError(IO, op, path, err) }

// KindOf returns the kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err carries the given kind.
func Is(kind Kind, err error) bool { return err != nil && KindOf(err) == kind }

// Title is the dialog title for err.
func Title(err error) string {
	switch KindOf(err) {
	case Validation:
		return "Missing input"
	case Parse:
		return "Invalid expression"
	case Computation:
		return "Calculation failed"
	case IO:
		return "File error"
	}
	return "Error"
}

// Message is the dialog body for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
