package runtime

import (
	"errors"
	"fmt"
	"strings"

	"fnlang/internal/span"
)

// Error kinds. Match them with errors.Is.
var (
	ErrUnknownVariable  = errors.New("unknown variable")
	ErrType             = errors.New("type error")
	ErrFunctionNotFound = errors.New("function not found")
	ErrNoModule         = errors.New("no module")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrArity            = errors.New("wrong number of arguments")
	ErrBreakOutsideLoop = errors.New("break outside of loop")
)

// Error is a runtime failure of one of the kinds above.
type Error struct {
	Kind    error
	Name    string // variable or function name, when there is one
	Message string
	Span    span.Span
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg += " '" + e.Name + "'"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Span.IsZero() {
		return "runtime error: " + msg
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func runtimeErr(kind error, s span.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}

func namedErr(kind error, name string, s span.Span) *Error {
	return &Error{Kind: kind, Name: name, Span: s}
}

func typeErr(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrType, Message: fmt.Sprintf(format, args...)}
}

// withSpan attaches s to err if it is a runtime error without a position.
func withSpan(err error, s span.Span) error {
	var rerr *Error
	if errors.As(err, &rerr) && rerr.Span.IsZero() {
		rerr.Span = s
	}
	return err
}

// MultiError carries several independent causes, in evaluation order.
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *MultiError) Unwrap() []error { return e.Errors }
