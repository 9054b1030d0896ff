// Package diag provides the diagnostics reported by the lexer and parser.
package diag

import (
	"fmt"

	"fnlang/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable diagnostic identifier. E1xxx come from the lexer,
// E2xxx from the parser.
type Code string

const (
	CodeUnknownChar        Code = "E1001"
	CodeUnterminatedString Code = "E1002"

	CodeUnknownSyntax     Code = "E2001"
	CodeTrailingTokens    Code = "E2002"
	CodeBadParams         Code = "E2003"
	CodeMissingBody       Code = "E2004"
	CodeDuplicateFunction Code = "E2005"
	CodeBadArgs           Code = "E2006"
)

// Sentinels for errors.Is; only the code is compared.
var (
	ErrUnknownChar        = &Diagnostic{Code: CodeUnknownChar}
	ErrUnterminatedString = &Diagnostic{Code: CodeUnterminatedString}
	ErrUnknownSyntax      = &Diagnostic{Code: CodeUnknownSyntax}
	ErrTrailingTokens     = &Diagnostic{Code: CodeTrailingTokens}
	ErrBadParams          = &Diagnostic{Code: CodeBadParams}
	ErrMissingBody        = &Diagnostic{Code: CodeMissingBody}
	ErrDuplicateFunction  = &Diagnostic{Code: CodeDuplicateFunction}
	ErrBadArgs            = &Diagnostic{Code: CodeBadArgs}
)

// Diagnostic is a lexer or parser failure. It implements error.
type Diagnostic struct {
	Code     Code      `json:"code"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Span     span.Span `json:"span"`
	Subject  string    `json:"subject,omitempty"` // offending character or name
	Hint     string    `json:"hint,omitempty"`
}

// String returns a human-readable representation of the diagnostic.
func (d *Diagnostic) String() string {
	msg := fmt.Sprintf("[%s] %s at %s: %s", d.Code, d.Severity, d.Span.Start, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

func (d *Diagnostic) Error() string { return d.String() }

// Is matches diagnostics by code.
func (d *Diagnostic) Is(target error) bool {
	t, ok := target.(*Diagnostic)
	return ok && t.Code == d.Code
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code Code, s span.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// WithSubject records the offending character or name.
func (d *Diagnostic) WithSubject(subject string) *Diagnostic {
	d.Subject = subject
	return d
}

// WithHint attaches a hint shown after the message.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}
