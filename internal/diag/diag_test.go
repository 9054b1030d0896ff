package diag

import (
	"errors"
	"fmt"
	"testing"

	"fnlang/internal/span"
)

func TestDiagnosticIsMatchesCode(t *testing.T) {
	d := Errorf(CodeBadParams, span.Span{}, "expected parameter name")
	wrapped := fmt.Errorf("loading: %w", d)

	if !errors.Is(wrapped, ErrBadParams) {
		t.Error("expected wrapped diagnostic to match its code")
	}
	if errors.Is(wrapped, ErrMissingBody) {
		t.Error("did not expect a different code to match")
	}
}

func TestDiagnosticString(t *testing.T) {
	pos := span.Position{Offset: 4, Line: 2, Column: 3}
	d := Errorf(CodeUnknownChar, span.Span{Start: pos, End: pos}, "unknown character '%s'", "$").
		WithSubject("$").
		WithHint("remove it")

	want := "[E1001] error at 2:3: unknown character '$' (hint: remove it)"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if d.Subject != "$" {
		t.Errorf("expected subject $, got %q", d.Subject)
	}
}
