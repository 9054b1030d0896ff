package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fnlang/internal/diag"
	"fnlang/internal/runtime"
	"fnlang/internal/token"
)

// ---- output helpers ----

func (a *app) printJSON(v interface{}) {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(a.stderr, "error: JSON encoding failed: %v\n", err)
	}
}

func (a *app) printError(err error) {
	renderError(a.stderr, err, "", "")
}

// renderError writes err to w, wrapped in the given color codes. A
// multi-error is printed one cause per line.
func renderError(w io.Writer, err error, color, reset string) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		fmt.Fprintf(w, "%s%s%s\n", color, d.String(), reset)
		return
	}
	var multi *runtime.MultiError
	if errors.As(err, &multi) {
		fmt.Fprintf(w, "%serror: %d errors%s\n", color, len(multi.Errors), reset)
		for _, cause := range multi.Errors {
			fmt.Fprintf(w, "%s  - %s%s\n", color, cause, reset)
		}
		return
	}
	fmt.Fprintf(w, "%serror: %s%s\n", color, err, reset)
}

func diagsToSlice(err error) []map[string]interface{} {
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		return []map[string]interface{}{}
	}
	entry := map[string]interface{}{
		"code":     d.Code,
		"severity": d.Severity.String(),
		"message":  d.Message,
		"line":     d.Span.Start.Line,
		"column":   d.Span.Start.Column,
		"offset":   d.Span.Start.Offset,
	}
	if d.Subject != "" {
		entry["subject"] = d.Subject
	}
	if d.Hint != "" {
		entry["hint"] = d.Hint
	}
	return []map[string]interface{}{entry}
}

// ---- token output helpers ----

func (a *app) printTokensText(tokens []token.Token, err error) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.STRING {
			lexeme = `"` + lexeme + `"`
		}
		fmt.Fprintf(a.stdout, "%-12s %-20s %d:%d\n", tok.Kind, lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
	if err != nil {
		a.printError(err)
	}
}

func (a *app) printTokensJSON(tokens []token.Token, err error) {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := []tokenJSON{}
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		})
	}

	output := map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(err),
	}
	a.printJSON(output)
}
