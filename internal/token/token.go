// Package token defines the token kinds produced by the lexer.
package token

import (
	"fmt"

	"fnlang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT  // identifiers: x, fib, my_list
	INT    // integer literals: 123
	STRING // string literals: "hello"

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	// Comparison operators
	EQ  // ==
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	// Punctuation
	ASSIGN    // =
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;

	// Keywords
	KW_RETURN
	KW_FN
	KW_IF
	KW_ELSE
	KW_TRUE
	KW_FALSE
	KW_LOOP
	KW_BREAK
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	STRING: "STRING",

	PLUS:  "+",
	MINUS: "-",
	STAR:  "*",
	SLASH: "/",

	EQ:  "==",
	LT:  "<",
	LTE: "<=",
	GT:  ">",
	GTE: ">=",

	ASSIGN:    "=",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",

	KW_RETURN: "return",
	KW_FN:     "fn",
	KW_IF:     "if",
	KW_ELSE:   "else",
	KW_TRUE:   "true",
	KW_FALSE:  "false",
	KW_LOOP:   "loop",
	KW_BREAK:  "break",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KW_RETURN && k <= KW_BREAK
}

// IsArithmetic reports whether k is one of + - * /.
func (k Kind) IsArithmetic() bool {
	return k >= PLUS && k <= SLASH
}

// IsComparison reports whether k is one of == < <= > >=.
func (k Kind) IsComparison() bool {
	return k >= EQ && k <= GTE
}

var keywords = map[string]Kind{
	"return": KW_RETURN,
	"fn":     KW_FN,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"true":   KW_TRUE,
	"false":  KW_FALSE,
	"loop":   KW_LOOP,
	"break":  KW_BREAK,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token. Lexeme holds the identifier name, the digits of
// an integer, or the raw contents of a string literal.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}

// Int returns the value of an INT token. Digits accumulate into an int64
// and wrap around on overflow.
func (t Token) Int() int64 {
	var n int64
	for i := 0; i < len(t.Lexeme); i++ {
		n = n*10 + int64(t.Lexeme[i]-'0')
	}
	return n
}
