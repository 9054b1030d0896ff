// Package lexer implements the lexical analysis (tokenization) for fnlang.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"fnlang/internal/diag"
	"fnlang/internal/span"
	"fnlang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source. The returned slice always ends with an
// EOF token. Scanning stops at the first error, which is a *diag.Diagnostic;
// the tokens returned alongside an error must not be used.
func Tokenize(source string) ([]token.Token, error) {
	return New(source, "").Tokenize()
}

// Tokenize scans the lexer's source. See the package-level Tokenize.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// ---- internal helpers ----

// peek returns the current byte without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the byte after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// peekRune decodes the rune at the current position.
func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.source) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.source[l.pos:])
}

// advance consumes the current rune and returns it.
func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) makeToken(kind token.Kind, lexeme string, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// skipSpace skips whitespace and // comments.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.source) {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for l.pos < len(l.source) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// ---- token reading ----

func (l *Lexer) nextToken() (token.Token, error) {
	l.skipSpace()

	start := l.curPos()
	if l.pos >= len(l.source) {
		return l.makeToken(token.EOF, "", start), nil
	}

	ch := l.peek()
	switch {
	case ch == '"':
		return l.readString(start)
	case isDigit(ch):
		return l.readNumber(start), nil
	}
	if r, _ := l.peekRune(); isIdentStart(r) {
		return l.readIdentifier(start), nil
	}
	return l.readOperator(start)
}

// readString reads a double-quoted literal. The contents are kept verbatim;
// a backslash only stops the following quote from closing the literal.
func (l *Lexer) readString(start span.Position) (token.Token, error) {
	l.advance() // opening "
	contentStart := l.pos
	for l.pos < len(l.source) {
		switch l.peek() {
		case '"':
			content := l.source[contentStart:l.pos]
			l.advance() // closing "
			return l.makeToken(token.STRING, content, start), nil
		case '\\':
			l.advance()
			if l.pos < len(l.source) {
				l.advance()
			}
		default:
			l.advance()
		}
	}
	return token.Token{}, diag.Errorf(diag.CodeUnterminatedString, l.makeSpan(start), "unterminated string literal")
}

// readNumber reads a run of decimal digits. There is no sign and no
// fractional part; '-' is always a separate token.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}
	return l.makeToken(token.INT, l.source[numStart:l.pos], start)
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentPart(r) {
			break
		}
		l.advance()
	}
	lexeme := l.source[identStart:l.pos]
	return l.makeToken(token.LookupIdent(lexeme), lexeme, start)
}

var single = map[rune]token.Kind{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
	';': token.SEMICOLON,
}

// readOperator reads an operator or punctuation token.
func (l *Lexer) readOperator(start span.Position) (token.Token, error) {
	ch := l.advance()

	switch ch {
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(token.EQ, "==", start), nil
		}
		return l.makeToken(token.ASSIGN, "=", start), nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(token.LTE, "<=", start), nil
		}
		return l.makeToken(token.LT, "<", start), nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(token.GTE, ">=", start), nil
		}
		return l.makeToken(token.GT, ">", start), nil
	}

	if kind, ok := single[ch]; ok {
		return l.makeToken(kind, string(ch), start), nil
	}
	d := diag.Errorf(diag.CodeUnknownChar, l.makeSpan(start), "unknown character %q", ch)
	return token.Token{}, d.WithSubject(string(ch))
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
