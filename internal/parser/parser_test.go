package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"fnlang/internal/ast"
	"fnlang/internal/diag"
	"fnlang/internal/lexer"

	"github.com/google/go-cmp/cmp"
)

// helper: tokenize source and build a parser
func newParser(t *testing.T, source string) *Parser {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return New(tokens)
}

func parseExprOK(t *testing.T, source string) ast.Expr {
	t.Helper()
	expr, err := newParser(t, source).ParseExpression()
	if err != nil {
		t.Fatalf("parse error for %q: %v", source, err)
	}
	return expr
}

func parseStmtsOK(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	stmts, err := newParser(t, source).ParseStatements()
	if err != nil {
		t.Fatalf("parse error for %q: %v", source, err)
	}
	return stmts
}

func parseModuleOK(t *testing.T, source string) *ast.Module {
	t.Helper()
	mod, err := newParser(t, source).ParseModule()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return mod
}

// sexpr renders an expression as a fully parenthesized prefix form so tree
// shape can be compared as a string.
func sexpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return fmt.Sprint(n.Value)
	case *ast.BoolLiteral:
		return fmt.Sprint(n.Value)
	case *ast.IdentExpr:
		return n.Name
	case *ast.NegExpr:
		return "(neg " + sexpr(n.Operand) + ")"
	case *ast.ParenExpr:
		return "(paren " + sexpr(n.Inner) + ")"
	case *ast.BinaryExpr:
		return "(" + n.Op.String() + " " + sexpr(n.Left) + " " + sexpr(n.Right) + ")"
	case *ast.CompareExpr:
		return "(" + n.Op.String() + " " + sexpr(n.Left) + " " + sexpr(n.Right) + ")"
	case *ast.AssignExpr:
		return "(= " + n.Name + " " + sexpr(n.Value) + ")"
	case *ast.CallExpr:
		parts := []string{"call", n.Name}
		for _, a := range n.Args {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.ListLiteral:
		parts := []string{"list"}
		for _, el := range n.Elements {
			parts = append(parts, sexpr(el))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.IndexExpr:
		return "(index " + n.Name + " " + sexpr(n.Index) + ")"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func TestParseExpressionShapes(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"42", "42"},
		{"true", "true"},
		{"x", "x"},
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (paren (+ 1 2)) 3)"},
		{"10 - 3 - 2", "(- (- 10 3) 2)"},
		{"20 / 2 / 5", "(/ (/ 20 2) 5)"},
		{"1 + 2 - 3 + 4", "(+ (- (+ 1 2) 3) 4)"},
		{"-x * 2", "(* (neg x) 2)"},
		{"--1", "(neg (neg 1))"},
		{"a + 1 < b * 2", "(< (+ a 1) (* b 2))"},
		{"a == b", "(== a b)"},
		{"a <= b", "(<= a b)"},
		{"a >= b", "(>= a b)"},
		{"a > b", "(> a b)"},
		{"a = 1 + 2", "(= a (+ 1 2))"},
		{"a = b = 3", "(= a (= b 3))"},
		{"f()", "(call f)"},
		{"f(1, g(2), x + 1)", "(call f 1 (call g 2) (+ x 1))"},
		{"[]", "(list)"},
		{"[1, 2, [3]]", "(list 1 2 (list 3))"},
		{"xs[i + 1]", "(index xs (+ i 1))"},
		{"-xs[0]", "(neg (index xs 0))"},
		{"fib(n - 1) + fib(n - 2)", "(+ (call fib (- n 1)) (call fib (- n 2)))"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := sexpr(parseExprOK(t, tt.source))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseExpressionTrailingTokens(t *testing.T) {
	for _, src := range []string{"1 2", "a < b < c", "f(1) )", "x ="} {
		_, err := newParser(t, src).ParseExpression()
		if err == nil {
			t.Errorf("%q: expected an error", src)
			continue
		}
		if !errors.Is(err, diag.ErrTrailingTokens) {
			t.Errorf("%q: expected trailing tokens error, got %v", src, err)
		}
	}
}

func TestParseExpressionUnknownSyntax(t *testing.T) {
	for _, src := range []string{"", "+", "(1 + 2", "[1, 2", "* 3", `"text"`} {
		_, err := newParser(t, src).ParseExpression()
		if !errors.Is(err, diag.ErrUnknownSyntax) {
			t.Errorf("%q: expected unknown syntax error, got %v", src, err)
		}
	}
}

func TestParseCallArgumentErrors(t *testing.T) {
	for _, src := range []string{"f(1,)", "f(1 2)", "f(", "g(1, h(2 3))"} {
		_, err := newParser(t, src).ParseExpression()
		if !errors.Is(err, diag.ErrBadArgs) {
			t.Errorf("%q: expected bad argument error, got %v", src, err)
		}
	}
}

func TestParseIndexFallsBackToIdentifier(t *testing.T) {
	// "xs[" cannot become an index, so it parses as the identifier xs and
	// leaves the bracket behind.
	_, err := newParser(t, "xs[1").ParseExpression()
	if !errors.Is(err, diag.ErrTrailingTokens) {
		t.Fatalf("expected trailing tokens, got %v", err)
	}
}

func TestParseStatements(t *testing.T) {
	stmts := parseStmtsOK(t, `a = 1; { b = a + 1; } return b`)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*ast.ExprStmt); !ok {
		t.Errorf("expected ExprStmt, got %T", stmts[0])
	}
	block, ok := stmts[1].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("expected BlockStmt, got %T", stmts[1])
	}
	if len(block.Stmts) != 1 {
		t.Errorf("expected 1 statement in block, got %d", len(block.Stmts))
	}
	ret, ok := stmts[2].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", stmts[2])
	}
	if sexpr(ret.Value) != "b" {
		t.Errorf("unexpected return value %s", sexpr(ret.Value))
	}
}

func TestParseReturnSemicolonOptional(t *testing.T) {
	for _, src := range []string{"return 1;", "return 1"} {
		stmts := parseStmtsOK(t, src)
		if len(stmts) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", src, len(stmts))
		}
		if _, ok := stmts[0].(*ast.ReturnStmt); !ok {
			t.Errorf("%q: expected ReturnStmt, got %T", src, stmts[0])
		}
	}
}

func TestParseExpressionStatementNeedsSemicolon(t *testing.T) {
	_, err := newParser(t, "a = 1").ParseStatements()
	if !errors.Is(err, diag.ErrUnknownSyntax) {
		t.Fatalf("expected unknown syntax error, got %v", err)
	}
}

func TestParseIfElseChain(t *testing.T) {
	stmts := parseStmtsOK(t, `
		if (n < 2) { return n; }
		else if (n == 2) { return 1; }
		else { return 2; }
	`)
	ifStmt, ok := stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", stmts[0])
	}
	if sexpr(ifStmt.Condition) != "(< n 2)" {
		t.Errorf("unexpected condition %s", sexpr(ifStmt.Condition))
	}
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected else-if, got %T", ifStmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockStmt); !ok {
		t.Errorf("expected final else block, got %T", elseIf.Else)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	stmts := parseStmtsOK(t, `if (true) { a = 1; }`)
	ifStmt := stmts[0].(*ast.IfStmt)
	if ifStmt.Else != nil {
		t.Errorf("expected no else branch, got %T", ifStmt.Else)
	}
}

func TestParseLoopBreak(t *testing.T) {
	stmts := parseStmtsOK(t, `loop { i = i + 1; if (i == 10) { break; } } break`)
	loop, ok := stmts[0].(*ast.LoopStmt)
	if !ok {
		t.Fatalf("expected LoopStmt, got %T", stmts[0])
	}
	if len(loop.Body.Stmts) != 2 {
		t.Errorf("expected 2 statements in loop body, got %d", len(loop.Body.Stmts))
	}
	if _, ok := stmts[1].(*ast.BreakStmt); !ok {
		t.Errorf("expected BreakStmt, got %T", stmts[1])
	}
}

func TestParseModule(t *testing.T) {
	mod := parseModuleOK(t, `
		fn fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		fn main() { return fib(10); }
		fn pair(a, b) { return [a, b]; }
	`)
	if mod.Len() != 3 {
		t.Fatalf("expected 3 functions, got %d", mod.Len())
	}
	var names []string
	for _, d := range mod.Decls {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"fib", "main", "pair"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	pair, _ := mod.Function("pair")
	if diff := cmp.Diff([]string{"a", "b"}, pair.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	main, _ := mod.Function("main")
	if len(main.Params) != 0 {
		t.Errorf("expected no params for main, got %v", main.Params)
	}
}

func TestParseEmptyModule(t *testing.T) {
	mod := parseModuleOK(t, "  // nothing here\n")
	if mod.Len() != 0 {
		t.Errorf("expected empty module, got %d decls", mod.Len())
	}
}

func TestParseModuleErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"missing paren", `fn f a) { }`, diag.ErrBadParams},
		{"trailing comma", `fn f(a,) { }`, diag.ErrBadParams},
		{"literal param", `fn f(1) { }`, diag.ErrBadParams},
		{"missing body", `fn f(a) return a;`, diag.ErrMissingBody},
		{"body at eof", `fn f(a)`, diag.ErrMissingBody},
		{"duplicate", `fn f() { } fn g() { } fn f(a) { }`, diag.ErrDuplicateFunction},
		{"statement at top level", `x = 1;`, diag.ErrUnknownSyntax},
		{"bad body", `fn f() { return ; }`, diag.ErrUnknownSyntax},
		{"unclosed body", `fn f() { return 1;`, diag.ErrUnknownSyntax},
		{"missing name", `fn (a) { }`, diag.ErrUnknownSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser(t, tt.source).ParseModule()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseDuplicateReportsSecondDeclaration(t *testing.T) {
	_, err := newParser(t, "fn f() { }\nfn f() { }").ParseModule()
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected a diagnostic, got %T", err)
	}
	if d.Span.Start.Line != 2 {
		t.Errorf("expected error on line 2, got %d", d.Span.Start.Line)
	}
	if d.Subject != "f" {
		t.Errorf("expected subject f, got %q", d.Subject)
	}
}

func TestParseErrorPointsAtFurthestToken(t *testing.T) {
	_, err := newParser(t, "fn main() {\n  a = 1;\n  b = ;\n}").ParseModule()
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected a diagnostic, got %T", err)
	}
	if d.Span.Start.Line != 3 {
		t.Errorf("expected error on line 3, got %s", d.Span.Start)
	}
}

func TestParseSpans(t *testing.T) {
	expr := parseExprOK(t, "ab + 12")
	sp := expr.GetSpan()
	if sp.Start.Column != 1 || sp.End.Column != 8 {
		t.Errorf("unexpected span %s", sp)
	}
}

func TestParseModuleJSON(t *testing.T) {
	mod := parseModuleOK(t, `fn main() { if (true) { return 1; } else { return [2]; } }`)
	data, err := json.Marshal(ast.ModuleToMap(mod))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	js := string(data)
	for _, want := range []string{`"IfStmt"`, `"else"`, `"ListLiteral"`, `"FuncDecl"`} {
		if !strings.Contains(js, want) {
			t.Errorf("JSON missing %s: %s", want, js)
		}
	}
}
