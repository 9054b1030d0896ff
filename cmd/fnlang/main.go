// Command fnlang is the CLI entry point for the fnlang toolchain.
//
// Usage:
//
//	fnlang tokens <file>            Print tokens
//	fnlang tokens <file> --json     Print tokens as JSON
//	fnlang parse  <file>            Print AST as JSON
//	fnlang eval   <expr>            Evaluate one expression
//	fnlang run    <file>            Run a program's entry function
//	fnlang repl                     Start interactive REPL
//
// Settings are read from fnlang.yaml, or the file named by $FNLANG_CONFIG.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fnlang/internal/ast"
	"fnlang/internal/config"
	"fnlang/internal/lexer"
	"fnlang/internal/parser"
	"fnlang/internal/runtime"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the settings and writers shared by every command.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) *app {
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()})
	return &app{
		cfg:    cfg,
		log:    slog.New(handler),
		stdout: stdout,
		stderr: stderr,
	}
}

// run dispatches one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	a := newApp(cfg, stdout, stderr)
	a.log.Debug("config loaded", "path", cfg.Path, "entry", cfg.Entry)

	command := args[0]
	switch command {
	case "tokens", "parse", "run":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "error: missing file argument")
			return 1
		}
		source, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(stderr, "error: cannot read file %s: %v\n", args[1], err)
			return 1
		}
		switch command {
		case "tokens":
			return a.cmdTokens(string(source), args[1], hasFlag(args[2:], "--json"))
		case "parse":
			return a.cmdParse(string(source), args[1])
		default:
			return a.cmdRun(string(source), args[1])
		}
	case "eval":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "error: missing expression argument")
			return 1
		}
		return a.cmdEval(args[1])
	case "repl":
		return a.cmdRepl()
	default:
		fmt.Fprintf(stderr, "error: unknown command '%s'\n", command)
		usage(stderr)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fnlang tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(w, "  fnlang parse  <file>            Parse and print AST (JSON)")
	fmt.Fprintln(w, "  fnlang eval   <expr>            Evaluate one expression")
	fmt.Fprintln(w, "  fnlang run    <file>            Run a program's entry function")
	fmt.Fprintln(w, "  fnlang repl                     Start interactive REPL")
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

// ---- tokens command ----

func (a *app) cmdTokens(source, filename string, jsonMode bool) int {
	tokens, err := lexer.New(source, filename).Tokenize()
	a.log.Debug("tokenized", "file", filename, "tokens", len(tokens))

	if jsonMode {
		a.printTokensJSON(tokens, err)
	} else {
		a.printTokensText(tokens, err)
	}
	if err != nil {
		return 1
	}
	return 0
}

// ---- parse command ----

func (a *app) cmdParse(source, filename string) int {
	var mod *ast.Module
	tokens, err := lexer.New(source, filename).Tokenize()
	if err == nil {
		mod, err = parser.New(tokens).ParseModule()
	}

	output := map[string]interface{}{
		"diagnostics": diagsToSlice(err),
	}
	if mod != nil {
		output["ast"] = ast.ModuleToMap(mod)
		a.log.Debug("parsed module", "file", filename, "functions", mod.Len())
	}
	a.printJSON(output)

	if err != nil {
		return 1
	}
	return 0
}

// ---- eval command ----

func (a *app) cmdEval(source string) int {
	tokens, err := lexer.New(source, "<eval>").Tokenize()
	if err != nil {
		a.printError(err)
		return 1
	}
	expr, err := parser.New(tokens).ParseExpression()
	if err != nil {
		a.printError(err)
		return 1
	}

	interp := runtime.NewInterpreter(nil, a.stdout)
	val, err := interp.Eval(expr, runtime.NewEnvironment())
	if err != nil {
		a.printError(err)
		return 1
	}
	fmt.Fprintln(a.stdout, val.String())
	return 0
}

// ---- run command ----

func (a *app) cmdRun(source, filename string) int {
	// Tokenize
	tokens, err := lexer.New(source, filename).Tokenize()
	if err != nil {
		a.printError(err)
		return 1
	}
	a.log.Debug("tokenized", "file", filename, "tokens", len(tokens))

	// Parse
	mod, err := parser.New(tokens).ParseModule()
	if err != nil {
		a.printError(err)
		return 1
	}
	a.log.Debug("parsed module", "file", filename, "functions", mod.Len())

	// Interpret
	interp := runtime.NewInterpreter(mod, a.stdout)
	a.log.Debug("calling entry function", "entry", a.cfg.Entry)
	val, err := interp.Call(a.cfg.Entry, nil)
	if err != nil {
		a.printError(err)
		return 1
	}
	if _, none := val.(runtime.NoneVal); !none {
		fmt.Fprintln(a.stdout, val.String())
	}
	return 0
}
