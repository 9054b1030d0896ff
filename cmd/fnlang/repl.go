package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fnlang/internal/lexer"
	"fnlang/internal/parser"
	"fnlang/internal/runtime"
	"fnlang/internal/token"

	"github.com/chzyer/readline"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// palette holds the escape codes in use; all empty when color is off.
type palette struct {
	reset, red, green, cyan, gray, bold string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	return palette{colorReset, colorRed, colorGreen, colorCyan, colorGray, colorBold}
}

// ---- session ----

// session is the state kept between REPL inputs: the functions defined so
// far and one environment shared by every line.
type session struct {
	interp *runtime.Interpreter
	env    *runtime.Environment
	log    *slog.Logger
}

func newSession(out io.Writer, log *slog.Logger) *session {
	return &session{
		interp: runtime.NewInterpreter(nil, out),
		env:    runtime.NewEnvironment(),
		log:    log,
	}
}

// handle evaluates one complete input and returns the text to echo, if any.
// Input starting with 'fn' defines functions; anything else runs as
// statements, falling back to a single expression whose value is echoed.
func (s *session) handle(source string) (string, error) {
	tokens, err := lexer.New(source, "<repl>").Tokenize()
	if err != nil {
		return "", err
	}

	if tokens[0].Kind == token.KW_FN {
		mod, err := parser.New(tokens).ParseModule()
		if err != nil {
			return "", err
		}
		names := make([]string, 0, mod.Len())
		for _, decl := range mod.Decls {
			s.interp.SetModule(s.interp.Module().With(decl))
			names = append(names, decl.Name)
		}
		s.log.Debug("defined functions", "names", names, "total", s.interp.Module().Len())
		return "defined " + strings.Join(names, ", "), nil
	}

	stmts, stmtErr := parser.New(tokens).ParseStatements()
	if stmtErr == nil {
		val, err := s.interp.ExecAll(stmts, s.env)
		if err != nil {
			return "", err
		}
		return echo(val), nil
	}

	expr, err := parser.New(tokens).ParseExpression()
	if err != nil {
		return "", stmtErr
	}
	val, err := s.interp.Eval(expr, s.env)
	if err != nil {
		return "", err
	}
	return echo(val), nil
}

// command handles a ':' meta command. It reports false for unknown ones.
func (s *session) command(line string) (string, bool) {
	switch strings.TrimSpace(line) {
	case ":vars":
		var b strings.Builder
		for _, name := range s.env.Names() {
			val, _ := s.env.Get(name)
			fmt.Fprintf(&b, "%s = %s\n", name, val)
		}
		return strings.TrimRight(b.String(), "\n"), true
	case ":funcs":
		var parts []string
		if mod := s.interp.Module(); mod != nil {
			for _, decl := range mod.Decls {
				parts = append(parts, fmt.Sprintf("%s(%s)", decl.Name, strings.Join(decl.Params, ", ")))
			}
		}
		parts = append(parts, "builtins: "+strings.Join(s.interp.Builtins().Names(), ", "))
		return strings.Join(parts, "\n"), true
	default:
		return "", false
	}
}

func echo(val runtime.Value) string {
	if _, none := val.(runtime.NoneVal); none {
		return ""
	}
	return val.String()
}

// braceDelta returns how much line changes the open brace depth. Braces in
// comments and strings do not count; if line does not lex on its own the
// raw characters are counted instead.
func braceDelta(line string) int {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		return strings.Count(line, "{") - strings.Count(line, "}")
	}
	delta := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LBRACE:
			delta++
		case token.RBRACE:
			delta--
		}
	}
	return delta
}

// ---- repl command ----

func (a *app) cmdRepl() int {
	colors := newPalette(a.cfg.UseColor(readline.DefaultIsTerminal()))
	prompt := colors.green + a.cfg.Prompt + colors.reset
	more := colors.gray + strings.Repeat(".", len(strings.TrimSpace(a.cfg.Prompt))) + " " + colors.reset

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       a.cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "readline init failed: %v\n", err)
		return 1
	}
	defer rl.Close()

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s%sfnlang REPL%s %s(type 'exit' or Ctrl+D to quit, :vars, :funcs)%s\n\n",
		colors.bold, colors.cyan, colors.reset, colors.gray, colors.reset)

	sess := newSession(rl.Stdout(), a.log)
	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(more)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colors.gray, colors.reset)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "exit" {
				break
			}
			if strings.HasPrefix(trimmed, ":") {
				if out, ok := sess.command(trimmed); ok {
					if out != "" {
						fmt.Fprintln(rl.Stdout(), out)
					}
				} else {
					fmt.Fprintf(rl.Stderr(), "%sunknown command %s%s\n", colors.red, trimmed, colors.reset)
				}
				continue
			}
		}

		// Count braces for multi-line input
		braceDepth += braceDelta(line)
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		if strings.TrimSpace(source) == "" {
			continue
		}

		out, err := sess.handle(source)
		if err != nil {
			renderError(rl.Stderr(), err, colors.red, colors.reset)
			continue
		}
		if out != "" {
			fmt.Fprintln(rl.Stdout(), out)
		}
	}
	return 0
}
