package runtime

import (
	"fmt"
	"io"

	"fnlang/internal/ast"
	"fnlang/internal/span"
	"fnlang/internal/token"
)

// ============================================================
// Control flow signals
// ============================================================

// Signal represents a control flow signal from statement execution.
type Signal int

const (
	SigNone   Signal = iota
	SigReturn        // return from function
	SigBreak         // break from loop
)

// Outcome carries a control flow signal and, for SigReturn, its value.
type Outcome struct {
	Signal Signal
	Value  Value
}

var outcomeNone = Outcome{Signal: SigNone}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST. It holds no variable state of its own: every
// evaluation runs against the Environment passed in by the caller.
type Interpreter struct {
	module   *ast.Module
	builtins Builtins
}

// NewInterpreter creates an interpreter over module, which may be nil.
// Output of the print builtin goes to out.
func NewInterpreter(module *ast.Module, out io.Writer) *Interpreter {
	return &Interpreter{
		module:   module,
		builtins: NewBuiltins(out),
	}
}

// Module returns the module calls are resolved against.
func (i *Interpreter) Module() *ast.Module {
	return i.module
}

// Builtins returns the functions available when the module defines no
// function of the same name.
func (i *Interpreter) Builtins() Builtins {
	return i.builtins
}

// SetModule replaces the module calls are resolved against.
func (i *Interpreter) SetModule(module *ast.Module) {
	i.module = module
}

// Run invokes the module's main function with no arguments.
func (i *Interpreter) Run() (Value, error) {
	return i.Call(ast.EntryPoint, nil)
}

// Call resolves name against the module first and the builtin table second.
func (i *Interpreter) Call(name string, args []Value) (Value, error) {
	if decl, ok := i.module.Function(name); ok {
		return i.callFunc(decl, args)
	}
	if fn, ok := i.builtins.Lookup(name); ok {
		return fn(args)
	}
	if i.module == nil {
		return nil, namedErr(ErrNoModule, name, span.Span{})
	}
	return nil, namedErr(ErrFunctionNotFound, name, span.Span{})
}

// callFunc runs decl in a fresh environment holding only its parameters.
func (i *Interpreter) callFunc(decl *ast.FuncDecl, args []Value) (Value, error) {
	if len(args) != len(decl.Params) {
		return nil, &Error{
			Kind:    ErrArity,
			Name:    decl.Name,
			Message: arityMessage(len(decl.Params), len(args)),
		}
	}
	env := NewEnvironment()
	for idx, param := range decl.Params {
		env.Set(param, args[idx])
	}

	result, err := i.Exec(decl.Body, env)
	if err != nil {
		return nil, err
	}
	switch result.Signal {
	case SigReturn:
		return result.Value, nil
	case SigBreak:
		return nil, &Error{Kind: ErrBreakOutsideLoop, Name: decl.Name, Message: "break reached the function boundary"}
	default:
		return NoneVal{}, nil
	}
}

func arityMessage(want, got int) string {
	noun := "arguments"
	if want == 1 {
		noun = "argument"
	}
	return fmt.Sprintf("expects %d %s, got %d", want, noun, got)
}

// ExecAll runs stmts directly against env, without cloning it, and returns
// the value of a top-level return or none.
func (i *Interpreter) ExecAll(stmts []ast.Stmt, env *Environment) (Value, error) {
	result, err := i.execStmts(stmts, env)
	if err != nil {
		return nil, err
	}
	switch result.Signal {
	case SigReturn:
		return result.Value, nil
	case SigBreak:
		return nil, &Error{Kind: ErrBreakOutsideLoop}
	default:
		return NoneVal{}, nil
	}
}

// ============================================================
// Statement execution
// ============================================================

// Exec executes one statement against env.
func (i *Interpreter) Exec(stmt ast.Stmt, env *Environment) (Outcome, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := i.Eval(s.Expr, env)
		return outcomeNone, err

	case *ast.ReturnStmt:
		val, err := i.Eval(s.Value, env)
		if err != nil {
			return outcomeNone, err
		}
		return Outcome{Signal: SigReturn, Value: val}, nil

	case *ast.BlockStmt:
		return i.execStmts(s.Stmts, env.Clone())

	case *ast.IfStmt:
		return i.execIf(s, env)

	case *ast.LoopStmt:
		return i.execLoop(s, env)

	case *ast.BreakStmt:
		return Outcome{Signal: SigBreak}, nil

	default:
		return outcomeNone, runtimeErr(ErrType, stmt.GetSpan(), "unexpected statement type: %T", stmt)
	}
}

// execStmts runs stmts in order, stopping at the first return or break.
func (i *Interpreter) execStmts(stmts []ast.Stmt, env *Environment) (Outcome, error) {
	for _, stmt := range stmts {
		result, err := i.Exec(stmt, env)
		if err != nil {
			return outcomeNone, err
		}
		if result.Signal != SigNone {
			return result, nil // propagate signal
		}
	}
	return outcomeNone, nil
}

// execIf runs the chosen branch against the same environment; a block
// branch clones it on entry.
func (i *Interpreter) execIf(s *ast.IfStmt, env *Environment) (Outcome, error) {
	cond, err := i.Eval(s.Condition, env)
	if err != nil {
		return outcomeNone, err
	}
	truthy, err := Truthy(cond)
	if err != nil {
		return outcomeNone, withSpan(err, s.Condition.GetSpan())
	}
	if truthy {
		return i.Exec(s.Then, env)
	}
	if s.Else != nil {
		return i.Exec(s.Else, env)
	}
	return outcomeNone, nil
}

// execLoop runs the body's statements directly against env on every
// iteration, so bindings made by one iteration are seen by the next.
func (i *Interpreter) execLoop(s *ast.LoopStmt, env *Environment) (Outcome, error) {
	for {
		result, err := i.execStmts(s.Body.Stmts, env)
		if err != nil {
			return outcomeNone, err
		}
		switch result.Signal {
		case SigBreak:
			return outcomeNone, nil
		case SigReturn:
			return result, nil
		}
	}
}

// ============================================================
// Expression evaluation
// ============================================================

// Eval evaluates expr against env.
func (i *Interpreter) Eval(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return IntVal(e.Value), nil

	case *ast.BoolLiteral:
		return BoolVal(e.Value), nil

	case *ast.NegExpr:
		return i.evalNeg(e, env)

	case *ast.ParenExpr:
		return i.Eval(e.Inner, env)

	case *ast.BinaryExpr:
		return i.evalBinary(e, env)

	case *ast.CompareExpr:
		return i.evalCompare(e, env)

	case *ast.AssignExpr:
		val, err := i.Eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		env.Set(e.Name, val)
		return NoneVal{}, nil

	case *ast.IdentExpr:
		val, ok := env.Get(e.Name)
		if !ok {
			return nil, namedErr(ErrUnknownVariable, e.Name, e.Span)
		}
		return val, nil

	case *ast.CallExpr:
		return i.evalCall(e, env)

	case *ast.ListLiteral:
		return i.evalListLiteral(e, env)

	case *ast.IndexExpr:
		return i.evalIndex(e, env)

	default:
		return nil, runtimeErr(ErrType, expr.GetSpan(), "unexpected expression type: %T", expr)
	}
}

func (i *Interpreter) evalNeg(e *ast.NegExpr, env *Environment) (Value, error) {
	val, err := i.Eval(e.Operand, env)
	if err != nil {
		return nil, err
	}
	n, ok := val.(IntVal)
	if !ok {
		return nil, runtimeErr(ErrType, e.Span, "cannot negate %s", val.TypeName())
	}
	return -n, nil
}

// evalBinary evaluates both operands even when the left one fails, so a
// caller sees every independent cause.
func (i *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	left, lerr := i.Eval(e.Left, env)
	right, rerr := i.Eval(e.Right, env)
	switch {
	case lerr != nil && rerr != nil:
		return nil, &MultiError{Errors: []error{lerr, rerr}}
	case lerr != nil:
		return nil, lerr
	case rerr != nil:
		return nil, rerr
	}
	if !e.Op.IsArithmetic() {
		return nil, runtimeErr(ErrType, e.Span, "unknown arithmetic operator %s", e.Op)
	}

	switch l := left.(type) {
	case IntVal:
		if r, ok := right.(IntVal); ok {
			return arith(e.Op, l, r, e.Span)
		}
	case ListVal:
		if r, ok := right.(ListVal); ok && e.Op == token.PLUS {
			elems := make([]Value, 0, len(l.Elements)+len(r.Elements))
			elems = append(elems, l.Elements...)
			elems = append(elems, r.Elements...)
			return ListVal{Elements: elems}, nil
		}
	}
	return nil, runtimeErr(ErrType, e.Span, "unsupported operand types for %s: %s and %s",
		e.Op, left.TypeName(), right.TypeName())
}

// arith applies one of + - * / to two integers.
func arith(op token.Kind, l, r IntVal, s span.Span) (Value, error) {
	switch op {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	default:
		if r == 0 {
			return nil, runtimeErr(ErrDivisionByZero, s, "%d / 0", int64(l))
		}
		return l / r, nil
	}
}

// evalCompare reports the left operand's failure before the right one's.
func (i *Interpreter) evalCompare(e *ast.CompareExpr, env *Environment) (Value, error) {
	left, lerr := i.Eval(e.Left, env)
	right, rerr := i.Eval(e.Right, env)
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}

	if e.Op == token.EQ {
		return BoolVal(Equal(left, right)), nil
	}
	c := Compare(left, right)
	switch e.Op {
	case token.LT:
		return BoolVal(c < 0), nil
	case token.LTE:
		return BoolVal(c <= 0), nil
	case token.GT:
		return BoolVal(c > 0), nil
	case token.GTE:
		return BoolVal(c >= 0), nil
	default:
		return nil, runtimeErr(ErrType, e.Span, "unknown comparison operator %s", e.Op)
	}
}

// evalCall evaluates arguments in the caller's environment, then resolves
// the callee.
func (i *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	args := make([]Value, len(e.Args))
	for idx, arg := range e.Args {
		val, err := i.Eval(arg, env)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}
	val, err := i.Call(e.Name, args)
	if err != nil {
		return nil, withSpan(err, e.Span)
	}
	return val, nil
}

// evalListLiteral reports only the first failing element.
func (i *Interpreter) evalListLiteral(e *ast.ListLiteral, env *Environment) (Value, error) {
	elems := make([]Value, len(e.Elements))
	for idx, el := range e.Elements {
		val, err := i.Eval(el, env)
		if err != nil {
			return nil, err
		}
		elems[idx] = val
	}
	return ListVal{Elements: elems}, nil
}

func (i *Interpreter) evalIndex(e *ast.IndexExpr, env *Environment) (Value, error) {
	idxVal, err := i.Eval(e.Index, env)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(IntVal)
	if !ok {
		return nil, runtimeErr(ErrType, e.Index.GetSpan(), "list index must be int, got %s", idxVal.TypeName())
	}

	target, ok := env.Get(e.Name)
	if !ok {
		return nil, namedErr(ErrUnknownVariable, e.Name, e.Span)
	}
	list, ok := target.(ListVal)
	if !ok {
		return nil, runtimeErr(ErrType, e.Span, "'%s' is %s, not a list", e.Name, target.TypeName())
	}
	if idx < 0 || int64(idx) >= int64(len(list.Elements)) {
		return nil, &Error{
			Kind:    ErrIndexOutOfBounds,
			Name:    e.Name,
			Message: fmt.Sprintf("index %d with length %d", int64(idx), len(list.Elements)),
			Span:    e.Span,
		}
	}
	return list.Elements[idx], nil
}
