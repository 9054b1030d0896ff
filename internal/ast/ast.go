// Package ast defines the abstract syntax tree for fnlang.
package ast

import (
	"fnlang/internal/span"
	"fnlang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Expressions
// ============================================================

// IntLiteral is an integer constant.
type IntLiteral struct {
	ExprBase
	Value int64
}

// BoolLiteral is true or false.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// NegExpr is arithmetic negation: -x.
type NegExpr struct {
	ExprBase
	Operand Expr
}

// ParenExpr is an explicitly parenthesized expression. It evaluates exactly
// like Inner.
type ParenExpr struct {
	ExprBase
	Inner Expr
}

// BinaryExpr is arithmetic: a + b, a - b, a * b, a / b.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// CompareExpr is a comparison: a == b, a < b, a <= b, a > b, a >= b.
type CompareExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// AssignExpr binds Name in the current environment. Its own value is none.
type AssignExpr struct {
	ExprBase
	Name  string
	Value Expr
}

// IdentExpr is a variable reference.
type IdentExpr struct {
	ExprBase
	Name string
}

// CallExpr calls a module function or builtin by name.
type CallExpr struct {
	ExprBase
	Name string
	Args []Expr
}

// ListLiteral is [a, b, c].
type ListLiteral struct {
	ExprBase
	Elements []Expr
}

// IndexExpr reads one element of the list bound to Name: name[index].
type IndexExpr struct {
	ExprBase
	Name  string
	Index Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt evaluates an expression and discards its value.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// BlockStmt is { stmts }. It runs in a copy of the enclosing environment.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// ReturnStmt ends the enclosing function with Value.
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// IfStmt is if (cond) { ... } [else stmt]. Else may be another *IfStmt.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      *BlockStmt
	Else      Stmt // may be nil
}

// LoopStmt repeats Body until a break.
type LoopStmt struct {
	StmtBase
	Body *BlockStmt
}

// BreakStmt leaves the nearest enclosing loop.
type BreakStmt struct {
	StmtBase
}

// ============================================================
// Declarations
// ============================================================

// FuncDecl is fn name(params) { body }.
type FuncDecl struct {
	NodeBase
	Name   string
	Params []string
	Body   *BlockStmt
}
