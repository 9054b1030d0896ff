package ast

import (
	"fnlang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// Every node becomes a tagged object with a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	// ---- Expressions ----
	case *IntLiteral:
		return m("IntLiteral", n.Span, "value", n.Value)
	case *BoolLiteral:
		return m("BoolLiteral", n.Span, "value", n.Value)
	case *NegExpr:
		return m("NegExpr", n.Span, "operand", NodeToMap(n.Operand))
	case *ParenExpr:
		return m("ParenExpr", n.Span, "inner", NodeToMap(n.Inner))
	case *BinaryExpr:
		return m("BinaryExpr", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *CompareExpr:
		return m("CompareExpr", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *AssignExpr:
		return m("AssignExpr", n.Span, "name", n.Name, "value", NodeToMap(n.Value))
	case *IdentExpr:
		return m("IdentExpr", n.Span, "name", n.Name)
	case *CallExpr:
		return m("CallExpr", n.Span, "name", n.Name, "args", exprSlice(n.Args))
	case *ListLiteral:
		return m("ListLiteral", n.Span, "elements", exprSlice(n.Elements))
	case *IndexExpr:
		return m("IndexExpr", n.Span, "name", n.Name, "index", NodeToMap(n.Index))

	// ---- Statements ----
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *BlockStmt:
		return m("BlockStmt", n.Span, "stmts", stmtSlice(n.Stmts))
	case *ReturnStmt:
		return m("ReturnStmt", n.Span, "value", NodeToMap(n.Value))
	case *IfStmt:
		result := m("IfStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *LoopStmt:
		return m("LoopStmt", n.Span, "body", NodeToMap(n.Body))
	case *BreakStmt:
		return m("BreakStmt", n.Span)

	// ---- Declarations ----
	case *FuncDecl:
		return m("FuncDecl", n.Span,
			"name", n.Name,
			"params", n.Params,
			"body", NodeToMap(n.Body))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ModuleToMap converts a whole module.
func ModuleToMap(mod *Module) map[string]interface{} {
	decls := make([]interface{}, mod.Len())
	for i, d := range mod.Decls {
		decls[i] = NodeToMap(d)
	}
	return map[string]interface{}{"kind": "Module", "decls": decls}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": s,
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		result[kvs[i].(string)] = kvs[i+1]
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}
