package ast

// EntryPoint is the function a program starts from.
const EntryPoint = "main"

// Module is the ordered list of function declarations forming one program.
// It is not modified after parsing, so one Module may back several
// interpreters at once.
type Module struct {
	Decls []*FuncDecl
}

// NewModule wraps decls in a Module.
func NewModule(decls []*FuncDecl) *Module {
	return &Module{Decls: decls}
}

// Function returns the first declaration named name.
func (m *Module) Function(name string) (*FuncDecl, bool) {
	if m == nil {
		return nil, false
	}
	for _, d := range m.Decls {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Len returns the number of declared functions.
func (m *Module) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Decls)
}

// With returns a new module holding m's declarations plus decl. A previous
// declaration with the same name is replaced. m itself is left untouched.
func (m *Module) With(decl *FuncDecl) *Module {
	out := &Module{Decls: make([]*FuncDecl, 0, m.Len()+1)}
	if m != nil {
		for _, d := range m.Decls {
			if d.Name != decl.Name {
				out.Decls = append(out.Decls, d)
			}
		}
	}
	out.Decls = append(out.Decls, decl)
	return out
}
