package runtime

import (
	"fmt"
	"io"
	"sort"
)

// BuiltinFn is the Go signature for built-in functions. A builtin sees only
// its evaluated arguments; it has no access to the environment or module.
type BuiltinFn func(args []Value) (Value, error)

// Builtins is the reserved-name table consulted when a call does not match
// any module function.
type Builtins map[string]BuiltinFn

// NewBuiltins returns the standard table. print writes to w.
func NewBuiltins(w io.Writer) Builtins {
	return Builtins{
		"print": func(args []Value) (Value, error) {
			for _, arg := range args {
				if _, err := fmt.Fprintln(w, arg.String()); err != nil {
					return nil, err
				}
			}
			return NoneVal{}, nil
		},

		"len": func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, &Error{Kind: ErrArity, Name: "len", Message: fmt.Sprintf("expects 1 argument, got %d", len(args))}
			}
			list, ok := args[0].(ListVal)
			if !ok {
				return nil, typeErr("len() not supported for %s", args[0].TypeName())
			}
			return IntVal(len(list.Elements)), nil
		},
	}
}

// Lookup returns the builtin registered under name.
func (b Builtins) Lookup(name string) (BuiltinFn, bool) {
	fn, ok := b[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (b Builtins) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
