package runtime

import "sort"

// Environment maps variable names to values. There is no parent chain:
// blocks work on a Clone and function calls start from an empty one.
type Environment struct {
	values map[string]Value
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Get returns a copy of the value bound to name.
func (e *Environment) Get(name string) (Value, bool) {
	val, ok := e.values[name]
	if !ok {
		return nil, false
	}
	return Copy(val), true
}

// Set binds name to a copy of value, replacing any previous binding.
func (e *Environment) Set(name string, value Value) {
	e.values[name] = Copy(value)
}

// Clone returns an independent environment holding the same bindings.
// Writes to the clone are never visible in e.
func (e *Environment) Clone() *Environment {
	out := &Environment{values: make(map[string]Value, len(e.values))}
	for name, val := range e.values {
		out.values[name] = Copy(val)
	}
	return out
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	return len(e.values)
}
