// Package runtime implements the interpreter and runtime value system for fnlang.
package runtime

import (
	"fmt"
	"strings"
)

// Value is the interface for all runtime values. The set of implementations
// is closed: IntVal, BoolVal, ListVal and NoneVal.
type Value interface {
	TypeName() string
	String() string
	value()
}

// IntVal represents a 64-bit signed integer.
type IntVal int64

func (v IntVal) TypeName() string { return "int" }
func (v IntVal) String() string   { return fmt.Sprintf("%d", int64(v)) }
func (IntVal) value()             {}

// BoolVal represents a boolean.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return fmt.Sprintf("%t", bool(v)) }
func (BoolVal) value()             {}

// ListVal is an ordered list of values. Elements may be of mixed kinds.
type ListVal struct {
	Elements []Value
}

// NewList builds a list from its elements.
func NewList(elems ...Value) ListVal {
	if elems == nil {
		elems = []Value{}
	}
	return ListVal{Elements: elems}
}

func (v ListVal) TypeName() string { return "list" }
func (v ListVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = elem.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (ListVal) value() {}

// NoneVal is the result of statements and assignments that produce no data.
type NoneVal struct{}

func (v NoneVal) TypeName() string { return "none" }
func (v NoneVal) String() string   { return "none" }
func (NoneVal) value()             {}

// ---- Copy ----

// Copy returns a deep copy of v. Lists never share backing storage with
// their copies.
func Copy(v Value) Value {
	switch val := v.(type) {
	case ListVal:
		elems := make([]Value, len(val.Elements))
		for i, e := range val.Elements {
			elems[i] = Copy(e)
		}
		return ListVal{Elements: elems}
	default:
		return v
	}
}

// ---- Truthiness ----

// Truthy converts a condition value to a boolean. Zero and false are falsy;
// lists and none have no truth value.
func Truthy(v Value) (bool, error) {
	switch val := v.(type) {
	case IntVal:
		return val != 0, nil
	case BoolVal:
		return bool(val), nil
	case ListVal, NoneVal:
		return false, typeErr("%s cannot be used as a condition", v.TypeName())
	default:
		return false, typeErr("unknown value %T", v)
	}
}

// ---- Ordering ----

// kindRank fixes the cross-kind order: int < bool < list < none.
func kindRank(v Value) int {
	switch v.(type) {
	case IntVal:
		return 0
	case BoolVal:
		return 1
	case ListVal:
		return 2
	default:
		return 3
	}
}

// Compare returns -1, 0 or +1. Values of different kinds are ordered by
// kind; integers numerically; false before true; lists element by element,
// a shorter prefix first.
func Compare(a, b Value) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return sign(ra - rb)
	}
	switch av := a.(type) {
	case IntVal:
		bv := b.(IntVal)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case BoolVal:
		bv := b.(BoolVal)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case ListVal:
		bv := b.(ListVal)
		for i := 0; i < len(av.Elements) && i < len(bv.Elements); i++ {
			if c := Compare(av.Elements[i], bv.Elements[i]); c != 0 {
				return c
			}
		}
		return sign(len(av.Elements) - len(bv.Elements))
	default:
		return 0
	}
}

// Equal reports whether a and b are the same kind holding the same value.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
