package expr

import "errors"

var (
	// ErrCompile is returned when an expression fails to parse or
	// type-check.
	ErrCompile = errors.New("expr: compile error")

	// ErrNotBoolean is returned when a predicate expression cannot produce
	// a bool.
	ErrNotBoolean = errors.New("expr: predicate must evaluate to bool")

	// ErrUnsupportedType is returned when a callback's parameter type
	// cannot be converted to a CEL value, such as a plain Go struct.
	ErrUnsupportedType = errors.New("expr: type cannot be bound to an expression")
)
