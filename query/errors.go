package query

import "errors"

// Sentinel errors returned by query operators. Operators wrap them with
// detail, so compare with [errors.Is].
var (
	// ErrInvalidArgument is returned when an operator parameter is out of
	// its domain, such as a negative Skip or Take count.
	ErrInvalidArgument = errors.New("query: invalid argument")

	// ErrTypeMismatch is returned when values lack a common ordering, or
	// when an extension is invoked on a sequence of the wrong element type.
	ErrTypeMismatch = errors.New("query: type mismatch")

	// ErrEmptyCollection is returned when an operation requires at least one
	// element but the sequence is empty.
	ErrEmptyCollection = errors.New("query: operation on empty collection")

	// ErrUnknownExtension is returned when an unregistered extension name is
	// invoked.
	ErrUnknownExtension = errors.New("query: extension not found")
)
