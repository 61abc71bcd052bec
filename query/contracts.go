package query

// Callback types shared by the sequence and mapping operators. They are
// aliases, so plain func literals satisfy them without conversion.
type (
	// Predicate reports whether an element satisfies a condition.
	Predicate[T any] = func(T) bool

	// Selector projects an element into a new value.
	Selector[T, U any] = func(T) U

	// Accumulator combines the running value with the next element.
	Accumulator[T any] = func(acc, item T) T

	// KeyValuePredicate reports whether a mapping pair satisfies a condition.
	KeyValuePredicate[K, V any] = func(K, V) bool

	// KeyValueSelector projects a mapping pair into a new value.
	KeyValueSelector[K, V, W any] = func(K, V) W
)

// Equaler is implemented by types that define their own semantic equality,
// distinct from the == operator.
type Equaler[T any] interface {
	// Equal reports whether the receiver is semantically equal to other.
	Equal(other T) bool
}

// Comparer is implemented by types that define their own total ordering.
type Comparer[T any] interface {
	// Compare returns a negative number when the receiver sorts before
	// other, zero when they are equivalent, and a positive number otherwise.
	Compare(other T) int
}
