// Package query provides fluent, LINQ-style query operators over two generic
// in-memory containers: an ordered [Sequence] and a key-unique [Mapping].
//
// # Overview
//
// A [Sequence][T] wraps a slice of T and exposes chainable, type-preserving
// operators as methods:
//
//	adults := query.New(people...).
//	    Where(func(p Person) bool { return p.Age >= 18 }).
//	    SortFunc(func(a, b Person) int { return cmp.Compare(a.Name, b.Name) }).
//	    Reverse()
//
// Operators that change the element type are package-level functions,
// because Go methods cannot introduce type parameters:
//
//	names  := query.Select(adults, func(p Person) string { return p.Name })
//	byAge  := query.GroupBy(adults, func(p Person) int { return p.Age })
//	oldest := query.SortBy(adults, func(p Person) int { return -p.Age })
//
// A [Mapping][K, V] holds unique keys in insertion order and exposes the
// two-argument (key, value) operator set:
//
//	prices := query.MappingOf(query.Pair("apple", 3), query.Pair("pear", 5))
//	cheap  := prices.Where(func(_ string, p int) bool { return p < 4 })
//	labels := query.ToArray(cheap, func(k string, p int) string {
//	    return fmt.Sprintf("%s=%d", k, p)
//	})
//
// # Evaluation
//
// Every operator is eager and pure: it reads its receiver and callbacks,
// materializes a new container, and never mutates or aliases its input.
// Callbacks must not mutate the container being traversed.
//
// # Errors
//
// Operators whose preconditions can be violated return an error alongside
// their result and never a partial result: [Sequence.Skip] and
// [Sequence.Take] reject negative counts with [ErrInvalidArgument],
// [Sequence.Aggregate] rejects an empty sequence with [ErrEmptyCollection],
// and [SortAny] rejects mutually incomparable values with [ErrTypeMismatch].
// Key collisions are never errors; each operator documents its tie-break.
//
// # Equality and ordering
//
// Natural equality is Go's == (the comparable constraint) and natural ordering
// is [cmp.Ordered]. Types can opt into semantic equality or ordering by
// implementing [Equaler] or [Comparer]. Values Go cannot compare at all
// (slices, maps) can be deduplicated by content with [DistinctDeep].
package query
