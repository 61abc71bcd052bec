package query

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Sequence is an ordered, finite, immutable collection of T. Duplicates are
// permitted.
//
// Every operator returns a *new* Sequence and leaves the receiver unchanged,
// so a Sequence may be read from several goroutines at once as long as the
// callbacks passed to it are safe for concurrent use.
//
// # Creating a sequence
//
//	s := query.New(1, 2, 3)
//	s := query.From([]string{"a", "b"})
//	s := query.Collect(maps.Keys(m))
//	s := query.Empty[int]()
//
// # Chaining
//
//	page, err := query.New(items...).
//	    Where(isVisible).
//	    SortFunc(byCreated).
//	    Skip(20)
//
// Operators that change the element type ([Select], [SelectMany],
// [GroupBy], [ToDictionary], [OfType], ...) are package-level functions.
type Sequence[T any] struct {
	items []T
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// New creates a Sequence from a variadic list of items (copied).
func New[T any](items ...T) *Sequence[T] {
	return From(items)
}

// From creates a Sequence from a slice. The slice is copied.
func From[T any](items []T) *Sequence[T] {
	dst := make([]T, len(items))
	copy(dst, items)
	return &Sequence[T]{items: dst}
}

// Collect drains a finite iterator into a Sequence.
func Collect[T any](seq iter.Seq[T]) *Sequence[T] {
	items := slices.Collect(seq)
	if items == nil {
		items = []T{}
	}
	return &Sequence[T]{items: items}
}

// Empty creates an empty Sequence of T.
func Empty[T any]() *Sequence[T] {
	return &Sequence[T]{items: []T{}}
}

// wrap adopts items without copying. Only for slices the caller just built.
func wrap[T any](items []T) *Sequence[T] {
	return &Sequence[T]{items: items}
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// Slice returns a copy of the elements.
func (s *Sequence[T]) Slice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int { return len(s.items) }

// IsEmpty reports whether the sequence has no elements.
func (s *Sequence[T]) IsEmpty() bool { return len(s.items) == 0 }

// Get returns the element at index and whether index was in range.
func (s *Sequence[T]) Get(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(s.items) {
		return zero, false
	}
	return s.items[index], true
}

// Iter returns an iterator over the elements in order.
func (s *Sequence[T]) Iter() iter.Seq[T] {
	return slices.Values(s.items)
}

// Each calls fn(item, index) for every element.
func (s *Sequence[T]) Each(fn func(T, int)) {
	for i, item := range s.items {
		fn(item, i)
	}
}

// String renders the elements as JSON, falling back to %v for values JSON
// cannot encode. It implements [fmt.Stringer].
func (s *Sequence[T]) String() string {
	b, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Sprintf("%v", s.items)
	}
	return string(b)
}

// ─────────────────────────────────────────────────────────────────────────────
// Filtering
// ─────────────────────────────────────────────────────────────────────────────

// Where returns the elements for which p holds, in their original order.
func (s *Sequence[T]) Where(p Predicate[T]) *Sequence[T] {
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if p(item) {
			out = append(out, item)
		}
	}
	return wrap(out)
}

// Filter is an alias for [Sequence.Where].
func (s *Sequence[T]) Filter(p Predicate[T]) *Sequence[T] { return s.Where(p) }

// DistinctFunc returns the first occurrence of every element under eq,
// preserving order. It runs in quadratic time; prefer [Distinct] or
// [DistinctBy] when a comparable key exists.
func (s *Sequence[T]) DistinctFunc(eq func(a, b T) bool) *Sequence[T] {
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if !slices.ContainsFunc(out, func(seen T) bool { return eq(seen, item) }) {
			out = append(out, item)
		}
	}
	return wrap(out)
}

// ─────────────────────────────────────────────────────────────────────────────
// Element access
// ─────────────────────────────────────────────────────────────────────────────

// First returns the first element, or the zero value and false when the
// sequence is empty.
func (s *Sequence[T]) First() (T, bool) {
	return s.Get(0)
}

// Last returns the last element, or the zero value and false when the
// sequence is empty.
func (s *Sequence[T]) Last() (T, bool) {
	return s.Get(len(s.items) - 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Partitioning
// ─────────────────────────────────────────────────────────────────────────────

// Skip returns the sequence without its first n elements. Skipping past the
// end yields an empty sequence. A negative n fails with [ErrInvalidArgument].
func (s *Sequence[T]) Skip(n int) (*Sequence[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: skip count %d is negative", ErrInvalidArgument, n)
	}
	n = min(n, len(s.items))
	return From(s.items[n:]), nil
}

// Take returns at most the first n elements. A negative n fails with
// [ErrInvalidArgument].
func (s *Sequence[T]) Take(n int) (*Sequence[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: take count %d is negative", ErrInvalidArgument, n)
	}
	n = min(n, len(s.items))
	return From(s.items[:n]), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Quantifiers
// ─────────────────────────────────────────────────────────────────────────────

// All reports whether every element satisfies cond. It stops at the first
// failure and is true for an empty sequence.
func (s *Sequence[T]) All(cond Predicate[T]) bool {
	for _, item := range s.items {
		if !cond(item) {
			return false
		}
	}
	return true
}

// Any reports whether at least one element satisfies cond. It stops at the
// first match and is false for an empty sequence.
func (s *Sequence[T]) Any(cond Predicate[T]) bool {
	return slices.ContainsFunc(s.items, cond)
}

// Count returns the number of elements satisfying conds[0], or the length
// of the sequence when no condition is given.
func (s *Sequence[T]) Count(conds ...Predicate[T]) int {
	if len(conds) == 0 {
		return len(s.items)
	}
	n := 0
	for _, item := range s.items {
		if conds[0](item) {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregation
// ─────────────────────────────────────────────────────────────────────────────

// Aggregate folds the sequence from the left without a seed: the first
// element is the initial running value and acc is applied to each remaining
// element in order. An empty sequence fails with [ErrEmptyCollection].
//
//	sum, _ := query.New(1, 2, 3, 4).Aggregate(func(acc, n int) int { return acc + n }) // 10
func (s *Sequence[T]) Aggregate(acc Accumulator[T]) (T, error) {
	if len(s.items) == 0 {
		var zero T
		return zero, fmt.Errorf("%w: aggregate needs at least one element", ErrEmptyCollection)
	}
	result := s.items[0]
	for _, item := range s.items[1:] {
		result = acc(result, item)
	}
	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Ordering & combining
// ─────────────────────────────────────────────────────────────────────────────

// SortFunc returns the elements sorted ascending by cmp, which follows the
// [slices.SortFunc] convention. The sort is stable.
func (s *Sequence[T]) SortFunc(cmp func(a, b T) int) *Sequence[T] {
	out := s.Slice()
	slices.SortStableFunc(out, cmp)
	return wrap(out)
}

// Reverse returns the elements in reverse order.
func (s *Sequence[T]) Reverse() *Sequence[T] {
	out := s.Slice()
	slices.Reverse(out)
	return wrap(out)
}

// Concat returns the receiver's elements followed by other's. A nil other
// is treated as empty.
func (s *Sequence[T]) Concat(other *Sequence[T]) *Sequence[T] {
	if other == nil {
		other = Empty[T]()
	}
	out := make([]T, 0, len(s.items)+len(other.items))
	out = append(out, s.items...)
	return wrap(append(out, other.items...))
}
