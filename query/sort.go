package query

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
)

// Sort returns the elements in ascending natural order. The sort is stable.
func Sort[T cmp.Ordered](s *Sequence[T]) *Sequence[T] {
	return s.SortFunc(cmp.Compare[T])
}

// SortBy returns the elements in ascending order of the key extracted by
// key. The sort is stable, and key is called once per element.
//
//	byAge := query.SortBy(people, func(p Person) int { return p.Age })
func SortBy[T any, K cmp.Ordered](s *Sequence[T], key Selector[T, K]) *Sequence[T] {
	return sortKeyed(s, key, func(a, b K) (int, error) { return cmp.Compare(a, b), nil })
}

// SortComparable returns the elements in ascending order of their own
// Compare method. The sort is stable.
func SortComparable[T Comparer[T]](s *Sequence[T]) *Sequence[T] {
	return s.SortFunc(func(a, b T) int { return a.Compare(b) })
}

// SortAny sorts heterogeneous values by their natural order. Numbers of any
// kind compare with each other, as do strings, booleans (false first) and
// [time.Time] values. Any other combination, including nil, fails with
// [ErrTypeMismatch] and no result.
//
//	sorted, err := query.SortAny(query.New[any](3, 1.5, 2)) // [1.5 2 3]
func SortAny(s *Sequence[any]) (*Sequence[any], error) {
	return SortAnyBy(s, func(v any) any { return v })
}

// SortAnyBy is [SortAny] ordering by a dynamically typed key.
func SortAnyBy[T any](s *Sequence[T], key Selector[T, any]) (*Sequence[T], error) {
	keys := make([]any, len(s.items))
	for i, item := range s.items {
		keys[i] = key(item)
	}
	// Check every key against the first before sorting so that a mismatch is
	// reported even when the sort would never compare the offending pair.
	for _, k := range keys {
		if _, err := compareAny(keys[0], k); err != nil {
			return nil, err
		}
	}
	return sortPrecomputed(s, keys, compareAny)
}

// sortKeyed extracts every key once and sorts stably by them.
func sortKeyed[T, K any](s *Sequence[T], key Selector[T, K], compare func(a, b K) (int, error)) *Sequence[T] {
	keys := make([]K, len(s.items))
	for i, item := range s.items {
		keys[i] = key(item)
	}
	out, _ := sortPrecomputed(s, keys, compare)
	return out
}

func sortPrecomputed[T, K any](s *Sequence[T], keys []K, compare func(a, b K) (int, error)) (*Sequence[T], error) {
	idx := make([]int, len(s.items))
	for i := range idx {
		idx[i] = i
	}
	var failure error
	slices.SortStableFunc(idx, func(i, j int) int {
		c, err := compare(keys[i], keys[j])
		if err != nil && failure == nil {
			failure = err
		}
		return c
	})
	if failure != nil {
		return nil, failure
	}
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = s.items[j]
	}
	return wrap(out), nil
}

type valueClass int

const (
	classNone valueClass = iota
	classInt
	classUint
	classFloat
	classString
	classBool
	classTime
)

func classify(v any) (valueClass, reflect.Value) {
	if v == nil {
		return classNone, reflect.Value{}
	}
	if _, ok := v.(time.Time); ok {
		return classTime, reflect.ValueOf(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classInt, rv
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint, rv
	case reflect.Float32, reflect.Float64:
		return classFloat, rv
	case reflect.String:
		return classString, rv
	case reflect.Bool:
		return classBool, rv
	}
	return classNone, rv
}

func isNumeric(c valueClass) bool {
	return c == classInt || c == classUint || c == classFloat
}

// compareAny orders two dynamically typed values or reports why it cannot.
func compareAny(a, b any) (int, error) {
	ca, va := classify(a)
	cb, vb := classify(b)
	switch {
	case ca == classNone || cb == classNone:
	case ca == cb && ca == classInt:
		return cmp.Compare(va.Int(), vb.Int()), nil
	case ca == cb && ca == classUint:
		return cmp.Compare(va.Uint(), vb.Uint()), nil
	case isNumeric(ca) && isNumeric(cb):
		return compareNumbers(va, ca, vb, cb), nil
	case ca == cb && ca == classString:
		return cmp.Compare(va.String(), vb.String()), nil
	case ca == cb && ca == classBool:
		return cmp.Compare(boolRank(va.Bool()), boolRank(vb.Bool())), nil
	case ca == cb && ca == classTime:
		return a.(time.Time).Compare(b.(time.Time)), nil
	}
	return 0, fmt.Errorf("%w: cannot order %T against %T", ErrTypeMismatch, a, b)
}

// compareNumbers orders numbers of different kinds exactly; integers are
// never widened to float64. NaN sorts before every number, as in
// [cmp.Compare].
func compareNumbers(va reflect.Value, ca valueClass, vb reflect.Value, cb valueClass) int {
	switch {
	case ca == classFloat && cb == classFloat:
		return cmp.Compare(va.Float(), vb.Float())
	case ca == classInt && cb == classUint:
		return compareIntUint(va.Int(), vb.Uint())
	case ca == classUint && cb == classInt:
		return -compareIntUint(vb.Int(), va.Uint())
	case ca == classFloat:
		return -compareIntegerFloat(vb, cb, va.Float())
	default:
		return compareIntegerFloat(va, ca, vb.Float())
	}
}

func compareIntUint(i int64, u uint64) int {
	if i < 0 {
		return -1
	}
	return cmp.Compare(uint64(i), u)
}

// compareIntegerFloat compares an int or uint value against f.
func compareIntegerFloat(v reflect.Value, c valueClass, f float64) int {
	if math.IsNaN(f) {
		return 1
	}
	t := math.Trunc(f)
	var r int
	if c == classInt {
		switch {
		case t >= 1<<63:
			return -1
		case t < -(1 << 63):
			return 1
		}
		r = cmp.Compare(v.Int(), int64(t))
	} else {
		switch {
		case t < 0:
			return 1
		case t >= 1<<64:
			return -1
		}
		r = cmp.Compare(v.Uint(), uint64(t))
	}
	if r != 0 {
		return r
	}
	// Equal integer parts: the fraction decides.
	return cmp.Compare(t, f)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
