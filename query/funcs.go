package query

// This file contains package-level generic functions for operators whose
// result type differs from their input type. Go methods cannot introduce
// their own type parameters, so these are stand-alone functions designed to
// compose with method chains:
//
//	names := query.Select(
//	    query.New(people...).Where(func(p Person) bool { return p.Age > 30 }),
//	    func(p Person) string { return p.Name },
//	)

// ─────────────────────────────────────────────────────────────────────────────
// Sequence → Sequence
// ─────────────────────────────────────────────────────────────────────────────

// Select projects every element through sel. The result has the same length
// as s.
func Select[T, U any](s *Sequence[T], sel Selector[T, U]) *Sequence[U] {
	out := make([]U, len(s.items))
	for i, item := range s.items {
		out[i] = sel(item)
	}
	return wrap(out)
}

// SelectMany projects every element to a slice and concatenates the results,
// outer order first, then inner order. Empty slices contribute nothing.
//
//	words := query.SelectMany(query.New("a b", "c"), strings.Fields) // [a b c]
func SelectMany[T, U any](s *Sequence[T], sel Selector[T, []U]) *Sequence[U] {
	out := make([]U, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, sel(item)...)
	}
	return wrap(out)
}

// Distinct returns the first occurrence of every element, preserving order.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return DistinctBy(s, func(item T) T { return item })
}

// DistinctBy returns, for every distinct key, the first element producing
// that key, preserving order.
func DistinctBy[T any, K comparable](s *Sequence[T], key Selector[T, K]) *Sequence[T] {
	seen := make(map[K]struct{}, len(s.items))
	return s.Where(func(item T) bool {
		k := key(item)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// DistinctEqual returns the first occurrence of every element under the
// element type's own Equal method.
func DistinctEqual[T Equaler[T]](s *Sequence[T]) *Sequence[T] {
	return s.DistinctFunc(func(a, b T) bool { return a.Equal(b) })
}

// OfType returns the elements whose dynamic type is U, or implements U when
// U is an interface, preserving order. The target type is given explicitly:
//
//	strs := query.OfType[string](query.New[any](1, "a", 2.5, "b")) // [a b]
func OfType[U, T any](s *Sequence[T]) *Sequence[U] {
	out := make([]U, 0, len(s.items))
	for _, item := range s.items {
		if u, ok := any(item).(U); ok {
			out = append(out, u)
		}
	}
	return wrap(out)
}

// Fold reduces the sequence to a value of type U, starting from seed.
// Unlike [Sequence.Aggregate] it is defined for an empty sequence, where it
// returns seed.
//
//	csv := query.Fold(query.New(1, 2, 3), "", func(acc string, n int) string {
//	    return acc + strconv.Itoa(n)
//	})
func Fold[T, U any](s *Sequence[T], seed U, fn func(U, T) U) U {
	result := seed
	for _, item := range s.items {
		result = fn(result, item)
	}
	return result
}

// ─────────────────────────────────────────────────────────────────────────────
// Sequence → Mapping
// ─────────────────────────────────────────────────────────────────────────────

// GroupBy groups elements by the key extracted by key. Each group keeps the
// elements' original order; groups iterate in order of their key's first
// occurrence.
//
//	byAge := query.GroupBy(people, func(p Person) int { return p.Age })
func GroupBy[T any, K comparable](s *Sequence[T], key Selector[T, K]) *Mapping[K, *Sequence[T]] {
	groups := NewMapping[K, *Sequence[T]]()
	for _, item := range s.items {
		k := key(item)
		g, ok := groups.values[k]
		if !ok {
			g = Empty[T]()
			groups.put(k, g)
		}
		g.items = append(g.items, item)
	}
	return groups
}

// ToDictionary keys every element by key. When several elements share a
// key, the last one wins.
//
//	byID := query.ToDictionary(users, func(u User) int { return u.ID })
func ToDictionary[T any, K comparable](s *Sequence[T], key Selector[T, K]) *Mapping[K, T] {
	return ToDictionaryWith(s, key, func(item T) T { return item })
}

// ToDictionaryWith builds a Mapping from key(item) to value(item) for every
// element. When several elements share a key, the last one wins.
func ToDictionaryWith[T any, K comparable, V any](s *Sequence[T], key Selector[T, K], value Selector[T, V]) *Mapping[K, V] {
	out := newMapping[K, V](len(s.items))
	for _, item := range s.items {
		out.put(key(item), value(item))
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Mapping → Mapping / Sequence
// ─────────────────────────────────────────────────────────────────────────────

// SelectEntries replaces every pair with the pair returned by sel. When two
// results share a key, the one produced later in iteration order wins and
// the key keeps the position of its first occurrence.
//
//	upper := query.SelectEntries(m, func(k string, v int) query.KeyValue[string, int] {
//	    return query.Pair(strings.ToUpper(k), v)
//	})
func SelectEntries[K comparable, V any, K2 comparable, V2 any](m *Mapping[K, V], sel KeyValueSelector[K, V, KeyValue[K2, V2]]) *Mapping[K2, V2] {
	out := newMapping[K2, V2](len(m.keys))
	for _, k := range m.keys {
		kv := sel(k, m.values[k])
		out.put(kv.Key, kv.Value)
	}
	return out
}

// SelectValues keeps every key and replaces its value with sel(key, value).
func SelectValues[K comparable, V, W any](m *Mapping[K, V], sel KeyValueSelector[K, V, W]) *Mapping[K, W] {
	out := newMapping[K, W](len(m.keys))
	for _, k := range m.keys {
		out.put(k, sel(k, m.values[k]))
	}
	return out
}

// ToArray projects every pair through sel into a Sequence, in the mapping's
// iteration order.
func ToArray[K comparable, V, W any](m *Mapping[K, V], sel KeyValueSelector[K, V, W]) *Sequence[W] {
	out := make([]W, len(m.keys))
	for i, k := range m.keys {
		out[i] = sel(k, m.values[k])
	}
	return wrap(out)
}
