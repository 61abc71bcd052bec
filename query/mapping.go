package query

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// Mapping is a finite, immutable collection of key/value pairs with unique
// keys under ==.
//
// Pairs iterate in insertion order. When a constructor or operator writes a
// key that is already present, the value is replaced and the key keeps its
// original position. Every operator returns a *new* Mapping.
//
//	m := query.MappingOf(query.Pair("a", 1), query.Pair("b", 2))
//	m := query.FromMap(map[string]int{"a": 1})
type Mapping[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// NewMapping creates an empty Mapping.
func NewMapping[K comparable, V any]() *Mapping[K, V] {
	return newMapping[K, V](0)
}

// MappingOf creates a Mapping from pairs, in order. A repeated key keeps its
// first position and takes the last value.
func MappingOf[K comparable, V any](pairs ...KeyValue[K, V]) *Mapping[K, V] {
	m := newMapping[K, V](len(pairs))
	for _, kv := range pairs {
		m.put(kv.Key, kv.Value)
	}
	return m
}

// FromMap copies a Go map into a Mapping. Pair order follows Go's map
// iteration order for this call, which is unspecified.
func FromMap[K comparable, V any](src map[K]V) *Mapping[K, V] {
	m := newMapping[K, V](len(src))
	for k, v := range src {
		m.put(k, v)
	}
	return m
}

func newMapping[K comparable, V any](capacity int) *Mapping[K, V] {
	return &Mapping[K, V]{
		keys:   make([]K, 0, capacity),
		values: make(map[K]V, capacity),
	}
}

// put is the only writer; it is used while a new Mapping is being built and
// never on one that has been returned to a caller.
func (m *Mapping[K, V]) put(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// Len returns the number of pairs.
func (m *Mapping[K, V]) Len() int { return len(m.keys) }

// IsEmpty reports whether the mapping has no pairs.
func (m *Mapping[K, V]) IsEmpty() bool { return len(m.keys) == 0 }

// Get returns the value stored under key and whether it was present.
func (m *Mapping[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in iteration order.
func (m *Mapping[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in iteration order.
func (m *Mapping[K, V]) Values() []V {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[k]
	}
	return out
}

// Pairs returns the pairs in iteration order.
func (m *Mapping[K, V]) Pairs() []KeyValue[K, V] {
	out := make([]KeyValue[K, V], len(m.keys))
	for i, k := range m.keys {
		out[i] = KeyValue[K, V]{Key: k, Value: m.values[k]}
	}
	return out
}

// Iter returns an iterator over the pairs in iteration order.
func (m *Mapping[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// ToMap returns the pairs as a plain Go map.
func (m *Mapping[K, V]) ToMap() map[K]V {
	out := make(map[K]V, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// String renders the pairs as {k: v, ...} in iteration order, with values
// JSON-encoded where possible.
func (m *Mapping[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %s", k, render(m.values[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func render(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// ─────────────────────────────────────────────────────────────────────────────
// Operators
// ─────────────────────────────────────────────────────────────────────────────

// Where returns the pairs for which p(key, value) holds.
func (m *Mapping[K, V]) Where(p KeyValuePredicate[K, V]) *Mapping[K, V] {
	out := newMapping[K, V](len(m.keys))
	for _, k := range m.keys {
		if v := m.values[k]; p(k, v) {
			out.put(k, v)
		}
	}
	return out
}

// All reports whether every pair satisfies cond. It is true for an empty
// mapping.
func (m *Mapping[K, V]) All(cond KeyValuePredicate[K, V]) bool {
	for _, k := range m.keys {
		if !cond(k, m.values[k]) {
			return false
		}
	}
	return true
}

// Any reports whether at least one pair satisfies cond. It is false for an
// empty mapping.
func (m *Mapping[K, V]) Any(cond KeyValuePredicate[K, V]) bool {
	for _, k := range m.keys {
		if cond(k, m.values[k]) {
			return true
		}
	}
	return false
}

// Count returns the number of pairs satisfying conds[0], or the number of
// pairs when no condition is given.
func (m *Mapping[K, V]) Count(conds ...KeyValuePredicate[K, V]) int {
	if len(conds) == 0 {
		return len(m.keys)
	}
	n := 0
	for _, k := range m.keys {
		if conds[0](k, m.values[k]) {
			n++
		}
	}
	return n
}

// Merge returns the union of the receiver and other. For a key present in
// both, the receiver's value is kept. The receiver's keys come first,
// followed by other's new keys in their order. A nil other is treated as
// empty.
//
//	a := query.MappingOf(query.Pair("a", 1), query.Pair("b", 2))
//	b := query.MappingOf(query.Pair("b", 3), query.Pair("c", 4))
//	a.Merge(b) // {a: 1, b: 2, c: 4}
func (m *Mapping[K, V]) Merge(other *Mapping[K, V]) *Mapping[K, V] {
	if other == nil {
		other = NewMapping[K, V]()
	}
	out := newMapping[K, V](len(m.keys) + len(other.keys))
	for _, k := range m.keys {
		out.put(k, m.values[k])
	}
	for _, k := range other.keys {
		if !out.Has(k) {
			out.put(k, other.values[k])
		}
	}
	return out
}
