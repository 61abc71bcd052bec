package keypath

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/hasbyte1/go-linq-utils/query"
)

// Doc is a schemaless document.
type Doc = map[string]any

// Get reads the value at the dot-notation path and reports whether it
// exists.
//
//	Get(d, "user.address.city") // "London", true
//	Get(d, "user.tags.1")       // second element of a []any
func Get(d Doc, path string) (any, bool) {
	var current any = d
	for _, seg := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// Has reports whether the dot-notation path exists in d.
func Has(d Doc, path string) bool {
	_, ok := Get(d, path)
	return ok
}

// Dot flattens nested maps into a single level keyed by dot-notation
// paths. Slices are kept as leaf values.
//
//	Dot(Doc{"a": Doc{"b": 1}}) // {"a.b": 1}
func Dot(d Doc) map[string]any {
	out := make(map[string]any)
	flatten("", d, out)
	return out
}

func flatten(prefix string, d Doc, out map[string]any) {
	for k, v := range d {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flatten(key, nested, out)
		} else {
			out[key] = v
		}
	}
}

// Selector returns a selector reading path; a missing path yields nil.
func Selector(path string) query.Selector[Doc, any] {
	return func(d Doc) any {
		v, _ := Get(d, path)
		return v
	}
}

// Value returns a selector reading path as a T. A missing path or a value
// of another type yields the zero value of T.
//
// Numbers decoded by encoding/json are float64, so use Value[float64] for
// them.
func Value[T any](path string) query.Selector[Doc, T] {
	return func(d Doc) T {
		v, _ := Get(d, path)
		t, _ := v.(T)
		return t
	}
}

// Ordered is [Value] constrained to ordered types, for use as a key with
// query.SortBy.
func Ordered[T cmp.Ordered](path string) query.Selector[Doc, T] {
	return Value[T](path)
}
