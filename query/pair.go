package query

import "fmt"

// KeyValue is a single key/value pair of a [Mapping].
type KeyValue[K, V any] struct {
	Key   K
	Value V
}

// Pair builds a [KeyValue]. It reads better than a composite literal when
// passed to [MappingOf] or returned from a [SelectEntries] callback.
func Pair[K, V any](key K, value V) KeyValue[K, V] {
	return KeyValue[K, V]{Key: key, Value: value}
}

// String returns "key: value".
func (kv KeyValue[K, V]) String() string {
	return fmt.Sprintf("%v: %v", kv.Key, kv.Value)
}
