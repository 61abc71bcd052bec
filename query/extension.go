package query

import (
	"fmt"
	"reflect"
	"sync"
)

// Extension is a named, user-defined operator over a Sequence[T]. It stands
// in for adding methods to an existing container type, which Go does not
// allow.
type Extension[T any] = func(s *Sequence[T], args ...any) (any, error)

// extensions is the package-level, goroutine-safe extension store. Values are
// Extension[T] for whatever T they were registered with.
var extensions = struct {
	mu  sync.RWMutex
	ops map[string]any
}{ops: make(map[string]any)}

// Extend registers fn under name for sequences of T, replacing any
// extension already registered under that name.
//
//	query.Extend("evens", func(s *query.Sequence[int], _ ...any) (any, error) {
//	    return s.Where(func(n int) bool { return n%2 == 0 }), nil
//	})
func Extend[T any](name string, fn Extension[T]) {
	extensions.mu.Lock()
	defer extensions.mu.Unlock()
	extensions.ops[name] = fn
}

// HasExtension reports whether an extension is registered under name, for
// any element type.
func HasExtension(name string) bool {
	extensions.mu.RLock()
	defer extensions.mu.RUnlock()
	_, ok := extensions.ops[name]
	return ok
}

// ResetExtensions removes every registered extension. Intended for tests.
func ResetExtensions() {
	extensions.mu.Lock()
	defer extensions.mu.Unlock()
	extensions.ops = make(map[string]any)
}

// Invoke calls the extension registered under name on s. It fails with
// [ErrUnknownExtension] when nothing is registered, and with
// [ErrTypeMismatch] when the extension was registered for a different
// element type.
func Invoke[T any](s *Sequence[T], name string, args ...any) (any, error) {
	extensions.mu.RLock()
	op, ok := extensions.ops[name]
	extensions.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	fn, ok := op.(Extension[T])
	if !ok {
		return nil, fmt.Errorf("%w: extension %q does not accept sequences of %s", ErrTypeMismatch, name, reflect.TypeFor[T]())
	}
	return fn(s, args...)
}
