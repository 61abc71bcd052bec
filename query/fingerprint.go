package query

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
	"reflect"
	"slices"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Digest is a content fingerprint produced by [Fingerprint]. It is
// comparable and therefore usable as a map key.
type Digest [blake2b.Size256]byte

// String returns the digest in hex.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Fingerprint returns the BLAKE2b-256 digest of v's dynamic type and
// content. Two values fingerprint the same when they have the same type
// and their contents match recursively:
//
//   - maps match regardless of insertion order;
//   - pointers are followed, so identity does not matter;
//   - struct fields take part whether exported or not;
//   - a nil slice or map differs from an empty one;
//   - time.Time values match when they denote the same instant.
//
// int(1) and float64(1) differ, as do []byte("a") and "a". Functions,
// channels and unsafe pointers cannot be fingerprinted and fail with
// [ErrTypeMismatch], as do reference cycles.
func Fingerprint(v any) (Digest, error) {
	h, _ := blake2b.New256(nil)
	w := fingerprinter{h: h, path: make(map[visit]struct{})}
	if err := w.value(reflect.ValueOf(v)); err != nil {
		return Digest{}, fmt.Errorf("query: fingerprint %T: %w", v, err)
	}
	var d Digest
	h.Sum(d[:0])
	return d, nil
}

var timeType = reflect.TypeFor[time.Time]()

type visit struct {
	ptr uintptr
	typ reflect.Type
}

type fingerprinter struct {
	h    hash.Hash
	path map[visit]struct{}
	buf  [8]byte
}

func (w *fingerprinter) tag(t reflect.Type) {
	fmt.Fprintf(w.h, "%s|%s|", t.PkgPath(), t.String())
}

func (w *fingerprinter) u64(n uint64) {
	binary.BigEndian.PutUint64(w.buf[:], n)
	w.h.Write(w.buf[:])
}

func (w *fingerprinter) str(s string) {
	w.u64(uint64(len(s)))
	w.h.Write([]byte(s))
}

func (w *fingerprinter) flag(b bool) {
	if b {
		w.h.Write([]byte{1})
	} else {
		w.h.Write([]byte{0})
	}
}

func (w *fingerprinter) float(f float64) {
	switch {
	case f == 0:
		f = 0
	case math.IsNaN(f):
		f = math.NaN()
	}
	w.u64(math.Float64bits(f))
}

// enter marks a reference on the current path; it fails on a cycle.
func (w *fingerprinter) enter(v reflect.Value) (func(), error) {
	k := visit{ptr: v.Pointer(), typ: v.Type()}
	if _, seen := w.path[k]; seen {
		return nil, fmt.Errorf("%w: cycle through %s", ErrTypeMismatch, v.Type())
	}
	w.path[k] = struct{}{}
	return func() { delete(w.path, k) }, nil
}

func (w *fingerprinter) value(v reflect.Value) error {
	if !v.IsValid() {
		w.h.Write([]byte("nil|"))
		return nil
	}
	t := v.Type()
	w.tag(t)

	if t == timeType && v.CanInterface() {
		w.str(v.Interface().(time.Time).UTC().Format(time.RFC3339Nano))
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		w.flag(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.u64(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.u64(v.Uint())
	case reflect.Float32, reflect.Float64:
		w.float(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		w.float(real(c))
		w.float(imag(c))
	case reflect.String:
		w.str(v.String())
	case reflect.Array:
		return w.elems(v)
	case reflect.Slice:
		w.flag(v.IsNil())
		if v.IsNil() {
			return nil
		}
		leave, err := w.enter(v)
		if err != nil {
			return err
		}
		defer leave()
		return w.elems(v)
	case reflect.Map:
		w.flag(v.IsNil())
		if v.IsNil() {
			return nil
		}
		leave, err := w.enter(v)
		if err != nil {
			return err
		}
		defer leave()
		return w.entries(v)
	case reflect.Pointer:
		w.flag(v.IsNil())
		if v.IsNil() {
			return nil
		}
		leave, err := w.enter(v)
		if err != nil {
			return err
		}
		defer leave()
		return w.value(v.Elem())
	case reflect.Interface:
		return w.value(v.Elem())
	case reflect.Struct:
		w.u64(uint64(v.NumField()))
		for i := range v.NumField() {
			w.str(t.Field(i).Name)
			if err := w.value(v.Field(i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %s has no content", ErrTypeMismatch, t)
	}
	return nil
}

func (w *fingerprinter) elems(v reflect.Value) error {
	w.u64(uint64(v.Len()))
	for i := range v.Len() {
		if err := w.value(v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// entries writes map entries sorted by the digest of their key so that
// insertion order does not matter.
func (w *fingerprinter) entries(v reflect.Value) error {
	type entry struct{ key, val Digest }
	out := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := w.sub(iter.Key())
		if err != nil {
			return err
		}
		val, err := w.sub(iter.Value())
		if err != nil {
			return err
		}
		out = append(out, entry{k, val})
	}
	slices.SortFunc(out, func(a, b entry) int { return bytes.Compare(a.key[:], b.key[:]) })
	w.u64(uint64(len(out)))
	for _, e := range out {
		w.h.Write(e.key[:])
		w.h.Write(e.val[:])
	}
	return nil
}

// sub digests v on its own hash while sharing the cycle path.
func (w *fingerprinter) sub(v reflect.Value) (Digest, error) {
	h, _ := blake2b.New256(nil)
	inner := fingerprinter{h: h, path: w.path}
	if err := inner.value(v); err != nil {
		return Digest{}, err
	}
	var d Digest
	h.Sum(d[:0])
	return d, nil
}

// DistinctDeep returns the first occurrence of every element by content,
// for element types that == cannot compare such as slices and maps. It
// fails, without a partial result, if an element cannot be fingerprinted.
//
//	rows, _ := query.DistinctDeep(query.New([]int{1, 2}, []int{1, 2}, []int{3})) // [[1 2] [3]]
func DistinctDeep[T any](s *Sequence[T]) (*Sequence[T], error) {
	digests, err := fingerprints(s)
	if err != nil {
		return nil, err
	}
	seen := make(map[Digest]struct{}, len(digests))
	out := make([]T, 0, len(s.items))
	for i, item := range s.items {
		if _, dup := seen[digests[i]]; dup {
			continue
		}
		seen[digests[i]] = struct{}{}
		out = append(out, item)
	}
	return wrap(out), nil
}

// GroupByDeep is [GroupBy] for keys that == cannot compare. Keys are
// matched by content. The groups are returned as a sequence of pairs in
// order of first occurrence, each carrying the first key value seen for it.
func GroupByDeep[T, K any](s *Sequence[T], key Selector[T, K]) (*Sequence[KeyValue[K, *Sequence[T]]], error) {
	var groups []KeyValue[K, *Sequence[T]]
	index := make(map[Digest]int)
	for _, item := range s.items {
		k := key(item)
		d, err := Fingerprint(k)
		if err != nil {
			return nil, err
		}
		i, ok := index[d]
		if !ok {
			i = len(groups)
			index[d] = i
			groups = append(groups, KeyValue[K, *Sequence[T]]{Key: k, Value: Empty[T]()})
		}
		g := groups[i].Value
		g.items = append(g.items, item)
	}
	if groups == nil {
		return Empty[KeyValue[K, *Sequence[T]]](), nil
	}
	return wrap(groups), nil
}

func fingerprints[T any](s *Sequence[T]) ([]Digest, error) {
	out := make([]Digest, len(s.items))
	for i, item := range s.items {
		d, err := Fingerprint(item)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
