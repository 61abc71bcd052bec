package expr

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"

	"github.com/hasbyte1/go-linq-utils/query"
)

// Variable names visible to expressions.
const (
	VarItem  = "it"
	VarKey   = "key"
	VarValue = "value"
)

type scope int

const (
	scopeItem scope = iota
	scopePair
)

type programKey struct {
	scope scope
	src   string
}

// Compiler turns expression strings into query callbacks. It is safe for
// concurrent use.
type Compiler struct {
	items *cel.Env
	pairs *cel.Env
	log   logr.Logger
	cache bool

	programs sync.Map // programKey -> cel.Program
}

// Option configures a [Compiler].
type Option func(*Compiler)

// WithLogger sets the logger used for evaluation failures and traces. The
// default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(c *Compiler) { c.log = log }
}

// WithProgramCache enables or disables reuse of compiled programs for
// identical source strings. Enabled by default.
func WithProgramCache(enabled bool) Option {
	return func(c *Compiler) { c.cache = enabled }
}

// NewCompiler creates a Compiler with the element environment (it) and the
// pair environment (key, value), all dynamically typed.
func NewCompiler(opts ...Option) (*Compiler, error) {
	items, err := cel.NewEnv(cel.Variable(VarItem, cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("expr: item environment: %w", err)
	}
	pairs, err := cel.NewEnv(
		cel.Variable(VarKey, cel.DynType),
		cel.Variable(VarValue, cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("expr: pair environment: %w", err)
	}

	c := &Compiler{
		items: items,
		pairs: pairs,
		log:   logr.Discard(),
		cache: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithName("expr")
	return c, nil
}

// CachedPrograms returns the number of compiled programs held in the cache.
func (c *Compiler) CachedPrograms() int {
	n := 0
	c.programs.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *Compiler) program(sc scope, src string, predicate bool) (cel.Program, error) {
	key := programKey{scope: sc, src: src}
	if c.cache {
		if prg, ok := c.programs.Load(key); ok {
			return prg.(cel.Program), nil
		}
	}

	env := c.items
	if sc == scopePair {
		env = c.pairs
	}
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, src, issues.Err())
	}
	if out := ast.OutputType(); predicate && !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBoolean, src, out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, src, err)
	}

	if c.cache {
		c.programs.Store(key, prg)
	}
	c.log.V(4).Info("compiled", "expression", src)
	return prg, nil
}

func (c *Compiler) eval(prg cel.Program, src string, vars map[string]any) (ref.Val, bool) {
	out, _, err := prg.Eval(vars)
	if err != nil {
		c.log.Error(err, "evaluation failed", "expression", src)
		return nil, false
	}
	c.log.V(8).Info("eval ready", "expression", src, "result", out.Value())
	return out, true
}

func (c *Compiler) test(prg cel.Program, src string, vars map[string]any) bool {
	out, ok := c.eval(prg, src, vars)
	if !ok {
		return false
	}
	b, ok := out.Value().(bool)
	if !ok {
		c.log.Error(ErrNotBoolean, "predicate produced a non-bool", "expression", src, "type", out.Type())
		return false
	}
	return b
}

func project[U any](c *Compiler, prg cel.Program, src string, vars map[string]any) U {
	var zero U
	out, ok := c.eval(prg, src, vars)
	if !ok {
		return zero
	}
	if u, ok := out.Value().(U); ok {
		return u
	}
	native, err := out.ConvertToNative(reflect.TypeFor[U]())
	if err != nil {
		c.log.Error(err, "cannot convert result", "expression", src, "target", reflect.TypeFor[U]())
		return zero
	}
	u, _ := native.(U)
	return u
}

// Predicate compiles src into an element predicate. The element is bound to
// it.
//
// T must be a document (map), a scalar, time.Time, a protobuf message, or a
// slice or pointer of those; a plain Go struct fails with
// [ErrUnsupportedType]. Project structs into a keypath.Doc first.
func Predicate[T any](c *Compiler, src string) (query.Predicate[T], error) {
	if err := bindable(reflect.TypeFor[T]()); err != nil {
		return nil, err
	}
	prg, err := c.program(scopeItem, src, true)
	if err != nil {
		return nil, err
	}
	return func(item T) bool {
		return c.test(prg, src, map[string]any{VarItem: item})
	}, nil
}

// Selector compiles src into an element projection producing a U. CEL
// integers are int64 and doubles float64; other numeric targets are
// converted where the value fits. T is restricted as for [Predicate].
func Selector[T, U any](c *Compiler, src string) (query.Selector[T, U], error) {
	if err := bindable(reflect.TypeFor[T]()); err != nil {
		return nil, err
	}
	prg, err := c.program(scopeItem, src, false)
	if err != nil {
		return nil, err
	}
	return func(item T) U {
		return project[U](c, prg, src, map[string]any{VarItem: item})
	}, nil
}

// KeyValuePredicate compiles src into a mapping predicate over key and
// value. K and V are restricted as for [Predicate].
func KeyValuePredicate[K, V any](c *Compiler, src string) (query.KeyValuePredicate[K, V], error) {
	if err := bindableAll(reflect.TypeFor[K](), reflect.TypeFor[V]()); err != nil {
		return nil, err
	}
	prg, err := c.program(scopePair, src, true)
	if err != nil {
		return nil, err
	}
	return func(k K, v V) bool {
		return c.test(prg, src, map[string]any{VarKey: k, VarValue: v})
	}, nil
}

// KeyValueSelector compiles src into a mapping projection over key and
// value producing a W.
func KeyValueSelector[K, V, W any](c *Compiler, src string) (query.KeyValueSelector[K, V, W], error) {
	if err := bindableAll(reflect.TypeFor[K](), reflect.TypeFor[V]()); err != nil {
		return nil, err
	}
	prg, err := c.program(scopePair, src, false)
	if err != nil {
		return nil, err
	}
	return func(k K, v V) W {
		return project[W](c, prg, src, map[string]any{VarKey: k, VarValue: v})
	}, nil
}
