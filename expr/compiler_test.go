package expr_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/logr/testr"

	"github.com/hasbyte1/go-linq-utils/expr"
	"github.com/hasbyte1/go-linq-utils/keypath"
	"github.com/hasbyte1/go-linq-utils/query"
)

func newCompiler(t *testing.T, opts ...expr.Option) *expr.Compiler {
	t.Helper()
	c, err := expr.NewCompiler(append([]expr.Option{expr.WithLogger(testr.New(t))}, opts...)...)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	return c
}

// recorder captures error log lines.
type recorder struct {
	mu     sync.Mutex
	errors []string
}

func (r *recorder) logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if strings.Contains(args, `"error"`) {
			r.errors = append(r.errors, prefix+" "+args)
		}
	}, funcr.Options{})
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

func staff() *query.Sequence[keypath.Doc] {
	return query.New(
		keypath.Doc{"name": "Ann", "age": 31, "team": "core"},
		keypath.Doc{"name": "Ben", "age": 25, "team": "web"},
		keypath.Doc{"name": "Cat", "age": 44, "team": "core"},
	)
}

func TestPredicateOverDocuments(t *testing.T) {
	c := newCompiler(t)
	senior, err := expr.Predicate[keypath.Doc](c, `it.age > 30 && it.team == "core"`)
	if err != nil {
		t.Fatal(err)
	}
	got := query.Select(staff().Where(senior), keypath.Value[string]("name")).Slice()
	if len(got) != 2 || got[0] != "Ann" || got[1] != "Cat" {
		t.Fatalf("Where(senior) = %v; want [Ann Cat]", got)
	}
}

func TestPredicateOverScalars(t *testing.T) {
	c := newCompiler(t)
	even, err := expr.Predicate[int](c, `it % 2 == 0`)
	if err != nil {
		t.Fatal(err)
	}
	if n := query.New(1, 2, 3, 4, 6).Count(even); n != 3 {
		t.Fatalf("Count(even) = %d; want 3", n)
	}
}

func TestPredicateCompileErrors(t *testing.T) {
	c := newCompiler(t)
	if _, err := expr.Predicate[int](c, `it >`); !errors.Is(err, expr.ErrCompile) {
		t.Fatalf("err = %v; want ErrCompile", err)
	}
	if _, err := expr.Predicate[int](c, `size("abc")`); !errors.Is(err, expr.ErrNotBoolean) {
		t.Fatalf("err = %v; want ErrNotBoolean", err)
	}
	if _, err := expr.Selector[int, any](c, `it +`); !errors.Is(err, expr.ErrCompile) {
		t.Fatalf("err = %v; want ErrCompile", err)
	}
}

func TestPredicateRuntimeErrorIsFalse(t *testing.T) {
	rec := &recorder{}
	c, err := expr.NewCompiler(expr.WithLogger(rec.logger()))
	if err != nil {
		t.Fatal(err)
	}
	p, err := expr.Predicate[keypath.Doc](c, `it.missing == 1`)
	if err != nil {
		t.Fatal(err)
	}
	if p(keypath.Doc{"name": "x"}) {
		t.Fatal("a failed evaluation should not match")
	}
	if rec.count() != 1 {
		t.Fatalf("logged %d errors; want 1", rec.count())
	}

	guarded, _ := expr.Predicate[keypath.Doc](c, `has(it.missing) && it.missing == 1`)
	if guarded(keypath.Doc{"name": "x"}) || !guarded(keypath.Doc{"missing": 1}) {
		t.Fatal("has() guard did not behave")
	}
}

func TestSelector(t *testing.T) {
	c := newCompiler(t)
	greet, err := expr.Selector[keypath.Doc, string](c, `it.name + "!"`)
	if err != nil {
		t.Fatal(err)
	}
	got := query.Select(staff(), greet).Slice()
	if got[0] != "Ann!" || got[2] != "Cat!" {
		t.Fatalf("Select(greet) = %v", got)
	}

	double, err := expr.Selector[int, int64](c, `it * 2`)
	if err != nil {
		t.Fatal(err)
	}
	if v := double(21); v != 42 {
		t.Fatalf("double(21) = %d; want 42", v)
	}

	teams := query.Distinct(query.Select(staff(), mustSelector[keypath.Doc, any](t, c, `it.team`)))
	if teams.Len() != 2 {
		t.Fatalf("teams = %v; want 2 distinct", teams)
	}
}

func TestSelectorRuntimeErrorIsZero(t *testing.T) {
	c := newCompiler(t)
	age, _ := expr.Selector[keypath.Doc, int64](c, `it.age`)
	if v := age(keypath.Doc{}); v != 0 {
		t.Fatalf("age(missing) = %d; want 0", v)
	}
}

func TestKeyValueCallbacks(t *testing.T) {
	c := newCompiler(t)
	stock := query.MappingOf(query.Pair("apple", 3), query.Pair("pear", 0), query.Pair("fig", 7))

	inStock, err := expr.KeyValuePredicate[string, int](c, `value > 0 && key != "fig"`)
	if err != nil {
		t.Fatal(err)
	}
	kept := stock.Where(inStock).Keys()
	if len(kept) != 1 || kept[0] != "apple" {
		t.Fatalf("Where(inStock) = %v; want [apple]", kept)
	}

	label, err := expr.KeyValueSelector[string, int, string](c, `key + "=" + string(value)`)
	if err != nil {
		t.Fatal(err)
	}
	got := query.ToArray(stock, label).Slice()
	if got[0] != "apple=3" || got[2] != "fig=7" {
		t.Fatalf("ToArray(label) = %v", got)
	}

	if !stock.Any(mustKV(t, c, `key.startsWith("p")`)) {
		t.Fatal("Any(startsWith p) should be true")
	}
}

type employee struct {
	Name string
	Age  int
}

func TestUnsupportedTypesFailAtCompile(t *testing.T) {
	c := newCompiler(t)
	if _, err := expr.Predicate[employee](c, `it.Age > 30`); !errors.Is(err, expr.ErrUnsupportedType) {
		t.Fatalf("Predicate[struct] err = %v; want ErrUnsupportedType", err)
	}
	if _, err := expr.Selector[[]*employee, int64](c, `size(it)`); !errors.Is(err, expr.ErrUnsupportedType) {
		t.Fatalf("Selector[[]*struct] err = %v; want ErrUnsupportedType", err)
	}
	if _, err := expr.KeyValuePredicate[string, employee](c, `key == "a"`); !errors.Is(err, expr.ErrUnsupportedType) {
		t.Fatalf("KeyValuePredicate[_, struct] err = %v; want ErrUnsupportedType", err)
	}
	if _, err := expr.KeyValueSelector[string, map[string]employee, int64](c, `size(value)`); !errors.Is(err, expr.ErrUnsupportedType) {
		t.Fatalf("KeyValueSelector[_, map of struct] err = %v; want ErrUnsupportedType", err)
	}
	if n := c.CachedPrograms(); n != 0 {
		t.Fatalf("rejected callbacks cached %d programs", n)
	}
}

func TestStructsAsDocuments(t *testing.T) {
	c := newCompiler(t)
	senior, err := expr.Predicate[keypath.Doc](c, `it.age > 30`)
	if err != nil {
		t.Fatal(err)
	}
	rows := query.Select(query.New(employee{"Ann", 31}, employee{"Ben", 25}), func(e employee) keypath.Doc {
		return keypath.Doc{"name": e.Name, "age": e.Age}
	})
	got := query.Select(rows.Where(senior), keypath.Value[string]("name"))
	if s := got.Slice(); len(s) != 1 || s[0] != "Ann" {
		t.Fatalf("senior = %v; want [Ann]", s)
	}

	for _, err := range []error{
		bindErr[[]string](c),
		bindErr[map[string][]int](c),
		bindErr[*float64](c),
		bindErr[any](c),
	} {
		if err != nil {
			t.Fatalf("supported type rejected: %v", err)
		}
	}
}

func bindErr[T any](c *expr.Compiler) error {
	_, err := expr.Predicate[T](c, `true`)
	return err
}

func TestProgramCache(t *testing.T) {
	c := newCompiler(t)
	for i := 0; i < 3; i++ {
		if _, err := expr.Predicate[int](c, `it > 1`); err != nil {
			t.Fatal(err)
		}
	}
	// The same source in the pair scope is a separate program.
	if _, err := expr.KeyValueSelector[string, int, any](c, `it > 1`); err == nil {
		t.Fatal("it is undeclared in the pair scope")
	}
	if n := c.CachedPrograms(); n != 1 {
		t.Fatalf("cached programs = %d; want 1", n)
	}

	uncached := newCompiler(t, expr.WithProgramCache(false))
	_, _ = expr.Predicate[int](uncached, `it > 1`)
	if n := uncached.CachedPrograms(); n != 0 {
		t.Fatalf("cached programs = %d; want 0", n)
	}
}

func TestConcurrentUse(t *testing.T) {
	c := newCompiler(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := expr.Predicate[int](c, `it < 3`)
			if err != nil {
				t.Error(err)
				return
			}
			if n := query.New(1, 2, 3, 4).Count(p); n != 2 {
				t.Errorf("Count = %d; want 2", n)
			}
		}()
	}
	wg.Wait()
}

func mustSelector[T, U any](t *testing.T, c *expr.Compiler, src string) query.Selector[T, U] {
	t.Helper()
	sel, err := expr.Selector[T, U](c, src)
	if err != nil {
		t.Fatal(err)
	}
	return sel
}

func mustKV(t *testing.T, c *expr.Compiler, src string) query.KeyValuePredicate[string, int] {
	t.Helper()
	p, err := expr.KeyValuePredicate[string, int](c, src)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
