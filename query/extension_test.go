package query_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/hasbyte1/go-linq-utils/query"
)

func evens(s *query.Sequence[int], _ ...any) (any, error) {
	return s.Where(func(n int) bool { return n%2 == 0 }), nil
}

func TestExtendAndInvoke(t *testing.T) {
	defer query.ResetExtensions()

	query.Extend("evens", evens)
	if !query.HasExtension("evens") {
		t.Fatal("extension should be registered")
	}
	res, err := query.Invoke(ints(1, 2, 3, 4), "evens")
	if err != nil {
		t.Fatal(err)
	}
	assertSlice(t, res.(*query.Sequence[int]).Slice(), []int{2, 4})
}

func TestInvokeForwardsArgs(t *testing.T) {
	defer query.ResetExtensions()

	query.Extend("nth", func(s *query.Sequence[string], args ...any) (any, error) {
		v, _ := s.Get(args[0].(int))
		return v, nil
	})
	res, err := query.Invoke(query.New("a", "b", "c"), "nth", 2)
	if err != nil || res != "c" {
		t.Fatalf("Invoke(nth, 2) = %v, %v; want c, nil", res, err)
	}
}

func TestInvokeUnknown(t *testing.T) {
	query.ResetExtensions()
	_, err := query.Invoke(ints(1), "missing")
	if !errors.Is(err, query.ErrUnknownExtension) {
		t.Fatalf("err = %v; want ErrUnknownExtension", err)
	}
}

func TestInvokeWrongElementType(t *testing.T) {
	defer query.ResetExtensions()

	query.Extend("evens", evens)
	_, err := query.Invoke(query.New("a"), "evens")
	if !errors.Is(err, query.ErrTypeMismatch) {
		t.Fatalf("err = %v; want ErrTypeMismatch", err)
	}
}

func TestExtendConcurrent(t *testing.T) {
	defer query.ResetExtensions()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			query.Extend("evens", evens)
			_, _ = query.Invoke(ints(1, 2), "evens")
		}()
	}
	wg.Wait()
	if !query.HasExtension("evens") {
		t.Fatal("extension missing after concurrent registration")
	}
}
