package keypath_test

import (
	"encoding/json"
	"testing"

	"github.com/hasbyte1/go-linq-utils/keypath"
	"github.com/hasbyte1/go-linq-utils/query"
)

func sample() keypath.Doc {
	return keypath.Doc{
		"user": map[string]any{
			"name": "Alice",
			"address": map[string]any{
				"city": "London",
			},
			"tags": []any{"admin", map[string]any{"level": 3}},
		},
		"empty": map[string]any{},
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		path string
		want any
		ok   bool
	}{
		{"user.name", "Alice", true},
		{"user.address.city", "London", true},
		{"user.tags.0", "admin", true},
		{"user.tags.1.level", 3, true},
		{"user.tags.2", nil, false},
		{"user.tags.-1", nil, false},
		{"user.tags.x", nil, false},
		{"user.missing", nil, false},
		{"user.name.first", nil, false},
		{"nope", nil, false},
	}
	for _, tc := range tests {
		got, ok := keypath.Get(sample(), tc.path)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Get(%q) = %v, %v; want %v, %v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestHas(t *testing.T) {
	d := sample()
	if !keypath.Has(d, "user.address") || !keypath.Has(d, "empty") {
		t.Fatal("Has should find existing paths")
	}
	if keypath.Has(d, "user.address.zip") {
		t.Fatal("Has should not find a missing path")
	}
}

func TestDot(t *testing.T) {
	flat := keypath.Dot(sample())
	if flat["user.name"] != "Alice" || flat["user.address.city"] != "London" {
		t.Fatalf("Dot = %v", flat)
	}
	if _, ok := flat["user.tags"].([]any); !ok {
		t.Fatal("slices should stay leaf values")
	}
	if _, ok := flat["empty"]; !ok {
		t.Fatal("empty maps should stay leaf values")
	}
	if _, ok := flat["user"]; ok {
		t.Fatal("intermediate maps should be flattened away")
	}
}

func TestSelectorsWithQuery(t *testing.T) {
	var rows []keypath.Doc
	raw := `[
		{"name": "Ann", "age": 31, "city": "Oslo"},
		{"name": "Ben", "age": 25, "city": "Rome"},
		{"name": "Cat", "age": 31, "city": "Oslo"},
		{"name": "Dan"}
	]`
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		t.Fatal(err)
	}
	docs := query.From(rows)

	sorted := query.SortBy(docs, keypath.Ordered[float64]("age"))
	got := query.Select(sorted, keypath.Value[string]("name")).Slice()
	want := []string{"Dan", "Ben", "Ann", "Cat"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortBy(age) names = %v; want %v", got, want)
		}
	}

	byCity := query.GroupBy(docs, keypath.Selector("city"))
	if byCity.Len() != 3 {
		t.Fatalf("groups = %v; want Oslo, Rome and nil", byCity.Keys())
	}
	oslo, _ := byCity.Get("Oslo")
	if oslo.Len() != 2 {
		t.Fatalf("Oslo group = %v", oslo)
	}
	if missing, ok := byCity.Get(nil); !ok || missing.Len() != 1 {
		t.Fatal("documents without the path should group under nil")
	}
}
