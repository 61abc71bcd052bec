// Package keypath builds property accessors for schemaless documents
// (map[string]any values, as produced by encoding/json) from dot-notation
// paths, so that they can be passed straight to the operators in package
// query.
//
//	docs := query.From(rows) // []keypath.Doc
//	adults := docs.Where(func(d keypath.Doc) bool {
//	    return keypath.Value[float64]("person.age")(d) >= 18
//	})
//	byCity := query.GroupBy(docs, keypath.Value[string]("person.address.city"))
//
// A numeric path segment indexes into a []any, so "tags.0" is the first tag.
// Missing paths never panic: [Get] reports absence and the selectors return
// nil or the zero value.
package keypath
