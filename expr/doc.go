// Package expr compiles CEL (Common Expression Language) source strings into
// callbacks for package query, so that filters and projections can come from
// configuration or user input instead of Go code.
//
// Sequence callbacks see the current element as the variable it; mapping
// callbacks see the variables key and value:
//
//	c, _ := expr.NewCompiler()
//	adult, err := expr.Predicate[keypath.Doc](c, `it.age >= 18`)
//	if err != nil {
//	    return err
//	}
//	adults := docs.Where(adult)
//
//	label, _ := expr.KeyValueSelector[string, int, string](c, `key + "=" + string(value)`)
//	labels := query.ToArray(stock, label)
//
// Callback parameter types must be values CEL can take without
// registration: documents (maps), scalars, time.Time, protobuf messages, and
// slices or pointers of those. A plain Go struct is rejected when the
// callback is compiled, with ErrUnsupportedType; map it to a document with
// query.Select first.
//
// Compilation type-checks the expression; a predicate must produce a bool.
// Because the query callback signatures carry no error, a failure while
// evaluating a compiled callback (a missing map key, say) is logged and the
// predicate answers false, or the selector the zero value.
package expr
