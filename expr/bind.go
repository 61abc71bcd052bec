package expr

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/cel-go/common/types/ref"
	"google.golang.org/protobuf/proto"
)

var (
	refValType   = reflect.TypeFor[ref.Val]()
	protoMsgType = reflect.TypeFor[proto.Message]()
	timeType     = reflect.TypeFor[time.Time]()
)

// bindable reports whether values of t can be handed to CEL as variables
// without registering the type. Scalars, time.Time, protobuf messages and
// slices, arrays, maps and pointers of those qualify. Plain Go structs do
// not. Interface types are accepted and checked per value at evaluation.
func bindable(t reflect.Type) error {
	return walkBindable(t, make(map[reflect.Type]bool))
}

func walkBindable(t reflect.Type, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true
	if t == timeType || t.Implements(refValType) || t.Implements(protoMsgType) {
		return nil
	}
	switch t.Kind() {
	case reflect.Interface,
		reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return walkBindable(t.Elem(), seen)
	case reflect.Map:
		if err := walkBindable(t.Key(), seen); err != nil {
			return err
		}
		return walkBindable(t.Elem(), seen)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func bindableAll(ts ...reflect.Type) error {
	for _, t := range ts {
		if err := bindable(t); err != nil {
			return err
		}
	}
	return nil
}
