package format

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// callDefault resolves a script's default export. Functions are invoked
// with no arguments, or with ctx when their only parameter is a
// context.Context. A trailing error result is returned unwrapped, as is the
// only result of a function that returns just an error.
func callDefault(ctx context.Context, path string, exported any) (result any, err error) {
	fn := reflect.ValueOf(exported)
	if fn.Kind() != reflect.Func {
		return exported, nil
	}
	if fn.IsNil() {
		return nil, nil
	}

	t := fn.Type()
	var in []reflect.Value
	switch {
	case t.NumIn() == 0:
	case t.NumIn() == 1 && !t.IsVariadic() && t.In(0) == contextType:
		in = []reflect.Value{reflect.ValueOf(&ctx).Elem()}
	default:
		return nil, &ScriptError{Path: path, Err: fmt.Errorf("unsupported default export signature %s", t)}
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1).Implements(errorType):
	default:
		return nil, &ScriptError{Path: path, Err: fmt.Errorf("unsupported default export signature %s", t)}
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &ScriptError{Path: path, Err: fmt.Errorf("default export panicked: %v", r)}
		}
	}()

	out := fn.Call(in)
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		if e, ok := last.Interface().(error); ok && e != nil {
			return nil, e
		}
		if len(out) == 1 {
			return nil, nil
		}
	}
	return out[0].Interface(), nil
}
