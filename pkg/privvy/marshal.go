package privvy

import (
	"fmt"
	"reflect"

	"github.com/Victra-Studio/privvy/internal/runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// checkFunc validates that fn is a function value usable with
// RegisterFunction: at most one trailing error result, and nothing else in
// the signature this package cannot marshal.
func checkFunc(fn any) (reflect.Value, reflect.Type, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return reflect.Value{}, nil, fmt.Errorf("not a function: %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return reflect.Value{}, nil, fmt.Errorf("variadic functions are not supported")
	}
	switch t.NumOut() {
	case 0, 1:
	case 2:
		if !t.Out(1).Implements(errorType) {
			return reflect.Value{}, nil, fmt.Errorf("second result must be error, got %s", t.Out(1))
		}
	default:
		return reflect.Value{}, nil, fmt.Errorf("at most 2 results (value, error) are supported, got %d", t.NumOut())
	}
	return v, t, nil
}

// marshalToGo converts a Privvy value into a Go value assignable to target,
// mirroring the conversions a host function's parameters need.
func marshalToGo(v runtime.Value, target reflect.Type) (any, error) {
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.(runtime.Int)
		if !ok {
			return nil, fmt.Errorf("expected int, got %s", v.Kind())
		}
		return reflect.ValueOf(int64(i)).Convert(target).Interface(), nil

	case reflect.Float32, reflect.Float64:
		switch n := v.(type) {
		case runtime.Float:
			return reflect.ValueOf(float64(n)).Convert(target).Interface(), nil
		case runtime.Int:
			return reflect.ValueOf(float64(n)).Convert(target).Interface(), nil
		default:
			return nil, fmt.Errorf("expected float, got %s", v.Kind())
		}

	case reflect.String:
		s, ok := v.(runtime.String)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", v.Kind())
		}
		return string(s), nil

	case reflect.Bool:
		b, ok := v.(runtime.Bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %s", v.Kind())
		}
		return bool(b), nil

	case reflect.Slice:
		arr, ok := v.(*runtime.Array)
		if !ok {
			return nil, fmt.Errorf("expected array, got %s", v.Kind())
		}
		elemType := target.Elem()
		out := reflect.MakeSlice(target, len(arr.Elements), len(arr.Elements))
		for i, elem := range arr.Elements {
			goElem, err := marshalToGo(elem, elemType)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(goElem))
		}
		return out.Interface(), nil

	case reflect.Map:
		m, ok := v.(*runtime.Map)
		if !ok {
			return nil, fmt.Errorf("expected map, got %s", v.Kind())
		}
		if target.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("only map[string]T is supported")
		}
		elemType := target.Elem()
		out := reflect.MakeMapWithSize(target, m.Len())
		for _, keyLiteral := range m.DisplayKeys() {
			key, ok := keyLiteral.(runtime.String)
			if !ok {
				return nil, fmt.Errorf("map keys must be strings")
			}
			canonical, _ := runtime.MapKey(keyLiteral)
			entry, _ := m.Get(canonical)
			goElem, err := marshalToGo(entry, elemType)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", string(key), err)
			}
			out.SetMapIndex(reflect.ValueOf(string(key)), reflect.ValueOf(goElem))
		}
		return out.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %s", target)
	}
}

// marshalToPrivvy converts a Go value into its Privvy representation.
func marshalToPrivvy(v reflect.Value) (runtime.Value, error) {
	if !v.IsValid() {
		return runtime.Nil, nil
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return runtime.Int(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return runtime.Float(v.Float()), nil
	case reflect.String:
		return runtime.String(v.String()), nil
	case reflect.Bool:
		return runtime.Bool(v.Bool()), nil
	case reflect.Slice, reflect.Array:
		elements := make([]runtime.Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := marshalToPrivvy(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elements[i] = elem
		}
		return runtime.NewArray(elements), nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("only map[string]T results are supported")
		}
		out := runtime.NewMap()
		for _, mk := range v.MapKeys() {
			val, err := marshalToPrivvy(v.MapIndex(mk))
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", mk.String(), err)
			}
			key := runtime.String(mk.String())
			canonical, _ := runtime.MapKey(key)
			out.Set(canonical, key, val)
		}
		return out, nil
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return runtime.Nil, nil
		}
		return marshalToPrivvy(v.Elem())
	default:
		return nil, fmt.Errorf("unsupported result type %s", v.Type())
	}
}

// callAndMarshal invokes fnVal with already-marshaled Go arguments and
// converts its result (and optional trailing error) back to a Privvy value.
func callAndMarshal(fnVal reflect.Value, fnType reflect.Type, goArgs []any) (runtime.Value, error) {
	in := make([]reflect.Value, len(goArgs))
	for i, a := range goArgs {
		in[i] = reflect.ValueOf(a)
	}
	out := fnVal.Call(in)

	switch fnType.NumOut() {
	case 0:
		return runtime.Nil, nil
	case 1:
		if fnType.Out(0).Implements(errorType) {
			if !out[0].IsNil() {
				return nil, out[0].Interface().(error)
			}
			return runtime.Nil, nil
		}
		return marshalToPrivvy(out[0])
	default: // 2: (value, error)
		if errVal := out[1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		return marshalToPrivvy(out[0])
	}
}
