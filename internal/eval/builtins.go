package eval

import (
	"strconv"

	"github.com/Victra-Studio/privvy/internal/ifaces"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

// installBuiltins registers the predefined global-scope builtins. Builtins
// have no enclosing AST node, so their errors carry no source position —
// the evaluator attaches one when it wraps the call (see wrapCallError).
func installBuiltins(e *Evaluator) {
	define := func(name string, fn func(args []runtime.Value) (runtime.Value, error)) {
		e.Global.Define(name, &runtime.NativeFunction{Name: name, Fn: fn})
	}

	define("print", func(args []runtime.Value) (runtime.Value, error) {
		e.print(args)
		return runtime.Nil, nil
	})

	define("len", builtinLen)
	define("str", builtinStr)
	define("int", builtinInt)
	define("float", builtinFloat)
	define("dict", builtinDict)

	if e.NewDatabase != nil {
		define("Database", builtinDatabase(e))
	}
	if e.NewModel != nil {
		define("Model", builtinModel(e))
	}
}

func argErrf(format string, args ...any) error {
	return ifaces.NewTypeErrorf(nil, "", format, args...)
}

func valErrf(format string, args ...any) error {
	return ifaces.NewValueErrorf(nil, "", format, args...)
}

func builtinLen(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, argErrf("len() takes exactly 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case runtime.String:
		return runtime.Int(len(string(v))), nil
	case *runtime.Array:
		return runtime.Int(len(v.Elements)), nil
	default:
		return nil, argErrf("len() does not apply to %s", v.Kind())
	}
}

func builtinStr(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, argErrf("str() takes exactly 1 argument, got %d", len(args))
	}
	return runtime.String(args[0].String()), nil
}

func builtinInt(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, argErrf("int() takes exactly 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case runtime.Int:
		return v, nil
	case runtime.Float:
		return runtime.Int(int64(v)), nil
	case runtime.Bool:
		if v {
			return runtime.Int(1), nil
		}
		return runtime.Int(0), nil
	case runtime.String:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return nil, valErrf("cannot convert %q to int", string(v))
		}
		return runtime.Int(n), nil
	default:
		return nil, argErrf("int() does not apply to %s", v.Kind())
	}
}

func builtinFloat(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, argErrf("float() takes exactly 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case runtime.Float:
		return v, nil
	case runtime.Int:
		return runtime.Float(float64(v)), nil
	case runtime.String:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return nil, valErrf("cannot convert %q to float", string(v))
		}
		return runtime.Float(f), nil
	default:
		return nil, argErrf("float() does not apply to %s", v.Kind())
	}
}

// builtinDict consumes a flat [k0, v0, k1, v1, ...] array and builds a Map;
// an odd-length array fails.
func builtinDict(args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, argErrf("dict() takes exactly 1 argument, got %d", len(args))
	}
	arr, ok := args[0].(*runtime.Array)
	if !ok {
		return nil, argErrf("dict() argument must be an array, got %s", args[0].Kind())
	}
	if len(arr.Elements)%2 != 0 {
		return nil, valErrf("dict() array must have even length, got %d", len(arr.Elements))
	}

	m := runtime.NewMap()
	for i := 0; i < len(arr.Elements); i += 2 {
		keyLiteral, val := arr.Elements[i], arr.Elements[i+1]
		key, err := runtime.MapKey(keyLiteral)
		if err != nil {
			return nil, argErrf("%s", err.Error())
		}
		m.Set(key, keyLiteral, val)
	}
	return m, nil
}

func builtinDatabase(e *Evaluator) func(args []runtime.Value) (runtime.Value, error) {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, argErrf("Database() takes exactly 1 argument, got %d", len(args))
		}
		connStr, ok := args[0].(runtime.String)
		if !ok {
			return nil, argErrf("Database() connection string must be a string, got %s", args[0].Kind())
		}
		db, err := e.NewDatabase(string(connStr))
		if err != nil {
			return nil, valErrf("%s", err.Error())
		}
		return db, nil
	}
}

func builtinModel(e *Evaluator) func(args []runtime.Value) (runtime.Value, error) {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return nil, argErrf("Model() takes exactly 2 arguments, got %d", len(args))
		}
		table, ok := args[0].(runtime.String)
		if !ok {
			return nil, argErrf("Model() table name must be a string, got %s", args[0].Kind())
		}
		fieldsMap, ok := args[1].(*runtime.Map)
		if !ok {
			return nil, argErrf("Model() fields must be a map, got %s", args[1].Kind())
		}

		fields := make(map[string]string, fieldsMap.Len())
		for _, keyLiteral := range fieldsMap.DisplayKeys() {
			key, ok := keyLiteral.(runtime.String)
			if !ok {
				return nil, argErrf("Model() field names must be strings")
			}
			canonical, _ := runtime.MapKey(keyLiteral)
			v, _ := fieldsMap.Get(canonical)
			def, ok := v.(runtime.String)
			if !ok {
				return nil, argErrf("Model() field definition for %q must be a string", string(key))
			}
			fields[string(key)] = string(def)
		}

		model, err := e.NewModel(string(table), fields)
		if err != nil {
			return nil, valErrf("%s", err.Error())
		}
		return model, nil
	}
}
