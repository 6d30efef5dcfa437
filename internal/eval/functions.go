package eval

import (
	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/ifaces"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

// evalCall evaluates a callee and its arguments, then dispatches on the
// callee's runtime kind: ordinary/bound functions and host members are both
// reachable here.
func (e *Evaluator) evalCall(n *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	callee, err := e.evalExpr(n.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := e.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *runtime.Function:
		return e.callFunction(n, fn, args)
	case *runtime.NativeFunction:
		v, err := fn.Fn(args)
		return v, wrapCallError(n, err)
	case *runtime.HostMethodValue:
		v, err := fn.Callable.Call(args)
		return v, wrapCallError(n, err)
	default:
		return nil, typeErr(n, "%s is not callable", callee.Kind())
	}
}

// wrapCallError keeps the category of an already-categorized
// InterpreterError (builtins and host members construct these directly via
// typeErr/nameErr/valueErr-style helpers), filling in the call's position
// when the error has none, and wraps anything else as a Value error, since
// an uncategorized Go error crossing into user-visible output is assumed to
// be a host-collaborator failure.
func wrapCallError(node ast.Node, err error) error {
	if err == nil {
		return nil
	}
	if ierr, ok := err.(*ifaces.InterpreterError); ok {
		if ierr.Pos == nil {
			positioned := *ierr
			positioned.Pos = ifaces.PositionFromNode(node)
			positioned.Expression = ifaces.ExpressionFromNode(node)
			return &positioned
		}
		return ierr
	}
	return ifaces.WrapErrorf(err, ifaces.CategoryValue, ifaces.PositionFromNode(node), ifaces.ExpressionFromNode(node), "%s", err.Error())
}

// callFunction runs fn's body in a fresh scope parented on its captured
// environment, binding `this` (if fn is a bound method) and its positional
// parameters before execution.
func (e *Evaluator) callFunction(node ast.Node, fn *runtime.Function, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(fn.Decl.Parameters) {
		return nil, typeErr(node, "%s expects %d argument(s), got %d", fnLabel(fn), len(fn.Decl.Parameters), len(args))
	}

	e.callDepth++
	defer func() { e.callDepth-- }()
	if e.callDepth > e.maxCallDepth {
		return nil, valueErr(node, "maximum call depth exceeded")
	}

	callEnv := runtime.NewEnclosedEnvironment(fn.Env)
	if fn.This != nil {
		callEnv.Define("this", fn.This)
	}
	for i, p := range fn.Decl.Parameters {
		callEnv.Define(p, args[i])
	}

	sig, err := e.execStatements(fn.Decl.Body, callEnv)
	if err != nil {
		return nil, err
	}
	if sig.returning {
		return sig.value, nil
	}
	return runtime.Nil, nil
}

func fnLabel(fn *runtime.Function) string {
	if fn.Decl.Name == "" {
		return "constructor"
	}
	return fn.Decl.Name
}

// evalNew resolves className to a Class, evaluates arguments, allocates a
// fresh Instance, and — if the class declares a constructor — runs it with
// `this` bound to the new instance. The constructor's return value, if any,
// is discarded: `new` always yields the instance.
func (e *Evaluator) evalNew(n *ast.NewExpression, env *runtime.Environment) (runtime.Value, error) {
	classVal, ok := env.Get(n.ClassName)
	if !ok {
		return nil, nameErr(n, "undefined class %q", n.ClassName)
	}
	class, ok := classVal.(*runtime.Class)
	if !ok {
		return nil, typeErr(n, "%q is not a class", n.ClassName)
	}

	args := make([]runtime.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := e.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	instance := runtime.NewInstance(class)
	if class.Constructor != nil {
		ctor := &runtime.Function{Decl: class.Constructor, Env: class.Env, This: instance}
		if _, err := e.callFunction(n, ctor, args); err != nil {
			return nil, err
		}
	} else if len(args) != 0 {
		return nil, typeErr(n, "%s expects 0 arguments, got %d", class.Name, len(args))
	}
	return instance, nil
}

// getMember resolves `obj.name` for reads and for the callee position of a
// call: an instance field shadows a method of the same name; otherwise the
// method is looked up through the superclass chain and bound to obj. A host
// object's member is wrapped so it can be called or merely held as a value.
func (e *Evaluator) getMember(node ast.Node, obj runtime.Value, name string) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.Instance:
		if v, ok := o.Fields[name]; ok {
			return v, nil
		}
		if decl, owner, ok := o.Class.FindMethod(name); ok {
			method := &runtime.Function{Decl: decl, Env: owner.Env}
			return method.Bind(o), nil
		}
		return nil, nameErr(node, "undefined property %q on instance of %s", name, o.Class.Name)

	case runtime.HostObject:
		callable, ok := o.Member(name)
		if !ok {
			return nil, nameErr(node, "undefined member %q on host object", name)
		}
		return &runtime.HostMethodValue{Receiver: o, Name: name, Callable: callable}, nil

	default:
		return nil, typeErr(node, "cannot access property %q on %s", name, obj.Kind())
	}
}

// indexGet implements `container[index]` reads for both Array (integer
// index, bounds-checked) and Map (any primitive key).
func (e *Evaluator) indexGet(node ast.Node, container, index runtime.Value) (runtime.Value, error) {
	switch c := container.(type) {
	case *runtime.Array:
		i, ok := index.(runtime.Int)
		if !ok {
			return nil, typeErr(node, "array index must be an integer, got %s", index.Kind())
		}
		if int(i) < 0 || int(i) >= len(c.Elements) {
			return nil, valueErr(node, "array index %d out of range (length %d)", int(i), len(c.Elements))
		}
		return c.Elements[i], nil

	case *runtime.Map:
		key, err := runtime.MapKey(index)
		if err != nil {
			return nil, typeErr(node, "%s", err.Error())
		}
		v, ok := c.Get(key)
		if !ok {
			return nil, valueErr(node, "key not found in map")
		}
		return v, nil

	default:
		return nil, typeErr(node, "cannot index %s", container.Kind())
	}
}

// indexSet implements `container[index] = value` writes for Array and Map.
func (e *Evaluator) indexSet(node ast.Node, container, index, val runtime.Value) error {
	switch c := container.(type) {
	case *runtime.Array:
		i, ok := index.(runtime.Int)
		if !ok {
			return typeErr(node, "array index must be an integer, got %s", index.Kind())
		}
		if int(i) < 0 || int(i) >= len(c.Elements) {
			return valueErr(node, "array index %d out of range (length %d)", int(i), len(c.Elements))
		}
		c.Elements[i] = val
		return nil

	case *runtime.Map:
		key, err := runtime.MapKey(index)
		if err != nil {
			return typeErr(node, "%s", err.Error())
		}
		c.Set(key, index, val)
		return nil

	default:
		return typeErr(node, "cannot index-assign %s", container.Kind())
	}
}

// evalAssignment implements `target = value` for the three lvalue shapes the
// parser accepts; any other shape is a parse-time-legal but semantically
// invalid target, rejected here per the "parser accepts general expression,
// evaluator checks" design.
func (e *Evaluator) evalAssignment(n *ast.Assignment, env *runtime.Environment) (runtime.Value, error) {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		val, err := e.evalExpr(n.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Set(target.Name, val) {
			return nil, nameErr(n, "undefined variable %q", target.Name)
		}
		return val, nil

	case *ast.MemberAccess:
		obj, err := e.evalExpr(target.Object, env)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*runtime.Instance)
		if !ok {
			return nil, typeErr(n, "cannot assign property %q on %s", target.Property, obj.Kind())
		}
		val, err := e.evalExpr(n.Value, env)
		if err != nil {
			return nil, err
		}
		inst.Fields[target.Property] = val
		return val, nil

	case *ast.ArrayAccess:
		container, err := e.evalExpr(target.Array, env)
		if err != nil {
			return nil, err
		}
		index, err := e.evalExpr(target.Index, env)
		if err != nil {
			return nil, err
		}
		val, err := e.evalExpr(n.Value, env)
		if err != nil {
			return nil, err
		}
		if err := e.indexSet(n, container, index, val); err != nil {
			return nil, err
		}
		return val, nil

	default:
		return nil, typeErr(n, "invalid assignment target %T", n.Target)
	}
}
