package eval

import (
	"math"
	"strings"

	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

// binOpKey indexes the arithmetic/comparison dispatch table by operator and
// operand kinds, per the design note centralizing binary-operator semantics
// in one table instead of scattered type checks.
type binOpKey struct {
	op    string
	left  runtime.Kind
	right runtime.Kind
}

type binFn func(node ast.Node, left, right runtime.Value) (runtime.Value, error)

var binaryOps map[binOpKey]binFn

func init() {
	binaryOps = map[binOpKey]binFn{
		{"+", runtime.KindString, runtime.KindString}: func(_ ast.Node, l, r runtime.Value) (runtime.Value, error) {
			return runtime.String(string(l.(runtime.String)) + string(r.(runtime.String))), nil
		},
	}

	for _, op := range []string{"+", "-", "*", "/", "%"} {
		for _, lk := range []runtime.Kind{runtime.KindInt, runtime.KindFloat} {
			for _, rk := range []runtime.Kind{runtime.KindInt, runtime.KindFloat} {
				binaryOps[binOpKey{op, lk, rk}] = numericArith(op)
			}
		}
	}

	for _, op := range []string{"<", "<=", ">", ">="} {
		for _, lk := range []runtime.Kind{runtime.KindInt, runtime.KindFloat} {
			for _, rk := range []runtime.Kind{runtime.KindInt, runtime.KindFloat} {
				binaryOps[binOpKey{op, lk, rk}] = numericCompare(op)
			}
		}
		binaryOps[binOpKey{op, runtime.KindString, runtime.KindString}] = stringCompare(op)
	}
}

func asFloat(v runtime.Value) float64 {
	switch n := v.(type) {
	case runtime.Int:
		return float64(n)
	case runtime.Float:
		return float64(n)
	default:
		return 0
	}
}

// numericArith implements +, -, *, /, % over Int/Float operands. Per the
// open question on numeric promotion, any mixed Int/Float pairing produces
// a Float; Int op Int stays Int, except `/`, which always yields a Float.
func numericArith(op string) binFn {
	return func(node ast.Node, l, r runtime.Value) (runtime.Value, error) {
		li, lIsInt := l.(runtime.Int)
		ri, rIsInt := r.(runtime.Int)

		if lIsInt && rIsInt {
			switch op {
			case "+":
				return li + ri, nil
			case "-":
				return li - ri, nil
			case "*":
				return li * ri, nil
			case "/":
				if ri == 0 {
					return nil, valueErr(node, "division by zero")
				}
				return runtime.Float(float64(li) / float64(ri)), nil
			case "%":
				if ri == 0 {
					return nil, valueErr(node, "modulo by zero")
				}
				return li % ri, nil
			}
		}

		lf, rf := asFloat(l), asFloat(r)
		switch op {
		case "+":
			return runtime.Float(lf + rf), nil
		case "-":
			return runtime.Float(lf - rf), nil
		case "*":
			return runtime.Float(lf * rf), nil
		case "/":
			if rf == 0 {
				return nil, valueErr(node, "division by zero")
			}
			return runtime.Float(lf / rf), nil
		case "%":
			if rf == 0 {
				return nil, valueErr(node, "modulo by zero")
			}
			return runtime.Float(math.Mod(lf, rf)), nil
		}
		panic("unreachable: unknown numeric operator " + op)
	}
}

func numericCompare(op string) binFn {
	return func(_ ast.Node, l, r runtime.Value) (runtime.Value, error) {
		lf, rf := asFloat(l), asFloat(r)
		return runtime.Bool(compareOrdering(op, lf < rf, lf == rf, lf > rf)), nil
	}
}

func stringCompare(op string) binFn {
	return func(_ ast.Node, l, r runtime.Value) (runtime.Value, error) {
		ls, rs := string(l.(runtime.String)), string(r.(runtime.String))
		cmp := strings.Compare(ls, rs)
		return runtime.Bool(compareOrdering(op, cmp < 0, cmp == 0, cmp > 0)), nil
	}
}

func compareOrdering(op string, less, equal, greater bool) bool {
	switch op {
	case "<":
		return less
	case "<=":
		return less || equal
	case ">":
		return greater
	case ">=":
		return greater || equal
	default:
		return false
	}
}

// applyBinaryOp evaluates op against already-evaluated left/right values.
// `and`/`or` are not handled here — they short-circuit and are special-cased
// in evalBinaryOp before either operand past the left is evaluated.
func (e *Evaluator) applyBinaryOp(node *ast.BinaryOp, op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==":
		return runtime.Bool(valuesEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!valuesEqual(left, right)), nil
	}

	fn, ok := binaryOps[binOpKey{op, left.Kind(), right.Kind()}]
	if !ok {
		return nil, typeErr(node, "unsupported operand types for %q: %s and %s", op, left.Kind(), right.Kind())
	}
	return fn(node, left, right)
}

// valuesEqual implements `==`/`!=`: structural equality on primitives
// (numbers compare across Int/Float), reference identity on containers,
// instances, classes, and functions.
func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.Null:
		_, ok := right.(runtime.Null)
		return ok
	case runtime.Bool:
		r, ok := right.(runtime.Bool)
		return ok && l == r
	case runtime.Int:
		switch r := right.(type) {
		case runtime.Int:
			return l == r
		case runtime.Float:
			return float64(l) == float64(r)
		}
		return false
	case runtime.Float:
		switch r := right.(type) {
		case runtime.Int:
			return float64(l) == float64(r)
		case runtime.Float:
			return l == r
		}
		return false
	case runtime.String:
		r, ok := right.(runtime.String)
		return ok && l == r
	case *runtime.Array:
		r, ok := right.(*runtime.Array)
		return ok && l == r
	case *runtime.Map:
		r, ok := right.(*runtime.Map)
		return ok && l == r
	case *runtime.Function:
		r, ok := right.(*runtime.Function)
		return ok && l == r
	case *runtime.NativeFunction:
		r, ok := right.(*runtime.NativeFunction)
		return ok && l == r
	case *runtime.Class:
		r, ok := right.(*runtime.Class)
		return ok && l == r
	case *runtime.Instance:
		r, ok := right.(*runtime.Instance)
		return ok && l == r
	default:
		return false
	}
}

// applyUnaryOp evaluates a prefix operator against an already-evaluated
// operand.
func (e *Evaluator) applyUnaryOp(node *ast.UnaryOp, op string, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case "-":
		switch v := operand.(type) {
		case runtime.Int:
			return -v, nil
		case runtime.Float:
			return -v, nil
		default:
			return nil, typeErr(node, "unary - does not apply to %s", operand.Kind())
		}
	case "!", "not":
		return runtime.Bool(!runtime.Truthy(operand)), nil
	default:
		return nil, typeErr(node, "unknown unary operator %q", op)
	}
}
