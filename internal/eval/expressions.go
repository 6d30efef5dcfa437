package eval

import (
	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

func (e *Evaluator) evalExpr(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		if n.IsFloat {
			return runtime.Float(n.FloatVal), nil
		}
		return runtime.Int(n.IntVal), nil

	case *ast.StringLiteral:
		return runtime.String(n.Value), nil

	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil

	case *ast.NullLiteral:
		return runtime.Nil, nil

	case *ast.Identifier:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, nameErr(n, "undefined variable %q", n.Name)
		}
		return v, nil

	case *ast.ThisExpression:
		v, ok := env.Get("this")
		if !ok {
			return nil, nameErr(n, "'this' is not bound outside a method or constructor")
		}
		return v, nil

	case *ast.BinaryOp:
		return e.evalBinaryOp(n, env)

	case *ast.UnaryOp:
		operand, err := e.evalExpr(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return e.applyUnaryOp(n, n.Op, operand)

	case *ast.ArrayLiteral:
		elems := make([]runtime.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpr(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return runtime.NewArray(elems), nil

	case *ast.ArrayAccess:
		arrVal, err := e.evalExpr(n.Array, env)
		if err != nil {
			return nil, err
		}
		idxVal, err := e.evalExpr(n.Index, env)
		if err != nil {
			return nil, err
		}
		return e.indexGet(n, arrVal, idxVal)

	case *ast.MemberAccess:
		obj, err := e.evalExpr(n.Object, env)
		if err != nil {
			return nil, err
		}
		return e.getMember(n, obj, n.Property)

	case *ast.FunctionCall:
		return e.evalCall(n, env)

	case *ast.NewExpression:
		return e.evalNew(n, env)

	case *ast.Assignment:
		return e.evalAssignment(n, env)

	default:
		return nil, typeErr(expr, "cannot evaluate expression of type %T", expr)
	}
}

// evalBinaryOp handles `and`/`or` short-circuiting before falling through to
// the operator table for everything else; the right operand must not be
// evaluated when short-circuiting skips it.
func (e *Evaluator) evalBinaryOp(n *ast.BinaryOp, env *runtime.Environment) (runtime.Value, error) {
	left, err := e.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "and":
		if !runtime.Truthy(left) {
			return runtime.Bool(false), nil
		}
		right, err := e.evalExpr(n.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(runtime.Truthy(right)), nil

	case "or":
		if runtime.Truthy(left) {
			return left, nil
		}
		return e.evalExpr(n.Right, env)
	}

	right, err := e.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}
	return e.applyBinaryOp(n, n.Op, left, right)
}
