package eval

import (
	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

// execStatements runs stmts in order, stopping at the first error or the
// first `return` signal.
func (e *Evaluator) execStatements(stmts []ast.Statement, env *runtime.Environment) (signal, error) {
	for _, stmt := range stmts {
		sig, err := e.execStatement(stmt, env)
		if err != nil {
			return noSignal, err
		}
		if sig.returning {
			return sig, nil
		}
	}
	return noSignal, nil
}

// execBlock runs stmts in a fresh child scope of env — the scope every
// block (if/while/for body, function body) evaluates in.
func (e *Evaluator) execBlock(stmts []ast.Statement, env *runtime.Environment) (signal, error) {
	return e.execStatements(stmts, runtime.NewEnclosedEnvironment(env))
}

func (e *Evaluator) execStatement(stmt ast.Statement, env *runtime.Environment) (signal, error) {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := e.evalExpr(n.Expr, env)
		return noSignal, err

	case *ast.VarDeclaration:
		val := runtime.Value(runtime.Nil)
		if n.Initializer != nil {
			v, err := e.evalExpr(n.Initializer, env)
			if err != nil {
				return noSignal, err
			}
			val = v
		}
		env.Define(n.Name, val)
		return noSignal, nil

	case *ast.FunctionDeclaration:
		env.Define(n.Name, &runtime.Function{Decl: n, Env: env})
		return noSignal, nil

	case *ast.ClassDeclaration:
		return noSignal, e.execClassDeclaration(n, env)

	case *ast.Assignment:
		_, err := e.evalAssignment(n, env)
		return noSignal, err

	case *ast.IfStatement:
		return e.execIfStatement(n, env)

	case *ast.WhileStatement:
		return e.execWhileStatement(n, env)

	case *ast.ForStatement:
		return e.execForStatement(n, env)

	case *ast.ReturnStatement:
		val := runtime.Value(runtime.Nil)
		if n.Value != nil {
			v, err := e.evalExpr(n.Value, env)
			if err != nil {
				return noSignal, err
			}
			val = v
		}
		return signal{returning: true, value: val}, nil

	default:
		return noSignal, typeErr(stmt, "cannot execute statement of type %T", stmt)
	}
}

func (e *Evaluator) execClassDeclaration(n *ast.ClassDeclaration, env *runtime.Environment) error {
	class := &runtime.Class{
		Name:    n.Name,
		Methods: make(map[string]*ast.FunctionDeclaration, len(n.Methods)),
		Env:     env,
	}

	if n.SuperclassName != "" {
		superVal, ok := env.Get(n.SuperclassName)
		if !ok {
			return nameErr(n, "undefined superclass %q", n.SuperclassName)
		}
		super, ok := superVal.(*runtime.Class)
		if !ok {
			return typeErr(n, "%q is not a class", n.SuperclassName)
		}
		class.Superclass = super
	}

	if n.Constructor != nil {
		class.Constructor = n.Constructor
	}
	for _, m := range n.Methods {
		class.Methods[m.Name] = m
	}

	env.Define(n.Name, class)
	return nil
}

func (e *Evaluator) execIfStatement(n *ast.IfStatement, env *runtime.Environment) (signal, error) {
	cond, err := e.evalExpr(n.Condition, env)
	if err != nil {
		return noSignal, err
	}
	if runtime.Truthy(cond) {
		return e.execBlock(n.Then, env)
	}
	if n.Else != nil {
		return e.execBlock(n.Else, env)
	}
	return noSignal, nil
}

func (e *Evaluator) execWhileStatement(n *ast.WhileStatement, env *runtime.Environment) (signal, error) {
	for {
		cond, err := e.evalExpr(n.Condition, env)
		if err != nil {
			return noSignal, err
		}
		if !runtime.Truthy(cond) {
			return noSignal, nil
		}
		sig, err := e.execBlock(n.Body, env)
		if err != nil {
			return noSignal, err
		}
		if sig.returning {
			return sig, nil
		}
	}
}

// execForStatement implements the semantics of spec.md §4.3: the initializer
// runs once in a loop-private scope L; each iteration evaluates the
// condition in L, runs the body in a fresh child of L, then evaluates the
// increment in L.
func (e *Evaluator) execForStatement(n *ast.ForStatement, env *runtime.Environment) (signal, error) {
	loopEnv := runtime.NewEnclosedEnvironment(env)

	if n.Init != nil {
		if _, err := e.execStatement(n.Init, loopEnv); err != nil {
			return noSignal, err
		}
	}

	for {
		if n.Condition != nil {
			cond, err := e.evalExpr(n.Condition, loopEnv)
			if err != nil {
				return noSignal, err
			}
			if !runtime.Truthy(cond) {
				return noSignal, nil
			}
		}

		sig, err := e.execBlock(n.Body, loopEnv)
		if err != nil {
			return noSignal, err
		}
		if sig.returning {
			return sig, nil
		}

		if n.Increment != nil {
			if _, err := e.execStatement(n.Increment, loopEnv); err != nil {
				return noSignal, err
			}
		}
	}
}
