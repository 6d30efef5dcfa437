// Package eval implements the tree-walking evaluator: statement and
// expression dispatch over an *ast.Program, driven against a chain of
// *runtime.Environment scopes.
package eval

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/ifaces"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

// DefaultMaxCallDepth bounds user-function recursion so a runaway script
// fails with a reported error instead of exhausting the Go goroutine stack.
const DefaultMaxCallDepth = 1024

// DatabaseFactory constructs a host Database object from a connection
// string. It is supplied by the embedder (pkg/privvy, the REPL) so
// internal/eval never imports internal/hostdb directly; hostdb values reach
// the evaluator only as plain runtime.HostObjects.
type DatabaseFactory func(connStr string) (runtime.HostObject, error)

// ModelFactory constructs a host Model descriptor from a table name and a
// map of column name to column-definition string.
type ModelFactory func(table string, fields map[string]string) (runtime.HostObject, error)

// Evaluator walks a Program's AST against a global environment.
type Evaluator struct {
	Global *runtime.Environment
	Stdout io.Writer

	NewDatabase DatabaseFactory
	NewModel    ModelFactory

	maxCallDepth int
	callDepth    int
}

// New creates an Evaluator with builtins installed in a fresh global scope.
func New() *Evaluator {
	e := &Evaluator{
		Global:       runtime.NewEnvironment(),
		Stdout:       os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
	installBuiltins(e)
	return e
}

// SetMaxCallDepth overrides the recursion guard; values <= 0 are ignored.
func (e *Evaluator) SetMaxCallDepth(n int) {
	if n > 0 {
		e.maxCallDepth = n
	}
}

// Run evaluates prog's statements in sequence against the global scope. A
// `return` reaching here (outside any call) is a runtime error: there is no
// enclosing call frame to unwind to.
func (e *Evaluator) Run(prog *ast.Program) error {
	sig, err := e.execStatements(prog.Statements, e.Global)
	if err != nil {
		return err
	}
	if sig.returning {
		return valueErr(prog, "'return' outside of a function")
	}
	return nil
}

// RunStatement evaluates one already-parsed top-level statement, returning
// the expression value when stmt is an ExpressionStatement (used by the
// REPL to echo results).
func (e *Evaluator) RunStatement(stmt ast.Statement) (runtime.Value, error) {
	if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok {
		return e.evalExpr(exprStmt.Expr, e.Global)
	}
	sig, err := e.execStatement(stmt, e.Global)
	if err != nil {
		return nil, err
	}
	if sig.returning {
		return nil, valueErr(stmt, "'return' outside of a function")
	}
	return nil, nil
}

func typeErr(node ast.Node, format string, args ...any) error {
	return ifaces.NewTypeErrorf(ifaces.PositionFromNode(node), ifaces.ExpressionFromNode(node), format, args...)
}

func nameErr(node ast.Node, format string, args ...any) error {
	return ifaces.NewNameErrorf(ifaces.PositionFromNode(node), ifaces.ExpressionFromNode(node), format, args...)
}

func valueErr(node ast.Node, format string, args ...any) error {
	return ifaces.NewValueErrorf(ifaces.PositionFromNode(node), ifaces.ExpressionFromNode(node), format, args...)
}

// print formats args space-separated, followed by a terminator line — the
// same shape regardless of how many strings happen to be in the list, which
// fmt.Fprint would not give (it only adds a space between two operands when
// neither is a string).
func (e *Evaluator) print(args []runtime.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(e.Stdout, strings.Join(parts, " "))
}
