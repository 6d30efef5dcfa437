// Package privvy embeds the Privvy interpreter in a host Go program: compile
// and run scripts, capture their output, and expose Go functions to scripts
// via RegisterFunction.
package privvy

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/eval"
	"github.com/Victra-Studio/privvy/internal/hostdb"
	"github.com/Victra-Studio/privvy/internal/lexer"
	"github.com/Victra-Studio/privvy/internal/parser"
	"github.com/Victra-Studio/privvy/internal/runtime"
)

// Engine is an embeddable Privvy interpreter instance. Each Engine has its
// own global scope, so functions registered and variables defined on one
// Engine are invisible to another.
type Engine struct {
	ev     *eval.Evaluator
	output io.Writer // optional: additionally tee program output here
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithStdout tees program output (from print) to w in addition to being
// captured in each Result.Output.
func WithStdout(w io.Writer) EngineOption {
	return func(e *Engine) { e.output = w }
}

// WithMaxCallDepth overrides the recursion guard (see eval.DefaultMaxCallDepth).
func WithMaxCallDepth(n int) EngineOption {
	return func(e *Engine) { e.ev.SetMaxCallDepth(n) }
}

// WithDatabaseFactory overrides how the `Database(connStr)` builtin
// constructs its host object — by default hostdb.New, which dials a real
// sqlite/postgres connection; tests and sandboxes can substitute a fake.
func WithDatabaseFactory(factory eval.DatabaseFactory) EngineOption {
	return func(e *Engine) { e.ev.NewDatabase = factory }
}

// New creates an Engine with the Database/Model builtins wired to
// database/sql-backed implementations and the given options applied.
func New(opts ...EngineOption) (*Engine, error) {
	e := &Engine{ev: eval.New()}
	e.ev.NewDatabase = func(connStr string) (runtime.HostObject, error) {
		return hostdb.New(connStr)
	}
	e.ev.NewModel = func(table string, fields map[string]string) (runtime.HostObject, error) {
		return hostdb.NewModel(table, fields)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Program is a parsed script, ready to be Run any number of times.
type Program struct {
	ast *ast.Program
}

// Compile parses src without running it.
func (e *Engine) Compile(src string) (*Program, error) {
	p := parser.New(lexer.New(src))
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	return &Program{ast: prog}, nil
}

// Result is the outcome of running a Program.
type Result struct {
	// Output is everything the program printed during this run.
	Output string
	// Success is true when the program ran to completion without error.
	Success bool
}

// Run executes an already-compiled Program against the engine's global
// scope. Top-level declarations persist across Run calls on the same
// Engine, so a later script can call functions or use classes an earlier
// one defined.
func (e *Engine) Run(prog *Program) (*Result, error) {
	var buf bytes.Buffer
	if e.output != nil {
		e.ev.Stdout = io.MultiWriter(&buf, e.output)
	} else {
		e.ev.Stdout = &buf
	}

	err := e.ev.Run(prog.ast)
	return &Result{Output: buf.String(), Success: err == nil}, err
}

// Eval compiles and runs src in one step.
func (e *Engine) Eval(src string) (*Result, error) {
	prog, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return e.Run(prog)
}

// EvalFile reads path and evaluates its contents.
func (e *Engine) EvalFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return e.Eval(string(data))
}

// RegisterFunction exposes a Go function to scripts under name. fn must be a
// function value; its parameter and result types are marshaled to and from
// Privvy values with marshalToGo/marshalToPrivvy. fn may optionally return an
// error as its last result, which surfaces to the script as a runtime error.
func (e *Engine) RegisterFunction(name string, fn any) error {
	fnVal, fnType, err := checkFunc(fn)
	if err != nil {
		return fmt.Errorf("RegisterFunction(%q): %w", name, err)
	}

	e.ev.Global.Define(name, &runtime.NativeFunction{
		Name: name,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) != fnType.NumIn() {
				return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, fnType.NumIn(), len(args))
			}
			in := make([]any, fnType.NumIn())
			for i, a := range args {
				goVal, err := marshalToGo(a, fnType.In(i))
				if err != nil {
					return nil, fmt.Errorf("%s argument %d: %w", name, i+1, err)
				}
				in[i] = goVal
			}
			return callAndMarshal(fnVal, fnType, in)
		},
	})
	return nil
}
