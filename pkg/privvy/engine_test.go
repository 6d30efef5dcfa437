package privvy

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEvalCapturesOutput(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Eval(`print("hello")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !result.Success {
		t.Fatal("expected Success = true")
	}
	if result.Output != "hello\n" {
		t.Errorf("Output = %q, want %q", result.Output, "hello\n")
	}
}

func TestCompileOnceRunTwice(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := engine.Compile(`print("hi")`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	r1, err := engine.Run(prog)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	r2, err := engine.Run(prog)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if r1.Output != "hi\n" || r2.Output != "hi\n" {
		t.Errorf("r1.Output=%q r2.Output=%q, want both %q", r1.Output, r2.Output, "hi\n")
	}
}

func TestWithStdoutTeesOutput(t *testing.T) {
	var buf bytes.Buffer
	engine, err := New(WithStdout(&buf))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Eval(`print("captured")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if buf.String() != "captured\n" {
		t.Errorf("external writer got %q, want %q", buf.String(), "captured\n")
	}
	if result.Output != "captured\n" {
		t.Errorf("Result.Output = %q, want %q", result.Output, "captured\n")
	}
}

func TestGlobalStatePersistsAcrossEval(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Eval(`fun greet() { return "hi" }`); err != nil {
		t.Fatalf("first Eval: %v", err)
	}
	result, err := engine.Eval(`print(greet())`)
	if err != nil {
		t.Fatalf("second Eval: %v", err)
	}
	if result.Output != "hi\n" {
		t.Errorf("Output = %q, want %q", result.Output, "hi\n")
	}
}

func TestEvalReturnsErrorOnScriptFailure(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := engine.Eval(`print(undefinedName)`)
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
	if result.Success {
		t.Error("expected Success = false")
	}
}

func TestRegisterFunctionSimpleArithmetic(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := engine.RegisterFunction("add", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	result, err := engine.Eval(`print(add(40, 2))`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "42\n" {
		t.Errorf("Output = %q, want %q", result.Output, "42\n")
	}
}

func TestRegisterFunctionPropagatesError(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := engine.RegisterFunction("divide", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	}); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	_, err = engine.Eval(`print(divide(1, 0))`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("error = %v, want it to mention division by zero", err)
	}
}

func TestRegisterFunctionWithStringsAndSlices(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := engine.RegisterFunction("upper", strings.ToUpper); err != nil {
		t.Fatalf("RegisterFunction(upper): %v", err)
	}
	if err := engine.RegisterFunction("sum", func(nums []int64) int64 {
		var total int64
		for _, n := range nums {
			total += n
		}
		return total
	}); err != nil {
		t.Fatalf("RegisterFunction(sum): %v", err)
	}
	result, err := engine.Eval(`print(upper("hi")); print(sum([1, 2, 3]))`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.Output != "HI\n6\n" {
		t.Errorf("Output = %q, want %q", result.Output, "HI\n6\n")
	}
}

func TestRegisterFunctionRejectsNonFunction(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := engine.RegisterFunction("notAFunc", 42); err == nil {
		t.Fatal("expected an error registering a non-function value")
	}
}

func TestWithMaxCallDepthAppliesToEngine(t *testing.T) {
	engine, err := New(WithMaxCallDepth(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = engine.Eval(`fun loop() { return loop() } print(loop())`)
	if err == nil {
		t.Fatal("expected a max call depth error")
	}
}
