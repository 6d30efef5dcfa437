package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Victra-Studio/privvy/internal/lexer"
	"github.com/Victra-Studio/privvy/internal/parser"
)

// runSource parses and evaluates src against a fresh Evaluator, returning
// whatever was written to stdout.
func runSource(t *testing.T, src string) (string, error) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var out bytes.Buffer
	e := New()
	e.Stdout = &out
	err = e.Run(prog)
	return out.String(), err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, err := runSource(t, src)
	if err != nil {
		t.Fatalf("unexpected error running %q: %v", src, err)
	}
	return out
}

func TestClosureCounter(t *testing.T) {
	out := mustRun(t, `
fun makeCounter() { let n = 0; fun inc() { n = n + 1; return n } return inc }
let c = makeCounter(); print(c()); print(c()); print(c())
`)
	if out != "1\n2\n3\n" {
		t.Errorf("got %q", out)
	}
}

func TestSingleInheritanceAndThis(t *testing.T) {
	out := mustRun(t, `
class A { fun name() { return "A" } }
class B extends A { fun name() { return "B/" + this.name2() } fun name2() { return "x" } }
print((new B()).name())
`)
	if out != "B/x\n" {
		t.Errorf("got %q", out)
	}
}

func TestShortCircuitValuePreservingOr(t *testing.T) {
	out := mustRun(t, `print(0 or "fallback"); print("kept" or "ignored"); print(null or false)`)
	if out != "fallback\nkept\nfalse\n" {
		t.Errorf("got %q", out)
	}
}

func TestAndShortCircuitsAndReturnsBoolean(t *testing.T) {
	out := mustRun(t, `print(0 and explode()); print(1 and 2)`)
	if out != "false\ntrue\n" {
		t.Errorf("got %q", out)
	}
}

func TestForLoopScoping(t *testing.T) {
	out := mustRun(t, `for (let i = 0; i < 3; i = i + 1) { print(i) }`)
	if out != "0\n1\n2\n" {
		t.Errorf("got %q", out)
	}

	_, err := runSource(t, `for (let i = 0; i < 3; i = i + 1) { print(i) } print(i)`)
	if err == nil {
		t.Fatal("expected a name error referencing i after the loop")
	}
}

func TestArrayAndMapMutation(t *testing.T) {
	out := mustRun(t, `
let a = [1,2,3]; a[1] = 99; print(a[0]); print(a[1]); print(len(a))
let d = dict(["k", 10]); print(d["k"])
`)
	if out != "1\n99\n3\n10\n" {
		t.Errorf("got %q", out)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := runSource(t, `print(1/0)`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Errorf("error = %v, want it to mention division by zero", err)
	}
}

func TestReturnOutsideFunctionIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `return 1`)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestIntStrRoundTrip(t *testing.T) {
	out := mustRun(t, `print(int(str(42)) == 42)`)
	if out != "true\n" {
		t.Errorf("got %q", out)
	}
}

func TestDictRoundTrip(t *testing.T) {
	out := mustRun(t, `let d = dict(["k", "v"]); print(d["k"] == "v")`)
	if out != "true\n" {
		t.Errorf("got %q", out)
	}
}

func TestUndefinedVariableIsNameError(t *testing.T) {
	_, err := runSource(t, `print(nope)`)
	if err == nil {
		t.Fatal("expected a name error")
	}
}

func TestAssignmentToUnboundNameFails(t *testing.T) {
	_, err := runSource(t, `x = 1`)
	if err == nil {
		t.Fatal("expected a name error")
	}
}

func TestArrayOutOfBoundsIsValueError(t *testing.T) {
	_, err := runSource(t, `let a = [1]; print(a[5])`)
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestMixedStringNumberAdditionIsTypeError(t *testing.T) {
	_, err := runSource(t, `print("x" + 1)`)
	if err == nil {
		t.Fatal("expected a type error")
	}
}

func TestNewOnNonClassFails(t *testing.T) {
	_, err := runSource(t, `let x = 1; new x()`)
	if err == nil {
		t.Fatal("expected a type error")
	}
}

func TestMethodBindingEquivalence(t *testing.T) {
	out := mustRun(t, `
class Greeter {
  constructor(name) { this.name = name }
  fun greet() { return "hi " + this.name }
}
let g = new Greeter("sam")
let bound = g.greet
print(bound())
`)
	if out != "hi sam\n" {
		t.Errorf("got %q", out)
	}
}

func TestConstructorReturnIsIgnored(t *testing.T) {
	out := mustRun(t, `
class C {
  constructor() { this.tag = "ok"; return 999 }
}
let c = new C()
print(c.tag)
`)
	if out != "ok\n" {
		t.Errorf("got %q", out)
	}
}

func TestFieldShadowsMethodForReads(t *testing.T) {
	out := mustRun(t, `
class C {
  fun greet() { return "method" }
}
let c = new C()
c.greet = "field"
print(c.greet)
`)
	if out != "field\n" {
		t.Errorf("got %q", out)
	}
}

func TestMixedIntFloatArithmeticPromotesToFloat(t *testing.T) {
	out := mustRun(t, `print(1 + 2.5)`)
	if out != "3.5\n" {
		t.Errorf("got %q", out)
	}
}

func TestNumericAndStringComparison(t *testing.T) {
	out := mustRun(t, `print(1 < 2); print("a" < "b"); print(2 >= 2)`)
	if out != "true\ntrue\ntrue\n" {
		t.Errorf("got %q", out)
	}
}

func TestPrintSpaceSeparatesMultipleStringArguments(t *testing.T) {
	out := mustRun(t, `print("a", "b", "c")`)
	if out != "a b c\n" {
		t.Errorf("got %q", out)
	}
}

func TestMaxCallDepthGuardsAgainstRunawayRecursion(t *testing.T) {
	p := parser.New(lexer.New(`fun loop() { return loop() } print(loop())`))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	e := New()
	e.SetMaxCallDepth(16)
	var out bytes.Buffer
	e.Stdout = &out
	if err := e.Run(prog); err == nil {
		t.Fatal("expected a max call depth error")
	}
}
