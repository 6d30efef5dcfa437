package parser

import (
	"testing"

	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/ifaces"
	"github.com/Victra-Studio/privvy/internal/lexer"
)

func testParser(t *testing.T, input string) *Parser {
	t.Helper()
	return New(lexer.New(input))
}

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := testParser(t, input)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", input, err)
	}
	return prog
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"integer", "42"},
		{"float", "3.14"},
		{"string", `"hello"`},
		{"true", "true"},
		{"false", "false"},
		{"null", "null"},
		{"this", "this"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseProgram(t, tt.input)
			if len(prog.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(prog.Statements))
			}
			if _, ok := prog.Statements[0].(*ast.ExpressionStatement); !ok {
				t.Fatalf("statement is %T, want *ast.ExpressionStatement", prog.Statements[0])
			}
		})
	}
}

func TestParseNumberLiteralValues(t *testing.T) {
	prog := parseProgram(t, "42")
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	lit, ok := stmt.Expr.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("expr is %T, want *ast.NumberLiteral", stmt.Expr)
	}
	if lit.IsFloat || lit.IntVal != 42 {
		t.Errorf("got IsFloat=%v IntVal=%d, want IsFloat=false IntVal=42", lit.IsFloat, lit.IntVal)
	}

	prog = parseProgram(t, "3.5")
	stmt = prog.Statements[0].(*ast.ExpressionStatement)
	lit = stmt.Expr.(*ast.NumberLiteral)
	if !lit.IsFloat || lit.FloatVal != 3.5 {
		t.Errorf("got IsFloat=%v FloatVal=%v, want IsFloat=true FloatVal=3.5", lit.IsFloat, lit.FloatVal)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 + 2 + 3", "((1 + 2) + 3)"},
		{"1 < 2 == true", "((1 < 2) == true)"},
		{"not true and false", "((not true) and false)"},
		{"1 + 2 == 3 or 4 < 5", "(((1 + 2) == 3) or (4 < 5))"},
		{"-1 + 2", "((-1) + 2)"},
		{"!true", "(!true)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := parseProgram(t, tt.input)
			stmt := prog.Statements[0].(*ast.ExpressionStatement)
			if got := stmt.Expr.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	prog := parseProgram(t, "a = b = 1")
	stmt := prog.Statements[0].(*ast.Assignment)
	inner, ok := stmt.Value.(*ast.Assignment)
	if !ok {
		t.Fatalf("value is %T, want *ast.Assignment", stmt.Value)
	}
	if _, ok := inner.Value.(*ast.NumberLiteral); !ok {
		t.Fatalf("inner value is %T, want *ast.NumberLiteral", inner.Value)
	}
}

func TestParseCallMemberIndexChain(t *testing.T) {
	prog := parseProgram(t, `obj.items[0].name()`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)

	call, ok := stmt.Expr.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("outer expr is %T, want *ast.FunctionCall", stmt.Expr)
	}
	member, ok := call.Callee.(*ast.MemberAccess)
	if !ok || member.Property != "name" {
		t.Fatalf("callee is %#v, want MemberAccess{Property: name}", call.Callee)
	}
	access, ok := member.Object.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("member object is %T, want *ast.ArrayAccess", member.Object)
	}
	inner, ok := access.Array.(*ast.MemberAccess)
	if !ok || inner.Property != "items" {
		t.Fatalf("array is %#v, want MemberAccess{Property: items}", access.Array)
	}
	if _, ok := inner.Object.(*ast.Identifier); !ok {
		t.Fatalf("innermost object is %T, want *ast.Identifier", inner.Object)
	}
}

func TestParseNewExpression(t *testing.T) {
	prog := parseProgram(t, `new Point(1, 2)`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	n, ok := stmt.Expr.(*ast.NewExpression)
	if !ok {
		t.Fatalf("expr is %T, want *ast.NewExpression", stmt.Expr)
	}
	if n.ClassName != "Point" || len(n.Arguments) != 2 {
		t.Fatalf("got ClassName=%q len(Arguments)=%d, want Point/2", n.ClassName, len(n.Arguments))
	}
}

func TestParseArrayLiteral(t *testing.T) {
	prog := parseProgram(t, `[1, 2, 3]`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	arr, ok := stmt.Expr.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expr is %T, want *ast.ArrayLiteral", stmt.Expr)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(arr.Elements))
	}

	empty := parseProgram(t, `[]`).Statements[0].(*ast.ExpressionStatement).Expr.(*ast.ArrayLiteral)
	if len(empty.Elements) != 0 {
		t.Fatalf("got %d elements for empty literal, want 0", len(empty.Elements))
	}
}

func TestParseVarDeclaration(t *testing.T) {
	prog := parseProgram(t, "let x = 1 + 2")
	decl, ok := prog.Statements[0].(*ast.VarDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarDeclaration", prog.Statements[0])
	}
	if decl.Name != "x" || decl.Initializer == nil {
		t.Fatalf("got Name=%q Initializer=%v", decl.Name, decl.Initializer)
	}

	bare := parseProgram(t, "let y").Statements[0].(*ast.VarDeclaration)
	if bare.Initializer != nil {
		t.Fatalf("got Initializer=%v, want nil", bare.Initializer)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog := parseProgram(t, "fun add(a, b) {\n  return a + b\n}")
	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionDeclaration", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Parameters) != 2 || len(fn.Body) != 1 {
		t.Fatalf("got Name=%q Parameters=%v len(Body)=%d", fn.Name, fn.Parameters, len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ast.ReturnStatement); !ok {
		t.Fatalf("body[0] is %T, want *ast.ReturnStatement", fn.Body[0])
	}
}

func TestParseClassDeclaration(t *testing.T) {
	src := `
class Animal {
  constructor(name) {
    this.name = name
  }

  fun speak() {
    return this.name
  }
}

class Dog extends Animal {
  fun bark() {
    return "woof"
  }
}
`
	prog := parseProgram(t, src)
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Statements))
	}

	animal := prog.Statements[0].(*ast.ClassDeclaration)
	if animal.Name != "Animal" || animal.SuperclassName != "" {
		t.Fatalf("got Name=%q SuperclassName=%q", animal.Name, animal.SuperclassName)
	}
	if animal.Constructor == nil || len(animal.Constructor.Parameters) != 1 {
		t.Fatalf("constructor = %#v, want 1 parameter", animal.Constructor)
	}
	if len(animal.Methods) != 1 || animal.Methods[0].Name != "speak" {
		t.Fatalf("methods = %#v, want [speak]", animal.Methods)
	}

	dog := prog.Statements[1].(*ast.ClassDeclaration)
	if dog.SuperclassName != "Animal" {
		t.Fatalf("got SuperclassName=%q, want Animal", dog.SuperclassName)
	}
}

func TestParseIfElseAcrossBlankLines(t *testing.T) {
	src := "if (x) {\n  let a = 1\n}\n\n\nelse {\n  let b = 2\n}"
	prog := parseProgram(t, src)
	stmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.IfStatement", prog.Statements[0])
	}
	if stmt.Else == nil {
		t.Fatalf("Else is nil, want a trailing else block to be found across blank lines")
	}
}

func TestParseIfWithoutElseDoesNotConsumeFollowingStatement(t *testing.T) {
	src := "if (x) {\n  let a = 1\n}\n\nlet b = 2"
	prog := parseProgram(t, src)
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Statements))
	}
	ifStmt := prog.Statements[0].(*ast.IfStatement)
	if ifStmt.Else != nil {
		t.Fatalf("Else = %v, want nil", ifStmt.Else)
	}
	if _, ok := prog.Statements[1].(*ast.VarDeclaration); !ok {
		t.Fatalf("statement[1] is %T, want *ast.VarDeclaration", prog.Statements[1])
	}
}

func TestParseWhileStatement(t *testing.T) {
	prog := parseProgram(t, "while (i < 10) {\n  i = i + 1\n}")
	stmt, ok := prog.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.WhileStatement", prog.Statements[0])
	}
	if len(stmt.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(stmt.Body))
	}
}

func TestParseForStatement(t *testing.T) {
	prog := parseProgram(t, "for (let i = 0; i < 10; i = i + 1) {\n  print(i)\n}")
	stmt, ok := prog.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ForStatement", prog.Statements[0])
	}
	if stmt.Init == nil || stmt.Condition == nil || stmt.Increment == nil {
		t.Fatalf("got Init=%v Condition=%v Increment=%v, want all non-nil", stmt.Init, stmt.Condition, stmt.Increment)
	}
	if _, ok := stmt.Init.(*ast.VarDeclaration); !ok {
		t.Fatalf("Init is %T, want *ast.VarDeclaration", stmt.Init)
	}
}

func TestParseForStatementOptionalClauses(t *testing.T) {
	prog := parseProgram(t, "for (;;) {\n  break_out = true\n}")
	stmt := prog.Statements[0].(*ast.ForStatement)
	if stmt.Init != nil || stmt.Condition != nil || stmt.Increment != nil {
		t.Fatalf("got non-nil clause in all-empty for-header: %#v", stmt)
	}
}

func TestParseReturnStatement(t *testing.T) {
	prog := parseProgram(t, "fun f() {\n  return\n}")
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.ReturnStatement", fn.Body[0])
	}
	if ret.Value != nil {
		t.Fatalf("Value = %v, want nil for bare return", ret.Value)
	}

	prog = parseProgram(t, "fun g() {\n  return 1 + 2\n}")
	fn = prog.Statements[0].(*ast.FunctionDeclaration)
	ret = fn.Body[0].(*ast.ReturnStatement)
	if ret.Value == nil {
		t.Fatalf("Value is nil, want a parsed expression")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated block", "if (x) {\n  let a = 1"},
		{"missing paren", "if x) {\n}"},
		{"bad primary", "let x = )"},
		{"reserved import statement", "import"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParser(t, tt.input)
			if _, err := p.ParseProgram(); err == nil {
				t.Fatalf("expected a parse error, got none")
			}
		})
	}
}

func TestParseErrorsAreInterpreterErrors(t *testing.T) {
	p := testParser(t, "let x = )")
	_, err := p.ParseProgram()
	if err == nil {
		t.Fatalf("expected a parse error, got none")
	}
	ie, ok := err.(*ifaces.InterpreterError)
	if !ok {
		t.Fatalf("error type = %T, want *ifaces.InterpreterError", err)
	}
	if ie.Category != ifaces.CategorySyntactic {
		t.Fatalf("Category = %s, want Syntactic", ie.Category)
	}
}

func TestLexicalErrorDuringParsingIsLexicalCategory(t *testing.T) {
	p := testParser(t, `let x = "never closed`)
	_, err := p.ParseProgram()
	if err == nil {
		t.Fatalf("expected an error, got none")
	}
	ie, ok := err.(*ifaces.InterpreterError)
	if !ok {
		t.Fatalf("error type = %T, want *ifaces.InterpreterError", err)
	}
	if ie.Category != ifaces.CategoryLexical {
		t.Fatalf("Category = %s, want Lexical", ie.Category)
	}
}
