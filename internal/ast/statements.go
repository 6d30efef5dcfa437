package ast

import (
	"fmt"
	"strings"

	"github.com/Victra-Studio/privvy/internal/token"
)

func (*VarDeclaration) statementNode()      {}
func (*FunctionDeclaration) statementNode() {}
func (*ClassDeclaration) statementNode()    {}
func (*Assignment) statementNode()          {}
func (*IfStatement) statementNode()         {}
func (*WhileStatement) statementNode()      {}
func (*ForStatement) statementNode()        {}
func (*ReturnStatement) statementNode()     {}
func (*ExpressionStatement) statementNode() {}

// Assignment is also an expression: the grammar parses it inside
// parseExpression so that `a = b = 1` nests right-associatively.
func (*Assignment) expressionNode() {}

// ExpressionStatement wraps an expression evaluated for its side effects
// (or, at REPL top level, for its printable result).
type ExpressionStatement struct {
	Position token.Position
	Expr     Expression
}

func (n *ExpressionStatement) Pos() token.Position { return n.Position }
func (n *ExpressionStatement) String() string      { return n.Expr.String() }

// VarDeclaration is `let name [= initializer]`.
type VarDeclaration struct {
	Position    token.Position
	Name        string
	Initializer Expression // nil if absent
}

func (n *VarDeclaration) Pos() token.Position { return n.Position }
func (n *VarDeclaration) String() string {
	if n.Initializer != nil {
		return fmt.Sprintf("let %s = %s", n.Name, n.Initializer.String())
	}
	return fmt.Sprintf("let %s", n.Name)
}

// FunctionDeclaration is `fun name(parameters) { body }`, also used for
// class methods and constructors (Name is "" for a constructor).
type FunctionDeclaration struct {
	Position   token.Position
	Name       string
	Parameters []string
	Body       []Statement
}

func (n *FunctionDeclaration) Pos() token.Position { return n.Position }
func (n *FunctionDeclaration) String() string {
	return fmt.Sprintf("fun %s(%s) { ... }", n.Name, strings.Join(n.Parameters, ", "))
}

// ClassDeclaration is `class Name [extends Super] { constructor?; methods* }`.
type ClassDeclaration struct {
	Position       token.Position
	Name           string
	SuperclassName string // "" if absent
	Constructor    *FunctionDeclaration
	Methods        []*FunctionDeclaration
}

func (n *ClassDeclaration) Pos() token.Position { return n.Position }
func (n *ClassDeclaration) String() string {
	if n.SuperclassName != "" {
		return fmt.Sprintf("class %s extends %s { ... }", n.Name, n.SuperclassName)
	}
	return fmt.Sprintf("class %s { ... }", n.Name)
}

// Assignment is `target = value` where target is Identifier | MemberAccess | ArrayAccess.
type Assignment struct {
	Position token.Position
	Target   Expression
	Value    Expression
}

func (n *Assignment) Pos() token.Position { return n.Position }
func (n *Assignment) String() string {
	return fmt.Sprintf("%s = %s", n.Target.String(), n.Value.String())
}

// IfStatement is `if (cond) { then } [else { else }]`.
type IfStatement struct {
	Position  token.Position
	Condition Expression
	Then      []Statement
	Else      []Statement // nil if absent
}

func (n *IfStatement) Pos() token.Position { return n.Position }
func (n *IfStatement) String() string {
	if n.Else != nil {
		return fmt.Sprintf("if (%s) { ... } else { ... }", n.Condition.String())
	}
	return fmt.Sprintf("if (%s) { ... }", n.Condition.String())
}

// WhileStatement is `while (cond) { body }`.
type WhileStatement struct {
	Position  token.Position
	Condition Expression
	Body      []Statement
}

func (n *WhileStatement) Pos() token.Position { return n.Position }
func (n *WhileStatement) String() string {
	return fmt.Sprintf("while (%s) { ... }", n.Condition.String())
}

// ForStatement is `for (init; cond; incr) { body }`, any clause may be nil.
type ForStatement struct {
	Position  token.Position
	Init      Statement // VarDeclaration, Assignment or ExpressionStatement, or nil
	Condition Expression
	Increment Statement // Assignment or ExpressionStatement, or nil
	Body      []Statement
}

func (n *ForStatement) Pos() token.Position { return n.Position }
func (n *ForStatement) String() string {
	return "for (...) { ... }"
}

// ReturnStatement is `return [value]`.
type ReturnStatement struct {
	Position token.Position
	Value    Expression // nil if bare `return`
}

func (n *ReturnStatement) Pos() token.Position { return n.Position }
func (n *ReturnStatement) String() string {
	if n.Value != nil {
		return fmt.Sprintf("return %s", n.Value.String())
	}
	return "return"
}
