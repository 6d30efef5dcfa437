package ast

import (
	"fmt"
	"strings"

	"github.com/Victra-Studio/privvy/internal/token"
)

func (*NumberLiteral) expressionNode()  {}
func (*StringLiteral) expressionNode()  {}
func (*BooleanLiteral) expressionNode() {}
func (*NullLiteral) expressionNode()    {}
func (*Identifier) expressionNode()     {}
func (*ThisExpression) expressionNode() {}
func (*BinaryOp) expressionNode()       {}
func (*UnaryOp) expressionNode()        {}
func (*ArrayLiteral) expressionNode()   {}
func (*ArrayAccess) expressionNode()    {}
func (*MemberAccess) expressionNode()   {}
func (*FunctionCall) expressionNode()   {}
func (*NewExpression) expressionNode()  {}

// NumberLiteral is an integer or floating-point literal.
type NumberLiteral struct {
	Position token.Position
	IsFloat  bool
	IntVal   int64
	FloatVal float64
}

func (n *NumberLiteral) Pos() token.Position { return n.Position }
func (n *NumberLiteral) String() string {
	if n.IsFloat {
		return fmt.Sprintf("%v", n.FloatVal)
	}
	return fmt.Sprintf("%v", n.IntVal)
}

// StringLiteral is a quoted string literal with escapes already resolved.
type StringLiteral struct {
	Position token.Position
	Value    string
}

func (n *StringLiteral) Pos() token.Position { return n.Position }
func (n *StringLiteral) String() string      { return fmt.Sprintf("%q", n.Value) }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Position token.Position
	Value    bool
}

func (n *BooleanLiteral) Pos() token.Position { return n.Position }
func (n *BooleanLiteral) String() string      { return fmt.Sprintf("%v", n.Value) }

// NullLiteral is the `null` literal.
type NullLiteral struct {
	Position token.Position
}

func (n *NullLiteral) Pos() token.Position { return n.Position }
func (n *NullLiteral) String() string      { return "null" }

// Identifier is a bare name reference.
type Identifier struct {
	Position token.Position
	Name     string
}

func (n *Identifier) Pos() token.Position { return n.Position }
func (n *Identifier) String() string      { return n.Name }

// ThisExpression is the `this` keyword used inside methods/constructors.
type ThisExpression struct {
	Position token.Position
}

func (n *ThisExpression) Pos() token.Position { return n.Position }
func (n *ThisExpression) String() string      { return "this" }

// BinaryOp is a two-operand operator expression.
type BinaryOp struct {
	Position token.Position
	Left     Expression
	Op       string
	Right    Expression
}

func (n *BinaryOp) Pos() token.Position { return n.Position }
func (n *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// UnaryOp is a single-operand prefix operator expression.
type UnaryOp struct {
	Position token.Position
	Op       string
	Operand  Expression
}

func (n *UnaryOp) Pos() token.Position { return n.Position }
func (n *UnaryOp) String() string {
	if n.Op == "not" {
		return fmt.Sprintf("(not %s)", n.Operand.String())
	}
	return fmt.Sprintf("(%s%s)", n.Op, n.Operand.String())
}

// ArrayLiteral is an `[a, b, c]` expression.
type ArrayLiteral struct {
	Position token.Position
	Elements []Expression
}

func (n *ArrayLiteral) Pos() token.Position { return n.Position }
func (n *ArrayLiteral) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ArrayAccess is an `array[index]` expression.
type ArrayAccess struct {
	Position token.Position
	Array    Expression
	Index    Expression
}

func (n *ArrayAccess) Pos() token.Position { return n.Position }
func (n *ArrayAccess) String() string {
	return fmt.Sprintf("%s[%s]", n.Array.String(), n.Index.String())
}

// MemberAccess is an `object.propertyName` expression.
type MemberAccess struct {
	Position token.Position
	Object   Expression
	Property string
}

func (n *MemberAccess) Pos() token.Position { return n.Position }
func (n *MemberAccess) String() string {
	return fmt.Sprintf("%s.%s", n.Object.String(), n.Property)
}

// FunctionCall is a `callee(arguments...)` expression.
type FunctionCall struct {
	Position  token.Position
	Callee    Expression
	Arguments []Expression
}

func (n *FunctionCall) Pos() token.Position { return n.Position }
func (n *FunctionCall) String() string {
	parts := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee.String(), strings.Join(parts, ", "))
}

// NewExpression is a `new ClassName(arguments...)` expression.
type NewExpression struct {
	Position  token.Position
	ClassName string
	Arguments []Expression
}

func (n *NewExpression) Pos() token.Position { return n.Position }
func (n *NewExpression) String() string {
	parts := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("new %s(%s)", n.ClassName, strings.Join(parts, ", "))
}
