// Package ast defines the Privvy abstract syntax tree node types.
package ast

import (
	"strings"

	"github.com/Victra-Studio/privvy/internal/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	// Pos returns the source position of the node's leading token.
	Pos() token.Position
	// String renders the node for debugging and tests.
	String() string
}

// Expression is any node that produces a value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: a sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
