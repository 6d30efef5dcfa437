package parser

import (
	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/ifaces"
	"github.com/Victra-Studio/privvy/internal/token"
)

// parseExpression is the entry point of the precedence-climbing grammar:
//
//	expr := assignment
//	assignment := or [ '=' assignment ]          // right-associative
//	or  := and  { 'or'  and }
//	and := eq   { 'and' eq }
//	eq  := cmp  { ('=='|'!=') cmp }
//	cmp := add  { ('<'|'<='|'>'|'>=') add }
//	add := mul  { ('+'|'-') mul }
//	mul := unary{ ('*'|'/'|'%') unary }
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.check(token.ASSIGN) {
		pos := p.cur().Pos
		p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		// The grammar accepts any expression on the left; the evaluator
		// rejects non-lvalue targets at evaluation time.
		return &ast.Assignment{Position: pos, Target: left, Value: value}, nil
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: pos, Left: left, Op: "or", Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: pos, Left: left, Op: "and", Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.EQUAL) || p.check(token.NOT_EQUAL) {
		op, pos := p.opText(), p.cur().Pos
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: pos, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(token.LESS_THAN) || p.check(token.LESS_EQUAL) || p.check(token.GREATER_THAN) || p.check(token.GREATER_EQUAL) {
		op, pos := p.opText(), p.cur().Pos
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: pos, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op, pos := p.opText(), p.cur().Pos
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: pos, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.MULTIPLY) || p.check(token.DIVIDE) || p.check(token.MODULO) {
		op, pos := p.opText(), p.cur().Pos
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: pos, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(token.MINUS) || p.check(token.NOT) {
		op, pos := p.opText(), p.cur().Pos
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Position: pos, Op: op, Operand: operand}, nil
	}
	return p.parseCall()
}

// opText returns the canonical operator spelling for the current token,
// used for both the binary-operator table key and AST debug output.
func (p *Parser) opText() string {
	switch p.cur().Type {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.MULTIPLY:
		return "*"
	case token.DIVIDE:
		return "/"
	case token.MODULO:
		return "%"
	case token.EQUAL:
		return "=="
	case token.NOT_EQUAL:
		return "!="
	case token.LESS_THAN:
		return "<"
	case token.LESS_EQUAL:
		return "<="
	case token.GREATER_THAN:
		return ">"
	case token.GREATER_EQUAL:
		return ">="
	case token.AND:
		return "and"
	case token.OR:
		return "or"
	default:
		return p.cur().Literal
	}
}

// parseCall handles postfix call/member/index chains:
//
//	call := primary { '(' args? ')' | '.' IDENT | '[' expr ']' }
func (p *Parser) parseCall() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.check(token.LEFT_PAREN):
			pos := p.cur().Pos
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.FunctionCall{Position: pos, Callee: expr, Arguments: args}
		case p.check(token.DOT):
			p.advance()
			name, err := p.expect(token.IDENTIFIER, "property name")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Position: name.Pos, Object: expr, Property: name.Literal}
		case p.check(token.LEFT_BRACKET):
			pos := p.cur().Pos
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RIGHT_BRACKET, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.ArrayAccess{Position: pos, Array: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if _, err := p.expect(token.LEFT_PAREN, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.check(token.RIGHT_PAREN) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary implements:
//
//	primary := NUMBER | STRING | 'true' | 'false' | 'null' | 'this'
//	         | 'new' IDENT '(' args? ')' | IDENT
//	         | '(' expr ')' | '[' [exprList] ']'
func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		return &ast.NumberLiteral{Position: tok.Pos, IsFloat: tok.IsFloat, IntVal: tok.NumInt, FloatVal: tok.NumFlt}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Position: tok.Pos, Value: tok.Literal}, nil
	case token.TRUE:
		p.advance()
		return &ast.BooleanLiteral{Position: tok.Pos, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Position: tok.Pos, Value: false}, nil
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Position: tok.Pos}, nil
	case token.THIS:
		p.advance()
		return &ast.ThisExpression{Position: tok.Pos}, nil
	case token.NEW:
		return p.parseNewExpression()
	case token.IDENTIFIER:
		p.advance()
		return &ast.Identifier{Position: tok.Pos, Name: tok.Literal}, nil
	case token.LEFT_PAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LEFT_BRACKET:
		return p.parseArrayLiteral()
	case token.ILLEGAL:
		return nil, ifaces.NewLexicalErrorf(&tok.Pos, "", "%s", tok.Literal)
	default:
		return nil, p.errf("unexpected token %s in expression", tok.Type)
	}
}

func (p *Parser) parseNewExpression() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // 'new'
	name, err := p.expect(token.IDENTIFIER, "class name")
	if err != nil {
		return nil, err
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	return &ast.NewExpression{Position: pos, ClassName: name.Literal, Arguments: args}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // '['
	var elems []ast.Expression
	for !p.check(token.RIGHT_BRACKET) {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RIGHT_BRACKET, "']'"); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Position: pos, Elements: elems}, nil
}
