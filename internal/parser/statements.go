package parser

import (
	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case token.LET:
		return p.parseVarDecl()
	case token.FUN:
		return p.parseFunDecl()
	case token.CLASS:
		return p.parseClassDecl()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IMPORT, token.EXPORT:
		return nil, p.errf("'%s' is reserved and has no statement form", p.cur().Literal)
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses `{ statement* }`, tolerating newlines freely inside.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(token.LEFT_BRACE, "'{'"); err != nil {
		return nil, err
	}
	p.skipNewlines()

	var stmts []ast.Statement
	for !p.check(token.RIGHT_BRACE) {
		if p.check(token.EOF) {
			return nil, p.errf("unterminated block, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	p.advance() // consume '}'
	return stmts, nil
}

func (p *Parser) parseVarDecl() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // 'let'
	name, err := p.expect(token.IDENTIFIER, "identifier")
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDeclaration{Position: pos, Name: name.Literal}
	if p.match(token.ASSIGN) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Initializer = expr
	}
	return decl, nil
}

func (p *Parser) parseParameterList() ([]string, error) {
	if _, err := p.expect(token.LEFT_PAREN, "'('"); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(token.RIGHT_PAREN) {
		name, err := p.expect(token.IDENTIFIER, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, name.Literal)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFunDecl() (*ast.FunctionDeclaration, error) {
	pos := p.cur().Pos
	p.advance() // 'fun'
	name, err := p.expect(token.IDENTIFIER, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{Position: pos, Name: name.Literal, Parameters: params, Body: body}, nil
}

func (p *Parser) parseClassDecl() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // 'class'
	name, err := p.expect(token.IDENTIFIER, "class name")
	if err != nil {
		return nil, err
	}

	decl := &ast.ClassDeclaration{Position: pos, Name: name.Literal}
	if p.match(token.EXTENDS) {
		super, err := p.expect(token.IDENTIFIER, "superclass name")
		if err != nil {
			return nil, err
		}
		decl.SuperclassName = super.Literal
	}

	if _, err := p.expect(token.LEFT_BRACE, "'{'"); err != nil {
		return nil, err
	}
	p.skipNewlines()

	for !p.check(token.RIGHT_BRACE) {
		if p.check(token.EOF) {
			return nil, p.errf("unterminated class body, expected '}'")
		}
		switch p.cur().Type {
		case token.CONSTRUCTOR:
			cpos := p.cur().Pos
			p.advance()
			params, err := p.parseParameterList()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			decl.Constructor = &ast.FunctionDeclaration{Position: cpos, Parameters: params, Body: body}
		case token.FUN:
			method, err := p.parseFunDecl()
			if err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, method)
		default:
			return nil, p.errf("expected method or constructor in class body, got %s", p.cur().Type)
		}
		p.skipNewlines()
	}
	p.advance() // consume '}'
	return decl, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // 'if'
	if _, err := p.expect(token.LEFT_PAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Position: pos, Condition: cond, Then: then}

	// Allow newlines between '}' and a following 'else'.
	mark := p.mark()
	p.skipNewlines()
	if p.match(token.ELSE) {
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	} else {
		p.reset(mark)
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // 'while'
	if _, err := p.expect(token.LEFT_PAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Position: pos, Condition: cond, Body: body}, nil
}

func (p *Parser) parseForStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // 'for'
	if _, err := p.expect(token.LEFT_PAREN, "'('"); err != nil {
		return nil, err
	}

	stmt := &ast.ForStatement{Position: pos}

	if !p.check(token.SEMICOLON) {
		if p.check(token.LET) {
			init, err := p.parseVarDecl()
			if err != nil {
				return nil, err
			}
			stmt.Init = init
		} else {
			init, err := p.parseExpressionStatementNoTerm()
			if err != nil {
				return nil, err
			}
			stmt.Init = init
		}
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	if !p.check(token.SEMICOLON) {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Condition = cond
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	if !p.check(token.RIGHT_PAREN) {
		incr, err := p.parseExpressionStatementNoTerm()
		if err != nil {
			return nil, err
		}
		stmt.Increment = incr
	}
	if _, err := p.expect(token.RIGHT_PAREN, "')'"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // 'return'

	// `return` with no expression parses iff the next token is NEWLINE, '}', or EOF.
	if p.check(token.NEWLINE) || p.check(token.RIGHT_BRACE) || p.check(token.EOF) {
		return &ast.ReturnStatement{Position: pos}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Position: pos, Value: expr}, nil
}

// parseExpressionStatement parses either a bare expression or an assignment
// as a statement. It checks for no terminator afterwards: the caller's
// skipNewlines consumes any NEWLINE/';' that follows, and a next statement
// may also begin on the same line.
func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	return p.parseExpressionStatementNoTerm()
}

// parseExpressionStatementNoTerm is shared by the general statement parser
// and the `for` header; neither checks for a terminator.
func (p *Parser) parseExpressionStatementNoTerm() (ast.Statement, error) {
	pos := p.cur().Pos
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if assign, ok := expr.(*ast.Assignment); ok {
		return assign, nil
	}
	return &ast.ExpressionStatement{Position: pos, Expr: expr}, nil
}
