// Package parser implements the recursive-descent parser that turns a
// Privvy token stream into an *ast.Program.
package parser

import (
	"github.com/Victra-Studio/privvy/internal/ast"
	"github.com/Victra-Studio/privvy/internal/ifaces"
	"github.com/Victra-Studio/privvy/internal/lexer"
	"github.com/Victra-Studio/privvy/internal/token"
)

// Parser is a recursive-descent parser over a fully buffered token stream.
// Buffering the whole stream up front (scripts are small) lets statement
// forms like `if/else` look arbitrarily far past blank lines for a trailing
// `else` and cheaply roll back when it isn't there, without needing the
// lexer itself to support backtracking.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a Parser over l's token stream. If l produces a lexical
// error, ParseProgram surfaces it as the first parse error.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{}
	for {
		tok, err := l.NextToken()
		if err != nil {
			msg, pos := err.Error(), tok.Pos
			if ie, ok := err.(*ifaces.InterpreterError); ok {
				msg = ie.Message
				if ie.Pos != nil {
					pos = *ie.Pos
				}
			}
			p.tokens = append(p.tokens, token.Token{Type: token.ILLEGAL, Literal: msg, Pos: pos})
			break
		}
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return p
}

// ParseProgram parses the entire token stream into a Program. It returns the
// first syntactic error encountered, if any; the returned Program may be
// partially built in that case and should not be evaluated.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.check(token.EOF) {
		if p.check(token.ILLEGAL) {
			pos := p.cur().Pos
			return prog, ifaces.NewLexicalErrorf(&pos, "", "%s", p.cur().Literal)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return prog, err
		}
		prog.Statements = append(prog.Statements, stmt)
		p.skipNewlines()
	}
	return prog, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// mark/reset support the single backtrack parseIfStatement needs to look
// past blank lines for a trailing `else`.
func (p *Parser) mark() int   { return p.pos }
func (p *Parser) reset(m int) { p.pos = m }

// skipNewlines consumes statement terminators between statements: NEWLINE
// and, since semicolons are an optional statement separator everywhere
// except a `for` header (spec.md §6.1), SEMICOLON. The `for` header parses
// its own semicolons directly via expect(token.SEMICOLON) without going
// through this helper, so the two never conflict.
func (p *Parser) skipNewlines() {
	for p.cur().Type == token.NEWLINE || p.cur().Type == token.SEMICOLON {
		p.advance()
	}
}

func (p *Parser) check(k token.Kind) bool {
	return p.cur().Type == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if p.check(token.ILLEGAL) {
		pos := p.cur().Pos
		return token.Token{}, ifaces.NewLexicalErrorf(&pos, "", "%s", p.cur().Literal)
	}
	if !p.check(k) {
		pos := p.cur().Pos
		return token.Token{}, ifaces.NewSyntacticErrorf(&pos, "", "expected %s, got %s", what, p.cur().Type)
	}
	tok := p.cur()
	p.advance()
	return tok, nil
}

func (p *Parser) errf(format string, args ...any) error {
	pos := p.cur().Pos
	return ifaces.NewSyntacticErrorf(&pos, "", format, args...)
}
