// ----------------------------------------------------------------------------
// FILE: parser/parser.go
// ----------------------------------------------------------------------------
// PACKAGE: parser
// PURPOSE: Recursive-descent construction of the AST. Statements dispatch on
//          the leading token; a single expression rule folds `.` method
//          chains and infix operators over a primary. Per the specified
//          behavior, operator folding is flat left-to-right over OPERATOR
//          tokens — there is deliberately no `*`-before-`+` precedence.
// ----------------------------------------------------------------------------

package parser

import (
	"fmt"

	"lcore/ast"
	"lcore/lexer"
	"lcore/token"
)

var binaryOps = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true, "<": true, ">": true,
	"&&": true, "||": true,
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	errors []string
}

// New builds a Parser positioned on the lexer's first token.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Errors returns accumulated parse diagnostics, including any lexer errors.
func (p *Parser) Errors() []string {
	all := make([]string, 0, len(p.errors)+len(p.l.Errors))
	all = append(all, p.l.Errors...)
	all = append(all, p.errors...)
	return all
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.cur.Line, p.cur.Column, msg))
}

func (p *Parser) curIs(kind token.Kind, lexeme string) bool {
	return p.cur.Kind == kind && p.cur.Lexeme == lexeme
}

func (p *Parser) curKeyword(word string) bool {
	return p.cur.Kind == token.KEYWORD && p.cur.Lexeme == word
}

func (p *Parser) curSoft(word string) bool {
	return p.cur.Kind == token.IDENTIFIER && p.cur.Lexeme == word
}

// expect requires the current token to match kind+lexeme, consuming it on
// success; on failure it records an error and does not advance, so the
// caller's subsequent statement-boundary recovery can resynchronize.
func (p *Parser) expect(kind token.Kind, lexeme string) bool {
	if p.curIs(kind, lexeme) {
		p.advance()
		return true
	}
	p.errorf("expected %q, got %q", lexeme, p.cur.Lexeme)
	return false
}

func (p *Parser) expectSemicolon() {
	p.expect(token.PUNCTUATION, ";")
}

// ----------------------------------------------------------------------------
// Program / statements
// ----------------------------------------------------------------------------

// ParseProgram consumes the full token stream into a *ast.Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.curKeyword("if"):
		return p.parseIf()
	case p.curKeyword("while"):
		return p.parseWhile()
	case p.curKeyword("for"):
		return p.parseFor()
	case p.curKeyword("foreach"):
		return p.parseForeach()
	case p.curKeyword("fn"):
		return p.parseFuncDef()
	case p.curKeyword("return"):
		return p.parseReturn()
	case p.curKeyword("break"):
		return p.parseBreak()
	case p.curKeyword("continue"):
		return p.parseContinue()
	case p.curSoft("use"):
		return p.parseUse()
	case p.curSoft("watch"):
		return p.parseWatch()
	case p.cur.Kind == token.IDENTIFIER:
		return p.parseIdentifierLed()
	case p.cur.Kind == token.EOF:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseIdentifierLed disambiguates the three statement forms that begin
// with a bare identifier: a declaration/assignment, or an expression
// statement (function call, or the start of a method chain).
func (p *Parser) parseIdentifierLed() ast.Statement {
	if p.peek.Kind == token.PUNCTUATION && p.peek.Lexeme == ":" {
		return p.parseDeclaration()
	}
	if p.peek.Kind == token.OPERATOR && p.peek.Lexeme == "=" {
		return p.parseAssignment()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseDeclaration() ast.Statement {
	tok := p.cur
	name := p.cur.Lexeme
	p.advance()          // consume name
	p.expect(token.PUNCTUATION, ":")
	if p.cur.Kind != token.DATATYPE {
		p.errorf("expected type annotation, got %q", p.cur.Lexeme)
		return nil
	}
	declType := p.cur.Lexeme
	if declType == "void" {
		p.errorf("cannot use void as a variable type")
	}
	p.advance() // consume type
	if !p.expect(token.OPERATOR, "=") {
		return nil
	}
	value := p.parseExpression()
	p.expectSemicolon()
	return &ast.AssignStatement{Tok: tok, Name: name, DeclaredType: declType, Value: value}
}

func (p *Parser) parseAssignment() ast.Statement {
	tok := p.cur
	name := p.cur.Lexeme
	p.advance() // consume name
	if !p.expect(token.OPERATOR, "=") {
		return nil
	}
	value := p.parseExpression()
	p.expectSemicolon()
	return &ast.AssignStatement{Tok: tok, Name: name, Value: value}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression()
	p.expectSemicolon()
	return &ast.ExpressionStatement{Tok: tok, Expr: expr}
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	tok := p.cur
	if !p.expect(token.PUNCTUATION, "{") {
		return &ast.BlockStatement{Tok: tok}
	}
	block := &ast.BlockStatement{Tok: tok}
	for !p.curIs(token.PUNCTUATION, "}") && p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(token.PUNCTUATION, "}")
	return block
}

func (p *Parser) parseIf() *ast.IfStatement {
	tok := p.cur
	p.advance() // consume 'if'
	cond := p.parseExpression()
	body := p.parseBlock()
	stmt := &ast.IfStatement{Tok: tok, Condition: cond, Body: body}

	if p.curKeyword("else") {
		p.advance()
		if p.curKeyword("if") {
			nested := p.parseIf()
			stmt.Else = &ast.BlockStatement{Tok: nested.Tok, Statements: []ast.Statement{nested}}
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStatement {
	tok := p.cur
	p.advance() // consume 'while'
	cond := p.parseExpression()
	body := p.parseBlock()
	return &ast.WhileStatement{Tok: tok, Condition: cond, Body: body}
}

func (p *Parser) parseFor() *ast.ForStatement {
	tok := p.cur
	p.advance() // consume 'for'
	if p.cur.Kind != token.IDENTIFIER {
		p.errorf("expected loop variable name, got %q", p.cur.Lexeme)
	}
	varName := p.cur.Lexeme
	p.advance()
	if !p.curKeyword("in") {
		p.errorf("expected 'in', got %q", p.cur.Lexeme)
	} else {
		p.advance()
	}
	start := p.parseUnary()
	if p.cur.Kind != token.RANGE_OPERATOR {
		p.errorf("expected range operator, got %q", p.cur.Lexeme)
	}
	inclusive := p.cur.Lexeme == ".."
	p.advance()
	end := p.parseUnary()

	var step ast.Expression
	if p.curKeyword("by") {
		p.advance()
		step = p.parseUnary()
	}
	body := p.parseBlock()
	return &ast.ForStatement{
		Tok: tok, VarName: varName, VarType: "int",
		Start: start, End: end, Step: step, Inclusive: inclusive, Body: body,
	}
}

func (p *Parser) parseForeach() *ast.ForeachStatement {
	tok := p.cur
	p.advance() // consume 'foreach'
	if p.cur.Kind != token.IDENTIFIER {
		p.errorf("expected loop variable name, got %q", p.cur.Lexeme)
	}
	varName := p.cur.Lexeme
	p.advance()

	varType := ""
	if p.curIs(token.PUNCTUATION, ":") {
		p.advance()
		if p.cur.Kind != token.DATATYPE {
			p.errorf("expected type annotation, got %q", p.cur.Lexeme)
		} else {
			varType = p.cur.Lexeme
			p.advance()
		}
	} else {
		p.errorf("foreach requires a type annotation on %q", varName)
	}

	if !p.curKeyword("in") {
		p.errorf("expected 'in', got %q", p.cur.Lexeme)
	} else {
		p.advance()
	}
	iterable := p.parseExpression()
	body := p.parseBlock()
	return &ast.ForeachStatement{Tok: tok, VarName: varName, VarType: varType, Iterable: iterable, Body: body}
}

func (p *Parser) parseFuncDef() *ast.FuncDefStatement {
	tok := p.cur
	p.advance() // consume 'fn'
	if p.cur.Kind != token.IDENTIFIER {
		p.errorf("expected function name, got %q", p.cur.Lexeme)
	}
	name := p.cur.Lexeme
	p.advance()

	p.expect(token.PUNCTUATION, "(")
	var params []ast.Param
	if !p.curIs(token.PUNCTUATION, ")") {
		for {
			if p.cur.Kind != token.IDENTIFIER {
				p.errorf("expected parameter name, got %q", p.cur.Lexeme)
				break
			}
			pname := p.cur.Lexeme
			p.advance()
			p.expect(token.PUNCTUATION, ":")
			if p.cur.Kind != token.DATATYPE {
				p.errorf("expected parameter type for %q, got %q", pname, p.cur.Lexeme)
				break
			}
			params = append(params, ast.Param{Name: pname, Type: p.cur.Lexeme})
			p.advance()
			if p.curIs(token.PUNCTUATION, ",") {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.PUNCTUATION, ")")

	if p.cur.Kind != token.RETURN_TYPE {
		p.errorf("function %q requires a return type", name)
	} else {
		p.advance()
	}
	retType := "void"
	if p.cur.Kind != token.DATATYPE {
		p.errorf("expected return type, got %q", p.cur.Lexeme)
	} else {
		retType = p.cur.Lexeme
		p.advance()
	}

	fn := &ast.FunctionLiteral{Tok: tok, Name: name, Params: params, ReturnType: retType}
	if p.curIs(token.OPERATOR, "=>") {
		p.advance()
		fn.Inline = true
		fn.InlineExpr = p.parseExpression()
		p.expectSemicolon()
	} else {
		fn.Body = p.parseBlock()
	}
	return &ast.FuncDefStatement{Tok: tok, Function: fn}
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	tok := p.cur
	p.advance() // consume 'return'
	var val ast.Expression
	if !p.curIs(token.PUNCTUATION, ";") {
		val = p.parseExpression()
	}
	p.expectSemicolon()
	return &ast.ReturnStatement{Tok: tok, Value: val}
}

func (p *Parser) parseBreak() *ast.BreakStatement {
	tok := p.cur
	p.advance()
	p.expectSemicolon()
	return &ast.BreakStatement{Tok: tok}
}

func (p *Parser) parseContinue() *ast.ContinueStatement {
	tok := p.cur
	p.advance()
	p.expectSemicolon()
	return &ast.ContinueStatement{Tok: tok}
}

func (p *Parser) parseUse() *ast.UseStatement {
	tok := p.cur
	p.advance() // consume 'use'
	mutable := false
	if p.curSoft("mut") {
		mutable = true
		p.advance()
	}
	var names []string
	if p.cur.Kind != token.IDENTIFIER {
		p.errorf("expected variable name, got %q", p.cur.Lexeme)
	} else {
		names = append(names, p.cur.Lexeme)
		p.advance()
	}
	for p.curIs(token.PUNCTUATION, ",") {
		p.advance()
		if p.cur.Kind != token.IDENTIFIER {
			p.errorf("expected variable name, got %q", p.cur.Lexeme)
			break
		}
		names = append(names, p.cur.Lexeme)
		p.advance()
	}
	p.expectSemicolon()
	return &ast.UseStatement{Tok: tok, Names: names, Mutable: mutable}
}

func (p *Parser) parseWatch() *ast.WatchStatement {
	tok := p.cur
	p.advance() // consume 'watch'
	var names []string
	if p.cur.Kind != token.IDENTIFIER {
		p.errorf("expected variable name, got %q", p.cur.Lexeme)
	} else {
		names = append(names, p.cur.Lexeme)
		p.advance()
	}
	for p.curIs(token.PUNCTUATION, ",") {
		p.advance()
		if p.cur.Kind != token.IDENTIFIER {
			p.errorf("expected variable name, got %q", p.cur.Lexeme)
			break
		}
		names = append(names, p.cur.Lexeme)
		p.advance()
	}
	p.expectSemicolon()
	return &ast.WatchStatement{Tok: tok, Names: names}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// parseExpression folds a single flat left-to-right pass of OPERATOR tokens
// over operands produced by parseUnary. No precedence climbing: `2 + 3 * 4`
// evaluates left-to-right like the source it was distilled from, not as
// `2 + (3 * 4)`.
func (p *Parser) parseExpression() ast.Expression {
	left := p.parseUnary()
	for p.cur.Kind == token.OPERATOR && binaryOps[p.cur.Lexeme] {
		opTok := p.cur
		op := p.cur.Lexeme
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Tok: opTok, Operator: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.cur.Kind == token.OPERATOR && (p.cur.Lexeme == "!" || p.cur.Lexeme == "-") {
		opTok := p.cur
		op := p.cur.Lexeme
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Tok: opTok, Operator: op, Operand: operand}
	}
	return p.parsePostfix()
}

// parsePostfix folds `.` method chains and `[...]` indexing left-to-right
// over a primary expression.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch {
		case p.cur.Kind == token.METHOD_OPERATOR:
			p.advance() // consume '.'
			if p.cur.Kind != token.METHOD {
				p.errorf("expected method name, got %q", p.cur.Lexeme)
				return expr
			}
			methodTok := p.cur
			method := p.cur.Lexeme
			p.advance()
			var args []ast.Expression
			if p.curIs(token.PUNCTUATION, "(") {
				args = p.parseArgList()
			}
			expr = &ast.MethodCall{Tok: methodTok, Target: expr, Method: method, Args: args}
		case p.curIs(token.PUNCTUATION, "["):
			tok := p.cur
			p.advance()
			idx := p.parseExpression()
			p.expect(token.PUNCTUATION, "]")
			expr = &ast.IndexExpr{Tok: tok, Target: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	p.advance() // consume '('
	var args []ast.Expression
	if p.curIs(token.PUNCTUATION, ")") {
		p.advance()
		return args
	}
	args = append(args, p.parseExpression())
	for p.curIs(token.PUNCTUATION, ",") {
		p.advance()
		args = append(args, p.parseExpression())
	}
	p.expect(token.PUNCTUATION, ")")
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	switch {
	case p.cur.Kind == token.NUMBER:
		tok := p.cur
		var v int64
		fmt.Sscanf(tok.Lexeme, "%d", &v)
		p.advance()
		return &ast.IntLiteral{Tok: tok, Value: v}
	case p.cur.Kind == token.FLOAT:
		tok := p.cur
		var v float64
		fmt.Sscanf(tok.Lexeme, "%g", &v)
		p.advance()
		return &ast.FloatLiteral{Tok: tok, Value: v}
	case p.cur.Kind == token.BOOLEAN:
		tok := p.cur
		p.advance()
		return &ast.BoolLiteral{Tok: tok, Value: tok.Lexeme == "true"}
	case p.cur.Kind == token.STRING:
		return p.parseStringOrInterp()
	case p.cur.Kind == token.METHOD:
		tok := p.cur
		p.advance()
		var args []ast.Expression
		if p.curIs(token.PUNCTUATION, "(") {
			args = p.parseArgList()
		}
		return &ast.MethodCall{Tok: tok, Target: nil, Method: tok.Lexeme, Args: args}
	case p.cur.Kind == token.IDENTIFIER:
		tok := p.cur
		if p.peek.Kind == token.PUNCTUATION && p.peek.Lexeme == "(" {
			p.advance() // move to '('
			args := p.parseArgList()
			return &ast.FunctionCall{Tok: tok, Callee: tok.Lexeme, Args: args}
		}
		p.advance()
		return &ast.Identifier{Tok: tok, Name: tok.Lexeme}
	case p.curIs(token.PUNCTUATION, "("):
		p.advance()
		expr := p.parseExpression()
		p.expect(token.PUNCTUATION, ")")
		return expr
	case p.curIs(token.PUNCTUATION, "["):
		return p.parseListLiteral()
	case p.curIs(token.PUNCTUATION, "{"):
		return p.parseHashLiteral()
	default:
		p.errorf("unexpected token %q", p.cur.Lexeme)
		tok := p.cur
		p.advance()
		return &ast.Identifier{Tok: tok, Name: tok.Lexeme}
	}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	p.advance() // consume '['
	var elems []ast.Expression
	if !p.curIs(token.PUNCTUATION, "]") {
		elems = append(elems, p.parseExpression())
		for p.curIs(token.PUNCTUATION, ",") {
			p.advance()
			elems = append(elems, p.parseExpression())
		}
	}
	p.expect(token.PUNCTUATION, "]")
	return &ast.ListLiteral{Tok: tok, Elements: elems}
}

func (p *Parser) parseHashLiteral() ast.Expression {
	tok := p.cur
	p.advance() // consume '{'
	var entries []ast.HashEntry
	if !p.curIs(token.PUNCTUATION, "}") {
		for {
			var key string
			switch p.cur.Kind {
			case token.STRING:
				key = p.cur.Lexeme
				p.advance()
			case token.IDENTIFIER:
				key = p.cur.Lexeme
				p.advance()
			default:
				p.errorf("expected hash key, got %q", p.cur.Lexeme)
			}
			p.expect(token.PUNCTUATION, ":")
			val := p.parseExpression()
			entries = append(entries, ast.HashEntry{Key: key, Value: val})
			if p.curIs(token.PUNCTUATION, ",") {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.PUNCTUATION, "}")
	return &ast.HashLiteral{Tok: tok, Entries: entries}
}

// parseStringOrInterp consumes the STRING token at p.cur and, if followed
// by the lexer's INTERPOLATION_START/IDENTIFIER/INTERPOLATION_END triples,
// folds the whole run into a single string_interp node.
func (p *Parser) parseStringOrInterp() ast.Expression {
	firstTok := p.cur
	parts := []ast.InterpPart{{Text: firstTok.Lexeme, IsIdent: false}}
	p.advance() // consume first STRING

	hasInterp := false
	for p.cur.Kind == token.INTERPOLATION_START {
		hasInterp = true
		p.advance() // consume INTERPOLATION_START
		if p.cur.Kind != token.IDENTIFIER {
			p.errorf("malformed interpolation placeholder")
			break
		}
		parts = append(parts, ast.InterpPart{Text: p.cur.Lexeme, IsIdent: true})
		p.advance() // consume identifier
		if p.cur.Kind != token.INTERPOLATION_END {
			p.errorf("malformed interpolation placeholder")
			break
		}
		p.advance() // consume INTERPOLATION_END
		if p.cur.Kind == token.STRING {
			parts = append(parts, ast.InterpPart{Text: p.cur.Lexeme, IsIdent: false})
			p.advance()
		}
	}

	if !hasInterp {
		return &ast.StrLiteral{Tok: firstTok, Value: firstTok.Lexeme}
	}
	return &ast.StringInterp{Tok: firstTok, Parts: parts}
}
