package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcore/ast"
	"lcore/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors: %v", p.Errors())
	return program
}

func TestParseDeclaration(t *testing.T) {
	program := parseProgram(t, `x: int = 5;`)
	require.Len(t, program.Statements, 1)
	stmt := program.Statements[0].(*ast.AssignStatement)
	assert.Equal(t, "x", stmt.Name)
	assert.Equal(t, "int", stmt.DeclaredType)
	assert.Equal(t, int64(5), stmt.Value.(*ast.IntLiteral).Value)
}

func TestParseExpression_FlatLeftToRightFold(t *testing.T) {
	program := parseProgram(t, `2 + 3 * 4;`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	bin := stmt.Expr.(*ast.BinaryExpr)

	// Flat fold means the OUTER node is the second operator (* binds nothing
	// tighter than +): (2 + 3) * 4, not 2 + (3 * 4).
	assert.Equal(t, "*", bin.Operator)
	left := bin.Left.(*ast.BinaryExpr)
	assert.Equal(t, "+", left.Operator)
}

func TestParseMethodCall_ChainedAndFreeStanding(t *testing.T) {
	program := parseProgram(t, `x.trim(); say("hi");`)
	require.Len(t, program.Statements, 2)

	chained := program.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.MethodCall)
	assert.Equal(t, "trim", chained.Method)
	assert.NotNil(t, chained.Target)

	free := program.Statements[1].(*ast.ExpressionStatement).Expr.(*ast.MethodCall)
	assert.Equal(t, "say", free.Method)
	assert.Nil(t, free.Target)
}

func TestParseFor_RangeInclusivity(t *testing.T) {
	inclusive := parseProgram(t, `for i in 0..5 { }`).Statements[0].(*ast.ForStatement)
	assert.True(t, inclusive.Inclusive)

	exclusive := parseProgram(t, `for i in 0...5 { }`).Statements[0].(*ast.ForStatement)
	assert.False(t, exclusive.Inclusive)
}

func TestParseUse_DistinguishesMutable(t *testing.T) {
	plain := parseProgram(t, `use total;`).Statements[0].(*ast.UseStatement)
	assert.False(t, plain.Mutable)
	assert.Equal(t, []string{"total"}, plain.Names)

	mut := parseProgram(t, `use mut total, count;`).Statements[0].(*ast.UseStatement)
	assert.True(t, mut.Mutable)
	assert.Equal(t, []string{"total", "count"}, mut.Names)
}

func TestParseFuncDef_InlineAndBlockForms(t *testing.T) {
	inline := parseProgram(t, `fn square(x: int) -> int => x * x;`).Statements[0].(*ast.FuncDefStatement)
	assert.True(t, inline.Function.Inline)
	assert.NotNil(t, inline.Function.InlineExpr)

	block := parseProgram(t, `fn square(x: int) -> int { return x * x; }`).Statements[0].(*ast.FuncDefStatement)
	assert.False(t, block.Function.Inline)
	assert.NotNil(t, block.Function.Body)
}

func TestParseStringInterpolation(t *testing.T) {
	program := parseProgram(t, `"hello ${name}!";`)
	interp := program.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.StringInterp)
	require.Len(t, interp.Parts, 3)
	assert.False(t, interp.Parts[0].IsIdent)
	assert.True(t, interp.Parts[1].IsIdent)
	assert.Equal(t, "name", interp.Parts[1].Text)
}

func TestParseDeclaration_RejectsVoidType(t *testing.T) {
	p := New(lexer.New(`x: void = 5;`))
	p.ParseProgram()
	assert.NotEmpty(t, p.Errors())
}

func TestParseForeach_RequiresTypeAnnotation(t *testing.T) {
	p := New(lexer.New(`foreach item in list { }`))
	p.ParseProgram()
	assert.NotEmpty(t, p.Errors())
}
