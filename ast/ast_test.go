package ast

import (
	"testing"

	"lcore/token"
)

func TestBinaryExprString(t *testing.T) {
	expr := &BinaryExpr{
		Tok:      token.Token{Lexeme: "+"},
		Operator: "+",
		Left:     &IntLiteral{Tok: token.Token{Lexeme: "1"}, Value: 1},
		Right:    &IntLiteral{Tok: token.Token{Lexeme: "2"}, Value: 2},
	}
	if got, want := expr.String(), "(1 + 2)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUseStatementString(t *testing.T) {
	s := &UseStatement{Tok: token.Token{Lexeme: "use"}, Names: []string{"x", "y"}, Mutable: true}
	if got, want := s.String(), "use mut x, y;"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestForStatementString(t *testing.T) {
	s := &ForStatement{
		Tok: token.Token{Lexeme: "for"}, VarName: "i", Inclusive: false,
		Start: &IntLiteral{Tok: token.Token{Lexeme: "0"}, Value: 0},
		End:   &IntLiteral{Tok: token.Token{Lexeme: "5"}, Value: 5},
		Body:  &BlockStatement{},
	}
	got := s.String()
	want := "for i in 0...5 {  }"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
