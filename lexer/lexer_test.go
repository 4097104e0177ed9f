package lexer

import (
	"testing"

	"lcore/token"
)

func TestNextToken_Basics(t *testing.T) {
	input := `x: int = 10;
name: str = "hi";
flag: bool = true;
pi: float = 3.14;
`
	expected := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.IDENTIFIER, "x"},
		{token.PUNCTUATION, ":"},
		{token.DATATYPE, "int"},
		{token.OPERATOR, "="},
		{token.NUMBER, "10"},
		{token.PUNCTUATION, ";"},
		{token.IDENTIFIER, "name"},
		{token.PUNCTUATION, ":"},
		{token.DATATYPE, "str"},
		{token.OPERATOR, "="},
		{token.STRING, "hi"},
		{token.PUNCTUATION, ";"},
		{token.IDENTIFIER, "flag"},
		{token.PUNCTUATION, ":"},
		{token.DATATYPE, "bool"},
		{token.OPERATOR, "="},
		{token.BOOLEAN, "true"},
		{token.PUNCTUATION, ";"},
		{token.IDENTIFIER, "pi"},
		{token.PUNCTUATION, ":"},
		{token.DATATYPE, "float"},
		{token.OPERATOR, "="},
		{token.FLOAT, "3.14"},
		{token.PUNCTUATION, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		got := l.NextToken()
		if got.Kind != want.kind || got.Lexeme != want.lexeme {
			t.Fatalf("token %d: got {%s %q}, want {%s %q}", i, got.Kind, got.Lexeme, want.kind, want.lexeme)
		}
	}
}

func TestNextToken_RangeOperators(t *testing.T) {
	l := New("0 .. 5 ... 9 -> fn")
	kinds := []token.Kind{token.NUMBER, token.RANGE_OPERATOR, token.NUMBER, token.RANGE_OPERATOR, token.NUMBER, token.RETURN_TYPE, token.KEYWORD}
	for i, want := range kinds {
		got := l.NextToken()
		if got.Kind != want {
			t.Fatalf("token %d: got %s, want %s", i, got.Kind, want)
		}
	}
}

func TestNextToken_StringInterpolation(t *testing.T) {
	l := New(`"hello ${name}!"`)
	kinds := []token.Kind{
		token.STRING, token.INTERPOLATION_START, token.IDENTIFIER, token.INTERPOLATION_END, token.STRING, token.EOF,
	}
	for i, want := range kinds {
		got := l.NextToken()
		if got.Kind != want {
			t.Fatalf("token %d: got %s (%q), want %s", i, got.Kind, got.Lexeme, want)
		}
	}
}

func TestNextToken_EscapesLeftRaw(t *testing.T) {
	l := New(`"a\nb"`)
	tok := l.NextToken()
	if tok.Lexeme != `a\nb` {
		t.Fatalf("expected raw escape text, got %q", tok.Lexeme)
	}
}

func TestNextToken_UnterminatedStringRecordsError(t *testing.T) {
	l := New(`"oops`)
	l.NextToken()
	if len(l.Errors) == 0 {
		t.Fatal("expected an unterminated string error")
	}
}

func TestNextToken_UnknownCharacterIsIllegal(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Kind != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Kind)
	}
	if len(l.Errors) != 1 {
		t.Fatalf("expected one lexer error, got %d", len(l.Errors))
	}
}
