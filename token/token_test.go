package token

import "testing"

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		word string
		want Kind
	}{
		{"fn", KEYWORD},
		{"for", KEYWORD},
		{"foreach", KEYWORD},
		{"return", KEYWORD},
		{"int", DATATYPE},
		{"hash", DATATYPE},
		{"void", DATATYPE},
		{"say", METHOD},
		{"length", METHOD},
		{"take_last", METHOD},
		{"true", BOOLEAN},
		{"false", BOOLEAN},
		{"use", IDENTIFIER},
		{"mut", IDENTIFIER},
		{"watch", IDENTIFIER},
		{"total", IDENTIFIER},
	}
	for _, c := range cases {
		if got := LookupIdent(c.word); got != c.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", c.word, got, c.want)
		}
	}
}
