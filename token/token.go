// ==============================================================================================
// FILE: token/token.go
// ==============================================================================================
// PACKAGE: token
// PURPOSE: Defines the vocabulary of the L language. Maps raw source text to
//          semantic token kinds. Acts as the dictionary shared by the Lexer and Parser.
// ==============================================================================================

package token

// Kind identifies the category of a Token.
type Kind string

// Token is a single lexical unit scanned from source, carrying 1-based
// line/column for diagnostics. Immutable once produced.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

const (
	ILLEGAL Kind = "ILLEGAL"
	EOF     Kind = "EOF"

	KEYWORD    Kind = "KEYWORD"
	DATATYPE   Kind = "DATATYPE"
	METHOD     Kind = "METHOD"
	BOOLEAN    Kind = "BOOLEAN"
	FLOAT      Kind = "FLOAT"
	NUMBER     Kind = "NUMBER"
	IDENTIFIER Kind = "IDENTIFIER"
	OPERATOR   Kind = "OPERATOR"

	RETURN_TYPE     Kind = "RETURN_TYPE"     // ->
	RANGE_OPERATOR  Kind = "RANGE_OPERATOR"  // .. or ...
	METHOD_OPERATOR Kind = "METHOD_OPERATOR" // .
	PUNCTUATION     Kind = "PUNCTUATION"     // ( ) { } [ ] , : ;

	STRING               Kind = "STRING"
	INTERPOLATION_START  Kind = "INTERPOLATION_START"
	INTERPOLATION_END    Kind = "INTERPOLATION_END"
)

// keywords are reserved control-flow and definition words.
var keywords = map[string]bool{
	"fn": true, "for": true, "foreach": true, "in": true, "by": true,
	"if": true, "else": true, "while": true,
	"return": true, "break": true, "continue": true,
}

// datatypes are the reserved type-annotation names.
var datatypes = map[string]bool{
	"int": true, "float": true, "str": true, "bool": true,
	"dynamic": true, "list": true, "hash": true, "void": true,
}

// methods are reserved, lexed in preference to a bare identifier so the
// parser never has to guess whether `length` names a variable or a call.
var methods = map[string]bool{
	"say": true, "wait": true, "ask": true,
	"asInt": true, "asFloat": true, "asBool": true, "asString": true,
	"type": true, "default": true,
	"trim": true, "upperCase": true, "lowerCase": true,
	"length": true, "keys": true, "values": true, "reverse": true,
	"push": true, "empty": true, "clone": true, "countOf": true,
	"merge": true, "find": true, "insertAt": true, "pull": true,
	"removeValue": true, "order": true, "pairs": true,
	"take": true, "take_last": true, "ensure": true, "wipe": true,
}

// LookupIdent classifies a scanned word as keyword, datatype, method,
// boolean literal, or a plain identifier.
func LookupIdent(word string) Kind {
	switch {
	case word == "true" || word == "false":
		return BOOLEAN
	case keywords[word]:
		return KEYWORD
	case datatypes[word]:
		return DATATYPE
	case methods[word]:
		return METHOD
	default:
		return IDENTIFIER
	}
}
