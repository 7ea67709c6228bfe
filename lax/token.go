package lax

import (
	"fmt"
	"maps"
	"slices"
)

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	LeftParen  TokenType = "("
	RightParen TokenType = ")"
	LeftBrace  TokenType = "{"
	RightBrace TokenType = "}"
	Comma      TokenType = ","
	Dot        TokenType = "."
	Minus      TokenType = "-"
	Plus       TokenType = "+"
	Semicolon  TokenType = ";"
	Slash      TokenType = "/"
	Star       TokenType = "*"

	Bang         TokenType = "!"
	BangEqual    TokenType = "!="
	BangIn       TokenType = "!in"
	Equal        TokenType = "="
	EqualEqual   TokenType = "=="
	Greater      TokenType = ">"
	GreaterEqual TokenType = ">="
	Less         TokenType = "<"
	LessEqual    TokenType = "<="

	Identifier TokenType = "IDENTIFIER"
	String     TokenType = "STRING"
	Number     TokenType = "NUMBER"

	And      TokenType = "AND"
	Class    TokenType = "CLASS"
	Else     TokenType = "ELSE"
	False    TokenType = "FALSE"
	Fun      TokenType = "FUN"
	For      TokenType = "FOR"
	If       TokenType = "IF"
	Nil      TokenType = "NIL"
	Or       TokenType = "OR"
	Not      TokenType = "NOT"
	Print    TokenType = "PRINT"
	Return   TokenType = "RETURN"
	Super    TokenType = "SUPER"
	This     TokenType = "THIS"
	True     TokenType = "TRUE"
	Var      TokenType = "VAR"
	Val      TokenType = "VAL"
	While    TokenType = "WHILE"
	Loop     TokenType = "LOOP"
	Continue TokenType = "CONTINUE"
	Break    TokenType = "BREAK"
	Is       TokenType = "IS"
	In       TokenType = "IN"

	EOF TokenType = "EOF"
)

var keywords = map[string]TokenType{
	"and":      And,
	"class":    Class,
	"else":     Else,
	"false":    False,
	"fun":      Fun,
	"for":      For,
	"if":       If,
	"nil":      Nil,
	"or":       Or,
	"not":      Not,
	"print":    Print,
	"return":   Return,
	"super":    Super,
	"this":     This,
	"true":     True,
	"var":      Var,
	"val":      Val,
	"while":    While,
	"loop":     Loop,
	"continue": Continue,
	"break":    Break,
	"is":       Is,
	"in":       In,
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal *Value
	Line    int
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %s (line %d)", t.Type, t.Lexeme, t.Literal.Inspect(), t.Line)
	}
	return fmt.Sprintf("%s %q (line %d)", t.Type, t.Lexeme, t.Line)
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return Identifier
}
