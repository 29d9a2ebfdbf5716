// Package lex tokenizes PAMELA source. A token records its class, lexeme,
// and source position; the underlying scan rules come from
// github.com/alecthomas/participle/v2/lexer.MustSimple, so the magic-file
// grammar can parse over the identical token definitions.
package lex

// Class names a token's lexical category.
type Class string

const (
	ClassLParen   Class = "LPAREN"
	ClassRParen   Class = "RPAREN"
	ClassLBracket Class = "LBRACKET"
	ClassRBracket Class = "RBRACKET"
	ClassLBrace   Class = "LBRACE"
	ClassRBrace   Class = "RBRACE"
	ClassString   Class = "STRING"
	ClassNumber   Class = "NUMBER"
	ClassKeyword  Class = "KEYWORD"
	ClassSymbol   Class = "SYMBOL"
	ClassEOF      Class = "EOF"
)

// Token is one lexed unit of PAMELA source, carrying everything a
// CompileError needs to report a precise position.
type Token struct {
	Class Class
	Text  string

	// Line/Pos are 1-indexed.
	Line int
	Pos  int

	// FullLine is the complete source line the token appeared on, used for
	// CompileError.FullMessage's cursor rendering.
	FullLine string
}
