package lex

import (
	"fmt"
	"io"
	"strings"

	participlelexer "github.com/alecthomas/participle/v2/lexer"
)

// simpleDef is the participle Simple lexer definition implementing
// PAMELA's whitespace and comment rule: whitespace is `[,\s]+` (PAMELA,
// like the Clojure reader it is modeled on, treats commas as
// insignificant whitespace) and line comments begin with ';' and run to
// end-of-line. Rule names starting with a lowercase letter are elided
// automatically by participle, which is how the whitespace and comment
// rules disappear from the token stream.
var simpleDef = participlelexer.MustSimple([]participlelexer.SimpleRule{
	{Name: "comment", Pattern: `;[^\n]*`},
	{Name: "whitespace", Pattern: `[,\s]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},
	{Name: "Keyword", Pattern: `:[A-Za-z_*][A-Za-z0-9_!?*+/<>=.:-]*`},
	{Name: "Symbol", Pattern: `[A-Za-z_*=<>+/!?-][A-Za-z0-9_!?*+/<>=.-]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
})

// Definition exposes the Simple lexer definition so internal/pamela/magic
// can build a participle struct-tag grammar over the identical token
// rules rather than maintaining a second whitespace/comment policy.
func Definition() participlelexer.Definition { return simpleDef }

var classByRule = map[string]Class{
	"String":   ClassString,
	"Number":   ClassNumber,
	"Keyword":  ClassKeyword,
	"Symbol":   ClassSymbol,
	"LParen":   ClassLParen,
	"RParen":   ClassRParen,
	"LBracket": ClassLBracket,
	"RBracket": ClassRBracket,
	"LBrace":   ClassLBrace,
	"RBrace":   ClassRBrace,
}

// Lexer produces the full Token stream for one input up front, an
// "immediate" (non-lazy) discipline: errors are surfaced at lex time
// rather than deferred to the parser.
type Lexer struct {
	file string
}

func New(file string) *Lexer { return &Lexer{file: file} }

// Lex tokenizes all of r's contents, returning a terminal ClassEOF token at
// the end of the stream. On a lexical error it returns a position-carrying
// error wrapping the offending rune.
func (lx *Lexer) Lex(r io.Reader) ([]Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", lx.file, err)
	}
	lines := strings.Split(string(data), "\n")

	symByRule := map[participlelexer.TokenType]string{}
	for name, tt := range simpleDef.Symbols() {
		symByRule[tt] = name
	}

	plex, err := simpleDef.Lex(lx.file, strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("lex %s: %w", lx.file, err)
	}

	var toks []Token
	for {
		t, err := plex.Next()
		if err != nil {
			return nil, fmt.Errorf("lex %s: %w", lx.file, err)
		}
		if t.EOF() {
			toks = append(toks, Token{Class: ClassEOF, Line: t.Pos.Line, Pos: t.Pos.Column})
			return toks, nil
		}

		ruleName := symByRule[t.Type]
		class, ok := classByRule[ruleName]
		if !ok {
			// whitespace/comment are elided by the lexer definition and
			// never reach here.
			return nil, fmt.Errorf("lex %s: unrecognized token %q at line %d", lx.file, t.Value, t.Pos.Line)
		}

		fullLine := ""
		if t.Pos.Line-1 < len(lines) {
			fullLine = lines[t.Pos.Line-1]
		}

		toks = append(toks, Token{
			Class:    class,
			Text:     t.Value,
			Line:     t.Pos.Line,
			Pos:      t.Pos.Column,
			FullLine: fullLine,
		})
	}
}
