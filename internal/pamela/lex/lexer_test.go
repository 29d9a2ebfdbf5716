package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Lex_tokenClassSequence(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []Class
		expectErr bool
	}{
		{name: "blank string", input: "", expect: []Class{
			ClassEOF,
		}},
		{name: "single symbol", input: "pwr", expect: []Class{
			ClassSymbol, ClassEOF,
		}},
		{name: "commas are whitespace", input: "a,b,,c", expect: []Class{
			ClassSymbol, ClassSymbol, ClassSymbol, ClassEOF,
		}},
		{name: "line comment runs to end of line", input: "a ; the rest is junk )\nb", expect: []Class{
			ClassSymbol, ClassSymbol, ClassEOF,
		}},
		{name: "integer", input: "42", expect: []Class{
			ClassNumber, ClassEOF,
		}},
		{name: "negative integer", input: "-42", expect: []Class{
			ClassNumber, ClassEOF,
		}},
		{name: "float", input: "0.25", expect: []Class{
			ClassNumber, ClassEOF,
		}},
		{name: "keyword", input: ":high", expect: []Class{
			ClassKeyword, ClassEOF,
		}},
		{name: "transition keyword key", input: ":off:on", expect: []Class{
			ClassKeyword, ClassEOF,
		}},
		{name: "wildcard transition keyword key", input: ":*:on", expect: []Class{
			ClassKeyword, ClassEOF,
		}},
		{name: "string literal", input: `"hello world"`, expect: []Class{
			ClassString, ClassEOF,
		}},
		{name: "equality head is a symbol", input: "(= pwr :high)", expect: []Class{
			ClassLParen, ClassSymbol, ClassSymbol, ClassKeyword, ClassRParen, ClassEOF,
		}},
		{name: "dotted plant call is one symbol", input: "(pwr.on)", expect: []Class{
			ClassLParen, ClassSymbol, ClassRParen, ClassEOF,
		}},
		{name: "legacy qualified ref is symbol then keyword", input: "pwr.:high", expect: []Class{
			ClassSymbol, ClassKeyword, ClassEOF,
		}},
		{name: "wildcard symbol", input: "*", expect: []Class{
			ClassSymbol, ClassEOF,
		}},
		{name: "vector and map delimiters", input: "[1 2] {:a 1}", expect: []Class{
			ClassLBracket, ClassNumber, ClassNumber, ClassRBracket,
			ClassLBrace, ClassKeyword, ClassNumber, ClassRBrace, ClassEOF,
		}},
		{name: "full defpclass header", input: "(defpclass pwrvals [] :modes [:high :none])", expect: []Class{
			ClassLParen, ClassSymbol, ClassSymbol, ClassLBracket, ClassRBracket,
			ClassKeyword, ClassLBracket, ClassKeyword, ClassKeyword, ClassRBracket,
			ClassRParen, ClassEOF,
		}},
		{name: "unlexable rune", input: "a\x01b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := New("test.pamela").Lex(strings.NewReader(tc.input))
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			actual := make([]Class, len(toks))
			for i := range toks {
				actual[i] = toks[i].Class
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Lex_positions(t *testing.T) {
	assert := assert.New(t)

	toks, err := New("test.pamela").Lex(strings.NewReader("(a\n  b)"))
	if !assert.NoError(err) {
		return
	}

	// ( a b ) EOF
	assert.Len(toks, 5)
	assert.Equal(1, toks[0].Line)
	assert.Equal(1, toks[0].Pos)
	assert.Equal("a", toks[1].Text)
	assert.Equal(1, toks[1].Line)
	assert.Equal("b", toks[2].Text)
	assert.Equal(2, toks[2].Line)
	assert.Equal(3, toks[2].Pos)
	assert.Equal("  b)", toks[2].FullLine)
}
