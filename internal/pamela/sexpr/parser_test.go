package sexpr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pamela-lang/pamela/internal/pamela/lex"
)

func lexForTest(t *testing.T, input string) []lex.Token {
	t.Helper()
	toks, err := lex.New("test.pamela").Lex(strings.NewReader(input))
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	return toks
}

func Test_ParseAll_shapes(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
		check     func(*assert.Assertions, []*Tree)
	}{
		{
			name:  "empty input yields no forms",
			input: "",
			check: func(assert *assert.Assertions, forms []*Tree) {
				assert.Empty(forms)
			},
		},
		{
			name:  "single list",
			input: "(a b c)",
			check: func(assert *assert.Assertions, forms []*Tree) {
				assert.Len(forms, 1)
				assert.Equal(KindList, forms[0].Kind)
				assert.Equal("a", forms[0].Head())
				assert.Len(forms[0].Rest(), 2)
			},
		},
		{
			name:  "nested vector and map",
			input: "(defpclass p [x] :fields {:f 1})",
			check: func(assert *assert.Assertions, forms []*Tree) {
				assert.Len(forms, 1)
				children := forms[0].Rest()
				assert.Equal(KindVector, children[1].Kind)
				assert.True(children[2].IsKeyword("fields"))
				assert.Equal(KindMap, children[3].Kind)
				assert.Len(children[3].Children, 2)
			},
		},
		{
			name:  "two top-level forms",
			input: "(a) (b)",
			check: func(assert *assert.Assertions, forms []*Tree) {
				assert.Len(forms, 2)
			},
		},
		{name: "unterminated list", input: "(a (b)", expectErr: true},
		{name: "stray closer", input: ")", expectErr: true},
		{name: "mismatched closer", input: "(a]", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			derivations, err := New("test.pamela").ParseAll(lexForTest(t, tc.input))
			if tc.expectErr {
				assert.NotNil(err)
				return
			}
			if !assert.Nil(err) {
				return
			}
			assert.Len(derivations, 1)
			tc.check(assert, derivations[0])
		})
	}
}

func Test_ParseAll_deterministic(t *testing.T) {
	assert := assert.New(t)

	const input = "(defpclass p [] (defpmethod go []))"
	d1, err1 := New("test.pamela").ParseAll(lexForTest(t, input))
	d2, err2 := New("test.pamela").ParseAll(lexForTest(t, input))
	assert.Nil(err1)
	assert.Nil(err2)
	assert.Equal(d1[0][0].String(), d2[0][0].String())
}

func Test_Tree_String(t *testing.T) {
	assert := assert.New(t)

	derivations, err := New("test.pamela").ParseAll(lexForTest(t, "(a [1])"))
	if !assert.Nil(err) {
		return
	}
	s := derivations[0][0].String()
	assert.Contains(s, "( list )")
	assert.Contains(s, "( vector )")
	assert.Contains(s, `(TERM SYMBOL "a")`)
	assert.Contains(s, `(TERM NUMBER "1")`)
}
