// Package magic implements the magic pre-parser: it parses the
// optional lvar-defaults sidecar file into a name->default mapping used
// to seed the lvar table before the main parse. Unlike
// internal/pamela/sexpr's hand-written reader for the main grammar, the
// magic grammar is small and rarely touched by hand, so it is expressed
// declaratively as a participle struct-tag grammar, built over the
// identical token rules internal/pamela/lex defines for the main lexer.
package magic

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
)

// file is the magic grammar's root: a bare sequence of lvar-ctor forms,
// per magic.ebnf.
type file struct {
	Forms []*lvarForm `@@*`
}

type lvarForm struct {
	Name    string   `"(" "lvar" @String`
	Default *literal `@@? ")"`
}

// literal covers the default-value shapes magic.ebnf admits: number,
// string, and keyword. The :TRUE/:FALSE booleans the main grammar also
// uses lex as keywords and are told apart by decodeLiteral.
type literal struct {
	Number  *string `  @Number`
	Str     *string `| @String`
	Keyword *string `| @Keyword`
}

func newParser() (*participle.Parser[file], error) {
	return participle.Build[file](
		participle.Lexer(lex.Definition()),
		participle.Unquote("String"),
	)
}

// Load parses a magic file: given its path, it returns either the
// interned name->default mapping, or (nil, false) on failure (file
// unreadable, grammar build failure, parse failure, or a default that
// does not decode), with each failure logged at ERROR. The participle
// parser yields a single parse, so there is no separate ambiguity
// failure. An empty file is a success with an empty mapping.
func Load(path string, log *plog.Logger) (map[ir.Symbol]ir.Value, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("magic file %s: %v", path, err)
		return nil, false
	}

	p, err := newParser()
	if err != nil {
		log.Error("magic grammar: %v", err)
		return nil, false
	}

	f, err := p.ParseString(path, string(data))
	if err != nil {
		log.Error("magic file %s: parse: %s", path, err)
		return nil, false
	}

	out := map[ir.Symbol]ir.Value{}
	for _, form := range f.Forms {
		name := ir.Symbol(form.Name)
		def := ir.UnsetValue()
		if form.Default != nil {
			v, err := decodeLiteral(form.Default)
			if err != nil {
				log.Error("magic file %s: lvar %q: %v", path, name, err)
				return nil, false
			}
			def = v
		}
		out[name] = def
	}
	return out, true
}

func decodeLiteral(l *literal) (ir.Value, error) {
	switch {
	case l.Number != nil:
		return decodeNumber(*l.Number)
	case l.Str != nil:
		return ir.StringValue(*l.Str), nil
	case l.Keyword != nil:
		kw := strings.TrimPrefix(*l.Keyword, ":")
		if kw == "TRUE" {
			return ir.BoolValue(true), nil
		}
		if kw == "FALSE" {
			return ir.BoolValue(false), nil
		}
		return ir.KeywordValue(ir.Symbol(kw)), nil
	default:
		return ir.Value{}, fmt.Errorf("empty literal")
	}
}

func decodeNumber(text string) (ir.Value, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ir.Value{}, fmt.Errorf("invalid float literal %q", text)
		}
		return ir.FloatValue(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return ir.Value{}, fmt.Errorf("invalid integer literal %q", text)
	}
	return ir.IntValue(n), nil
}
