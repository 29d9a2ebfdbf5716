package build

import (
	"strconv"
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
)

// decodeLiteral decodes a literal atom: integers as signed 64-bit, floats
// as double, booleans from the TRUE/FALSE keyword atoms, keywords with the
// leading ':' stripped, strings unescaped, and bare symbols interned as
// Symbol.
func decodeLiteral(t *sexpr.Tree) (ir.Value, *ir.CompileError) {
	if t.Kind != sexpr.KindAtom {
		return ir.Value{}, ir.Structuralf("expected a literal value")
	}
	switch t.Token.Class {
	case lex.ClassNumber:
		return decodeNumberValue(t)
	case lex.ClassString:
		return decodeStringValue(t)
	case lex.ClassKeyword:
		kw := t.Keyword()
		if kw == "TRUE" {
			return ir.BoolValue(true), nil
		}
		if kw == "FALSE" {
			return ir.BoolValue(false), nil
		}
		return ir.KeywordValue(ir.Symbol(kw)), nil
	case lex.ClassSymbol:
		return ir.SymbolValue(ir.Symbol(t.Symbol())), nil
	default:
		return ir.Value{}, ir.Structuralf("expected a literal value, got %q", t.Token.Text)
	}
}

func decodeNumberValue(t *sexpr.Tree) (ir.Value, *ir.CompileError) {
	text := t.Token.Text
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ir.Value{}, ir.Structuralf("invalid float literal %q", text)
		}
		return ir.FloatValue(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return ir.Value{}, ir.Structuralf("invalid integer literal %q", text)
	}
	return ir.IntValue(n), nil
}

func decodeStringValue(t *sexpr.Tree) (ir.Value, *ir.CompileError) {
	if t.Kind != sexpr.KindAtom || t.Token.Class != lex.ClassString {
		return ir.Value{}, ir.Structuralf("expected a string literal")
	}
	return ir.StringValue(unquote(t.Token.Text)), nil
}

// unquote strips the surrounding quotes from a lexed string token and
// resolves the backslash escapes the lexer's String pattern admits.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func decodeNumber(t *sexpr.Tree) (float64, *ir.CompileError) {
	v, err := decodeLiteral(t)
	if err != nil {
		return 0, err
	}
	switch v.Kind {
	case ir.ValueInt:
		return float64(v.Int), nil
	case ir.ValueFloat:
		return v.Float, nil
	default:
		return 0, ir.Structuralf("expected a number, got %q", literalText(t))
	}
}

func decodeInt(t *sexpr.Tree) (int64, *ir.CompileError) {
	v, err := decodeLiteral(t)
	if err != nil {
		return 0, err
	}
	if v.Kind != ir.ValueInt {
		return 0, ir.Structuralf("expected an integer, got %q", literalText(t))
	}
	return v.Int, nil
}

func decodeBool(t *sexpr.Tree) (bool, *ir.CompileError) {
	if t.IsKeyword("TRUE") {
		return true, nil
	}
	if t.IsKeyword("FALSE") {
		return false, nil
	}
	return false, ir.Structuralf("expected :TRUE or :FALSE, got %q", literalText(t))
}

func decodeStringLiteral(t *sexpr.Tree) (string, *ir.CompileError) {
	v, err := decodeStringValue(t)
	if err != nil {
		return "", err
	}
	return v.Str, nil
}
