package build

import (
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
)

// buildCondition builds the grammar-level half of a condition: bare
// symbols and keywords wrap as CondUnresolved pending the validator's
// disambiguation pass; "and"/"or"/"not"/"implies"/"=" recurse. The
// validator never sees a raw grammar condition node other than these
// shapes.
func (b *Builder) buildCondition(t *sexpr.Tree) (*ir.Condition, *ir.CompileError) {
	switch t.Kind {
	case sexpr.KindAtom:
		switch t.Token.Class {
		case lex.ClassNumber, lex.ClassString:
			v, err := decodeLiteral(t)
			if err != nil {
				return nil, err
			}
			return ir.Literal(v), nil
		case lex.ClassKeyword:
			kw := t.Keyword()
			if kw == "TRUE" {
				return ir.LiteralTrue(), nil
			}
			if kw == "FALSE" {
				return ir.LiteralFalse(), nil
			}
			return ir.UnresolvedKeyword(ir.Symbol(kw)), nil
		case lex.ClassSymbol:
			return ir.Unresolved(ir.Symbol(t.Symbol())), nil
		default:
			return nil, ir.Structuralf("invalid condition token %q", t.Token.Text)
		}
	case sexpr.KindList:
		switch t.Head() {
		case "and":
			return b.buildConditionConnective(t, ir.CondAnd)
		case "or":
			return b.buildConditionConnective(t, ir.CondOr)
		case "implies":
			return b.buildConditionConnective(t, ir.CondImplies)
		case "=":
			return b.buildConditionConnective(t, ir.CondEqual)
		case "not":
			children := t.Rest()
			if len(children) != 1 {
				return nil, ir.Structuralf("(not ...) takes exactly one operand")
			}
			arg, err := b.buildCondition(children[0])
			if err != nil {
				return nil, err
			}
			return ir.Not(arg), nil
		default:
			return nil, ir.Structuralf("unrecognized condition form %q", t.Head())
		}
	default:
		return nil, ir.Structuralf("invalid condition")
	}
}

func (b *Builder) buildConditionConnective(t *sexpr.Tree, kind ir.ConditionKind) (*ir.Condition, *ir.CompileError) {
	args, err := b.buildConditionArgs(t.Rest())
	if err != nil {
		return nil, err
	}
	return &ir.Condition{Kind: kind, Args: args}, nil
}

// buildConditionArgs reads a flat list of condition operands, merging the
// deprecated `field.:member` two-token dotted form into a single
// qualified reference before recursing on whatever remains.
func (b *Builder) buildConditionArgs(children []*sexpr.Tree) ([]*ir.Condition, *ir.CompileError) {
	var out []*ir.Condition
	i := 0
	for i < len(children) {
		cond, next, err := b.takeCondition(children, i)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
		i = next
	}
	return out, nil
}

// takeCondition reads one condition starting at children[idx], returning
// the index just past what it consumed. It is the single place that
// detects the dotted legacy qualified-reference shape so every condition
// call site (connective operands, a combinator's leading condition slot)
// shares the same behavior.
func (b *Builder) takeCondition(children []*sexpr.Tree, idx int) (*ir.Condition, int, *ir.CompileError) {
	c := children[idx]
	if idx+1 < len(children) && isDottedFieldHead(c) {
		next := children[idx+1]
		if adjacentKeyword(c, next) {
			field := strings.TrimSuffix(c.Symbol(), ".")
			return ir.UnresolvedQualified(ir.Symbol(field), ir.Symbol(next.Keyword())), idx + 2, nil
		}
	}
	cond, err := b.buildCondition(c)
	if err != nil {
		return nil, 0, err
	}
	return cond, idx + 1, nil
}

func isDottedFieldHead(t *sexpr.Tree) bool {
	return t.Kind == sexpr.KindAtom && t.Token.Class == lex.ClassSymbol && strings.HasSuffix(t.Symbol(), ".")
}

func adjacentKeyword(c, next *sexpr.Tree) bool {
	if next.Kind != sexpr.KindAtom || next.Token.Class != lex.ClassKeyword {
		return false
	}
	return next.Token.Line == c.Token.Line && next.Token.Pos == c.Token.Pos+len([]rune(c.Token.Text))
}
