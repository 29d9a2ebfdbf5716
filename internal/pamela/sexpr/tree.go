// Package sexpr implements the generic reader that turns a PAMELA token
// stream into a parse tree: a homogeneous tree of lists, vectors, maps,
// and atoms sitting between lexing and the IR transform.
// internal/pamela/build walks this tree bottom-up, dispatching on each
// list's leading symbol.
package sexpr

import (
	"fmt"
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/lex"
)

// Kind tags the shape of one Tree node.
type Kind int

const (
	KindAtom Kind = iota
	KindList
	KindVector
	KindMap
)

// Tree is one node of the reader's output. Atoms carry their source Token;
// lists/vectors/maps carry ordered Children (a map's children alternate
// key, value, key, value, ... preserving declaration order, the same
// discipline ir.Pclass.ModeOrder/MethodOrder rely on downstream).
type Tree struct {
	Kind     Kind
	Token    lex.Token // populated for KindAtom
	Children []*Tree   // populated for KindList/KindVector/KindMap

	// Open is the opening delimiter token ("(", "[", "{"); used only for
	// position reporting on empty collections.
	Open lex.Token
}

// atom builds a leaf Tree wrapping tok.
func atom(tok lex.Token) *Tree { return &Tree{Kind: KindAtom, Token: tok} }

// Pos returns the node's source position: an atom's own token position, or
// a collection's opening-delimiter position.
func (t *Tree) Pos() (line, col int, fullLine string) {
	if t == nil {
		return 0, 0, ""
	}
	if t.Kind == KindAtom {
		return t.Token.Line, t.Token.Pos, t.Token.FullLine
	}
	return t.Open.Line, t.Open.Pos, t.Open.FullLine
}

// IsSymbol reports whether t is a bare-symbol atom, optionally matching
// name (pass "" to match any symbol).
func (t *Tree) IsSymbol(name string) bool {
	return t != nil && t.Kind == KindAtom && t.Token.Class == lex.ClassSymbol && (name == "" || t.Token.Text == name)
}

// IsKeyword reports whether t is a bare-keyword atom. The lexer keeps the
// leading ':' in the token text; name is matched against the stripped form
// (see Keyword). Pass "" to match any keyword.
func (t *Tree) IsKeyword(name string) bool {
	if t == nil || t.Kind != KindAtom || t.Token.Class != lex.ClassKeyword {
		return false
	}
	return name == "" || t.Keyword() == name
}

// Keyword returns the atom's keyword text with the leading ':' stripped.
// For an atom that is not a keyword it returns the token text unchanged.
func (t *Tree) Keyword() string {
	return strings.TrimPrefix(t.Token.Text, ":")
}

// Symbol returns the atom's bare symbol text.
func (t *Tree) Symbol() string { return t.Token.Text }

// Head returns the leading symbol of a list, or "" if t is not a
// symbol-headed list (e.g. a quoted literal list or empty list).
func (t *Tree) Head() string {
	if t == nil || t.Kind != KindList || len(t.Children) == 0 {
		return ""
	}
	if t.Children[0].Kind == KindAtom && t.Children[0].Token.Class == lex.ClassSymbol {
		return t.Children[0].Symbol()
	}
	return ""
}

// Rest returns a list's children after the head symbol (empty if t has no
// head or only the head).
func (t *Tree) Rest() []*Tree {
	if t == nil || t.Kind != KindList || len(t.Children) == 0 {
		return nil
	}
	return t.Children[1:]
}

// String renders t as a leveled parse-tree dump, used for the check-only
// ":tree" return value.
func (t *Tree) String() string { return t.leveled("", "") }

func (t *Tree) leveled(first, cont string) string {
	var sb strings.Builder
	sb.WriteString(first)
	switch t.Kind {
	case KindAtom:
		sb.WriteString(fmt.Sprintf("(TERM %s %q)", t.Token.Class, t.Token.Text))
	case KindList:
		sb.WriteString("( list )")
	case KindVector:
		sb.WriteString("( vector )")
	case KindMap:
		sb.WriteString("( map )")
	}
	for i, c := range t.Children {
		sb.WriteByte('\n')
		if i+1 < len(t.Children) {
			sb.WriteString(c.leveled(cont+"  |--: ", cont+"  |     "))
		} else {
			sb.WriteString(c.leveled(cont+`  \--: `, cont+"        "))
		}
	}
	return sb.String()
}
