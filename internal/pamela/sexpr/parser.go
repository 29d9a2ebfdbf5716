package sexpr

import (
	"fmt"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
)

// Parser reads a PAMELA or magic token stream into a sequence of top-level
// Trees. It is a plain recursive-descent reader over the
// parenthesized/bracketed/braced grammar rather than a table-driven
// parser: PAMELA's concrete syntax is a single unambiguous s-expression
// grammar, so a hand-written reader is both simpler and, unlike a
// generated table parser, incapable of reporting more than one
// derivation. ParseAll's signature still returns every derivation it
// found (always 0 or 1) so callers can apply the same ambiguous-grammar
// check a generated parser would need, even though this reader can never
// trigger it.
type Parser struct {
	// file is used only to annotate returned errors.
	file string
}

// New returns a Parser that will attribute errors to file.
func New(file string) *Parser { return &Parser{file: file} }

// state is the mutable cursor over one token stream.
type state struct {
	toks []lex.Token
	pos  int
}

func (s *state) peek() lex.Token { return s.toks[s.pos] }
func (s *state) eof() bool       { return s.toks[s.pos].Class == lex.ClassEOF }
func (s *state) advance() lex.Token {
	t := s.toks[s.pos]
	if !s.eof() {
		s.pos++
	}
	return t
}

// ParseAll reads every top-level form in toks and returns the single
// derivation the reader found, wrapped in the outer slice a grammar
// capable of producing multiple derivations would use. On a structural
// problem it returns a CompileError of class ErrParse; it never returns
// more than one derivation (see the Parser doc comment).
func (p *Parser) ParseAll(toks []lex.Token) ([][]*Tree, *ir.CompileError) {
	st := &state{toks: toks}
	var forms []*Tree
	for !st.eof() {
		form, err := p.parseForm(st)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return [][]*Tree{forms}, nil
}

func (p *Parser) parseForm(st *state) (*Tree, *ir.CompileError) {
	tok := st.peek()
	switch tok.Class {
	case lex.ClassLParen:
		return p.parseCollection(st, KindList, lex.ClassRParen, "(", ")")
	case lex.ClassLBracket:
		return p.parseCollection(st, KindVector, lex.ClassRBracket, "[", "]")
	case lex.ClassLBrace:
		return p.parseCollection(st, KindMap, lex.ClassRBrace, "{", "}")
	case lex.ClassRParen, lex.ClassRBracket, lex.ClassRBrace:
		return nil, p.errf(tok, "unexpected %q", tok.Text)
	case lex.ClassEOF:
		return nil, p.errf(tok, "unexpected end of file")
	default:
		st.advance()
		return atom(tok), nil
	}
}

func (p *Parser) parseCollection(st *state, kind Kind, closeClass lex.Class, openText, closeText string) (*Tree, *ir.CompileError) {
	open := st.advance() // consume opening delimiter
	t := &Tree{Kind: kind, Open: open}
	for {
		if st.eof() {
			return nil, p.errf(open, "unterminated %q starting here", openText)
		}
		if st.peek().Class == closeClass {
			st.advance()
			return t, nil
		}
		if isCloser(st.peek().Class) {
			return nil, p.errf(st.peek(), "mismatched closing %q, expected %q", st.peek().Text, closeText)
		}
		child, err := p.parseForm(st)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
}

func isCloser(c lex.Class) bool {
	return c == lex.ClassRParen || c == lex.ClassRBracket || c == lex.ClassRBrace
}

func (p *Parser) errf(tok lex.Token, format string, args ...any) *ir.CompileError {
	detail := tok.Text
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return ir.ParseError(p.file, tok.Line, tok.Pos, tok.FullLine, detail)
}
