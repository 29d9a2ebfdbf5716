package build

import (
	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
)

// buildDefpmethod builds one "defpmethod" declaration: a name, an optional
// condition map merged into the defaults, a vector of argument symbols, an
// optional body form, and zero or more trailing between forms. A defpmethod
// with no body is primitive; one with a body takes whatever :primitive value
// the condition map supplied (false when absent). Same-name overloads
// coalesce into the pclass's ordered Methods slice rather than overwriting
// one another, so arity resolution can later pick among them.
func (b *Builder) buildDefpmethod(pc *ir.Pclass, t *sexpr.Tree) *ir.CompileError {
	children := t.Rest()
	if len(children) < 2 {
		return ir.Structuralf("defpmethod requires a name and a vector of args")
	}

	nameTree := children[0]
	if !nameTree.IsSymbol("") {
		return ir.Structuralf("defpmethod name must be a symbol")
	}
	name := ir.Symbol(nameTree.Symbol())

	m := &ir.Method{DisplayName: string(name)}

	rest := children[1:]
	primitiveSet := false
	if rest[0].Kind == sexpr.KindMap {
		set, err := b.buildMethodCondMap(m, rest[0])
		if err != nil {
			return err
		}
		primitiveSet = set
		rest = rest[1:]
	}

	if len(rest) == 0 || rest[0].Kind != sexpr.KindVector {
		return ir.Structuralf("defpmethod %q expects a vector of args", name)
	}
	seen := map[ir.Symbol]bool{}
	for _, c := range rest[0].Children {
		if !c.IsSymbol("") {
			return ir.Structuralf("defpmethod %q: all args must be symbols", name)
		}
		a := ir.Symbol(c.Symbol())
		if seen[a] {
			return ir.Structuralf("defpmethod %q: duplicate arg %q", name, a)
		}
		seen[a] = true
		m.Args = append(m.Args, a)
	}

	if len(rest) > 1 {
		stmts, berr := b.buildEachBodyForm(rest[1:])
		if berr != nil {
			return berr
		}
		for _, s := range stmts {
			switch s.Kind {
			case ir.StmtBetween, ir.StmtBetweenStarts, ir.StmtBetweenEnds:
				m.Betweens = append(m.Betweens, s)
			default:
				m.Body = append(m.Body, s)
			}
		}
	}

	if len(m.Body) == 0 {
		m.Primitive = true
	} else if !primitiveSet {
		m.Primitive = false
	}

	if m.Pre == nil {
		m.Pre = ir.LiteralTrue()
	}
	if m.Post == nil {
		m.Post = ir.LiteralTrue()
	}
	if len(m.TemporalConstraints) == 0 {
		m.TemporalConstraints = []ir.Bounds{ir.DefaultBounds()}
	}

	if _, exists := pc.Methods[name]; !exists {
		pc.MethodOrder = append(pc.MethodOrder, name)
	}
	pc.Methods[name] = append(pc.Methods[name], m)
	return nil
}

// buildMethodCondMap merges a defpmethod's leading condition map into m.
// It reports whether the map carried an explicit :primitive entry, which
// buildDefpmethod needs to distinguish "defaulted false" from "author said
// so" once the body's presence is known.
func (b *Builder) buildMethodCondMap(m *ir.Method, t *sexpr.Tree) (bool, *ir.CompileError) {
	pairs, err := mapPairs(t)
	if err != nil {
		return false, err
	}
	primitiveSet := false
	for _, p := range pairs {
		if !p.key.IsKeyword("") {
			return false, ir.Structuralf("defpmethod condition map keys must be keywords")
		}
		switch p.key.Keyword() {
		case "pre":
			cond, cerr := b.buildCondition(p.value)
			if cerr != nil {
				return false, cerr
			}
			m.Pre = cond
		case "post":
			cond, cerr := b.buildCondition(p.value)
			if cerr != nil {
				return false, cerr
			}
			m.Post = cond
		case "cost":
			n, nerr := decodeNumber(p.value)
			if nerr != nil {
				return false, nerr
			}
			m.Cost = n
		case "reward":
			n, nerr := decodeNumber(p.value)
			if nerr != nil {
				return false, nerr
			}
			m.Reward = n
		case "controllable":
			v, verr := decodeBool(p.value)
			if verr != nil {
				return false, verr
			}
			m.Controllable = v
		case "bounds":
			bounds, berr := b.buildBounds(p.value)
			if berr != nil {
				return false, berr
			}
			m.TemporalConstraints = []ir.Bounds{bounds}
		case "display-name":
			s, serr := decodeStringLiteral(p.value)
			if serr != nil {
				return false, serr
			}
			m.DisplayName = s
		case "primitive":
			v, verr := decodeBool(p.value)
			if verr != nil {
				return false, verr
			}
			m.Primitive = v
			primitiveSet = true
		case "doc":
			if _, serr := decodeStringLiteral(p.value); serr != nil {
				return false, serr
			}
		default:
			return false, ir.Structuralf("defpmethod condition map key %q not recognized", ":"+p.key.Keyword())
		}
	}
	return primitiveSet, nil
}
