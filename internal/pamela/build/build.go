// Package build implements the IR builder: a bottom-up tree transform
// that dispatches on each list's leading symbol, with one builder function
// per named form. PAMELA's concrete syntax is itself a sequence of named
// forms, so head-symbol dispatch plays the role a non-terminal dispatch
// table would in a generated parser.
package build

import (
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
)

// Builder runs one file's worth of IR building against a shared Program,
// threading a shared lvar table across an entire compile the way an SDTS
// hook table threads shared state across a translation run: the lvar
// table is scoped to one compile, not one file.
type Builder struct {
	prog *ir.Program
	log  *plog.Logger
	file string
}

// New returns a Builder that accumulates into prog and attributes
// diagnostics to file.
func New(prog *ir.Program, log *plog.Logger, file string) *Builder {
	return &Builder{prog: prog, log: log, file: file}
}

// BuildFile runs every top-level form in forms through the builder,
// registering each resulting pclass into the shared Program.
func (b *Builder) BuildFile(forms []*sexpr.Tree) *ir.CompileError {
	for _, f := range forms {
		if err := b.buildTopForm(f); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildTopForm(t *sexpr.Tree) *ir.CompileError {
	if t.Kind != sexpr.KindList || t.Head() == "" {
		return ir.Structuralf("top-level form must be a defpclass or a pclass constructor")
	}
	if t.Head() == "defpclass" {
		return b.buildDefpclass(t)
	}
	// A top-level pclass constructor instantiates a root instance; the
	// validator checks it against the named pclass's declared modes.
	ctor, err := b.buildPclassCtor(t)
	if err != nil {
		return err
	}
	b.prog.Roots = append(b.prog.Roots, ctor)
	return nil
}

// buildDefpclass builds one defpclass form: a name, a vector of formal
// arguments, then any number of declarations and keyword options, each
// built independently and merged into the accumulating Pclass record.
func (b *Builder) buildDefpclass(t *sexpr.Tree) *ir.CompileError {
	children := t.Rest()
	if len(children) < 2 {
		return ir.Structuralf("defpclass requires a name and a vector of args.")
	}

	nameTree := children[0]
	if !nameTree.IsSymbol("") {
		return ir.Structuralf("defpclass name must be a symbol")
	}
	name := ir.Symbol(nameTree.Symbol())

	argsTree := children[1]
	if argsTree.Kind != sexpr.KindVector {
		return ir.Structuralf("defpclass expects a vector of args.")
	}
	var args []ir.Symbol
	for _, c := range argsTree.Children {
		if !c.IsSymbol("") {
			return ir.Structuralf("All defpclass args must be symbols")
		}
		args = append(args, ir.Symbol(c.Symbol()))
	}

	pc := ir.NewPclass(name)
	pc.Args = args

	decls := children[2:]
	i := 0
	for i < len(decls) {
		c := decls[i]
		if c.IsKeyword("") {
			key := c.Keyword()
			if i+1 >= len(decls) {
				return ir.Structuralf("defpclass option %q missing a value", ":"+key)
			}
			if err := b.applyDefpclassOption(pc, key, decls[i+1]); err != nil {
				return err
			}
			i += 2
			continue
		}
		if c.Kind != sexpr.KindList {
			return ir.Structuralf("pclass %q: unrecognized declaration", name)
		}
		switch c.Head() {
		case "field":
			if err := b.buildFieldDecl(pc, c); err != nil {
				return err
			}
		case "defpmethod":
			if err := b.buildDefpmethod(pc, c); err != nil {
				return err
			}
		case "mode-enum":
			modes, order, err := b.buildModeEnumChildren(c.Rest())
			if err != nil {
				return err
			}
			mergeModes(pc, modes, order)
		default:
			return ir.Structuralf("pclass %q: unrecognized declaration %q", name, c.Head())
		}
		i++
	}

	if _, exists := b.prog.Pclasses[pc.Name]; exists {
		return ir.Semanticf("pclass %q is already declared", pc.Name)
	}
	b.prog.AddPclass(pc)
	return nil
}

func mergeModes(pc *ir.Pclass, modes map[ir.Symbol]*ir.Condition, order []ir.Symbol) {
	for _, m := range order {
		if _, exists := pc.Modes[m]; !exists {
			pc.ModeOrder = append(pc.ModeOrder, m)
		}
		pc.Modes[m] = modes[m]
	}
}

func (b *Builder) applyDefpclassOption(pc *ir.Pclass, key string, val *sexpr.Tree) *ir.CompileError {
	switch key {
	case "meta":
		return b.buildMeta(pc, val)
	case "inherit":
		if val.Kind != sexpr.KindVector {
			return ir.Structuralf("defpclass :inherit must be a vector of pclass names")
		}
		for _, c := range val.Children {
			if !c.IsSymbol("") {
				return ir.Structuralf("defpclass :inherit entries must be symbols")
			}
			pc.Inherit = append(pc.Inherit, ir.Symbol(c.Symbol()))
		}
		return nil
	case "modes":
		switch val.Kind {
		case sexpr.KindVector:
			modes, order, err := b.buildModeEnumChildren(val.Children)
			if err != nil {
				return err
			}
			mergeModes(pc, modes, order)
			return nil
		case sexpr.KindMap:
			pairs, err := mapPairs(val)
			if err != nil {
				return err
			}
			modes := map[ir.Symbol]*ir.Condition{}
			var order []ir.Symbol
			for _, p := range pairs {
				if !p.key.IsKeyword("") {
					return ir.Structuralf("defpclass :modes map keys must be mode keywords")
				}
				m := ir.Symbol(p.key.Keyword())
				cond, cerr := b.buildCondition(p.value)
				if cerr != nil {
					return cerr
				}
				if _, exists := modes[m]; !exists {
					order = append(order, m)
				}
				modes[m] = cond
			}
			mergeModes(pc, modes, order)
			return nil
		default:
			return ir.Structuralf("defpclass :modes must be a vector of mode keywords or a mode-to-condition map")
		}
	case "transitions":
		return b.buildTransitions(pc, val)
	case "fields":
		return b.buildFieldsOption(pc, val)
	case "methods":
		if val.Kind != sexpr.KindVector {
			return ir.Structuralf("defpclass :methods must be a vector of defpmethod forms")
		}
		for _, c := range val.Children {
			if c.Head() != "defpmethod" {
				return ir.Structuralf("defpclass :methods entries must be defpmethod forms")
			}
			if err := b.buildDefpmethod(pc, c); err != nil {
				return err
			}
		}
		return nil
	default:
		return ir.Structuralf("defpclass option %q not recognized", ":"+key)
	}
}

// buildFieldsOption builds the `:fields {name field-init ...}` map form.
// Keys may be keywords or bare symbols; both name the same field. A value
// is either a bare field-type or a {:initial ... :access ... :observable
// ...} map.
func (b *Builder) buildFieldsOption(pc *ir.Pclass, t *sexpr.Tree) *ir.CompileError {
	pairs, err := mapPairs(t)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		var fname ir.Symbol
		switch {
		case p.key.IsKeyword(""):
			fname = ir.Symbol(p.key.Keyword())
		case p.key.IsSymbol(""):
			fname = ir.Symbol(p.key.Symbol())
		default:
			return ir.Structuralf("defpclass :fields keys must name a field")
		}
		f, ferr := b.buildFieldInit(fname, p.value)
		if ferr != nil {
			return ferr
		}
		if _, exists := pc.Fields[fname]; !exists {
			pc.FieldOrder = append(pc.FieldOrder, fname)
		}
		pc.Fields[fname] = f
	}
	return nil
}

// buildFieldInit builds one field record from its initializer form: a map
// of field-init entries, or a bare field-type treated as :initial.
func (b *Builder) buildFieldInit(fname ir.Symbol, t *sexpr.Tree) (*ir.Field, *ir.CompileError) {
	f := &ir.Field{Access: ir.AccessPrivate, Observable: false}

	if t.Kind == sexpr.KindMap {
		pairs, err := mapPairs(t)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if !p.key.IsKeyword("") {
				return nil, ir.Structuralf("field %q: field-init keys must be keywords", fname)
			}
			switch p.key.Keyword() {
			case "initial":
				expr, err := b.buildFieldType(p.value)
				if err != nil {
					return nil, err
				}
				f.HasInitial = true
				f.Initial = expr
			case "access":
				switch {
				case p.value.IsKeyword("public"):
					f.Access = ir.AccessPublic
				case p.value.IsKeyword("private"):
					f.Access = ir.AccessPrivate
				default:
					return nil, ir.Structuralf("field %q: :access must be :public or :private", fname)
				}
			case "observable":
				v, err := decodeBool(p.value)
				if err != nil {
					return nil, err
				}
				f.Observable = v
			default:
				return nil, ir.Structuralf("field %q: unrecognized field-init key %q", fname, ":"+p.key.Keyword())
			}
		}
		return f, nil
	}

	expr, err := b.buildFieldType(t)
	if err != nil {
		return nil, err
	}
	f.HasInitial = true
	f.Initial = expr
	return f, nil
}

// buildMeta builds the `:meta` option map and checks the `:depends`
// version constraints against already-declared pclasses.
func (b *Builder) buildMeta(pc *ir.Pclass, t *sexpr.Tree) *ir.CompileError {
	pairs, err := mapPairs(t)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if !p.key.IsKeyword("") {
			return ir.Structuralf("defpclass meta keys must be keywords")
		}
		key := p.key.Keyword()
		switch key {
		case "version":
			if p.value.Token.Class != lex.ClassString {
				return ir.Structuralf("defpclass meta :version must be a string (not %q)", literalText(p.value))
			}
			s, serr := decodeStringValue(p.value)
			if serr != nil {
				return serr
			}
			pc.Meta.Version = s.Str
		case "doc":
			if p.value.Token.Class != lex.ClassString {
				return ir.Structuralf("defpclass meta :doc must be a string (not %q)", literalText(p.value))
			}
			s, serr := decodeStringValue(p.value)
			if serr != nil {
				return serr
			}
			pc.Meta.Doc = s.Str
		case "icon":
			pc.Meta.Icon = literalText(p.value)
		case "depends":
			if p.value.Kind != sexpr.KindVector {
				return ir.Structuralf("defpclass meta :depends must be a vector of [pclass version] pairs")
			}
			for _, dep := range p.value.Children {
				if dep.Kind != sexpr.KindVector || len(dep.Children) != 2 {
					return ir.Structuralf("defpclass meta :depends entries must be [pclass version] pairs")
				}
				if !dep.Children[0].IsSymbol("") {
					return ir.Structuralf("defpclass meta :depends entries must name a pclass symbol first")
				}
				depName := ir.Symbol(dep.Children[0].Symbol())
				depVer, verr := decodeStringValue(dep.Children[1])
				if verr != nil {
					return verr
				}
				pc.Meta.Depends = append(pc.Meta.Depends, ir.Dependency{Pclass: depName, Version: depVer.Str})

				target, ok := b.prog.Pclasses[depName]
				if !ok {
					return ir.Dependencyf("defpclass meta :depends upon a non-existent model: %s", depName)
				}
				if target.Meta.Version != depVer.Str {
					return ir.Dependencyf("defpclass meta :depends upon [%s %q] but the available version is: %q", depName, depVer.Str, target.Meta.Version)
				}
			}
		default:
			return ir.Structuralf("defpclass meta key %q invalid", ":"+key)
		}
	}
	return nil
}

// buildFieldDecl builds a `(field name ...)` declaration: a bare
// field-type, or a run of :initial/:access/:observable init entries.
func (b *Builder) buildFieldDecl(pc *ir.Pclass, t *sexpr.Tree) *ir.CompileError {
	children := t.Rest()
	if len(children) == 0 {
		return ir.Structuralf("field declaration missing a name")
	}
	if !children[0].IsSymbol("") {
		return ir.Structuralf("field name must be a symbol")
	}
	fname := ir.Symbol(children[0].Symbol())
	rest := children[1:]

	if _, exists := pc.Fields[fname]; !exists {
		pc.FieldOrder = append(pc.FieldOrder, fname)
	}

	f := &ir.Field{Access: ir.AccessPrivate, Observable: false}

	if len(rest) == 1 {
		expr, err := b.buildFieldType(rest[0])
		if err != nil {
			return err
		}
		f.HasInitial = true
		f.Initial = expr
	} else {
		i := 0
		for i < len(rest) {
			if !rest[i].IsKeyword("") {
				return ir.Structuralf("field %q: expected a keyword option", fname)
			}
			key := rest[i].Keyword()
			if i+1 >= len(rest) {
				return ir.Structuralf("field %q: option %q missing a value", fname, ":"+key)
			}
			val := rest[i+1]
			switch key {
			case "initial":
				expr, err := b.buildFieldType(val)
				if err != nil {
					return err
				}
				f.HasInitial = true
				f.Initial = expr
			case "access":
				switch {
				case val.IsKeyword("public"):
					f.Access = ir.AccessPublic
				case val.IsKeyword("private"):
					f.Access = ir.AccessPrivate
				default:
					return ir.Structuralf("field %q: :access must be :public or :private", fname)
				}
			case "observable":
				v, err := decodeBool(val)
				if err != nil {
					return err
				}
				f.Observable = v
			default:
				return ir.Structuralf("field %q: unrecognized option %q", fname, ":"+key)
			}
			i += 2
		}
	}

	pc.Fields[fname] = f
	return nil
}

// buildFieldType builds a field's initializer expression: a scalar wraps
// into a literal Expr; lvar/pclass-ctor/mode-keyword/symbol-ref forms pass
// through as the matching Expr kind.
func (b *Builder) buildFieldType(t *sexpr.Tree) (ir.Expr, *ir.CompileError) {
	switch t.Kind {
	case sexpr.KindAtom:
		switch t.Token.Class {
		case lex.ClassNumber, lex.ClassString:
			v, err := decodeLiteral(t)
			if err != nil {
				return ir.Expr{}, err
			}
			return ir.Expr{Kind: ir.ExprLiteral, Literal: v}, nil
		case lex.ClassKeyword:
			kw := t.Keyword()
			if kw == "TRUE" {
				return ir.Expr{Kind: ir.ExprLiteral, Literal: ir.BoolValue(true)}, nil
			}
			if kw == "FALSE" {
				return ir.Expr{Kind: ir.ExprLiteral, Literal: ir.BoolValue(false)}, nil
			}
			return ir.Expr{Kind: ir.ExprModeRef, ModeRef: ir.Symbol(kw)}, nil
		case lex.ClassSymbol:
			return ir.Expr{Kind: ir.ExprSymbolRef, SymbolRef: ir.Symbol(t.Symbol())}, nil
		}
	case sexpr.KindList:
		if t.Head() == "lvar" {
			lv, err := b.buildLvarCtor(t)
			if err != nil {
				return ir.Expr{}, err
			}
			return ir.Expr{Kind: ir.ExprLvar, Lvar: lv}, nil
		}
		ctor, err := b.buildPclassCtor(t)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.ExprPclassCtor, Ctor: ctor}, nil
	}
	return ir.Expr{}, ir.Structuralf("invalid field type")
}

// buildLvarCtor builds `(lvar name, default?)`, side-effect-interning the
// lvar into the program's monotonic table.
func (b *Builder) buildLvarCtor(t *sexpr.Tree) (*ir.Lvar, *ir.CompileError) {
	children := t.Rest()
	if len(children) == 0 {
		return nil, ir.Structuralf("lvar requires a name")
	}
	lv := &ir.Lvar{}
	switch {
	case children[0].IsSymbol("gensym"):
		lv.Gensym = true
	case children[0].Kind == sexpr.KindAtom && children[0].Token.Class == lex.ClassString:
		v, err := decodeStringValue(children[0])
		if err != nil {
			return nil, err
		}
		lv.Name = ir.Symbol(v.Str)
	default:
		return nil, ir.Structuralf("lvar name must be a string or the symbol gensym")
	}
	if len(children) > 1 {
		v, err := decodeLiteral(children[1])
		if err != nil {
			return nil, err
		}
		lv.HasDefault = true
		lv.Default = v
	}
	if !lv.Gensym {
		def := ir.UnsetValue()
		if lv.HasDefault {
			def = lv.Default
		}
		if !b.prog.InternLvar(lv.Name, def) {
			if prior := b.prog.Lvars[lv.Name]; prior != def {
				b.log.Warn("%s: lvar %q already interned with default %s; ignoring %s", b.file, lv.Name, prior, def)
			}
		}
	}
	return lv, nil
}

// buildPclassCtor builds a pclass-constructor invocation: positional args
// accumulate in order, and the recognized options (:id, :interface,
// :plant-part, :initial) merge into the result.
func (b *Builder) buildPclassCtor(t *sexpr.Tree) (*ir.PclassCtor, *ir.CompileError) {
	pclass := ir.Symbol(t.Head())
	children := t.Rest()
	ctor := &ir.PclassCtor{Pclass: pclass}
	i := 0
	for i < len(children) {
		c := children[i]
		if c.IsKeyword("") {
			key := c.Keyword()
			if i+1 >= len(children) {
				return nil, ir.Structuralf("pclass constructor %q: option %q missing a value", pclass, ":"+key)
			}
			val := children[i+1]
			switch key {
			case "id":
				v, err := decodeStringValue(val)
				if err != nil {
					return nil, err
				}
				ctor.Options.ID = v.Str
			case "interface":
				if !val.IsSymbol("") {
					return nil, ir.Structuralf("pclass constructor %q: :interface must be a symbol", pclass)
				}
				ctor.Options.Interface = ir.Symbol(val.Symbol())
			case "plant-part":
				v, err := decodeBool(val)
				if err != nil {
					return nil, err
				}
				ctor.Options.PlantPart = v
			case "initial":
				if !val.IsKeyword("") {
					return nil, ir.Structuralf("pclass constructor %q: :initial must be a mode keyword", pclass)
				}
				ctor.Options.HasInitial = true
				ctor.Options.Initial = ir.Symbol(val.Keyword())
			default:
				return nil, ir.Structuralf("pclass constructor %q: unrecognized option %q", pclass, ":"+key)
			}
			i += 2
			continue
		}
		v, err := decodeLiteral(c)
		if err != nil {
			return nil, err
		}
		ctor.Args = append(ctor.Args, v)
		i++
	}
	return ctor, nil
}

// buildModeEnumChildren builds an enumerated mode list: each listed mode
// keyword maps to the literal-true condition.
func (b *Builder) buildModeEnumChildren(children []*sexpr.Tree) (map[ir.Symbol]*ir.Condition, []ir.Symbol, *ir.CompileError) {
	modes := map[ir.Symbol]*ir.Condition{}
	var order []ir.Symbol
	for _, c := range children {
		if !c.IsKeyword("") {
			return nil, nil, ir.Structuralf("mode-enum expects mode keywords")
		}
		m := ir.Symbol(c.Keyword())
		if _, exists := modes[m]; !exists {
			order = append(order, m)
		}
		modes[m] = ir.LiteralTrue()
	}
	return modes, order, nil
}

func (b *Builder) buildTransitions(pc *ir.Pclass, t *sexpr.Tree) *ir.CompileError {
	pairs, err := mapPairs(t)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		from, to, kerr := parseTransitionKey(p.key)
		if kerr != nil {
			return kerr
		}
		tr := &ir.Transition{From: from, To: to}
		if p.value.Kind == sexpr.KindMap {
			vpairs, verr := mapPairs(p.value)
			if verr != nil {
				return verr
			}
			for _, vp := range vpairs {
				if !vp.key.IsKeyword("") {
					return ir.Structuralf("transition option keys must be keywords")
				}
				switch vp.key.Keyword() {
				case "pre":
					cond, cerr := b.buildCondition(vp.value)
					if cerr != nil {
						return cerr
					}
					tr.Pre = cond
				case "post":
					cond, cerr := b.buildCondition(vp.value)
					if cerr != nil {
						return cerr
					}
					tr.Post = cond
				case "probability":
					n, nerr := decodeNumber(vp.value)
					if nerr != nil {
						return nerr
					}
					tr.Probability = &n
				default:
					return ir.Structuralf("transition option %q not recognized", ":"+vp.key.Keyword())
				}
			}
		}
		if tr.Pre == nil {
			tr.Pre = ir.LiteralTrue()
		}
		if tr.Post == nil {
			tr.Post = ir.LiteralTrue()
		}
		key := ir.TransitionKey(from, to)
		if _, exists := pc.Transitions[key]; !exists {
			pc.TransitionOrder = append(pc.TransitionOrder, key)
		}
		pc.Transitions[key] = tr
	}
	return nil
}

// parseTransitionKey reads a transition map key: either the compact
// ":from:to" keyword form or a [from to] vector of mode keywords. Either
// endpoint may be the * wildcard.
func parseTransitionKey(t *sexpr.Tree) (ir.Symbol, ir.Symbol, *ir.CompileError) {
	if t.IsKeyword("") {
		parts := strings.SplitN(t.Keyword(), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", ir.Structuralf("transition key %q must name a from and a to mode", ":"+t.Keyword())
		}
		return ir.Symbol(parts[0]), ir.Symbol(parts[1]), nil
	}
	if t.Kind != sexpr.KindVector || len(t.Children) != 2 {
		return "", "", ir.Structuralf("transition key must be a :from:to keyword or a [from to] vector")
	}
	from, err := symbolOrWildcard(t.Children[0])
	if err != nil {
		return "", "", err
	}
	to, err := symbolOrWildcard(t.Children[1])
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func symbolOrWildcard(t *sexpr.Tree) (ir.Symbol, *ir.CompileError) {
	if t.IsKeyword("") {
		return ir.Symbol(t.Keyword()), nil
	}
	if t.IsSymbol("*") {
		return ir.Wildcard, nil
	}
	return "", ir.Structuralf("transition endpoint must be a mode keyword or *")
}

// mapPair is one key/value entry of a KindMap node, in declaration order.
type mapPair struct {
	key   *sexpr.Tree
	value *sexpr.Tree
}

func mapPairs(t *sexpr.Tree) ([]mapPair, *ir.CompileError) {
	if t.Kind != sexpr.KindMap {
		return nil, ir.Structuralf("expected a map literal")
	}
	if len(t.Children)%2 != 0 {
		return nil, ir.Structuralf("map literal has an odd number of forms")
	}
	var pairs []mapPair
	for i := 0; i < len(t.Children); i += 2 {
		pairs = append(pairs, mapPair{key: t.Children[i], value: t.Children[i+1]})
	}
	return pairs, nil
}

// literalText renders the raw source lexeme of t, used for error messages
// that must echo back the offending value verbatim.
func literalText(t *sexpr.Tree) string {
	if t.Kind != sexpr.KindAtom {
		return t.String()
	}
	return t.Token.Text
}
