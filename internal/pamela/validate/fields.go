package validate

import (
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
)

// allowedCtorKeywords are the only bare keywords permitted as a
// positional pclass-constructor argument.
var allowedCtorKeywords = map[ir.Symbol]bool{
	"id":         true,
	"interface":  true,
	"plant-part": true,
}

// validateFields checks field initializers: for each field with a :pclass-ctor
// initializer, every positional argument must be a recognized option
// keyword, a symbol naming another field, or a symbol naming a formal
// argument; a field initialized by a bare symbol-reference must name a
// formal argument or another field; and a :pclass-ctor field carrying an
// :initial mode option must name a mode the target pclass actually
// declares.
func (v *validator) validateFields(pc *ir.Pclass) *ir.CompileError {
	for _, fname := range pc.FieldOrder {
		f := pc.Fields[fname]
		if !f.HasInitial {
			continue
		}
		switch f.Initial.Kind {
		case ir.ExprPclassCtor:
			if err := v.validateCtorArgs(pc, fname, f.Initial.Ctor); err != nil {
				return err
			}
			if err := v.validateCtorInitialMode(pc, fname, f.Initial.Ctor); err != nil {
				return err
			}
		case ir.ExprSymbolRef:
			sym := f.Initial.SymbolRef
			if sym == fname {
				return ir.Semanticf("field %q: arg-reference cannot name itself", fname)
			}
			if _, isField := pc.Fields[sym]; isField {
				continue
			}
			if containsSymbol(pc.Args, sym) {
				continue
			}
			return ir.Semanticf("Symbol %s not in args %s", sym, formatSymbols(pc.Args))
		}
	}
	return nil
}

func (v *validator) validateCtorArgs(pc *ir.Pclass, fname ir.Symbol, ctor *ir.PclassCtor) *ir.CompileError {
	for _, arg := range ctor.Args {
		switch arg.Kind {
		case ir.ValueKeyword:
			if !allowedCtorKeywords[arg.Sym] {
				return ir.Semanticf("field %q: pclass constructor argument %q is not recognized", fname, ":"+string(arg.Sym))
			}
		case ir.ValueSymbol:
			sym := arg.Sym
			if sym == fname {
				return ir.Semanticf("field %q: pclass constructor cannot reference itself", fname)
			}
			if _, isField := pc.Fields[sym]; isField {
				continue
			}
			if containsSymbol(pc.Args, sym) {
				continue
			}
			return ir.Semanticf("Symbol %s not in args %s", sym, formatSymbols(pc.Args))
		}
	}
	return nil
}

// validateCtorInitialMode checks that a field's pclass-constructor
// :initial option names one of the target pclass's declared modes.
func (v *validator) validateCtorInitialMode(pc *ir.Pclass, fname ir.Symbol, ctor *ir.PclassCtor) *ir.CompileError {
	if !ctor.Options.HasInitial {
		return nil
	}
	target, ok := v.prog.Pclasses[ctor.Pclass]
	if !ok {
		return ir.Semanticf("field %q: initializes to undeclared pclass %q", fname, ctor.Pclass)
	}
	if target.HasMode(ctor.Options.Initial) {
		return nil
	}
	return ir.Semanticf("pclass :initial mode :%s is not one of the defined modes: %s", ctor.Options.Initial, formatModes(target))
}

// validateRoot checks a top-level pclass-constructor form: the named pclass
// must be declared, positional symbol arguments have no enclosing scope to
// resolve against, and an :initial option must name one of the target's
// declared modes.
func (v *validator) validateRoot(ctor *ir.PclassCtor) *ir.CompileError {
	target, ok := v.prog.Pclasses[ctor.Pclass]
	if !ok {
		return ir.Semanticf("pclass constructor names undeclared pclass %q", ctor.Pclass)
	}
	for _, arg := range ctor.Args {
		switch arg.Kind {
		case ir.ValueKeyword:
			if !allowedCtorKeywords[arg.Sym] {
				return ir.Semanticf("pclass constructor argument %q is not recognized", ":"+string(arg.Sym))
			}
		case ir.ValueSymbol:
			return ir.Semanticf("Symbol %s not in args []", arg.Sym)
		}
	}
	if ctor.Options.HasInitial && !target.HasMode(ctor.Options.Initial) {
		return ir.Semanticf("pclass :initial mode :%s is not one of the defined modes: %s", ctor.Options.Initial, formatModes(target))
	}
	return nil
}

func formatSymbols(syms []ir.Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = string(s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatModes(pc *ir.Pclass) string {
	parts := make([]string, len(pc.ModeOrder))
	for i, m := range pc.ModeOrder {
		parts[i] = ":" + string(m)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
