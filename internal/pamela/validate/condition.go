package validate

import "github.com/pamela-lang/pamela/internal/pamela/ir"

// resolveCondition disambiguates one condition: it recurses through the logical
// connectives, performs the mode-qualification second pass on :equal
// conditions, and hands bare CondUnresolved nodes to resolveUnresolved for
// disambiguation. margs is nil outside of method validation (modes and
// transitions have no method-argument scope); methodArgReference can
// never be produced in that case.
func (v *validator) resolveCondition(pc *ir.Pclass, margs map[ir.Symbol]bool, cond *ir.Condition) (*ir.Condition, *ir.CompileError) {
	if cond == nil {
		return nil, nil
	}
	switch cond.Kind {
	case ir.CondLiteral:
		return cond, nil
	case ir.CondAnd, ir.CondOr, ir.CondImplies:
		for i, a := range cond.Args {
			r, err := v.resolveCondition(pc, margs, a)
			if err != nil {
				return nil, err
			}
			cond.Args[i] = r
		}
		return cond, nil
	case ir.CondNot:
		r, err := v.resolveCondition(pc, margs, cond.Args[0])
		if err != nil {
			return nil, err
		}
		cond.Args[0] = r
		return cond, nil
	case ir.CondEqual:
		for i, a := range cond.Args {
			r, err := v.resolveCondition(pc, margs, a)
			if err != nil {
				return nil, err
			}
			cond.Args[i] = r
		}
		v.qualifyModes(pc, cond)
		return cond, nil
	case ir.CondUnresolved:
		return v.resolveUnresolved(pc, margs, cond)
	default:
		// Already one of the reference variants from a prior Validate
		// call (or, for CondUnresolved's sibling kinds, never produced by
		// the grammar at all); pass through unchanged so a repeat call is
		// idempotent.
		return cond, nil
	}
}

// resolveUnresolved applies the resolution priority order:
// field, then mode, then method-arg, then pclass-arg; failing all of
// those, hoist a new state variable (or, for a keyword that escaped
// every resolution path, fall back to a literal with a warning).
func (v *validator) resolveUnresolved(pc *ir.Pclass, margs map[ir.Symbol]bool, cond *ir.Condition) (*ir.Condition, *ir.CompileError) {
	if cond.Qualified {
		return v.resolveQualified(pc, cond.Name, cond.Member)
	}

	name := cond.Name
	if _, ok := pc.Fields[name]; ok {
		return ir.FieldReference(name), nil
	}
	if _, ok := pc.Modes[name]; ok {
		return ir.ModeReference(pc.Name, name), nil
	}
	if margs != nil && margs[name] {
		return ir.MethodArgReference(name), nil
	}
	if containsSymbol(pc.Args, name) {
		return ir.ArgReference(name), nil
	}
	if cond.FromKeyword {
		v.log.Warn("literal :%s in pclass %q escaped disambiguation; treating as a literal keyword", name, pc.Name)
		return ir.Literal(ir.KeywordValue(name)), nil
	}
	v.prog.HoistStateVar(name)
	return ir.StateVariable(name), nil
}

// resolveQualified implements the legacy "field.:member" form: field must
// name a field of pc whose initializer is a direct pclass-constructor;
// member must then name a field or mode of the target pclass.
func (v *validator) resolveQualified(pc *ir.Pclass, field, member ir.Symbol) (*ir.Condition, *ir.CompileError) {
	f, ok := pc.Fields[field]
	if !ok {
		return nil, ir.Semanticf("qualified reference %s.:%s: %s is not a field of pclass %q", field, member, field, pc.Name)
	}
	if f.Initial.Kind != ir.ExprPclassCtor {
		return nil, ir.Semanticf("qualified reference %s.:%s: field %s is not initialized to a pclass constructor", field, member, field)
	}
	target, ok := v.prog.Pclasses[f.Initial.Ctor.Pclass]
	if !ok {
		return nil, ir.Semanticf("qualified reference %s.:%s: field %s initializes to undeclared pclass %s", field, member, field, f.Initial.Ctor.Pclass)
	}

	v.log.Warn("qualified reference %s.:%s in pclass %q uses deprecated field.:member syntax", field, member, pc.Name)

	if _, ok := target.Fields[member]; ok {
		return ir.FieldReferenceField(field, target.Name, member), nil
	}
	if _, ok := target.Modes[member]; ok {
		return ir.FieldReferenceMode(field, target.Name, member), nil
	}
	return nil, ir.Semanticf("qualified reference %s.:%s: %s is not a field or mode of pclass %s", field, member, member, target.Name)
}

// qualifyModes is the mode-qualification second pass for
// :equal conditions: when one operand is a field-reference (direct or
// legacy-qualified) whose target field constructs a pclass P, any other
// operand that is a bare literal keyword naming one of P's modes is
// rewritten to a mode-reference against P.
func (v *validator) qualifyModes(pc *ir.Pclass, cond *ir.Condition) {
	for i, a := range cond.Args {
		target, ok := v.fieldTargetPclass(pc, a)
		if !ok {
			continue
		}
		for j, b := range cond.Args {
			if i == j {
				continue
			}
			if b.Kind != ir.CondLiteral || b.Literal.Kind != ir.ValueKeyword {
				continue
			}
			if !target.HasMode(b.Literal.Sym) {
				continue
			}
			cond.Args[j] = ir.ModeReference(target.Name, b.Literal.Sym)
		}
	}
}

// fieldTargetPclass returns the pclass a resolved field-reference
// operand's field was constructed against, if any.
func (v *validator) fieldTargetPclass(pc *ir.Pclass, cond *ir.Condition) (*ir.Pclass, bool) {
	switch cond.Kind {
	case ir.CondFieldReference:
		f, ok := pc.Fields[cond.Name]
		if !ok || f.Initial.Kind != ir.ExprPclassCtor {
			return nil, false
		}
		target, ok := v.prog.Pclasses[f.Initial.Ctor.Pclass]
		return target, ok
	case ir.CondFieldReferenceField:
		target, ok := v.prog.Pclasses[cond.Qualifier]
		return target, ok
	default:
		return nil, false
	}
}
