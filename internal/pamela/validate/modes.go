package validate

import "github.com/pamela-lang/pamela/internal/pamela/ir"

// validateModesAndTransitions checks a pclass's modes and transitions: each mode's condition is
// validated with no method-argument scope, each transition's pre/post
// conditions are validated in the "[:transition \"from:to\" :pre|:post]"
// context, and from/to are checked against the pclass's declared modes
// (or the wildcard).
func (v *validator) validateModesAndTransitions(pc *ir.Pclass) *ir.CompileError {
	for _, m := range pc.ModeOrder {
		cond, err := v.resolveCondition(pc, nil, pc.Modes[m])
		if err != nil {
			return err
		}
		pc.Modes[m] = cond
	}

	for _, key := range pc.TransitionOrder {
		tr := pc.Transitions[key]
		if !pc.HasMode(tr.From) {
			return ir.Semanticf("transition %q: from-mode :%s is not a declared mode of pclass %q", key, tr.From, pc.Name)
		}
		if !pc.HasMode(tr.To) {
			return ir.Semanticf("transition %q: to-mode :%s is not a declared mode of pclass %q", key, tr.To, pc.Name)
		}

		pre, err := v.resolveCondition(pc, nil, tr.Pre)
		if err != nil {
			return err
		}
		tr.Pre = pre

		post, err := v.resolveCondition(pc, nil, tr.Post)
		if err != nil {
			return err
		}
		tr.Post = post
	}
	return nil
}
