package validate

import "github.com/pamela-lang/pamela/internal/pamela/ir"

// validateMethods validates each method: every overload is
// validated pre/post/body in turn, in declaration order, carrying the
// overload's own formal-argument set as the method-arg scope used by
// condition disambiguation and by plant-fn-symbol's "leave as-is" case.
func (v *validator) validateMethods(pc *ir.Pclass) *ir.CompileError {
	for _, name := range pc.MethodOrder {
		for _, m := range pc.Methods[name] {
			margs := map[ir.Symbol]bool{}
			for _, a := range m.Args {
				margs[a] = true
			}

			pre, err := v.resolveCondition(pc, margs, m.Pre)
			if err != nil {
				return err
			}
			m.Pre = pre

			post, err := v.resolveCondition(pc, margs, m.Post)
			if err != nil {
				return err
			}
			m.Post = post

			body, err := v.resolveStmtList(pc, margs, name, m.Body)
			if err != nil {
				return err
			}
			m.Body = body
		}
	}
	return nil
}
