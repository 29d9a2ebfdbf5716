// Package validate implements the semantic validator: given the
// raw IR built by internal/pamela/build, it disambiguates every bare
// symbol/keyword appearing in a condition against the enclosing pclass's
// lexical scope, checks the arity of every plant-function call, hoists
// newly-discovered state variables, and rewrites the slack/soft/optional
// macro forms into their canonical sequence/parallel/choose/choice
// expansion. Validation proceeds per pclass in source declaration order,
// through fields, modes/transitions, then methods, stopping at the first
// error encountered, the same early-exit discipline
// internal/pamela/build's per-form builders already use.
package validate

import (
	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
)

// validator threads the shared Program (for pclass lookups and lvar/state-
// var tables) and the compile's logger through every resolution call.
// There is no process-global state: two compiles never share a table.
type validator struct {
	prog *ir.Program
	log  *plog.Logger
}

// Validate walks prog.Pclasses in prog.PclassOrder, running fields, modes
// & transitions, then methods validation for each pclass in turn. It
// mutates the pclass records in place, resolving CondUnresolved nodes
// into reference variants, rewriting plant-fn-symbol nodes into
// plant-fn/plant-fn-field, and expanding slack/soft/optional into their
// canonical form, and returns the first error encountered, in pclass
// declaration order. On success, prog is the validated IR; state
// variables hoisted along the way are already recorded in prog.StateVars
// via prog.HoistStateVar. Validate is idempotent: a second
// call on an already-validated Program is a no-op that returns no error
// and leaves every node unchanged, since the resolved condition/statement
// kinds it would look for have already been rewritten to their terminal
// forms.
func Validate(prog *ir.Program, log *plog.Logger) *ir.CompileError {
	v := &validator{prog: prog, log: log}
	for _, name := range prog.PclassOrder {
		pc := prog.Pclasses[name]
		if err := v.validateFields(pc); err != nil {
			return err
		}
		if err := v.validateModesAndTransitions(pc); err != nil {
			return err
		}
		if err := v.validateMethods(pc); err != nil {
			return err
		}
	}
	for _, root := range prog.Roots {
		if err := v.validateRoot(root); err != nil {
			return err
		}
	}
	return nil
}

func containsSymbol(haystack []ir.Symbol, needle ir.Symbol) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
