package validate

import (
	"strconv"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/util"
)

// resolveArity picks the overload a call resolves to: collect
// method's overloads in target, keep those whose formal-arg count equals
// n, and require exactly one match.
func resolveArity(target *ir.Pclass, method ir.Symbol, n int) (*ir.Method, *ir.CompileError) {
	overloads, ok := target.Methods[method]
	if !ok || len(overloads) == 0 {
		return nil, ir.Semanticf("method %s not defined in pclass %s", method, target.Name)
	}

	var matches []*ir.Method
	arities := make([]string, 0, len(overloads))
	for _, m := range overloads {
		arities = append(arities, strconv.Itoa(len(m.Args)))
		if len(m.Args) == n {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, ir.Semanticf("method %s of pclass %s has %d args, but expects %s arg(s)", method, target.Name, n, util.MakeTextList(arities))
	default:
		return nil, ir.Semanticf("method %s of pclass %s is ambiguous at %d args, available arities are %s", method, target.Name, n, util.MakeTextList(arities))
	}
}
