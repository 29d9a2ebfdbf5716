package magic

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
)

// WriteFile regenerates a magic file at path from lvars, attributing it
// to inputs in the header comment. Entries are emitted sorted by name so
// two compiles over the same lvar table produce byte-identical output.
func WriteFile(path string, inputs []string, lvars map[ir.Symbol]ir.Value) error {
	names := make([]string, 0, len(lvars))
	for name := range lvars {
		names = append(names, string(name))
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(";; -*- Mode: clojure; coding: utf-8  -*-\n")
	fmt.Fprintf(&sb, ";; magic file corresponding to: %s\n", formatInputs(inputs))
	for _, name := range names {
		sb.WriteString(renderLvar(ir.Symbol(name), lvars[ir.Symbol(name)]))
		sb.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func formatInputs(inputs []string) string {
	return "[" + strings.Join(inputs, " ") + "]"
}

func renderLvar(name ir.Symbol, def ir.Value) string {
	if def.Kind == ir.ValueUnset {
		return fmt.Sprintf("(lvar %q)", string(name))
	}
	return fmt.Sprintf("(lvar %q %s)", string(name), renderDefault(def))
}

// renderDefault formats def the way magic.ebnf's literal rule expects it
// back: booleans as the :TRUE/:FALSE keywords decodeLiteral recognizes,
// floats always with a '.' or an exponent so they read back as floats,
// everything else via ir.Value.String (already quoted for strings,
// ":"-prefixed for keywords).
func renderDefault(def ir.Value) string {
	switch def.Kind {
	case ir.ValueBool:
		if def.Bool {
			return ":TRUE"
		}
		return ":FALSE"
	case ir.ValueInt:
		return strconv.FormatInt(def.Int, 10)
	case ir.ValueFloat:
		s := strconv.FormatFloat(def.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	default:
		return def.String()
	}
}
