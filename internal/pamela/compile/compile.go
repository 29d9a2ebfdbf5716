// Package compile implements the compiler's top-level entry point, tying together
// the grammar loader, magic pre-parser, IR builder, and semantic
// validator into a single sequential pipeline: one compile is one pass,
// single-threaded, with no operation suspending beyond file I/O.
package compile

import (
	"os"
	"strings"

	"github.com/pamela-lang/pamela/internal/pamela/build"
	"github.com/pamela-lang/pamela/internal/pamela/config"
	"github.com/pamela-lang/pamela/internal/pamela/grammar"
	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/magic"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
	"github.com/pamela-lang/pamela/internal/pamela/validate"
)

// Result is Compile's success shape: Program holds the validated IR,
// unless opts.CheckOnly short-circuited validation entirely, in which
// case Tree holds the raw parse-tree dump.
type Result struct {
	Program *ir.Program
	Tree    string
}

// Compile runs the full pipeline against opts, attributing every
// diagnostic to log. On any failure it returns the first CompileError
// encountered; later stages are never reached once one stage fails.
func Compile(opts config.CompileOptions, log *plog.Logger) (*Result, *ir.CompileError) {
	if err := opts.Validate(); err != nil {
		return nil, ir.Structuralf("%s", err)
	}

	// Stage 1: grammar loader. The core's own parser is hand-written
	// (internal/pamela/sexpr), so loading succeeds or fails purely on
	// whether the bundled resources are present in the build.
	if _, err := grammar.Load(); err != nil {
		return nil, ir.Structuralf("%s", err)
	}

	prog := ir.NewProgram()

	// Stage 2: magic pre-parser, seeding the lvar table before any file
	// is built.
	if opts.Magic != "" {
		seed, ok := magic.Load(opts.Magic, log)
		if !ok {
			return nil, ir.ParseError(opts.Magic, 0, 0, "", "magic file failed to parse")
		}
		for name, def := range seed {
			prog.InternLvar(name, def)
		}
	}

	var treeDump strings.Builder
	for _, file := range opts.Input {
		forms, err := parseFile(file)
		if err != nil {
			return nil, err
		}

		if opts.CheckOnly {
			for _, f := range forms {
				treeDump.WriteString(f.String())
				treeDump.WriteByte('\n')
			}
			continue
		}

		// Stage 3: IR builder.
		b := build.New(prog, log, file)
		if err := b.BuildFile(forms); err != nil {
			return nil, err
		}
	}

	if opts.CheckOnly {
		return &Result{Tree: treeDump.String()}, nil
	}

	// Stage 4: semantic validator.
	if err := validate.Validate(prog, log); err != nil {
		return nil, err
	}

	if opts.OutputMagic != "" && prog.HasLvars {
		if werr := magic.WriteFile(opts.OutputMagic, opts.Input, prog.Lvars); werr != nil {
			return nil, ir.IOError(opts.OutputMagic)
		}
	}

	return &Result{Program: prog}, nil
}

// parseFile lexes and reads one input's parse tree, translating a
// missing file into the class-1 I/O error.
func parseFile(path string) ([]*sexpr.Tree, *ir.CompileError) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ir.IOError(path)
	}
	defer f.Close()

	toks, lerr := lex.New(path).Lex(f)
	if lerr != nil {
		return nil, ir.ParseError(path, 0, 0, "", lerr.Error())
	}

	derivations, perr := sexpr.New(path).ParseAll(toks)
	if perr != nil {
		return nil, perr
	}
	if len(derivations) != 1 {
		return nil, ir.AmbiguousError(path)
	}
	return derivations[0], nil
}
