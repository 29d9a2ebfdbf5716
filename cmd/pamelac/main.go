/*
Pamelac compiles one or more PAMELA source files into their validated
canonical IR.

Usage:

	pamelac [flags] FILE...

The flags are:

	-v, --version
		Give the current version of pamelac and then exit.

	-m, --magic FILE
		Seed the lvar table from the given magic sidecar file before
		compiling.

	-o, --output-magic FILE
		After a successful compile, regenerate the magic file at FILE from
		whatever lvars were discovered, if any were.

	-c, --check
		Skip semantic validation; print the raw parse tree of each input
		instead of the names of the compiled pclasses.

	-i, --interactive
		Start a readline-backed REPL: each line is lexed, built, and
		validated as its own one-off defpclass form, with the result (or
		the first error) printed immediately. FILE arguments are ignored in
		this mode.

Exit codes: 0 on success, 1 when any input fails to compile, 2 when the
CLI itself was invoked incorrectly (e.g. no input files given outside
interactive mode).
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/pamela-lang/pamela/internal/pamela/build"
	"github.com/pamela-lang/pamela/internal/pamela/compile"
	"github.com/pamela-lang/pamela/internal/pamela/config"
	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
	"github.com/pamela-lang/pamela/internal/pamela/validate"
	"github.com/pamela-lang/pamela/internal/version"
)

const (
	ExitSuccess = iota
	ExitCompileError
	ExitUsageError
)

var (
	returnCode      = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Gives the version info")
	flagMagic       = pflag.StringP("magic", "m", "", "Seed the lvar table from this magic sidecar file")
	flagOutMagic    = pflag.StringP("output-magic", "o", "", "Regenerate the magic file here after a successful compile")
	flagCheckOnly   = pflag.BoolP("check", "c", false, "Skip validation; print the raw parse tree of each input")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start a readline REPL instead of compiling FILE arguments")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	log := plog.New()

	if *flagInteractive {
		runREPL(log)
		return
	}

	inputs := pflag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: no input files given")
		returnCode = ExitUsageError
		return
	}

	opts := config.CompileOptions{
		Input:       inputs,
		Magic:       *flagMagic,
		OutputMagic: *flagOutMagic,
		CheckOnly:   *flagCheckOnly,
	}

	result, err := compile.Compile(opts, log)
	if err != nil {
		log.Error("%s", err.Error())
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.FullMessage())
		returnCode = ExitCompileError
		return
	}

	if opts.CheckOnly {
		fmt.Print(result.Tree)
		return
	}

	for _, name := range result.Program.PclassOrder {
		fmt.Printf("pclass %s\n", name)
	}
}

// runREPL implements the -i/--interactive mode: each line is treated as a
// standalone file and run through lex/parse/build/validate, printing the
// resulting pclass names or the first error. One-shot per line; no state
// carries over between lines.
func runREPL(log *plog.Logger) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "pamela> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline session: %v\n", err)
		returnCode = ExitUsageError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		prog, cerr := compileOneForm(line, log)
		if cerr != nil {
			fmt.Println(cerr.FullMessage())
			continue
		}
		for _, name := range prog.PclassOrder {
			fmt.Printf("ok: pclass %s\n", name)
		}
	}
}

// compileOneForm runs a single pasted form through the lex, read, build and
// validate steps compile.Compile uses for a file, without grammar loading,
// magic seeding, or touching the filesystem.
func compileOneForm(src string, log *plog.Logger) (*ir.Program, *ir.CompileError) {
	const file = "<repl>"

	toks, lerr := lex.New(file).Lex(strings.NewReader(src))
	if lerr != nil {
		return nil, ir.ParseError(file, 0, 0, "", lerr.Error())
	}

	derivations, perr := sexpr.New(file).ParseAll(toks)
	if perr != nil {
		return nil, perr
	}

	if len(derivations) != 1 {
		return nil, ir.AmbiguousError(file)
	}

	prog := ir.NewProgram()
	b := build.New(prog, log, file)
	if err := b.BuildFile(derivations[0]); err != nil {
		return nil, err
	}

	if err := validate.Validate(prog, log); err != nil {
		return nil, err
	}
	return prog, nil
}
