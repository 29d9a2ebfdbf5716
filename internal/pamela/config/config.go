// Package config loads CompileOptions from a TOML file with
// BurntSushi/toml, in addition to being populated directly by library
// callers or by CLI flags.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// CompileOptions is the consumer-facing contract for a compile run.
type CompileOptions struct {
	// Input is the ordered list of input paths. Each must carry the
	// ".pamela" extension; the core performs this suffix check in
	// internal/pamela/compile.
	Input []string `toml:"input"`

	// Magic is an optional path to a magic sidecar file.
	Magic string `toml:"magic"`

	// OutputMagic is an optional output path; when set and any lvars were
	// discovered, the regenerated magic file is written there.
	OutputMagic string `toml:"output_magic"`

	// CheckOnly, when true, skips semantic validation and returns the raw
	// parse tree under key ":tree".
	CheckOnly bool `toml:"check_only"`
}

// Load reads CompileOptions from a TOML file at path.
func Load(path string) (CompileOptions, error) {
	var opts CompileOptions
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return opts, fmt.Errorf("load compile options: %w", err)
	}
	return opts, nil
}

// Validate checks the ambient shape of opts that every stage assumes:
// a non-empty input list, each entry ending in ".pamela".
func (o CompileOptions) Validate() error {
	if len(o.Input) == 0 {
		return fmt.Errorf("no input files given")
	}
	for _, in := range o.Input {
		if !strings.HasSuffix(in, ".pamela") {
			return fmt.Errorf("input file does not have .pamela extension: %s", in)
		}
	}
	return nil
}
