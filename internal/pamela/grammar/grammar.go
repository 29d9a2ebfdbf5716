// Package grammar loads the two bundled EBNF grammar resources: pamela.ebnf
// and magic.ebnf, from a "public/" resource root in the same
// resource-bundling convention used for static assets elsewhere in the
// module. The grammars themselves are documentation of the concrete syntax
// internal/pamela/lex and internal/pamela/sexpr implement; Load's job is
// the "resource missing" failure mode for a malformed build, not runtime
// parser generation.
package grammar

import (
	"embed"
	"fmt"
)

//go:embed public/pamela.ebnf public/magic.ebnf
var resources embed.FS

// WhitespacePattern and CommentPrefix document the injected
// whitespace/comment rule that internal/pamela/lex's Simple lexer
// definition implements directly.
const (
	WhitespacePattern = `[,\s]+`
	CommentPrefix     = ";"
)

// Grammars holds the text of both bundled grammar resources.
type Grammars struct {
	Pamela string
	Magic  string
}

// Load reads both grammar resources. The actual readers are built
// elsewhere (internal/pamela/sexpr for the main grammar, a participle
// grammar in internal/pamela/magic for the magic grammar), but Load is
// the single place that fails loudly if the bundled resources are
// missing from the build.
func Load() (*Grammars, error) {
	pamela, err := resources.ReadFile("public/pamela.ebnf")
	if err != nil {
		return nil, fmt.Errorf("load grammar: pamela.ebnf: %w", err)
	}
	magic, err := resources.ReadFile("public/magic.ebnf")
	if err != nil {
		return nil, fmt.Errorf("load grammar: magic.ebnf: %w", err)
	}
	return &Grammars{Pamela: string(pamela), Magic: string(magic)}, nil
}
