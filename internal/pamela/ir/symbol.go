// Package ir defines the canonical intermediate representation produced by
// the PAMELA front-end: pclasses, fields, modes, transitions, methods,
// conditions, and method bodies. Values of these types are built bottom-up
// by internal/pamela/build and disambiguated by internal/pamela/validate;
// once returned from validation, a Program is immutable.
package ir

// Symbol is an interned PAMELA identifier: a bare name (pclass, field, mode,
// method, or formal argument) or a keyword with its leading ':' stripped.
// Symbols compare by value: two occurrences of the same name denote the
// same entity.
type Symbol string

// Wildcard is the transition endpoint meaning "any mode of the pclass".
const Wildcard Symbol = "*"

// This is the reserved plant-fn target name referring to the enclosing
// pclass itself.
const This Symbol = "this"
