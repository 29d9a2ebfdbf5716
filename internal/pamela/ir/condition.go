package ir

// ConditionKind tags a Condition node. The grammar only ever produces
// CondLiteral and the logical connectives plus CondUnresolved; every other
// kind is produced exclusively by internal/pamela/validate during
// disambiguation.
type ConditionKind int

const (
	CondLiteral ConditionKind = iota
	CondAnd
	CondOr
	CondNot
	CondImplies
	CondEqual

	// CondUnresolved wraps a bare symbol or keyword straight out of the
	// grammar before the validator has classified it. It never appears in a
	// Program returned from a successful validation pass.
	CondUnresolved

	// The remaining kinds are the reference variants the validator
	// resolves CondUnresolved nodes into.
	CondFieldReference
	CondFieldReferenceField
	CondFieldReferenceMode
	CondModeReference
	CondArgReference
	CondMethodArgReference
	CondStateVariable
)

// Condition is a tagged sum over literals, logical connectives, and the
// reference variants. Args holds operands for the logical connectives and
// for CondEqual. The reference fields are populated only on the kinds that
// use them; see the per-kind comments.
type Condition struct {
	Kind ConditionKind

	// Literal holds the scalar for CondLiteral.
	Literal Value

	// Args holds operands for CondAnd, CondOr, CondNot, CondImplies, and
	// CondEqual. CondNot always has exactly one element.
	Args []*Condition

	// Name is the bare symbol or keyword text for CondUnresolved, and the
	// resolved name for CondFieldReference, CondModeReference,
	// CondArgReference, CondMethodArgReference, and CondStateVariable.
	Name Symbol

	// Qualifier is the pclass a legacy `field.:member` reference's member
	// belongs to (CondFieldReferenceField, CondFieldReferenceMode), or the
	// pclass a mode-qualified literal was coerced against (CondModeReference).
	// For CondFieldReference it is always empty: the field belongs to the
	// pclass under validation ("this").
	Qualifier Symbol

	// Member is the field or mode name referenced by
	// CondFieldReferenceField / CondFieldReferenceMode, or the qualified
	// legacy `field.:member` tail on a not-yet-validated CondUnresolved.
	Member Symbol

	// FromKeyword marks a CondUnresolved node built from a bare keyword
	// token rather than a bare symbol. The validator's disambiguation
	// fallback differs by this flag: an
	// unresolved symbol hoists to a state variable, an unresolved keyword
	// is wrapped back to a literal with a warning.
	FromKeyword bool

	// Qualified marks a CondUnresolved node built from the deprecated
	// `field.:member` syntax: Name holds the field, and
	// Member holds the keyword/symbol tail pending resolution.
	Qualified bool
}

// Unresolved wraps a bare symbol pending disambiguation.
func Unresolved(name Symbol) *Condition {
	return &Condition{Kind: CondUnresolved, Name: name}
}

// UnresolvedKeyword wraps a bare keyword pending disambiguation.
func UnresolvedKeyword(name Symbol) *Condition {
	return &Condition{Kind: CondUnresolved, Name: name, FromKeyword: true}
}

// UnresolvedQualified wraps a legacy `field.:member` reference pending
// disambiguation.
func UnresolvedQualified(field, member Symbol) *Condition {
	return &Condition{Kind: CondUnresolved, Name: field, Member: member, Qualified: true}
}

// LiteralTrue is the canonical literal-true condition used as the default
// pre/post condition and as the condition attached to every mode of a
// mode-enum pclass.
func LiteralTrue() *Condition { return &Condition{Kind: CondLiteral, Literal: BoolValue(true)} }

// LiteralFalse is literal-true's twin, kept distinct so a FALSE literal
// never collapses into a literal-true condition.
func LiteralFalse() *Condition { return &Condition{Kind: CondLiteral, Literal: BoolValue(false)} }

func Literal(v Value) *Condition { return &Condition{Kind: CondLiteral, Literal: v} }

func And(args ...*Condition) *Condition     { return &Condition{Kind: CondAnd, Args: args} }
func Or(args ...*Condition) *Condition      { return &Condition{Kind: CondOr, Args: args} }
func Not(arg *Condition) *Condition         { return &Condition{Kind: CondNot, Args: []*Condition{arg}} }
func Implies(args ...*Condition) *Condition { return &Condition{Kind: CondImplies, Args: args} }
func Equal(args ...*Condition) *Condition   { return &Condition{Kind: CondEqual, Args: args} }

func FieldReference(field Symbol) *Condition {
	return &Condition{Kind: CondFieldReference, Name: field}
}

func FieldReferenceField(field, targetPclass, member Symbol) *Condition {
	return &Condition{Kind: CondFieldReferenceField, Name: field, Qualifier: targetPclass, Member: member}
}

func FieldReferenceMode(field, targetPclass, mode Symbol) *Condition {
	return &Condition{Kind: CondFieldReferenceMode, Name: field, Qualifier: targetPclass, Member: mode}
}

func ModeReference(pclass, mode Symbol) *Condition {
	return &Condition{Kind: CondModeReference, Qualifier: pclass, Name: mode}
}

func ArgReference(arg Symbol) *Condition {
	return &Condition{Kind: CondArgReference, Name: arg}
}

func MethodArgReference(arg Symbol) *Condition {
	return &Condition{Kind: CondMethodArgReference, Name: arg}
}

func StateVariable(name Symbol) *Condition {
	return &Condition{Kind: CondStateVariable, Name: name}
}
