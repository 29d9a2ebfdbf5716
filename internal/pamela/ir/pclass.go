package ir

// Access is a field's visibility.
type Access int

const (
	AccessPrivate Access = iota
	AccessPublic
)

// Field is a pclass field record.
type Field struct {
	Access     Access
	Observable bool
	HasInitial bool
	Initial    Expr
}

// Meta is a pclass's `:meta` option map.
type Meta struct {
	Version string
	Doc     string
	Depends []Dependency
	Icon    string
}

// Dependency is one entry of a pclass's `:meta :depends` list: the
// dependency's pclass name and the version string it requires.
type Dependency struct {
	Pclass  Symbol
	Version string
}

// Transition is a mode-to-mode edge. From and To are recorded verbatim
// (either a declared mode keyword or Wildcard); membership in the pclass's
// declared modes is checked by internal/pamela/validate.
type Transition struct {
	From        Symbol
	To          Symbol
	Pre         *Condition
	Post        *Condition
	Probability *float64
}

// TransitionKey formats the "from:to" map key used in Pclass.Transitions.
func TransitionKey(from, to Symbol) string { return string(from) + ":" + string(to) }

// Method is one overload of a pclass method. A Method with Body ==
// nil is primitive.
type Method struct {
	Args                []Symbol
	Pre                 *Condition
	Post                *Condition
	Cost                float64
	Reward              float64
	Controllable        bool
	TemporalConstraints []Bounds
	Primitive           bool
	DisplayName         string
	Body                []*Stmt
	Betweens            []*Between
}

// Pclass is the canonical record for one declared pclass.
type Pclass struct {
	Name Symbol

	Args []Symbol

	Meta Meta

	Inherit []Symbol

	Fields map[Symbol]*Field

	// FieldOrder preserves declaration order, which field validation
	// (internal/pamela/validate) walks in to keep the first-error-in-
	// source-order contract.
	FieldOrder []Symbol

	// Modes maps each declared mode keyword to its condition. For a
	// mode-enum pclass, every entry is LiteralTrue.
	Modes map[Symbol]*Condition

	// ModeOrder preserves declaration order for deterministic error
	// messages and re-emission.
	ModeOrder []Symbol

	// Transitions maps "from:to" (see TransitionKey) to its record.
	Transitions map[string]*Transition

	// TransitionOrder preserves declaration order, mirroring ModeOrder and
	// MethodOrder for the same reason.
	TransitionOrder []string

	// Methods maps a method name to its ordered overload list, indexed by
	// declaration position.
	Methods map[Symbol][]*Method

	// MethodOrder preserves method-name declaration order.
	MethodOrder []Symbol
}

// NewPclass returns a Pclass with all maps initialized and ready for the
// builder to populate.
func NewPclass(name Symbol) *Pclass {
	return &Pclass{
		Name:        name,
		Fields:      map[Symbol]*Field{},
		Modes:       map[Symbol]*Condition{},
		Transitions: map[string]*Transition{},
		Methods:     map[Symbol][]*Method{},
	}
}

// HasMode reports whether m is a declared mode of the pclass, or the
// wildcard.
func (p *Pclass) HasMode(m Symbol) bool {
	if m == Wildcard {
		return true
	}
	_, ok := p.Modes[m]
	return ok
}
