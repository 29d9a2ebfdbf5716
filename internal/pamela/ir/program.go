package ir

// LvarsKey is the reserved top-level IR entry holding the interned lvar
// table: `pamela/lvars -> { kind: :lvars, lvars: {name -> default} }`.
const LvarsKey Symbol = "pamela/lvars"

// Program is the full IR: a mapping from pclass name to pclass record, plus
// the distinguished `pamela/lvars` entry (present iff any lvars were
// encountered) and one entry per discovered state variable. It is
// immutable once returned from a successful Compile/Validate call; an
// external inheritance-flattening pass consumes and re-emits the same
// shape.
type Program struct {
	Pclasses map[Symbol]*Pclass

	// PclassOrder preserves source declaration order, which validation
	// walks in and which downstream tools may rely on for
	// deterministic output.
	PclassOrder []Symbol

	// Lvars is the monotonic lvar-name -> default table, seeded from the
	// magic file and then grown during IR building. HasLvars
	// mirrors whether pamela/lvars should be emitted: it is set the first
	// time any lvar is encountered, even if the magic file was empty.
	Lvars    map[Symbol]Value
	HasLvars bool

	// Roots holds top-level pclass-constructor forms: instantiations of a
	// declared pclass outside any field. They carry no IR entry of their
	// own but are checked against the named pclass during validation.
	Roots []*PclassCtor

	// StateVars is the side table of state-variable names hoisted during
	// condition validation, merged into the IR once all pclasses
	// validate successfully.
	StateVars map[Symbol]bool

	// StateVarOrder preserves first-discovery order for deterministic
	// emission.
	StateVarOrder []Symbol
}

// NewProgram returns an empty Program ready for the builder to populate.
func NewProgram() *Program {
	return &Program{
		Pclasses:  map[Symbol]*Pclass{},
		Lvars:     map[Symbol]Value{},
		StateVars: map[Symbol]bool{},
	}
}

// InternLvar records name -> def if name has not already been interned;
// a second occurrence of the same name is a no-op. It reports whether
// this call actually inserted a new entry.
func (p *Program) InternLvar(name Symbol, def Value) bool {
	p.HasLvars = true
	if _, exists := p.Lvars[name]; exists {
		return false
	}
	p.Lvars[name] = def
	return true
}

// HoistStateVar records name as a discovered state variable if not already
// present.
func (p *Program) HoistStateVar(name Symbol) {
	if p.StateVars[name] {
		return
	}
	p.StateVars[name] = true
	p.StateVarOrder = append(p.StateVarOrder, name)
}

// AddPclass registers pc, appending to PclassOrder. The caller
// (internal/pamela/build) is responsible for rejecting duplicate pclass
// names before calling this.
func (p *Program) AddPclass(pc *Pclass) {
	p.Pclasses[pc.Name] = pc
	p.PclassOrder = append(p.PclassOrder, pc.Name)
}
