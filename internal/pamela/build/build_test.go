package build

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/lex"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
	"github.com/pamela-lang/pamela/internal/pamela/sexpr"
)

func buildSource(t *testing.T, src string) (*ir.Program, *ir.CompileError) {
	t.Helper()

	toks, err := lex.New("test.pamela").Lex(strings.NewReader(src))
	require.NoError(t, err)

	derivations, perr := sexpr.New("test.pamela").ParseAll(toks)
	require.Nil(t, perr)
	require.Len(t, derivations, 1)

	prog := ir.NewProgram()
	b := New(prog, plog.NewWithWriter(io.Discard), "test.pamela")
	return prog, b.BuildFile(derivations[0])
}

func Test_BuildFile_defpclassErrors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectMsg string
	}{
		{
			name:      "args not a vector",
			input:     "(defpclass bad-args :not-a-vector)",
			expectMsg: "defpclass expects a vector of args.",
		},
		{
			name:      "non-symbol args",
			input:     "(defpclass no-sym-args [:a 123])",
			expectMsg: "All defpclass args must be symbols",
		},
		{
			name:      "bad meta key",
			input:     "(defpclass bad-meta-key [] :meta {:foo :bar})",
			expectMsg: `defpclass meta key ":foo" invalid`,
		},
		{
			name:      "meta version must be a string",
			input:     "(defpclass bad-meta-ver [] :meta {:version 1.0})",
			expectMsg: `defpclass meta :version must be a string (not "1.0")`,
		},
		{
			name: "depends version mismatch",
			input: `(defpclass thing [] :meta {:version "0.2.0"})
				(defpclass bad-meta-depends-wrong-version [] :meta {:depends [[thing "1.0"]]})`,
			expectMsg: `defpclass meta :depends upon [thing "1.0"] but the available version is: "0.2.0"`,
		},
		{
			name:      "depends on missing model",
			input:     `(defpclass needy [] :meta {:depends [[ghost "1.0"]]})`,
			expectMsg: "defpclass meta :depends upon a non-existent model: ghost",
		},
		{
			name: "duplicate pclass name",
			input: `(defpclass p [])
				(defpclass p [])`,
			expectMsg: `pclass "p" is already declared`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := buildSource(t, tc.input)
			if !assert.NotNil(err) {
				return
			}
			assert.True(strings.HasPrefix(err.Error(), tc.expectMsg), "got %q, want prefix %q", err.Error(), tc.expectMsg)
		})
	}
}

func Test_BuildFile_pclassRecord(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass pwrvals []
		  :meta {:version "0.2.0" :doc "Power values."}
		  :modes [:high :none])

		(defpclass plant [gain]
		  :inherit [base]
		  :fields {:pwr (pwrvals :initial :none)
		           :level {:initial 0 :access :public :observable :TRUE}}
		  (defpmethod go [x]))
	`)
	require.Nil(t, err)

	assert.Equal([]ir.Symbol{"pwrvals", "plant"}, prog.PclassOrder)

	pv := prog.Pclasses["pwrvals"]
	assert.Equal("0.2.0", pv.Meta.Version)
	assert.Equal("Power values.", pv.Meta.Doc)
	assert.Equal([]ir.Symbol{"high", "none"}, pv.ModeOrder)
	assert.Equal(ir.LiteralTrue(), pv.Modes["high"])
	assert.Equal(ir.LiteralTrue(), pv.Modes["none"])

	pl := prog.Pclasses["plant"]
	assert.Equal([]ir.Symbol{"gain"}, pl.Args)
	assert.Equal([]ir.Symbol{"base"}, pl.Inherit)
	assert.Equal([]ir.Symbol{"pwr", "level"}, pl.FieldOrder)

	pwr := pl.Fields["pwr"]
	assert.Equal(ir.AccessPrivate, pwr.Access)
	assert.False(pwr.Observable)
	assert.Equal(ir.ExprPclassCtor, pwr.Initial.Kind)
	assert.Equal(ir.Symbol("pwrvals"), pwr.Initial.Ctor.Pclass)
	assert.True(pwr.Initial.Ctor.Options.HasInitial)
	assert.Equal(ir.Symbol("none"), pwr.Initial.Ctor.Options.Initial)

	level := pl.Fields["level"]
	assert.Equal(ir.AccessPublic, level.Access)
	assert.True(level.Observable)
	assert.Equal(ir.ExprLiteral, level.Initial.Kind)
	assert.Equal(ir.IntValue(0), level.Initial.Literal)
}

func Test_BuildFile_fieldDeclarationForm(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass p [cap]
		  (field limit cap)
		  (field speed :initial 1.5 :access :public)
		  (field seed (lvar "seed" 7)))
	`)
	require.Nil(t, err)

	p := prog.Pclasses["p"]
	assert.Equal([]ir.Symbol{"limit", "speed", "seed"}, p.FieldOrder)
	assert.Equal(ir.ExprSymbolRef, p.Fields["limit"].Initial.Kind)
	assert.Equal(ir.Symbol("cap"), p.Fields["limit"].Initial.SymbolRef)
	assert.Equal(ir.AccessPublic, p.Fields["speed"].Access)
	assert.Equal(ir.FloatValue(1.5), p.Fields["speed"].Initial.Literal)
	assert.Equal(ir.ExprLvar, p.Fields["seed"].Initial.Kind)

	assert.True(prog.HasLvars)
	assert.Equal(ir.IntValue(7), prog.Lvars["seed"])
}

func Test_BuildFile_lvarInterningIsMonotonic(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass p []
		  (field a (lvar "shared" 1))
		  (field b (lvar "shared" 2))
		  (field c (lvar "bare")))
	`)
	require.Nil(t, err)

	assert.Equal(ir.IntValue(1), prog.Lvars["shared"])
	assert.Equal(ir.UnsetValue(), prog.Lvars["bare"])
}

func Test_BuildFile_transitions(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass sw []
		  :modes [:on :off]
		  :transitions {:off:on {:pre (= ready :TRUE) :probability 0.9}
		                [:on :off] {}
		                :*:off {}})
	`)
	require.Nil(t, err)

	sw := prog.Pclasses["sw"]
	assert.Equal([]string{"off:on", "on:off", "*:off"}, sw.TransitionOrder)

	offOn := sw.Transitions["off:on"]
	assert.Equal(ir.Symbol("off"), offOn.From)
	assert.Equal(ir.Symbol("on"), offOn.To)
	assert.Equal(ir.CondEqual, offOn.Pre.Kind)
	assert.NotNil(offOn.Probability)
	assert.Equal(0.9, *offOn.Probability)

	onOff := sw.Transitions["on:off"]
	assert.Equal(ir.LiteralTrue(), onOff.Pre)
	assert.Equal(ir.LiteralTrue(), onOff.Post)

	anyOff := sw.Transitions["*:off"]
	assert.Equal(ir.Wildcard, anyOff.From)
}

func Test_BuildFile_defpmethod(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass p []
		  (defpmethod stop [])
		  (defpmethod go {:pre (= state :ready) :cost 2 :reward 5 :controllable :TRUE :bounds [1 10] :display-name "Go!"} [speed]
		    (delay :bounds [0 30]))
		  (defpmethod go [])
		  (defpmethod watch [] (sequence (stop)) (between stop go :bounds [0 5])))
	`)
	require.Nil(t, err)

	p := prog.Pclasses["p"]
	assert.Equal([]ir.Symbol{"stop", "go", "watch"}, p.MethodOrder)

	stop := p.Methods["stop"][0]
	assert.True(stop.Primitive)
	assert.Equal(ir.LiteralTrue(), stop.Pre)
	assert.Equal(ir.LiteralTrue(), stop.Post)
	assert.Equal(0.0, stop.Cost)
	assert.Equal([]ir.Bounds{ir.DefaultBounds()}, stop.TemporalConstraints)

	assert.Len(p.Methods["go"], 2, "overloads coalesce in declaration order")
	go1 := p.Methods["go"][0]
	assert.Equal([]ir.Symbol{"speed"}, go1.Args)
	assert.Equal(ir.CondEqual, go1.Pre.Kind)
	assert.Equal(2.0, go1.Cost)
	assert.Equal(5.0, go1.Reward)
	assert.True(go1.Controllable)
	assert.Equal([]ir.Bounds{{Lower: 1, Upper: 10}}, go1.TemporalConstraints)
	assert.Equal("Go!", go1.DisplayName)
	assert.False(go1.Primitive)
	assert.Len(go1.Body, 1)

	go2 := p.Methods["go"][1]
	assert.Empty(go2.Args)
	assert.True(go2.Primitive)

	watch := p.Methods["watch"][0]
	assert.Len(watch.Body, 1)
	assert.Len(watch.Betweens, 1)
	assert.Equal(ir.StmtBetween, watch.Betweens[0].Kind)
	assert.Equal(ir.Symbol("stop"), watch.Betweens[0].From)
	assert.Equal(ir.Symbol("go"), watch.Betweens[0].To)
}

func Test_BuildFile_defpmethodDuplicateArg(t *testing.T) {
	assert := assert.New(t)

	_, err := buildSource(t, `(defpclass p [] (defpmethod go [x x]))`)
	if !assert.NotNil(err) {
		return
	}
	assert.Contains(err.Error(), "duplicate arg")
}

func Test_BuildFile_bodyForms(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass p []
		  (defpmethod main []
		    (sequence :label "top"
		      (parallel (delay :bounds [1 2]) (delay))
		      (choose :min 1 :max 2
		        (choice :guard (= ok :TRUE) (stop))
		        (choice (go 1)))
		      (when (= ok :TRUE) (stop))
		      (try (go 1) :CATCH (stop))
		      (dotimes 3 (stop))
		      (pwr.on)
		      (this.stop)))
		  (defpmethod stop [])
		  (defpmethod go [x]))
	`)
	require.Nil(t, err)

	main := prog.Pclasses["p"].Methods["main"][0]
	seq := main.Body[0]
	assert.Equal(ir.StmtSequence, seq.Kind)
	assert.Equal("top", seq.Label)
	assert.Len(seq.Body, 7)

	par := seq.Body[0]
	assert.Equal(ir.StmtParallel, par.Kind)
	assert.Equal([]ir.Bounds{{Lower: 1, Upper: 2}}, par.Body[0].TemporalConstraints)
	assert.Equal([]ir.Bounds{ir.DefaultBounds()}, par.Body[1].TemporalConstraints)

	choose := seq.Body[1]
	assert.Equal(ir.StmtChoose, choose.Kind)
	assert.Equal(1, *choose.Min)
	assert.Equal(2, *choose.Max)
	assert.Len(choose.Body, 2)
	assert.Equal(ir.StmtChoice, choose.Body[0].Kind)
	assert.NotNil(choose.Body[0].Guard)

	when := seq.Body[2]
	assert.Equal(ir.StmtWhen, when.Kind)
	assert.Equal(ir.CondEqual, when.Condition.Kind)
	assert.Len(when.Body, 1)

	try := seq.Body[3]
	assert.Equal(ir.StmtTry, try.Kind)
	assert.Len(try.Body, 1)
	assert.Len(try.Catch, 1)

	dotimes := seq.Body[4]
	assert.Equal(ir.StmtSequence, dotimes.Kind)
	assert.Len(dotimes.Body, 3)

	dotted := seq.Body[5]
	assert.Equal(ir.StmtPlantFnSymbol, dotted.Kind)
	assert.Equal(ir.Symbol("pwr"), dotted.Name)
	assert.Equal(ir.Symbol("on"), dotted.Method)

	viaThis := seq.Body[6]
	assert.Equal(ir.StmtPlantFnSymbol, viaThis.Kind)
	assert.Equal(ir.This, viaThis.Name)
	assert.Equal(ir.Symbol("stop"), viaThis.Method)

	stopCall := choose.Body[0].Body[0]
	assert.Equal(ir.StmtPlantFnSymbol, stopCall.Kind)
	assert.Equal(ir.This, stopCall.Name)
	assert.Equal(ir.Symbol("stop"), stopCall.Method)
	assert.Empty(stopCall.CallArgs)

	goCall := choose.Body[1].Body[0]
	assert.Equal(ir.Symbol("go"), goCall.Method)
	assert.Len(goCall.CallArgs, 1)
	assert.Equal(ir.CondLiteral, goCall.CallArgs[0].Kind)
}

func Test_BuildFile_topLevelRootCtor(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass pwrvals [] :modes [:high :none])
		(pwrvals :initial :high)
	`)
	require.Nil(t, err)

	assert.Len(prog.Roots, 1)
	assert.Equal(ir.Symbol("pwrvals"), prog.Roots[0].Pclass)
	assert.True(prog.Roots[0].Options.HasInitial)
	assert.Equal(ir.Symbol("high"), prog.Roots[0].Options.Initial)
}

func Test_BuildFile_legacyQualifiedReference(t *testing.T) {
	assert := assert.New(t)

	prog, err := buildSource(t, `
		(defpclass p []
		  (defpmethod main {:pre (= pwr.:high :TRUE)} []))
	`)
	require.Nil(t, err)

	pre := prog.Pclasses["p"].Methods["main"][0].Pre
	assert.Equal(ir.CondEqual, pre.Kind)
	q := pre.Args[0]
	assert.Equal(ir.CondUnresolved, q.Kind)
	assert.True(q.Qualified)
	assert.Equal(ir.Symbol("pwr"), q.Name)
	assert.Equal(ir.Symbol("high"), q.Member)
}
