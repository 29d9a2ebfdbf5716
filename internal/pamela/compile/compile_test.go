package compile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamela-lang/pamela/internal/pamela/config"
	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/magic"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
)

func writeInput(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func quietLog() *plog.Logger { return plog.NewWithWriter(io.Discard) }

const plantSource = `
(defpclass pwrvals []
  :meta {:version "0.3.0"}
  :modes [:high :none]
  (defpmethod on [])
  (defpmethod off []))

(defpclass plant []
  :fields {:pwr (pwrvals :initial :none)
           :route (lvar "route" "east")}
  (defpmethod main []
    (when (= pwr :high)
      (sequence (pwr.off) (delay :bounds [1 5])))))
`

func Test_Compile_success(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	in := writeInput(t, dir, "plant.pamela", plantSource)
	result, err := Compile(config.CompileOptions{Input: []string{in}}, quietLog())
	require.Nil(t, err)
	require.NotNil(t, result.Program)

	prog := result.Program
	assert.Equal([]ir.Symbol{"pwrvals", "plant"}, prog.PclassOrder)
	assert.True(prog.HasLvars)
	assert.Equal(ir.StringValue("east"), prog.Lvars["route"])

	when := prog.Pclasses["plant"].Methods["main"][0].Body[0]
	require.Equal(t, ir.StmtWhen, when.Kind)
	assert.Equal(ir.CondFieldReference, when.Condition.Args[0].Kind)
	assert.Equal(ir.CondModeReference, when.Condition.Args[1].Kind)
	assert.Equal(ir.Symbol("pwrvals"), when.Condition.Args[1].Qualifier)

	call := when.Body[0].Body[0]
	assert.Equal(ir.StmtPlantFnField, call.Kind)
	assert.Equal(ir.Symbol("pwr"), call.Field)
	assert.Equal(ir.Symbol("off"), call.Method)
}

func Test_Compile_deterministic(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	in := writeInput(t, dir, "plant.pamela", plantSource)
	r1, err1 := Compile(config.CompileOptions{Input: []string{in}}, quietLog())
	r2, err2 := Compile(config.CompileOptions{Input: []string{in}}, quietLog())
	require.Nil(t, err1)
	require.Nil(t, err2)
	assert.Equal(r1.Program, r2.Program)
}

func Test_Compile_errors(t *testing.T) {
	testCases := []struct {
		name      string
		opts      func(dir string, t *testing.T) config.CompileOptions
		expectMsg string
	}{
		{
			name: "missing input file",
			opts: func(dir string, t *testing.T) config.CompileOptions {
				return config.CompileOptions{Input: []string{filepath.Join(dir, "nope.pamela")}}
			},
			expectMsg: "parse: input file not found",
		},
		{
			name: "wrong extension",
			opts: func(dir string, t *testing.T) config.CompileOptions {
				in := writeInput(t, dir, "plant.txt", plantSource)
				return config.CompileOptions{Input: []string{in}}
			},
			expectMsg: "input file does not have .pamela extension",
		},
		{
			name: "no inputs",
			opts: func(dir string, t *testing.T) config.CompileOptions {
				return config.CompileOptions{}
			},
			expectMsg: "no input files given",
		},
		{
			name: "invalid source",
			opts: func(dir string, t *testing.T) config.CompileOptions {
				in := writeInput(t, dir, "broken.pamela", "(defpclass p [")
				return config.CompileOptions{Input: []string{in}}
			},
			expectMsg: "parse: invalid input file",
		},
		{
			name: "unreadable magic file",
			opts: func(dir string, t *testing.T) config.CompileOptions {
				in := writeInput(t, dir, "plant.pamela", plantSource)
				return config.CompileOptions{
					Input: []string{in},
					Magic: filepath.Join(dir, "nope.magic"),
				}
			},
			expectMsg: "parse: invalid input file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			dir := t.TempDir()

			_, err := Compile(tc.opts(dir, t), quietLog())
			if !assert.NotNil(err) {
				return
			}
			assert.Contains(err.Error(), tc.expectMsg)
		})
	}
}

func Test_Compile_checkOnly(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	in := writeInput(t, dir, "plant.pamela", plantSource)
	result, err := Compile(config.CompileOptions{Input: []string{in}, CheckOnly: true}, quietLog())
	require.Nil(t, err)

	assert.Nil(result.Program)
	assert.Contains(result.Tree, "( list )")
	assert.Contains(result.Tree, `(TERM SYMBOL "defpclass")`)
}

func Test_Compile_magicSeedWins(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	in := writeInput(t, dir, "plant.pamela", plantSource)
	seed := writeInput(t, dir, "seed.magic", `(lvar "route" "west")`)

	result, err := Compile(config.CompileOptions{Input: []string{in}, Magic: seed}, quietLog())
	require.Nil(t, err)

	// The magic seed interns first; the source's own default is a no-op.
	assert.Equal(ir.StringValue("west"), result.Program.Lvars["route"])
}

func Test_Compile_outputMagicRoundTrip(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	in := writeInput(t, dir, "plant.pamela", plantSource)
	out := filepath.Join(dir, "out.magic")

	result, err := Compile(config.CompileOptions{Input: []string{in}, OutputMagic: out}, quietLog())
	require.Nil(t, err)

	reloaded, ok := magic.Load(out, quietLog())
	require.True(t, ok)
	assert.Equal(result.Program.Lvars, reloaded)
}
