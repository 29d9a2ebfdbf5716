package magic

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pamela-lang/pamela/internal/pamela/ir"
	"github.com/pamela-lang/pamela/internal/pamela/plog"
)

func writeTempMagic(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.magic")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func Test_Load(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
		expectOK bool
		expect   map[ir.Symbol]ir.Value
	}{
		{
			name:     "empty file is an empty table",
			contents: "",
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{},
		},
		{
			name:     "comment-only file is an empty table",
			contents: ";; -*- Mode: clojure; coding: utf-8  -*-\n;; magic file corresponding to: [t.pamela]\n",
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{},
		},
		{
			name:     "lvar without a default is unset",
			contents: `(lvar "route")`,
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{"route": ir.UnsetValue()},
		},
		{
			name:     "integer default",
			contents: `(lvar "retries" 3)`,
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{"retries": ir.IntValue(3)},
		},
		{
			name:     "float default",
			contents: `(lvar "rate" 0.5)`,
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{"rate": ir.FloatValue(0.5)},
		},
		{
			name:     "string default",
			contents: `(lvar "label" "main")`,
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{"label": ir.StringValue("main")},
		},
		{
			name:     "boolean defaults",
			contents: "(lvar \"up\" :TRUE)\n(lvar \"down\" :FALSE)",
			expectOK: true,
			expect: map[ir.Symbol]ir.Value{
				"up":   ir.BoolValue(true),
				"down": ir.BoolValue(false),
			},
		},
		{
			name:     "keyword default",
			contents: `(lvar "mode" :standby)`,
			expectOK: true,
			expect:   map[ir.Symbol]ir.Value{"mode": ir.KeywordValue("standby")},
		},
		{
			name:     "several lvars with commas as whitespace",
			contents: `(lvar "a", 1), (lvar "b", 2)`,
			expectOK: true,
			expect: map[ir.Symbol]ir.Value{
				"a": ir.IntValue(1),
				"b": ir.IntValue(2),
			},
		},
		{
			name:     "non-lvar form fails",
			contents: `(defpclass p [])`,
			expectOK: false,
		},
		{
			name:     "unterminated form fails",
			contents: `(lvar "a"`,
			expectOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			log := plog.NewWithWriter(io.Discard)

			got, ok := Load(writeTempMagic(t, tc.contents), log)
			if !tc.expectOK {
				assert.False(ok)
				return
			}
			if !assert.True(ok) {
				return
			}
			assert.Equal(tc.expect, got)
		})
	}
}

func Test_Load_missingFile(t *testing.T) {
	assert := assert.New(t)
	log := plog.NewWithWriter(io.Discard)

	_, ok := Load(filepath.Join(t.TempDir(), "nope.magic"), log)
	assert.False(ok)
}

func Test_WriteFile_roundTrip(t *testing.T) {
	assert := assert.New(t)
	log := plog.NewWithWriter(io.Discard)

	lvars := map[ir.Symbol]ir.Value{
		"retries": ir.IntValue(3),
		"rate":    ir.FloatValue(0.5),
		"label":   ir.StringValue("main"),
		"up":      ir.BoolValue(true),
		"mode":    ir.KeywordValue("standby"),
		"route":   ir.UnsetValue(),
	}

	path := filepath.Join(t.TempDir(), "out.magic")
	err := WriteFile(path, []string{"a.pamela", "b.pamela"}, lvars)
	if !assert.NoError(err) {
		return
	}

	data, err := os.ReadFile(path)
	if !assert.NoError(err) {
		return
	}
	assert.Contains(string(data), ";; -*- Mode: clojure; coding: utf-8  -*-")
	assert.Contains(string(data), ";; magic file corresponding to: [a.pamela b.pamela]")

	got, ok := Load(path, log)
	if !assert.True(ok) {
		return
	}
	assert.Equal(lvars, got)
}

func Test_WriteFile_deterministicOrder(t *testing.T) {
	assert := assert.New(t)

	lvars := map[ir.Symbol]ir.Value{
		"zeta":  ir.IntValue(1),
		"alpha": ir.IntValue(2),
		"mid":   ir.IntValue(3),
	}

	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.magic")
	p2 := filepath.Join(dir, "two.magic")
	assert.NoError(WriteFile(p1, []string{"t.pamela"}, lvars))
	assert.NoError(WriteFile(p2, []string{"t.pamela"}, lvars))

	d1, _ := os.ReadFile(p1)
	d2, _ := os.ReadFile(p2)
	assert.Equal(string(d1), string(d2))
}
