package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "compile.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
input = ["plant.pamela", "site.pamela"]
magic = "seed.magic"
output_magic = "out.magic"
check_only = true
`), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal([]string{"plant.pamela", "site.pamela"}, opts.Input)
	assert.Equal("seed.magic", opts.Magic)
	assert.Equal("out.magic", opts.OutputMagic)
	assert.True(opts.CheckOnly)
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		opts      CompileOptions
		expectErr bool
	}{
		{name: "ok", opts: CompileOptions{Input: []string{"a.pamela"}}},
		{name: "no inputs", opts: CompileOptions{}, expectErr: true},
		{name: "wrong extension", opts: CompileOptions{Input: []string{"a.txt"}}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
