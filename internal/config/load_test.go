package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load("testdata/pin.yaml")
	require.NoError(t, err)

	assert.Equal(t, "pin", cfg.Name)
	assert.Equal(t, 4, cfg.Length)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, KindNumberRange, cfg.Rules[0].Kind)
	require.NotNil(t, cfg.Rules[0].Min)
	require.NotNil(t, cfg.Rules[0].Max)
	assert.Equal(t, 0, *cfg.Rules[0].Min)
	assert.Equal(t, 9, *cfg.Rules[0].Max)
	assert.Equal(t, KindNoDuplicate, cfg.Rules[1].Kind)
	require.Len(t, cfg.Exclude, 1)
	assert.Equal(t, []int{4}, cfg.Exclude[0].Runs)
}

func TestLoad_CUEMatchesYAML(t *testing.T) {
	fromYAML, err := Load("testdata/pin.yaml")
	require.NoError(t, err)
	fromCUE, err := Load("testdata/pin.cue")
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromCUE)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestParseYAML_RejectsUnknownFields(t *testing.T) {
	_, err := ParseYAML([]byte("length: 3\nrule: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseYAML_ValidationErrors(t *testing.T) {
	_, err := ParseYAML([]byte("length: 0\nrules:\n  - kind: bogus\n"))
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), "Config.Length")
	assert.Contains(t, err.Error(), "Config.Rules[0].Kind")
}

func TestParseCUE_SchemaViolationHasPosition(t *testing.T) {
	src := []byte("length: 3\nrules: [{kind: \"bogus\"}]\n")

	_, err := ParseCUE(src, "bad.cue")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "cue", ce.Field)
	assert.True(t, ce.Pos.IsValid())
}

func TestParseCUE_RejectsUnknownFields(t *testing.T) {
	_, err := ParseCUE([]byte("length: 3\ncolour: \"red\"\n"), "extra.cue")
	require.Error(t, err)

	var ce *CompileError
	assert.True(t, errors.As(err, &ce))
}

func TestParseCUE_SyntaxError(t *testing.T) {
	_, err := ParseCUE([]byte("length: [\n"), "broken.cue")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "broken.cue", ce.Pos.Filename())
}

func TestParseCUE_IncompleteIsRejected(t *testing.T) {
	// length is required by #Config.
	_, err := ParseCUE([]byte("rules: []\n"), "incomplete.cue")
	assert.Error(t, err)
}

func TestCompileError_Error(t *testing.T) {
	err := &CompileError{Field: "length", Message: "is required"}
	assert.Equal(t, "length: is required", err.Error())
}
