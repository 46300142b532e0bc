package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleCfg = `
# film settings
film.width = 64
film.height = 64   # trailing comment

scene.file = simple.scn
sampler = RANDOM
film.gamma = 2.2
scene.camera.lookat = 0 1 5  0 0.5 0
label = "a # inside quotes"
batch.enabled = true
film.width = 128
`

func TestParseTypesValues(t *testing.T) {
	props, err := ParseString("simple.cfg", simpleCfg)
	require.NoError(t, err)

	w, err := props.Int("film.width")
	require.NoError(t, err)
	assert.Equal(t, 128, w, "later assignment should win")

	gamma, err := props.Float("film.gamma")
	require.NoError(t, err)
	assert.Equal(t, 2.2, gamma)

	lookat, err := props.Vector("scene.camera.lookat")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 5, 0, 0.5, 0}, lookat)

	sampler, err := props.Str("sampler")
	require.NoError(t, err)
	assert.Equal(t, "RANDOM", sampler)

	file, err := props.Str("scene.file")
	require.NoError(t, err)
	assert.Equal(t, "simple.scn", file)

	label, err := props.Str("label")
	require.NoError(t, err)
	assert.Equal(t, "a # inside quotes", label)

	enabled, err := props.Bool("batch.enabled")
	require.NoError(t, err)
	assert.True(t, enabled)

	// film.width keeps the position of its first assignment
	assert.Equal(t, []string{
		"film.width", "film.height", "scene.file", "sampler", "film.gamma",
		"scene.camera.lookat", "label", "batch.enabled",
	}, props.Keys())
}

func TestParseOverrideWins(t *testing.T) {
	// For every key, Get returns the value of its last assignment.
	lines := []string{"a = 1", "b = 2.5", "a = 3", "c = x", "b = 1 2", "c = \"y\""}
	props, err := ParseString("", strings.Join(lines, "\n"))
	require.NoError(t, err)

	want := map[string]Value{
		"a": IntValue(3),
		"b": VectorValue(1, 2),
		"c": StringValue("y"),
	}
	for k, v := range want {
		got, err := props.Get(k)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "key %s: want %v got %v", k, v, got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"missing value", "a = 1\nb =\n", 2},
		{"missing equals", "a 1", 1},
		{"missing key", "= 4", 1},
		{"mixed vector", "ok = 1\n\n# c\nv = 1 two 3", 4},
		{"bad character", "a = @", 1},
		{"two assignments", "a = 1 b = 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("bad.cfg", tt.text)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, "bad.cfg", perr.Source)
			assert.Contains(t, perr.Error(), "bad.cfg:")
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.cfg")
	require.NoError(t, os.WriteFile(path, []byte(simpleCfg), 0o644))

	props, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, props.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.cfg"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSerialisationRoundTrip(t *testing.T) {
	props := New().
		SetInt("film.width", 64).
		SetFloat("film.gamma", 2).
		SetVector("scene.camera.up", 0, 1, 0).
		SetString("scene.file", "dir with spaces/simple.scn").
		SetBool("batch.enabled", false)

	parsed, err := ParseString("roundtrip", props.String())
	require.NoError(t, err)
	require.Equal(t, props.Keys(), parsed.Keys())
	for _, k := range props.Keys() {
		a, _ := props.Get(k)
		b, _ := parsed.Get(k)
		assert.True(t, a.Equal(b), "key %s: %v != %v", k, a, b)
	}
}

func TestNonFiniteFloatsRoundTrip(t *testing.T) {
	props := New().
		SetFloat("a", math.Inf(1)).
		SetFloat("b", math.Inf(-1)).
		SetFloat("c", math.NaN()).
		SetVector("d", 1, math.Inf(1))

	parsed, err := ParseString("roundtrip", props.String())
	require.NoError(t, err)

	a, err := parsed.Float("a")
	require.NoError(t, err)
	assert.True(t, math.IsInf(a, 1))
	b, err := parsed.Float("b")
	require.NoError(t, err)
	assert.True(t, math.IsInf(b, -1))
	c, err := parsed.Float("c")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(c))
	d, err := parsed.Vector("d")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, math.Inf(1)}, d)
}

func TestParseSkipsByteOrderMark(t *testing.T) {
	props, err := ParseString("bom.cfg", "\ufefffilm.width = 64\nfilm.height = 48\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"film.width", "film.height"}, props.Keys())

	w, err := props.Int("film.width")
	require.NoError(t, err)
	assert.Equal(t, 64, w)
}

func TestParseAssignment(t *testing.T) {
	key, v, err := ParseAssignment("batch.haltspp = 16")
	require.NoError(t, err)
	assert.Equal(t, "batch.haltspp", key)
	assert.True(t, IntValue(16).Equal(v))

	_, _, err = ParseAssignment("# nothing here")
	assert.Error(t, err)
}
