package regress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-render-regress/pkg/compare"
	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/imaging"
	"github.com/df07/go-render-regress/pkg/renderer"
)

func simpleCase() Case {
	return Case{Name: "simple", Config: filepath.Join("testdata", "simple.cfg"), Tolerance: 0.05}
}

func writeReference(t *testing.T, dir string, c Case, spp int) {
	t.Helper()
	c.HaltSPP = spp
	r := &Runner{ReferenceDir: dir, Update: true}
	res, err := r.StandardTest(context.Background(), c)
	require.NoError(t, err)
	require.True(t, res.Updated)
	require.FileExists(t, filepath.Join(dir, c.Name+".png"))
}

// testdata/reference/simple.png is a converged render of testdata/simple.scn
func TestStandardTestEndToEnd(t *testing.T) {
	outDir := t.TempDir()
	r := &Runner{ReferenceDir: filepath.Join("testdata", "reference"), OutputDir: outDir}
	res, err := r.StandardTest(context.Background(), simpleCase())
	require.NoError(t, err)

	assert.True(t, res.Passed)
	assert.LessOrEqual(t, res.Score, 0.05)
	assert.Equal(t, DefaultHaltSPP, res.SPP)
	assert.FileExists(t, filepath.Join(outDir, "simple.png"))
	assert.NoFileExists(t, filepath.Join(outDir, "simple.diff.png"))
	assert.Empty(t, res.DiffPath)
}

func TestStandardTestUpdateWritesReference(t *testing.T) {
	refDir := t.TempDir()
	c := simpleCase()
	c.HaltSPP = 2

	r := &Runner{ReferenceDir: refDir, Update: true}
	res, err := r.StandardTest(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.True(t, res.Updated)
	assert.Equal(t, 2, res.SPP)

	ref, err := imaging.Load(filepath.Join(refDir, "simple.png"))
	require.NoError(t, err)
	assert.Equal(t, 64, ref.Width)
	assert.Equal(t, 64, ref.Height)

	// The written reference is accepted by a normal run of the same case
	r.Update = false
	res, err = r.StandardTest(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestStandardTestCaseHaltOverridesConfig(t *testing.T) {
	scn, err := filepath.Abs(filepath.Join("testdata", "simple.scn"))
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "short.cfg")
	text := fmt.Sprintf("film.width = 16\nfilm.height = 16\nscene.file = %q\nsampler.type = RANDOM\nbatch.haltspp = 2\n", scn)
	require.NoError(t, os.WriteFile(cfg, []byte(text), 0o644))

	r := &Runner{ReferenceDir: dir, Update: true}
	res, err := r.StandardTest(context.Background(), Case{Name: "short", Config: cfg, HaltSPP: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, res.SPP)

	// Without a case halt the configuration decides
	res, err = r.StandardTest(context.Background(), Case{Name: "short", Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SPP)
}

func TestStandardTestToleranceExceeded(t *testing.T) {
	refDir := t.TempDir()
	writeReference(t, refDir, simpleCase(), 1)

	c := simpleCase()
	c.Tolerance = 0
	c.HaltSPP = 1
	c.Overrides = map[string]string{"renderengine.seed": "7"}

	outDir := t.TempDir()
	r := &Runner{ReferenceDir: refDir, OutputDir: outDir}
	res, err := r.StandardTest(context.Background(), c)

	var exceeded *compare.ToleranceExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.False(t, res.Passed)
	assert.Greater(t, res.Score, 0.0)
	assert.Equal(t, res.Score, exceeded.Score)
	assert.Equal(t, filepath.Join(outDir, "simple.diff.png"), res.DiffPath)
	assert.FileExists(t, res.DiffPath)
}

func TestStandardTestDimensionMismatch(t *testing.T) {
	refDir := t.TempDir()
	writeReference(t, refDir, simpleCase(), 1)

	c := simpleCase()
	c.HaltSPP = 1
	c.Overrides = map[string]string{"film.width": "32"}

	r := &Runner{ReferenceDir: refDir}
	res, err := r.StandardTest(context.Background(), c)

	var mismatch *compare.DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 32, mismatch.CandidateW)
	assert.Equal(t, 64, mismatch.ReferenceW)
	assert.False(t, res.Passed)
	assert.Zero(t, res.Score)
}

func TestStandardTestMissingReference(t *testing.T) {
	c := simpleCase()
	c.HaltSPP = 1
	r := &Runner{ReferenceDir: t.TempDir()}

	_, err := r.StandardTest(context.Background(), c)
	var ioErr *imaging.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStandardTestMissingConfig(t *testing.T) {
	r := &Runner{ReferenceDir: t.TempDir()}
	_, err := r.StandardTest(context.Background(), Case{Name: "nope", Config: filepath.Join("testdata", "nope.cfg")})

	var ioErr *config.IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestStandardTestInvalidConfig(t *testing.T) {
	c := simpleCase()
	c.Overrides = map[string]string{"sampler": "METROPOLIS"}
	r := &Runner{ReferenceDir: t.TempDir()}

	_, err := r.StandardTest(context.Background(), c)
	var cfgErr *renderer.InvalidConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sampler", cfgErr.Key)
}

func TestStandardTestBadOverride(t *testing.T) {
	c := simpleCase()
	c.Overrides = map[string]string{"film.width": "1 two ="}
	r := &Runner{ReferenceDir: t.TempDir()}

	_, err := r.StandardTest(context.Background(), c)
	var parseErr *config.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestStandardTestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{ReferenceDir: t.TempDir()}
	_, err := r.StandardTest(ctx, simpleCase())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, renderer.DeviceRefs())
}

func TestHaltFor(t *testing.T) {
	props := config.New()
	assert.True(t, haltFor(Case{}, props)(renderer.Stats{SamplesPerPixel: DefaultHaltSPP}))
	assert.False(t, haltFor(Case{}, props)(renderer.Stats{SamplesPerPixel: DefaultHaltSPP - 1}))
	assert.True(t, haltFor(Case{HaltSPP: 2}, props)(renderer.Stats{SamplesPerPixel: 2}))

	props.SetInt(renderer.KeyHaltSPP, 16)
	assert.Nil(t, haltFor(Case{}, props))
}
