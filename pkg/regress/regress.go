// Package regress runs render regression tests: render a configuration to a fixed
// sample count and compare the result with a stored reference image.
package regress

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/df07/go-render-regress/pkg/compare"
	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/core"
	"github.com/df07/go-render-regress/pkg/imaging"
	"github.com/df07/go-render-regress/pkg/log"
	"github.com/df07/go-render-regress/pkg/renderer"
)

const (
	// DefaultHaltSPP applies when neither the case nor the configuration sets a halt condition
	DefaultHaltSPP = 4

	DefaultTolerance = 0.05
)

// Case is one scene to render and check
type Case struct {
	Name      string
	Config    string            // property file path
	Tolerance float64           // maximum accepted score
	Overrides map[string]string // key -> value text, parsed with the property grammar
	HaltSPP   int               // samples per pixel to render, 0 defers to the configuration
}

// Result records the outcome of one case
type Result struct {
	Case       string  `json:"case"`
	Passed     bool    `json:"passed"`
	Updated    bool    `json:"updated,omitempty"`
	Score      float64 `json:"score"`
	Tolerance  float64 `json:"tolerance"`
	MaxDiff    float64 `json:"max_diff"`
	DiffPixels int     `json:"diff_pixels"`
	SPP        int     `json:"spp"`
	Passes     int     `json:"passes"`
	RenderMS   float64 `json:"render_ms"`
	Output     string  `json:"output,omitempty"`
	DiffPath   string  `json:"diff,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Runner executes cases against a directory of reference images
type Runner struct {
	ReferenceDir string // holds <case name>.png
	OutputDir    string // receives renders and diff images, empty disables them
	Update       bool   // write references instead of comparing

	// PixelThreshold is passed to the comparator, 0 keeps its default
	PixelThreshold float64

	Logger core.Logger
}

func (r *Runner) logger() core.Logger {
	if r.Logger == nil {
		return log.New("regress")
	}
	return r.Logger
}

// StandardTest renders c and compares it with its reference image.
// A render that differs too much returns the Result together with a
// *compare.ToleranceExceededError; any other error means the case could not be evaluated.
func (r *Runner) StandardTest(ctx context.Context, c Case) (Result, error) {
	res := Result{Case: c.Name, Tolerance: c.Tolerance}
	if c.Name == "" {
		return res, errors.New("regress: case has no name")
	}

	props, err := config.LoadFile(c.Config)
	if err != nil {
		return res, err
	}
	if err := applyOverrides(props, c.Overrides); err != nil {
		return res, fmt.Errorf("regress: %s: %w", c.Name, err)
	}
	if c.HaltSPP > 0 {
		renderer.ClearConfigHalt(props)
	}

	session := renderer.NewSession(props,
		renderer.WithSearchPath(filepath.Dir(c.Config)),
		renderer.WithLogger(r.logger()))
	if err := session.Start(); err != nil {
		return res, fmt.Errorf("regress: %s: %w", c.Name, err)
	}
	defer session.Stop()

	if err := session.WaitUntil(ctx, haltFor(c, props)); err != nil {
		return res, fmt.Errorf("regress: %s: %w", c.Name, err)
	}

	fb, err := session.Framebuffer()
	if err != nil {
		return res, err
	}
	stats := session.Stats()
	res.SPP = stats.SamplesPerPixel
	res.Passes = stats.Passes
	res.RenderMS = float64(stats.Elapsed) / float64(time.Millisecond)

	if r.OutputDir != "" {
		res.Output = filepath.Join(r.OutputDir, c.Name+".png")
		if err := imaging.Save(res.Output, fb); err != nil {
			return res, err
		}
	}

	refPath := filepath.Join(r.ReferenceDir, c.Name+".png")
	if r.Update {
		if err := imaging.Save(refPath, fb); err != nil {
			return res, err
		}
		res.Passed, res.Updated = true, true
		r.logger().Printf("Updated reference %s (%d spp)\n", refPath, res.SPP)
		return res, nil
	}

	ref, err := imaging.Load(refPath)
	if err != nil {
		return res, fmt.Errorf("regress: %s: reference: %w", c.Name, err)
	}

	cmp := compare.Comparator{PixelThreshold: r.PixelThreshold}
	if r.OutputDir != "" {
		cmp.DiffPath = filepath.Join(r.OutputDir, c.Name+".diff.png")
	}
	score, err := cmp.Assert(fb, ref, c.Tolerance)
	res.Passed = score.Passed
	res.Score = score.Score
	res.MaxDiff = score.MaxDiff
	res.DiffPixels = score.DiffPixels

	var exceeded *compare.ToleranceExceededError
	if errors.As(err, &exceeded) {
		res.DiffPath = exceeded.DiffPath
	}
	if err != nil {
		return res, err
	}

	r.logger().Printf("%s: score %.6f within tolerance %.6f\n", c.Name, res.Score, c.Tolerance)
	return res, nil
}

// haltFor picks the case's sample count, else the configuration's own halt keys, else the default
func haltFor(c Case, props *config.Properties) renderer.HaltCondition {
	if c.HaltSPP > 0 {
		return renderer.SamplesAtLeast(c.HaltSPP)
	}
	if props.Has(renderer.KeyHaltSPP) || props.Has(renderer.KeyHaltTime) {
		return nil
	}
	return renderer.SamplesAtLeast(DefaultHaltSPP)
}

func applyOverrides(props *config.Properties, overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key, v, err := config.ParseAssignment(k + " = " + overrides[k])
		if err != nil {
			return fmt.Errorf("override %s: %w", k, err)
		}
		props.Set(key, v)
	}
	return nil
}
