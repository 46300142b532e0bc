package regress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-render-regress/pkg/config"
)

// ErrSuiteFailed is returned by RunSuite when at least one case did not pass
var ErrSuiteFailed = errors.New("regress: suite failed")

// suiteFile is the YAML manifest layout
type suiteFile struct {
	Tolerance *float64    `yaml:"tolerance"`
	HaltSPP   int         `yaml:"haltspp"`
	Cases     []suiteCase `yaml:"cases"`
}

type suiteCase struct {
	Name      string            `yaml:"name"`
	Config    string            `yaml:"config"`
	Tolerance *float64          `yaml:"tolerance"`
	HaltSPP   int               `yaml:"haltspp"`
	Overrides map[string]string `yaml:"overrides"`
}

// LoadSuite reads a YAML manifest of cases. Config paths are relative to the manifest.
// Suite level tolerance and haltspp apply to cases that do not set their own.
func LoadSuite(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.IOError{Path: path, Err: err}
	}

	var file suiteFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("regress: parsing suite %s: %w", path, err)
	}

	tolerance := DefaultTolerance
	if file.Tolerance != nil {
		tolerance = *file.Tolerance
	}

	dir := filepath.Dir(path)
	seen := make(map[string]bool)
	cases := make([]Case, 0, len(file.Cases))
	for i, sc := range file.Cases {
		if sc.Config == "" {
			return nil, fmt.Errorf("regress: suite %s: case %d has no config", path, i)
		}
		c := Case{
			Name:      sc.Name,
			Config:    sc.Config,
			Tolerance: tolerance,
			HaltSPP:   file.HaltSPP,
			Overrides: sc.Overrides,
		}
		if c.Name == "" {
			c.Name = caseName(sc.Config)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("regress: suite %s: duplicate case %q", path, c.Name)
		}
		seen[c.Name] = true
		if !filepath.IsAbs(c.Config) {
			c.Config = filepath.Join(dir, c.Config)
		}
		if sc.Tolerance != nil {
			c.Tolerance = *sc.Tolerance
		}
		if sc.HaltSPP > 0 {
			c.HaltSPP = sc.HaltSPP
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Discover builds a case for every *.cfg file in dir, named after the file
func Discover(dir string) ([]Case, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.cfg"))
	if err != nil {
		return nil, fmt.Errorf("regress: scanning %s: %w", dir, err)
	}
	sort.Strings(files)

	cases := make([]Case, 0, len(files))
	for _, f := range files {
		cases = append(cases, Case{Name: caseName(f), Config: f, Tolerance: DefaultTolerance})
	}
	return cases, nil
}

func caseName(configPath string) string {
	base := filepath.Base(configPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RunSuite runs every case in order. Failures are recorded in the results and do not
// stop the run; the returned error wraps ErrSuiteFailed when any case failed.
// Cancelling ctx stops the run and returns the results so far.
func (r *Runner) RunSuite(ctx context.Context, cases []Case) ([]Result, error) {
	results := make([]Result, 0, len(cases))
	failed := 0

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := r.StandardTest(ctx, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return results, ctxErr
			}
			res.Passed = false
			res.Error = err.Error()
			r.logger().Printf("%s: FAILED: %v\n", c.Name, err)
		}
		if !res.Passed {
			failed++
		}
		results = append(results, res)
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d cases", ErrSuiteFailed, failed, len(cases))
	}
	return results, nil
}
