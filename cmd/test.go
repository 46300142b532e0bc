package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-render-regress/pkg/regress"
)

// RunTests runs regression cases from suite manifests, config files or directories of configs.
func RunTests(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return cli.NewExitError("test: expected at least one suite, config or directory", 2)
	}

	var cases []regress.Case
	for _, arg := range ctx.Args() {
		found, err := casesFor(arg, ctx.Float64("tolerance"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		cases = append(cases, found...)
	}
	if spp := ctx.Int("spp"); spp > 0 {
		for i := range cases {
			cases[i].HaltSPP = spp
		}
	}

	runner := &regress.Runner{
		ReferenceDir: ctx.String("refs"),
		OutputDir:    ctx.String("out"),
		Update:       ctx.Bool("update"),
		Logger:       logger,
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results, runErr := runner.RunSuite(runCtx, cases)
	for _, r := range results {
		logger.Fields().
			Str("case", r.Case).
			Bool("passed", r.Passed).
			Float64("score", r.Score).
			Int("spp", r.SPP).
			Str("error", r.Error).
			Msg("case done")
	}
	displayResults(results)

	if report := ctx.String("report"); report != "" {
		if err := regress.WriteReport(report, results); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		logger.Infof("wrote report %s", report)
	}

	if runErr != nil {
		return cli.NewExitError(runErr.Error(), 1)
	}
	return nil
}

func casesFor(arg string, tolerance float64) ([]regress.Case, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}

	var cases []regress.Case
	switch {
	case info.IsDir():
		cases, err = regress.Discover(arg)
	case strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml"):
		return regress.LoadSuite(arg)
	default:
		name := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		cases = []regress.Case{{Name: name, Config: arg}}
	}
	for i := range cases {
		cases[i].Tolerance = tolerance
	}
	return cases, err
}

func displayResults(results []regress.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Case", "SPP", "Score", "Tolerance", "Diff pixels", "Render ms", "Result"})

	passed := 0
	for _, r := range results {
		status := passFail(r.Passed)
		if r.Updated {
			status = "UPDATED"
		}
		if r.Passed {
			passed++
		}
		table.Append([]string{
			r.Case,
			fmt.Sprintf("%d", r.SPP),
			fmt.Sprintf("%.6f", r.Score),
			fmt.Sprintf("%.6f", r.Tolerance),
			fmt.Sprintf("%d", r.DiffPixels),
			fmt.Sprintf("%.1f", r.RenderMS),
			status,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "PASSED", fmt.Sprintf("%d/%d", passed, len(results))})
	table.Render()
}
