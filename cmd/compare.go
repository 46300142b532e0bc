package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-render-regress/pkg/compare"
	"github.com/df07/go-render-regress/pkg/imaging"
)

// CompareImages scores a candidate image against a reference.
func CompareImages(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	if ctx.NArg() != 2 {
		return cli.NewExitError("compare: expected candidate and reference images", 2)
	}

	candidate, err := imaging.Load(ctx.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	reference, err := imaging.Load(ctx.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	cmp := compare.Comparator{DiffPath: ctx.String("diff"), PixelThreshold: ctx.Float64("pixel-threshold")}
	tolerance := ctx.Float64("tolerance")
	res, err := cmp.Assert(candidate, reference, tolerance)

	var mismatch *compare.DimensionMismatchError
	if errors.As(err, &mismatch) {
		return cli.NewExitError(err.Error(), 2)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Score (MSE)", "Tolerance", "Max diff", "Diff pixels", "Result"})
	table.Append([]string{
		fmt.Sprintf("%.6f", res.Score),
		fmt.Sprintf("%.6f", tolerance),
		fmt.Sprintf("%.4f", res.MaxDiff),
		fmt.Sprintf("%d", res.DiffPixels),
		passFail(res.Passed),
	})
	table.Render()

	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func passFail(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
