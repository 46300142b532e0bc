package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-render-regress/pkg/imaging"
	"github.com/df07/go-render-regress/pkg/renderer"
)

// RenderFrame renders a config file to an image.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return cli.NewExitError("render: expected one config file", 2)
	}
	cfgPath := ctx.Args().First()

	props, err := loadProps(cfgPath, ctx.StringSlice("set"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	var halt renderer.HaltCondition
	if spp := ctx.Int("spp"); spp > 0 {
		renderer.ClearConfigHalt(props)
		halt = renderer.SamplesAtLeast(spp)
	} else if !props.Has(renderer.KeyHaltSPP) && !props.Has(renderer.KeyHaltTime) {
		return cli.NewExitError("render: no halt condition; pass --spp or set batch.haltspp", 2)
	}

	session := renderer.NewSession(props,
		renderer.WithSearchPath(filepath.Dir(cfgPath)),
		renderer.WithLogger(logger))
	if err := session.Start(); err != nil {
		logger.Errorf("%v", err)
		return cli.NewExitError(err.Error(), 1)
	}
	defer session.Stop()

	// Ctrl-C stops after the current pass and still writes the partial image
	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	start := time.Now()

	if err := session.WaitUntil(runCtx, halt); errors.Is(err, context.Canceled) {
		logger.Warnf("interrupted after %d passes", session.Stats().Passes)
	} else if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	fb, err := session.Framebuffer()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	out := ctx.String("out")
	if err := imaging.Save(out, fb); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	logger.Since(start, "wrote "+out)

	displayRenderStats(session.Stats())
	return nil
}

func displayRenderStats(stats renderer.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Size", "Passes", "Samples/pixel", "Total samples", "Workers", "Tiles", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.Passes),
		fmt.Sprintf("%d", stats.SamplesPerPixel),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.Tiles),
		stats.Elapsed.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "SAMPLES/S", fmt.Sprintf("%.0f", stats.SamplesPerSecond())})
	table.Render()
	fmt.Print(buf.String())
}
