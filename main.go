package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/df07/go-render-regress/cmd"
	"github.com/df07/go-render-regress/pkg/log"
)

func main() {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.New("main").Warnf("loading .env: %v", err)
	}

	app := cli.NewApp()
	app.Name = "render-regress"
	app.Usage = "render scenes from property files and check them against reference images"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "minimum log level (debug, info, warn, error)",
			EnvVar: "REGRESS_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:   "log-format",
			Value:  "console",
			Usage:  "log output format (console or json)",
			EnvVar: "REGRESS_LOG_FORMAT",
		},
	}

	setFlag := cli.StringSliceFlag{
		Name:  "set, s",
		Value: &cli.StringSlice{},
		Usage: "override a configuration property (key=value)",
	}

	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a configuration to an image",
			Description: `
Load a render configuration, apply --set overrides and render until --spp samples
per pixel (or the batch.haltspp / batch.halttime keys of the configuration).
Interrupting the render writes the image accumulated so far.`,
			ArgsUsage: "config.cfg",
			Flags: []cli.Flag{
				setFlag,
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel to render",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.png",
					Usage: "output image (.png, .tif or .bmp)",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "compare",
			Usage:     "compare an image with a reference",
			ArgsUsage: "candidate.png reference.png",
			Flags: []cli.Flag{
				cli.Float64Flag{
					Name:  "tolerance, t",
					Value: 0.05,
					Usage: "maximum accepted mean squared error",
				},
				cli.Float64Flag{
					Name:  "pixel-threshold",
					Usage: "channel difference counted as a differing pixel (default 2/255)",
				},
				cli.StringFlag{
					Name:  "diff, d",
					Usage: "write a diff heat map here when the comparison fails",
				},
			},
			Action: cmd.CompareImages,
		},
		{
			Name:  "test",
			Usage: "run regression tests",
			Description: `
Each argument is a YAML suite manifest, a single configuration file or a directory
whose *.cfg files become test cases named after the file. The reference image of a
case is <refs>/<name>.png; --update rewrites the references instead of comparing.`,
			ArgsUsage: "suite.yaml | config.cfg | dir ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "refs, r",
					Value:  "testdata/reference",
					Usage:  "reference image directory",
					EnvVar: "REGRESS_REFERENCE_DIR",
				},
				cli.StringFlag{
					Name:   "out, o",
					Usage:  "directory for renders and diff images",
					EnvVar: "REGRESS_OUTPUT_DIR",
				},
				cli.Float64Flag{
					Name:  "tolerance, t",
					Value: 0.05,
					Usage: "tolerance for cases that are not read from a suite manifest",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "override the samples per pixel of every case",
				},
				cli.BoolFlag{
					Name:  "update",
					Usage: "write reference images instead of comparing",
				},
				cli.StringFlag{
					Name:  "report",
					Usage: "write a JSON report to this file",
				},
			},
			Action: cmd.RunTests,
		},
		{
			Name:      "props",
			Usage:     "print the effective configuration",
			ArgsUsage: "config.cfg",
			Flags: []cli.Flag{
				setFlag,
				cli.StringFlag{
					Name:  "prefix, p",
					Usage: "only print keys under this prefix",
				},
			},
			Action: cmd.PrintProps,
		},
		{
			Name:   "samplers",
			Usage:  "list the supported sampler types",
			Action: cmd.ListSamplers,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("main").Errorf("%v", err)
		os.Exit(1)
	}
}
