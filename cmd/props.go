package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/df07/go-render-regress/pkg/config"
	"github.com/df07/go-render-regress/pkg/core"
)

// loadProps reads a config file and applies --set key=value overrides in order
func loadProps(path string, overrides []string) (*config.Properties, error) {
	props, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	extra := config.New()
	for _, o := range overrides {
		key, v, err := config.ParseAssignment(strings.Replace(o, "=", " = ", 1))
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", o, err)
		}
		extra.Set(key, v)
	}
	return props.Merge(extra), nil
}

// PrintProps prints the effective configuration after overrides.
func PrintProps(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return cli.NewExitError("props: expected one config file", 2)
	}

	props, err := loadProps(ctx.Args().First(), ctx.StringSlice("set"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if prefix := ctx.String("prefix"); prefix != "" {
		props = props.Subset(prefix)
	}
	_, err = props.WriteTo(os.Stdout)
	return err
}

// ListSamplers prints the accepted sampler.type values.
func ListSamplers(ctx *cli.Context) error {
	for _, t := range core.SamplerTypes() {
		fmt.Println(t)
	}
	return nil
}
