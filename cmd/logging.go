package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-render-regress/pkg/log"
)

var logger = log.New("regress")

func setupLogging(ctx *cli.Context) error {
	cfg := log.Config{
		Level:  ctx.GlobalString("log-level"),
		Format: ctx.GlobalString("log-format"),
	}
	if err := log.Init(cfg); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
