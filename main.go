package main

import (
	"os"

	"github.com/urfave/cli"
	"github.com/vgmkit/psxvab/subcmd"
)

var version string

func init() {
	if version == "" {
		version = "unknown"
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "psxvab"
	app.Version = version
	app.Usage = "Inspects Playstation sound data: PSF containers and VAB instrument banks"
	app.HelpName = "psxvab"

	app.Commands = []cli.Command{
		subcmd.Dump,
		subcmd.Tags,
		subcmd.Extract,
	}

	app.Action = func(ctx *cli.Context) error {
		cli.ShowAppHelp(ctx)
		return nil
	}

	app.Run(os.Args)
}
