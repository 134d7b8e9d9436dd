package subcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli"
	"github.com/vgmkit/psxvab/psx/log"
	"github.com/vgmkit/psxvab/psx/psf"
)

// Customary tag order; anything else follows alphabetically.
var tagOrder = []string{
	"game", "title", "artist", "year", "genre", "comment",
	"copyright", "psfby", "volume", "length", "fade", "_lib",
}

func orderedTagNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, name := range tagOrder {
		if _, ok := tags[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(tags))
	for name := range tags {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

var Tags = cli.Command{
	Name:      "tags",
	Aliases:   []string{"t"},
	Usage:     "Prints the tag section of a PSF container",
	ArgsUsage: "<filename>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "json, j",
			Usage: `Dumps in JSON format`,
		},
		cli.BoolFlag{
			Name:  "raw, r",
			Usage: `Print values undecoded`,
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: `Show debug messages`,
		},
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: `Suppress information messages`,
		},
		cli.BoolFlag{
			Name:  "silent, Q",
			Usage: `Do not output any messages`,
		},
	},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() < 1 {
			cli.ShowCommandHelp(ctx, "tags")
			os.Exit(1)
		}
		if ctx.Bool("debug") {
			log.Level = log.LogLevel_Debug
		} else if ctx.Bool("silent") {
			log.Level = log.LogLevel_None
		} else if ctx.Bool("quiet") {
			log.Level = log.LogLevel_Warn
		}
		f, err := psf.NewFile(ctx.Args()[0])
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if ctx.Bool("json") {
			j, err := json.MarshalIndent(f.Tags, "", "  ")
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			fmt.Println(string(j))
			return nil
		}
		for _, name := range orderedTagNames(f.Tags) {
			value := f.TagText(name)
			if ctx.Bool("raw") {
				value = f.Tag(name)
			}
			// Multi-line values are stored the way the section writes
			// them: one name=value record per line.
			for _, line := range strings.Split(value, "\n") {
				fmt.Printf("%s=%s\n", name, line)
			}
		}
		return nil
	},
}
