package subcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/vgmkit/psxvab/psx/log"
	"github.com/vgmkit/psxvab/psx/psf"
	"github.com/vgmkit/psxvab/psx/util"
	"github.com/vgmkit/psxvab/psx/vab"
)

type bankList []*vab.Vab

func (l bankList) String() string {
	sub := make([]string, len(l))
	for i, v := range l {
		sub[i] = v.String()
	}
	return strings.Join(sub, "\n")
}

type psfDump struct {
	Container *psf.File `json:"container"`
	Banks     bankList  `json:"banks"`
}

func (d *psfDump) String() string {
	s := d.Container.String()
	if 0 < len(d.Banks) {
		s += "\n" + d.Banks.String()
	}
	return s
}

func scanBanks(f *psf.File) (bankList, error) {
	hdr, err := f.PeekExeHeader()
	if err != nil {
		return nil, err
	}
	if err := f.Decompress(hdr.ExeSize()); err != nil {
		return nil, err
	}
	return vab.Scan(util.ByteSeg(f.Exe), nil), nil
}

var Dump = cli.Command{
	Name:      "dump",
	Aliases:   []string{"d"},
	Usage:     "Dumps Playstation sound data (.psf|.minipsf|.psflib|.vab|.vh)",
	ArgsUsage: "<filename>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "json, j",
			Usage: `Dumps in JSON format`,
		},
		cli.BoolFlag{
			Name:  "banks, b",
			Usage: `Dumps instrument banks only`,
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
			cli.ShowCommandHelp(ctx, "dump")
			os.Exit(1)
		}
		if ctx.Bool("debug") {
			log.Level = log.LogLevel_Debug
		} else if ctx.Bool("silent") {
			log.Level = log.LogLevel_None
		} else if ctx.Bool("quiet") {
			log.Level = log.LogLevel_Warn
		}
		file := ctx.Args()[0]
		var data fmt.Stringer
		var err error
		switch strings.ToLower(filepath.Ext(file)) {
		case ".vab", ".vh":
			var v *vab.Vab
			v, err = vab.NewVabFile(file, nil)
			if v != nil {
				data = v
			}
		case ".psf", ".minipsf", ".psflib":
			var f *psf.File
			f, err = psf.NewFile(file)
			if err != nil {
				break
			}
			d := &psfDump{Container: f}
			d.Banks, err = scanBanks(f)
			data = d
			if ctx.Bool("banks") {
				data = d.Banks
			}
		default:
			return cli.NewExitError(fmt.Errorf("Unknown file extension"), 1)
		}
		if err != nil {
			switch data.(type) {
			case nil:
				return cli.NewExitError(err, 1)
			default:
				log.Warnf(err.Error())
			}
		}
		if ctx.Bool("json") {
			j, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			fmt.Println(string(j))
		} else {
			fmt.Println(data.String())
		}
		return nil
	},
}
