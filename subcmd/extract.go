package subcmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/vgmkit/psxvab/psx/log"
	"github.com/vgmkit/psxvab/psx/psf"
	"github.com/vgmkit/psxvab/psx/util"
	"github.com/vgmkit/psxvab/psx/vab"
	"github.com/xlab/closer"
)

// Standalone .vag sample header, big-endian fields:
//
//	| offset | size | field         |
//	|      0 |    4 | marker "VAGp" |
//	|      4 |    4 | version       |
//	|    0xC |    4 | body size     |
//	|   0x10 |    4 | sample rate   |
//	|   0x20 |   16 | name          |
const vagHeaderLen = 0x30

// vagWriter writes each resolved sample body as a standalone .vag file.
type vagWriter struct {
	dir  string
	rate int
	base string

	count   int
	partial string
}

func (w *vagWriter) LoadSamples(src util.Source, base int, locations []vab.SampleLocation, total uint32) error {
	for i, loc := range locations {
		if loc.Size == 0 {
			continue
		}
		// The pointer table is checked against the bank span, not the
		// input, so clip again here.
		if src.Len() < base+int(loc.Offset)+int(loc.Size) {
			log.Warnf("VAG #%d extends past the input, skipped", i+1)
			continue
		}
		if err := w.writeVag(i+1, src.ReadBytes(base+int(loc.Offset), int(loc.Size))); err != nil {
			return err
		}
	}
	return nil
}

func (w *vagWriter) writeVag(n int, body []byte) error {
	name := fmt.Sprintf("%s_%03d.vag", w.base, n)
	path := filepath.Join(w.dir, name)

	head := make([]byte, vagHeaderLen)
	copy(head, "VAGp")
	binary.BigEndian.PutUint32(head[0x04:], 0x20)
	binary.BigEndian.PutUint32(head[0x0C:], uint32(len(body)))
	binary.BigEndian.PutUint32(head[0x10:], uint32(w.rate))
	copy(head[0x20:], name)

	w.partial = path
	fh, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := fh.Write(head); err != nil {
		fh.Close()
		return errors.WithStack(err)
	}
	if _, err := fh.Write(body); err != nil {
		fh.Close()
		return errors.WithStack(err)
	}
	if err := fh.Close(); err != nil {
		return errors.WithStack(err)
	}
	w.partial = ""
	w.count++
	log.Debugf("wrote %s (%d bytes)", path, len(body))
	return nil
}

var Extract = cli.Command{
	Name:      "extract",
	Aliases:   []string{"x"},
	Usage:     "Extracts VAG sample bodies from instrument banks (.psf|.minipsf|.psflib|.vab|.vh)",
	ArgsUsage: "<filename>",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "outdir, o",
			Usage: `Output directory`,
			Value: ".",
		},
		cli.IntFlag{
			Name:  "rate, r",
			Usage: `Sample rate written to the .vag headers`,
			Value: 44100,
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
		if ctx.NArg() < 1 || ctx.Int("rate") <= 0 {
			cli.ShowCommandHelp(ctx, "extract")
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
		outdir := ctx.String("outdir")
		if err := os.MkdirAll(outdir, 0755); err != nil {
			return cli.NewExitError(err, 1)
		}
		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		w := &vagWriter{dir: outdir, rate: ctx.Int("rate"), base: stem}
		// Drop the in-flight file if we get interrupted mid-write.
		closer.Bind(func() {
			if w.partial != "" {
				os.Remove(w.partial)
			}
		})
		switch strings.ToLower(filepath.Ext(file)) {
		case ".vab", ".vh":
			if _, err := vab.NewVabFile(file, &vab.Options{Samples: w}); err != nil {
				return cli.NewExitError(err, 1)
			}
		case ".psf", ".minipsf", ".psflib":
			f, err := psf.NewFile(file)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			banks, err := scanBanks(f)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			src := util.ByteSeg(f.Exe)
			for bi, v := range banks {
				if len(v.Samples) == 0 {
					continue
				}
				if 1 < len(banks) {
					w.base = fmt.Sprintf("%s_bank%d", stem, bi)
				}
				if err := w.LoadSamples(src, v.SampleBase, v.Samples, v.SampleTotal); err != nil {
					return cli.NewExitError(err, 1)
				}
			}
		default:
			return cli.NewExitError(fmt.Errorf("Unknown file extension"), 1)
		}
		log.Infof("%d samples written to %s", w.count, outdir)
		return nil
	},
}
