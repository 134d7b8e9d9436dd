// Package vab decodes Playstation VAB instrument banks: a fixed program
// table, per-program tone attribute blocks, and a pointer table locating
// the VAG-encoded sample bodies that follow.
package vab

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/vgmkit/psxvab/psx/enums"
	"github.com/vgmkit/psxvab/psx/log"
	"github.com/vgmkit/psxvab/psx/util"
)

// Bank layout, offsets relative to the bank start:
//
//	| offset      | size    | field                                  |
//	|           0 |      32 | header                                 |
//	|          32 | 16 x128 | program table (always 128 slots)       |
//	|      0x0820 | 512 x P | tone attributes, one block per program |
//	| 0x0820+512P |     512 | VAG pointer table (256 x u16)          |
//	|      + that |         | sample bodies                          |
//
// P counts the programs the header declares, not the slots in use.
const (
	Magic = "pBAV"

	headerLen     = 32
	progSlots     = 128
	progRecLen    = 16
	toneRecLen    = 32
	tonesPerBlock = 32
	toneBlockLen  = toneRecLen * tonesPerBlock
	vagTableLen   = 2 * 256

	maxPrograms = 128
	maxVags     = 255
	maxTones    = 32
)

// Bank-level failures. Anomalies in individual slots, tones and sample
// pointers are recovered with a warning instead; see Parse.
var (
	ErrTooSmall           = errors.New("VAB header truncated")
	ErrStructuralOverflow = errors.New("VAB header counts out of range")
	ErrMalformedRegion    = errors.New("inverted key range")
)

type vabHeaderRawData struct {
	ID        [4]byte
	Version   uint32
	VabID     uint32
	TotalSize uint32
	Reserved0 uint16
	Programs  uint16
	Tones     uint16
	Vags      uint16
	MasterVol uint8
	MasterPan uint8
	Attr1     uint8
	Attr2     uint8
	Reserved1 uint32
}

type Header struct {
	ID        string    `json:"id"`
	Version   uint32    `json:"version"`
	VabID     uint32    `json:"vab_id"`
	TotalSize uint32    `json:"total_size"`
	Programs  uint16    `json:"programs"`
	Tones     uint16    `json:"tones"`
	Vags      uint16    `json:"vags"`
	MasterVol uint8     `json:"master_vol"`
	MasterPan enums.Pan `json:"master_pan"`
	Attr1     uint8     `json:"attr1"`
	Attr2     uint8     `json:"attr2"`
}

func (h *Header) String() string {
	return fmt.Sprintf("VAB bank %d: version=%d, %d programs, %d tones, %d VAGs, master vol=%d pan=%s",
		h.VabID, h.Version, h.Programs, h.Tones, h.Vags, h.MasterVol, h.MasterPan)
}

type Vab struct {
	Header   Header           `json:"header"`
	Programs []*Program       `json:"programs"`
	Samples  []SampleLocation `json:"samples"`

	// SampleBase is the absolute offset of the first sample body in the
	// source; SampleTotal is the byte span the pointer table declares for
	// the sample region.
	SampleBase  int    `json:"-"`
	SampleTotal uint32 `json:"-"`

	// Length spans the header through the pointer table, so scanners know
	// how far to advance past this bank.
	Length int `json:"-"`
}

// Options supplies the ports a parse may use. A nil Options or nil field
// falls back to console warnings and no converters.
type Options struct {
	// Log receives recoverable-anomaly warnings.
	Log log.Sink
	// Envelope derives normalized envelopes from raw ADSR register pairs.
	Envelope EnvelopeConverter
	// Samples receives the resolved sample locations of a root bank.
	Samples SampleConsumer
}

func (o *Options) sink() log.Sink {
	if o == nil || o.Log == nil {
		return log.Console
	}
	return o.Log
}

func (o *Options) envelope() EnvelopeConverter {
	if o == nil {
		return nil
	}
	return o.Envelope
}

func (o *Options) samples() SampleConsumer {
	if o == nil {
		return nil
	}
	return o.Samples
}

// NewVabFile loads a standalone bank (a .vab or .vh file) from path.
func NewVabFile(path string, opts *Options) (*Vab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, errors.Errorf(`Header signature must be "pBAV"`)
	}
	v, err := Parse(util.ByteSeg(data), 0, len(data), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return v, nil
}

// Parse decodes the bank spanning [start, end) in src. Out-of-range header
// counts fail the parse; a malformed slot, tone or sample pointer only
// drops that record with a warning, so one bad entry cannot take the whole
// bank down. The signature is not checked here: banks ripped from memory
// images sometimes carry a patched ID, and callers that care check it.
func Parse(src util.Source, start, end int, opts *Options) (*Vab, error) {
	sink := opts.sink()
	if end-start < headerLen {
		return nil, errors.Wrapf(ErrTooSmall, "%d bytes", end-start)
	}
	var raw vabHeaderRawData
	if err := util.ReadLE(src, start, headerLen, &raw); err != nil {
		return nil, err
	}
	if maxPrograms < raw.Programs {
		return nil, errors.Wrapf(ErrStructuralOverflow, "%d programs", raw.Programs)
	}
	if maxVags < raw.Vags {
		return nil, errors.Wrapf(ErrStructuralOverflow, "%d VAGs", raw.Vags)
	}
	v := &Vab{Header: Header{
		ID:        string(raw.ID[:]),
		Version:   raw.Version,
		VabID:     raw.VabID,
		TotalSize: raw.TotalSize,
		Programs:  raw.Programs,
		Tones:     raw.Tones,
		Vags:      raw.Vags,
		MasterVol: raw.MasterVol,
		MasterPan: enums.Pan(raw.MasterPan),
		Attr1:     raw.Attr1,
		Attr2:     raw.Attr2,
	}}

	progTable := start + headerLen
	toneTable := progTable + progRecLen*progSlots
	vagTable := toneTable + toneBlockLen*int(raw.Programs)

	// All 128 slots are scanned regardless of the declared program count:
	// empty slots are real and carry no tone block, so a program's block
	// offset depends on how many programs came before it, not on its slot.
	for i := 0; i < progSlots; i++ {
		if end < toneTable+toneBlockLen*(len(v.Programs)+1) {
			break
		}
		var slot progRawData
		if err := util.ReadLE(src, progTable+progRecLen*i, progRecLen, &slot); err != nil {
			return nil, err
		}
		if maxTones < slot.Tones {
			sink.Warnf("vab", "too many tones (%d) in program #%d", slot.Tones, i)
			continue
		}
		if slot.Tones == 0 {
			continue
		}
		log.Debugf("program #%d: %d tones", i, slot.Tones)
		v.Programs = append(v.Programs, newProgram(i, &slot))
	}

	// Tone blocks were assigned above, so a program whose tones fail to
	// decode is dropped here without shifting its neighbours.
	kept := v.Programs[:0]
	for n, p := range v.Programs {
		if err := p.readTones(src, toneTable+toneBlockLen*n, opts); err != nil {
			sink.Warnf("vab", "program #%d dropped: %v", p.Index, err)
			continue
		}
		kept = append(kept, p)
	}
	v.Programs = kept

	v.resolveVagTable(src, vagTable, start, end, opts)
	return v, nil
}

func (v *Vab) String() string {
	sub := make([]string, 0, len(v.Programs)+len(v.Samples))
	for _, p := range v.Programs {
		sub = append(sub, p.String())
	}
	for i, loc := range v.Samples {
		sub = append(sub, fmt.Sprintf("VAG #%d: offset=0x%08X size=%d", i+1, loc.Offset, loc.Size))
	}
	return v.Header.String() + "\n" + util.Indent(strings.Join(sub, "\n"), "\t")
}

type progRawData struct {
	Tones     uint8
	Vol       uint8
	Priority  uint8
	Mode      uint8
	Pan       uint8
	Reserved0 uint8
	Attr      uint16
	Reserved1 uint32
	Reserved2 uint32
}

// Program is one materialized slot of the program table together with the
// tones decoded from its attribute block.
type Program struct {
	// Index is the slot in the 128-entry program table, which is also the
	// program change number addressing this program.
	Index     int       `json:"index"`
	ToneCount uint8     `json:"tone_count"`
	Volume    uint8     `json:"volume"`
	Priority  uint8     `json:"priority"`
	Mode      uint8     `json:"mode"`
	Pan       enums.Pan `json:"pan"`
	Attr      uint16    `json:"attr"`
	Tones     []*Tone   `json:"tones"`
}

func newProgram(index int, raw *progRawData) *Program {
	return &Program{
		Index:     index,
		ToneCount: raw.Tones,
		Volume:    raw.Vol,
		Priority:  raw.Priority,
		Mode:      raw.Mode,
		Pan:       enums.Pan(raw.Pan),
		Attr:      raw.Attr,
	}
}

func (p *Program) readTones(src util.Source, offset int, opts *Options) error {
	p.Tones = make([]*Tone, 0, p.ToneCount)
	for t := 0; t < int(p.ToneCount); t++ {
		tone, err := readTone(src, offset+toneRecLen*t, p.Volume, opts)
		if err != nil {
			return errors.Wrapf(err, "tone #%d", t)
		}
		p.Tones = append(p.Tones, tone)
	}
	return nil
}

func (p *Program) String() string {
	sub := make([]string, 0, len(p.Tones))
	for _, t := range p.Tones {
		sub = append(sub, t.String())
	}
	head := fmt.Sprintf("program #%d: %d tones, vol=%d pan=%s priority=%d mode=%d attr=0x%04X",
		p.Index, p.ToneCount, p.Volume, p.Pan, p.Priority, p.Mode, p.Attr)
	return head + "\n" + util.Indent(strings.Join(sub, "\n"), "\t")
}
