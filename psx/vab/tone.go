package vab

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vgmkit/psxvab/psx/enums"
	"github.com/vgmkit/psxvab/psx/util"
)

// Tone attribute record, 32 bytes:
//
//	| offset | size | field                         |
//	|      0 |    1 | priority                      |
//	|      1 |    1 | mode (nonzero enables reverb) |
//	|      2 |    1 | volume                        |
//	|      3 |    1 | pan                           |
//	|      4 |    1 | unity key                     |
//	|      5 |    1 | fine tune (signed)            |
//	|      6 |    1 | lowest key                    |
//	|      7 |    1 | highest key                   |
//	|      8 |    2 | vibrato width, time           |
//	|     10 |    2 | portamento width, time        |
//	|     12 |    2 | pitch bend range down, up     |
//	|     16 |    4 | ADSR register pair            |
//	|     20 |    2 | parent program                |
//	|     22 |    2 | VAG number (1-based)          |
type toneRawData struct {
	Priority  uint8
	Mode      uint8
	Vol       uint8
	Pan       uint8
	Centre    uint8
	Shift     int8
	Min       uint8
	Max       uint8
	VibW      uint8
	VibT      uint8
	PorW      uint8
	PorT      uint8
	PBMin     uint8
	PBMax     uint8
	Reserved0 uint8
	Reserved1 uint8
	ADSR1     uint16
	ADSR2     uint16
	Prog      uint16
	Vag       uint16
	Reserved2 [4]uint16
}

// Envelope is a normalized amplitude envelope derived from an ADSR
// register pair. Times are in seconds, the sustain level in 0..1.
type Envelope struct {
	AttackTime   float64 `json:"attack_time"`
	DecayTime    float64 `json:"decay_time"`
	SustainLevel float64 `json:"sustain_level"`
	SustainTime  float64 `json:"sustain_time"`
	ReleaseTime  float64 `json:"release_time"`
}

// EnvelopeConverter derives an envelope from a raw ADSR register pair. The
// interpretation belongs to the synthesizer model, so it is injected via
// Options; without one, tones carry the raw words only.
type EnvelopeConverter func(adsr1, adsr2 uint16) Envelope

// Tone is one key-range-bound playback configuration of a program.
type Tone struct {
	Priority uint8     `json:"priority"`
	Reverb   bool      `json:"reverb"`
	Mode     uint8     `json:"-"`
	// Volume is the tone volume scaled by the program's cached master
	// volume, normalized to 0..1.
	Volume   float64    `json:"volume"`
	Pan      enums.Pan  `json:"pan"`
	UnityKey enums.Note `json:"unity_key"`
	// FineTune is in cents. The byte is taken as signed, so 0x40 is +50
	// cents and 0xC0 is -50.
	FineTune     float64    `json:"fine_tune"`
	KeyLow       enums.Note `json:"key_low"`
	KeyHigh      enums.Note `json:"key_high"`
	VibWidth     uint8      `json:"vib_width"`
	VibTime      uint8      `json:"vib_time"`
	PorWidth     uint8      `json:"por_width"`
	PorTime      uint8      `json:"por_time"`
	PitchBendMin uint8      `json:"pitch_bend_min"`
	PitchBendMax uint8      `json:"pitch_bend_max"`
	ADSR1        uint16     `json:"adsr1"`
	ADSR2        uint16     `json:"adsr2"`
	// Program is the parent program number as recorded in the record
	// itself, which disagrees with the owning slot in some banks.
	Program int `json:"program"`
	// SampleIndex is the zero-based index into the bank's sample
	// locations. The record stores it 1-based.
	SampleIndex int       `json:"sample_index"`
	Env         *Envelope `json:"env,omitempty"`
	Raw         [32]byte  `json:"-"`
}

func readTone(src util.Source, offset int, masterVol uint8, opts *Options) (*Tone, error) {
	var raw toneRawData
	if err := util.ReadLE(src, offset, toneRecLen, &raw); err != nil {
		return nil, err
	}
	if raw.Max < raw.Min {
		return nil, errors.Wrapf(ErrMalformedRegion, "%s > %s", enums.Note(raw.Min), enums.Note(raw.Max))
	}
	tone := &Tone{
		Priority:     raw.Priority,
		Reverb:       raw.Mode != 0,
		Mode:         raw.Mode,
		Volume:       float64(raw.Vol) * float64(masterVol) / (127.0 * 127.0),
		Pan:          enums.Pan(raw.Pan),
		UnityKey:     enums.Note(raw.Centre),
		FineTune:     float64(raw.Shift) * 100.0 / 128.0,
		KeyLow:       enums.Note(raw.Min),
		KeyHigh:      enums.Note(raw.Max),
		VibWidth:     raw.VibW,
		VibTime:      raw.VibT,
		PorWidth:     raw.PorW,
		PorTime:      raw.PorT,
		PitchBendMin: raw.PBMin,
		PitchBendMax: raw.PBMax,
		ADSR1:        raw.ADSR1,
		ADSR2:        raw.ADSR2,
		Program:      int(raw.Prog),
		SampleIndex:  int(raw.Vag) - 1,
	}
	if tone.SampleIndex < 0 {
		tone.SampleIndex = 0
	}
	copy(tone.Raw[:], src.ReadBytes(offset, toneRecLen))
	if conv := opts.envelope(); conv != nil {
		env := conv(raw.ADSR1, raw.ADSR2)
		tone.Env = &env
	}
	return tone, nil
}

func (t *Tone) String() string {
	s := fmt.Sprintf("%s..%s @%s %+.1fc vol=%.3f pan=%s VAG=%d ADSR=0x%04X/0x%04X",
		t.KeyLow.Name(), t.KeyHigh.Name(), t.UnityKey, t.FineTune, t.Volume, t.Pan,
		t.SampleIndex, t.ADSR1, t.ADSR2)
	if t.Reverb {
		s += " reverb"
	}
	return s + "\nRaw=" + util.Hex(t.Raw[:])
}
