package vab

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/vgmkit/psxvab/psx/util"
)

func TestReadToneFields(t *testing.T) {
	rec := toneRec(func(b []byte) {
		b[0] = 9    // priority
		b[1] = 4    // mode
		b[2] = 100  // volume
		b[3] = 0x30 // pan
		b[4] = 72   // unity key
		b[5] = 0x20 // fine tune
		b[6] = 36   // key low
		b[7] = 96   // key high
		b[8], b[9] = 3, 4
		b[10], b[11] = 5, 6
		b[12], b[13] = 2, 12
		binary.LittleEndian.PutUint16(b[16:], 0x88EE)
		binary.LittleEndian.PutUint16(b[18:], 0x4321)
		binary.LittleEndian.PutUint16(b[20:], 7)
		binary.LittleEndian.PutUint16(b[22:], 3)
	})

	tone, err := readTone(util.ByteSeg(rec), 0, 127, nil)
	if err != nil {
		t.Fatalf("readTone: %v", err)
	}
	if tone.Priority != 9 || !tone.Reverb || tone.Mode != 4 {
		t.Errorf("priority/mode: %+v", tone)
	}
	if tone.Pan != 0x30 || tone.UnityKey != 72 {
		t.Errorf("pan/unity: %v/%v", tone.Pan, tone.UnityKey)
	}
	if tone.FineTune != 25.0 {
		t.Errorf("fine tune: expected +25 cents, got %v", tone.FineTune)
	}
	if tone.KeyLow != 36 || tone.KeyHigh != 96 {
		t.Errorf("key range: %v..%v", tone.KeyLow, tone.KeyHigh)
	}
	if tone.VibWidth != 3 || tone.VibTime != 4 || tone.PorWidth != 5 || tone.PorTime != 6 {
		t.Errorf("vibrato/portamento: %+v", tone)
	}
	if tone.PitchBendMin != 2 || tone.PitchBendMax != 12 {
		t.Errorf("pitch bend: %d/%d", tone.PitchBendMin, tone.PitchBendMax)
	}
	if tone.ADSR1 != 0x88EE || tone.ADSR2 != 0x4321 {
		t.Errorf("adsr: 0x%04X/0x%04X", tone.ADSR1, tone.ADSR2)
	}
	if tone.Program != 7 {
		t.Errorf("parent program: %d", tone.Program)
	}
	if tone.SampleIndex != 2 {
		t.Errorf("sample index: expected 2, got %d", tone.SampleIndex)
	}
	if !bytes.Equal(tone.Raw[:], rec) {
		t.Error("raw record differs from input")
	}
}

func TestToneFineTuneSigned(t *testing.T) {
	cases := []struct {
		shift byte
		want  float64
	}{
		{0x00, 0},
		{0x40, 50.0},
		{0xC0, -50.0},
		{0x01, 100.0 / 128.0},
		{0xFF, -100.0 / 128.0},
	}
	for _, c := range cases {
		rec := toneRec(func(b []byte) { b[5] = c.shift })
		tone, err := readTone(util.ByteSeg(rec), 0, 127, nil)
		if err != nil {
			t.Fatalf("shift 0x%02X: %v", c.shift, err)
		}
		if tone.FineTune != c.want {
			t.Errorf("shift 0x%02X: expected %v cents, got %v", c.shift, c.want, tone.FineTune)
		}
	}
}

func TestToneVolume(t *testing.T) {
	rec := toneRec(func(b []byte) { b[2] = 127 })
	tone, err := readTone(util.ByteSeg(rec), 0, 127, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tone.Volume != 1.0 {
		t.Errorf("full volume: expected 1.0, got %v", tone.Volume)
	}

	rec = toneRec(func(b []byte) { b[2] = 0 })
	tone, err = readTone(util.ByteSeg(rec), 0, 127, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tone.Volume != 0 {
		t.Errorf("zero volume: expected 0, got %v", tone.Volume)
	}
}

func TestToneSampleIndexClamp(t *testing.T) {
	for vag, want := range map[uint16]int{0: 0, 1: 0, 2: 1, 5: 4} {
		rec := toneRec(func(b []byte) { binary.LittleEndian.PutUint16(b[22:], vag) })
		tone, err := readTone(util.ByteSeg(rec), 0, 127, nil)
		if err != nil {
			t.Fatal(err)
		}
		if tone.SampleIndex != want {
			t.Errorf("VAG %d: expected index %d, got %d", vag, want, tone.SampleIndex)
		}
	}
}

func TestToneInvertedRange(t *testing.T) {
	converted := false
	opts := &Options{Envelope: func(a1, a2 uint16) Envelope {
		converted = true
		return Envelope{}
	}}
	rec := toneRec(func(b []byte) { b[6], b[7] = 100, 10 })
	_, err := readTone(util.ByteSeg(rec), 0, 127, opts)
	if errors.Cause(err) != ErrMalformedRegion {
		t.Fatalf("expected ErrMalformedRegion, got %v", err)
	}
	if converted {
		t.Error("envelope converter ran for a rejected tone")
	}

	// An equal low and high key is a one-note range, not an error.
	rec = toneRec(func(b []byte) { b[6], b[7] = 60, 60 })
	if _, err := readTone(util.ByteSeg(rec), 0, 127, nil); err != nil {
		t.Fatalf("equal keys: %v", err)
	}
}

func TestToneStringRaw(t *testing.T) {
	rec := toneRec(nil)
	tone, err := readTone(util.ByteSeg(rec), 0, 127, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := tone.String()
	if !strings.HasPrefix(s, "C-1..G9 @C4(60)") {
		t.Errorf("unexpected attribute line in %q", s)
	}
	if !strings.Contains(s, "Raw=[01 00 7F 40 3C 00 00 7F") {
		t.Errorf("raw record missing from %q", s)
	}
}

func TestToneEnvelopeConverter(t *testing.T) {
	rec := toneRec(nil)

	tone, err := readTone(util.ByteSeg(rec), 0, 127, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tone.Env != nil {
		t.Error("expected no envelope without a converter")
	}

	opts := &Options{Envelope: func(a1, a2 uint16) Envelope {
		if a1 != 0x80FF || a2 != 0x5FC0 {
			t.Errorf("converter got 0x%04X/0x%04X", a1, a2)
		}
		return Envelope{AttackTime: 0.5, SustainLevel: 1}
	}}
	tone, err = readTone(util.ByteSeg(rec), 0, 127, opts)
	if err != nil {
		t.Fatal(err)
	}
	if tone.Env == nil || tone.Env.AttackTime != 0.5 || tone.Env.SustainLevel != 1 {
		t.Errorf("envelope: %+v", tone.Env)
	}
}
