package vab

import (
	"encoding/binary"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/vgmkit/psxvab/psx/log"
	"github.com/vgmkit/psxvab/psx/util"
)

func TestScanFindsEmbeddedBanks(t *testing.T) {
	img1 := sampleBank([]uint16{0, 4}, 32).build()
	binary.LittleEndian.PutUint32(img1[8:], 111)
	img2 := sampleBank([]uint16{0, 8}, 64).build()
	binary.LittleEndian.PutUint32(img2[8:], 222)

	prefix := []byte("\x00\x01 some unrelated program text ")
	image := append([]byte{}, prefix...)
	image = append(image, img1...)
	image = append(image, []byte("filler between banks")...)
	image = append(image, img2...)

	banks := Scan(util.ByteSeg(image), nil)
	if len(banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(banks))
	}
	if banks[0].Header.VabID != 111 || banks[1].Header.VabID != 222 {
		t.Errorf("bank order: got %d, %d", banks[0].Header.VabID, banks[1].Header.VabID)
	}
	wantBase := len(prefix) + headerLen + progRecLen*progSlots + toneBlockLen + vagTableLen
	if banks[0].SampleBase != wantBase {
		t.Errorf("first bank sample base: expected %d, got %d", wantBase, banks[0].SampleBase)
	}
}

func TestScanSkipsFalsePositive(t *testing.T) {
	// A stray signature with hostile counts is rejected and must not hide
	// the real bank behind it.
	fake := make([]byte, headerLen)
	copy(fake, Magic)
	binary.LittleEndian.PutUint16(fake[0x12:], 999)

	image := append(fake, sampleBank([]uint16{0, 4}, 32).build()...)

	banks := Scan(util.ByteSeg(image), nil)
	if len(banks) != 1 {
		t.Fatalf("expected 1 bank, got %d", len(banks))
	}
	if banks[0].Header.Programs != 1 {
		t.Errorf("wrong bank matched: %+v", banks[0].Header)
	}
}

func TestScanNoBanks(t *testing.T) {
	if banks := Scan(util.ByteSeg([]byte("nothing of interest in here")), nil); len(banks) != 0 {
		t.Fatalf("expected no banks, got %d", len(banks))
	}
}

func TestScanDebugLogsRejections(t *testing.T) {
	fake := make([]byte, headerLen)
	copy(fake, Magic)
	binary.LittleEndian.PutUint16(fake[0x12:], 999)
	image := append(fake, sampleBank([]uint16{0, 4}, 32).build()...)

	noColor := color.NoColor
	color.NoColor = true
	level := log.Level
	log.Level = log.LogLevel_Debug
	defer func() {
		color.NoColor = noColor
		log.Level = level
	}()

	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	banks := Scan(util.ByteSeg(image), nil)
	os.Stderr = old
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)

	if len(banks) != 1 {
		t.Fatalf("expected 1 bank, got %d", len(banks))
	}
	if !strings.Contains(out, "candidate at 0x00000000") || !strings.Contains(out, "rejected") {
		t.Errorf("rejected candidate missing from debug output: %q", out)
	}
	if !strings.Contains(out, "candidate at 0x00000020") {
		t.Errorf("accepted candidate missing from debug output: %q", out)
	}
}

func TestScanRootConsumer(t *testing.T) {
	// Only a bank at offset 0 is the root bank; embedded banks keep their
	// locations but are not collected.
	img1 := sampleBank([]uint16{0, 4}, 32).build()
	image := append([]byte{}, img1...)
	image = append(image, []byte("gap")...)
	image = append(image, sampleBank([]uint16{0, 8}, 64).build()...)

	consumer := &consumerRecorder{}
	banks := Scan(util.ByteSeg(image), &Options{Samples: consumer})
	if len(banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(banks))
	}
	if consumer.calls != 1 {
		t.Errorf("expected the root bank only, got %d consumer calls", consumer.calls)
	}
	if consumer.base != banks[0].SampleBase {
		t.Errorf("consumer base %d, root bank base %d", consumer.base, banks[0].SampleBase)
	}
}
