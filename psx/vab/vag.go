package vab

import "github.com/vgmkit/psxvab/psx/util"

// SampleLocation places one sample body inside the bank's sample region.
// Offset is relative to the region start, Size in bytes.
type SampleLocation struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

// SampleConsumer receives the resolved sample locations of a root bank.
// base is the absolute offset of the sample region in src and total the
// byte span the pointer table declares for it. The return value is
// advisory: a failing consumer is warned about and otherwise ignored.
type SampleConsumer interface {
	LoadSamples(src util.Source, base int, locations []SampleLocation, total uint32) error
}

// resolveVagTable decodes the 256-entry pointer table at tableOff. All
// entries are in units of 8 bytes: entry 0 seeds the start offset of the
// sample region and entries 1..Vags hold per-sample sizes. Offsets
// accumulate over the declared sizes, so rejecting one pointer never
// shifts its successors.
func (v *Vab) resolveVagTable(src util.Source, tableOff, start, end int, opts *Options) {
	if end < tableOff+vagTableLen {
		v.Length = end - start
		return
	}
	v.Length = tableOff + vagTableLen - start
	v.SampleBase = tableOff + vagTableLen

	sink := opts.sink()
	next := uint32(src.U16(tableOff)) * 8
	v.SampleTotal = next
	for k := 1; k <= int(v.Header.Vags); k++ {
		size := uint32(src.U16(tableOff+2*k)) * 8
		offset := next
		next += size
		if end < int(offset)+int(size) {
			sink.Warnf("vab", "VAG #%d pointer (offset=0x%08X, size=%d) out of range", k, offset, size)
			continue
		}
		v.Samples = append(v.Samples, SampleLocation{Offset: offset, Size: size})
		v.SampleTotal += size
	}

	if start == 0 && 0 < len(v.Samples) {
		if consumer := opts.samples(); consumer != nil {
			if err := consumer.LoadSamples(src, v.SampleBase, v.Samples, v.SampleTotal); err != nil {
				sink.Warnf("vab", "sample collection discarded: %v", err)
			}
		}
	}
}
