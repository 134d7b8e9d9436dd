package vab

import (
	"bytes"

	"github.com/vgmkit/psxvab/psx/log"
	"github.com/vgmkit/psxvab/psx/util"
)

// Scan walks src for bank signatures and parses every candidate that
// survives structural validation. Decompressed program images embed their
// banks at arbitrary offsets, so this is how the container layer finds
// them. The signature also occurs in unrelated data, so rejected
// candidates are expected; they show up in the debug log only.
func Scan(src util.Source, opts *Options) []*Vab {
	var banks []*Vab
	data := src.ReadBytes(0, src.Len())
	for offset := 0; offset+headerLen <= len(data); {
		i := bytes.Index(data[offset:], []byte(Magic))
		if i < 0 {
			break
		}
		at := offset + i
		log.Debugf("bank candidate at 0x%08X", at)
		log.Enter()
		v, err := Parse(src, at, src.Len(), opts)
		log.Leave()
		if err != nil {
			log.Debugf("rejected: %v", err)
			offset = at + len(Magic)
			continue
		}
		banks = append(banks, v)
		if v.Length < len(Magic) {
			offset = at + len(Magic)
		} else {
			offset = at + v.Length
		}
	}
	return banks
}
