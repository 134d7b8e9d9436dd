package psf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Playstation containers (version 0x01) carry a PS-X EXE image: a
// 0x800-byte header followed by the text section.
//
//	| offset | size | field             |
//	|      0 |    8 | marker "PS-X EXE" |
//	|   0x10 |    4 | initial PC        |
//	|   0x18 |    4 | text start        |
//	|   0x1C |    4 | text size         |
const (
	ExeHeaderLen = 0x800

	exeMarker  = "PS-X EXE"
	exePeekLen = 0x20
)

type ExeHeader struct {
	PC        uint32 `json:"pc"`
	TextStart uint32 `json:"text_start"`
	TextSize  uint32 `json:"text_size"`
}

// ParseExeHeader decodes the leading PS-X EXE header fields from b.
func ParseExeHeader(b []byte) (*ExeHeader, error) {
	if len(b) < exePeekLen {
		return nil, errors.Errorf("program header truncated (%d bytes)", len(b))
	}
	if string(b[:len(exeMarker)]) != exeMarker {
		return nil, errors.New("program is not a PS-X EXE image")
	}
	return &ExeHeader{
		PC:        binary.LittleEndian.Uint32(b[0x10:]),
		TextStart: binary.LittleEndian.Uint32(b[0x18:]),
		TextSize:  binary.LittleEndian.Uint32(b[0x1C:]),
	}, nil
}

// ExeSize is the decompressed size of the whole image, header included.
func (h *ExeHeader) ExeSize() int {
	return ExeHeaderLen + int(h.TextSize)
}

// PeekExeHeader inflates just enough of the program section to decode its
// PS-X EXE header. Combined with ExeSize this recovers the decompressed
// size the container itself does not record.
func (f *File) PeekExeHeader() (*ExeHeader, error) {
	buf := make([]byte, exePeekLen)
	if err := f.ReadExe(buf); err != nil {
		return nil, err
	}
	return ParseExeHeader(buf)
}
