package util

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Source is a random-access view of loaded sound data. Parsers validate
// offsets against Len before reading, so implementations do not range-check.
type Source interface {
	Len() int
	ReadBytes(offset, n int) []byte
	U16(offset int) uint16
	U32(offset int) uint32
}

// ByteSeg adapts an in-memory buffer to Source. ReadBytes returns a view
// into the buffer, not a copy.
type ByteSeg []byte

func (s ByteSeg) Len() int {
	return len(s)
}

func (s ByteSeg) ReadBytes(offset, n int) []byte {
	return s[offset : offset+n]
}

func (s ByteSeg) U16(offset int) uint16 {
	return binary.LittleEndian.Uint16(s[offset:])
}

func (s ByteSeg) U32(offset int) uint32 {
	return binary.LittleEndian.Uint32(s[offset:])
}

// ReadLE decodes the n-byte little-endian record at offset into v.
func ReadLE(src Source, offset, n int, v interface{}) error {
	err := binary.Read(bytes.NewReader(src.ReadBytes(offset, n)), binary.LittleEndian, v)
	return errors.WithStack(err)
}
