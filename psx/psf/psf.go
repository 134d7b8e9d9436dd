// Package psf decodes PSF sound containers: a small header, an optional
// reserved section, a zlib-compressed program image guarded by a CRC32, and
// an optional "[TAG]" metadata section.
package psf

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/vgmkit/psxvab/psx/enums"
	"github.com/vgmkit/psxvab/psx/util"
)

// Container layout:
//
//	| offset | size | field                               |
//	|      0 |    3 | signature "PSF"                     |
//	|      3 |    1 | version byte (platform)             |
//	|      4 |    4 | reserved section length             |
//	|      8 |    4 | compressed program length           |
//	|     12 |    4 | CRC32 of the compressed program     |
//	|     16 |    R | reserved section                    |
//	|   16+R |    E | compressed program (zlib)           |
//	| 16+R+E |      | optional "[TAG]" metadata section   |
const (
	headerLen = 16
	signature = "PSF"
	tagMarker = "[TAG]"
)

// Container-level failures. Load and Decompress wrap these with positional
// detail; match with errors.Cause.
var (
	ErrTooSmall            = errors.New("file is too small - likely corrupt")
	ErrBadSignature        = errors.New("invalid PSF signature")
	ErrInconsistentHeader  = errors.New("PSF header is inconsistent")
	ErrChecksumFailed      = errors.New("CRC failure - executable data is corrupt")
	ErrDecompressionFailed = errors.New("decompression failed")
)

type File struct {
	Version       uint8             `json:"version"`
	ExeCRC        uint32            `json:"exe_crc"`
	ReservedData  []byte            `json:"-"`
	CompressedExe []byte            `json:"-"`
	Exe           []byte            `json:"-"`
	Tags          map[string]string `json:"tags"`
	decompressed  bool
}

// NewFile loads the container at path.
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	f := &File{}
	if err := f.Load(util.ByteSeg(data)); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return f, nil
}

// Load parses the container in src. Any previously loaded state is dropped
// first. On failure the file keeps no section data, except that a checksum
// failure leaves the already-parsed header fields set.
func (f *File) Load(src util.Source) error {
	f.Clear()

	size := src.Len()
	if size < headerLen {
		return errors.Wrapf(ErrTooSmall, "%d bytes", size)
	}

	head := src.ReadBytes(0, 4)
	if string(head[:3]) != signature {
		return errors.Wrapf(ErrBadSignature, "% X", head[:3])
	}
	f.Version = head[3]

	reservedLen := src.U32(4)
	exeLen := src.U32(8)
	f.ExeCRC = src.U32(12)

	// Sums are widened so hostile lengths cannot wrap.
	if int64(reservedLen) > int64(size) || int64(exeLen) > int64(size) ||
		headerLen+int64(reservedLen)+int64(exeLen) > int64(size) {
		return errors.Wrapf(ErrInconsistentHeader, "reserved=%d exe=%d file=%d", reservedLen, exeLen, size)
	}

	f.CompressedExe = make([]byte, exeLen)
	copy(f.CompressedExe, src.ReadBytes(headerLen+int(reservedLen), int(exeLen)))

	if sum := checksum(f.CompressedExe); sum != f.ExeCRC {
		f.CompressedExe = nil
		return errors.Wrapf(ErrChecksumFailed, "want 0x%08X, got 0x%08X", f.ExeCRC, sum)
	}

	f.ReservedData = make([]byte, reservedLen)
	copy(f.ReservedData, src.ReadBytes(headerLen, int(reservedLen)))

	f.Tags = map[string]string{}
	tagOff := headerLen + int(reservedLen) + int(exeLen)
	tagLen := size - tagOff
	if len(tagMarker) <= tagLen && string(src.ReadBytes(tagOff, len(tagMarker))) == tagMarker {
		f.Tags = parseTags(src.ReadBytes(tagOff+len(tagMarker), tagLen-len(tagMarker)))
	}
	return nil
}

// Clear resets the file to its freshly constructed state.
func (f *File) Clear() {
	f.Version = 0
	f.ExeCRC = 0
	f.ReservedData = nil
	f.CompressedExe = nil
	f.Exe = nil
	f.Tags = nil
	f.decompressed = false
}

// IsDecompressed reports whether Exe holds a successfully decompressed
// program image.
func (f *File) IsDecompressed() bool {
	return f.decompressed
}

// Platform reports the system this container targets.
func (f *File) Platform() enums.Platform {
	return enums.Platform(f.Version)
}

// Tag returns the raw value of the named tag, or "" when absent.
func (f *File) Tag(name string) string {
	return f.Tags[name]
}

// TagText returns a tag value as display text. Values are taken as UTF-8
// when the container carries the utf8 marker tag or the bytes already
// validate; everything else is decoded as Shift-JIS per the tag convention.
func (f *File) TagText(name string) string {
	v := f.Tags[name]
	if v == "" {
		return v
	}
	if f.Tags["utf8"] != "" || utf8.ValidString(v) {
		return v
	}
	return util.DecodeShiftJIS([]byte(v))
}

func (f *File) String() string {
	head := fmt.Sprintf("PSF %s: reserved %d bytes, program %d bytes, CRC 0x%08X",
		f.Platform(), len(f.ReservedData), len(f.CompressedExe), f.ExeCRC)
	if len(f.Tags) == 0 {
		return head
	}
	names := make([]string, 0, len(f.Tags))
	for name := range f.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s=%s", name, f.TagText(name))
	}
	return head + "\n" + util.Indent(strings.Join(lines, "\n"), "\t")
}
