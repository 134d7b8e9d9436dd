package psf

import (
	"bytes"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// checksum is the CRC32 (IEEE polynomial) guarding the compressed program
// section.
func checksum(p []byte) uint32 {
	return crc32.ChecksumIEEE(p)
}

// Decompress inflates the compressed program section into Exe. The format
// does not record the decompressed size, so the caller supplies it; a
// stream that inflates to anything else is rejected. The size typically
// comes out of the program's own header, so it is untrusted. Calling again
// with a different size redoes the work from the compressed section.
func (f *File) Decompress(size int) error {
	f.Exe = nil
	f.decompressed = false
	if size < 0 {
		return errors.Wrapf(ErrDecompressionFailed, "impossible program size %d", size)
	}
	if size == 0 {
		if len(f.CompressedExe) != 0 {
			return errors.Wrap(ErrDecompressionFailed, "program section is not empty")
		}
		f.decompressed = true
		return nil
	}
	buf, err := inflate(f.CompressedExe, size)
	if err != nil {
		return err
	}
	f.Exe = buf
	f.decompressed = true
	return nil
}

// ReadExe inflates up to len(p) bytes of the program section into p without
// touching the file's own buffers. A stream longer than p is truncated and
// a shorter one fills only a prefix, so this suits peeking at the program
// header before committing to a full Decompress.
func (f *File) ReadExe(p []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(f.CompressedExe))
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		return errors.Wrapf(ErrDecompressionFailed, "corrupt program data: %v", err)
	}
	defer zr.Close()
	if _, err := io.ReadFull(zr, p); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrDecompressionFailed, "corrupt program data: %v", err)
	}
	return nil
}

func inflate(comp []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return nil, errors.Wrapf(ErrDecompressionFailed, "corrupt program data: %v", err)
	}
	defer zr.Close()
	// The buffer grows with the stream itself; size only caps the read
	// and checks the result, never sizes an allocation.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, int64(size)+1))
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrDecompressionFailed, "decompressed size mismatch (want %d bytes)", size)
		}
		return nil, errors.Wrapf(ErrDecompressionFailed, "corrupt program data: %v", err)
	}
	if n != int64(size) {
		return nil, errors.Wrapf(ErrDecompressionFailed, "decompressed size mismatch (want %d bytes)", size)
	}
	return buf.Bytes(), nil
}
