package psf

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// parseTags decodes the body of a "[TAG]" section (the bytes after the
// marker) into a name/value map.
//
// One record per line, terminated by 0x0A; the final line may omit its
// newline. The first '=' splits name from value and lines without one are
// ignored. The format treats every byte at or below 0x20 as whitespace, so
// both halves are trimmed of those. Repeated names are the format's
// multi-line values: occurrences are joined with a single newline in file
// order. An empty name after trimming still stores a record; files like
// that exist in the wild and round-trip better kept than dropped.
func parseTags(b []byte) map[string]string {
	tags := map[string]string{}
	for pos := 0; pos < len(b); {
		eol := pos
		for eol < len(b) && b[eol] != '\n' {
			eol++
		}
		line := b[pos:eol]
		pos = eol + 1

		sep := bytes.IndexByte(line, '=')
		if sep < 0 {
			continue
		}
		name := string(trimTagField(line[:sep]))
		value := string(trimTagField(line[sep+1:]))
		if prev, ok := tags[name]; ok {
			tags[name] = prev + "\n" + value
		} else {
			tags[name] = value
		}
	}
	return tags
}

func trimTagField(b []byte) []byte {
	for 0 < len(b) && b[0] <= 0x20 {
		b = b[1:]
	}
	for 0 < len(b) && b[len(b)-1] <= 0x20 {
		b = b[:len(b)-1]
	}
	return b
}

// ParseDuration parses the [[H:]M:]S[.sss] stamps used by the length= and
// fade= tags. A bare number is seconds.
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if 3 < len(parts) {
		return 0, errors.Errorf("malformed time stamp %q", s)
	}
	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 {
		return 0, errors.Errorf("malformed time stamp %q", s)
	}
	scale := 60.0
	for i := len(parts) - 2; 0 <= i; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, errors.Errorf("malformed time stamp %q", s)
		}
		secs += float64(n) * scale
		scale *= 60
	}
	return time.Duration(secs * float64(time.Second)), nil
}
